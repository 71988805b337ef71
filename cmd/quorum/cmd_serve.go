// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/Quorum/cmd/quorum/config"
	"github.com/AleutianAI/Quorum/pkg/logging"
	"github.com/AleutianAI/Quorum/services/consolidate"
	"github.com/AleutianAI/Quorum/services/gateway"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"Listen port (default from config, 12310)")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runServeCommand(cmd *cobra.Command, args []string) {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(config.Global.Logging.Level),
		LogDir:  config.Global.Logging.Dir,
		Service: "gateway",
		JSON:    true,
	})
	defer logger.Close()

	port := servePort
	if port == 0 {
		port = config.Global.Server.Port
	}
	if port == 0 {
		port = 12310
	}

	engine := consolidate.New(consolidate.Options{
		Logger:     logger,
		Sequential: config.Global.Consolidation.Sequential,
	})

	router := gin.Default()
	router.Use(otelgin.Middleware("quorum-gateway"))

	metrics := gateway.InitMetrics()
	gateway.SetupRoutes(router, engine, metrics)

	logger.Info("starting the consolidation gateway", "port", port)
	if err := router.Run(fmt.Sprintf(":%d", port)); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(ExitError)
	}
}
