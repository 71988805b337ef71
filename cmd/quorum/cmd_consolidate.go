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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/Quorum/cmd/quorum/config"
	"github.com/AleutianAI/Quorum/pkg/logging"
	"github.com/AleutianAI/Quorum/services/consolidate"
	"github.com/AleutianAI/Quorum/services/consolidate/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	consolidateOutput     string
	consolidatePretty     bool
	consolidateCompact    bool
	consolidateSequential bool
	consolidateFailOnConf bool
	consolidateQuiet      bool
	consolidateTimeout    int
)

func init() {
	consolidateCmd.Flags().StringVarP(&consolidateOutput, "output", "o", "",
		"Write the consolidated report to this file instead of stdout")
	consolidateCmd.Flags().BoolVar(&consolidatePretty, "pretty", false,
		"Indent the JSON output (default when stdout is a terminal)")
	consolidateCmd.Flags().BoolVar(&consolidateCompact, "compact", false,
		"Force single-line JSON output")
	consolidateCmd.Flags().BoolVar(&consolidateSequential, "sequential", false,
		"Run the merge stages one at a time instead of concurrently")
	consolidateCmd.Flags().BoolVar(&consolidateFailOnConf, "fail-on-conflicts", false,
		"Exit 1 when the sources disagree on recommendation priorities")
	consolidateCmd.Flags().BoolVar(&consolidateQuiet, "quiet", false,
		"Suppress log output; only the report is written")
	consolidateCmd.Flags().IntVar(&consolidateTimeout, "timeout", 60,
		"Total timeout in seconds")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runConsolidateCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(consolidateTimeout)*time.Second)
	defer cancel()

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(config.Global.Logging.Level),
		LogDir:  config.Global.Logging.Dir,
		Service: "cli",
		JSON:    config.Global.Logging.JSON,
		Quiet:   consolidateQuiet,
	})
	defer logger.Close()

	sources, err := readSources(args)
	if err != nil {
		logger.Error("failed to read source reports", "error", err)
		os.Exit(ExitError)
	}

	engine := consolidate.New(consolidate.Options{
		Logger:     logger,
		Sequential: consolidateSequential || config.Global.Consolidation.Sequential,
	})
	result, err := engine.Consolidate(ctx, sources)
	if err != nil {
		logger.Error("consolidation failed", "error", err)
		os.Exit(ExitError)
	}

	if err := writeReport(result); err != nil {
		logger.Error("failed to write the consolidated report", "error", err)
		os.Exit(ExitError)
	}

	failOnConflicts := consolidateFailOnConf || config.Global.Consolidation.FailOnConflicts
	if failOnConflicts && len(result.Conflicts) > 0 {
		logger.Warn("sources disagree on priorities",
			"conflicts", len(result.Conflicts))
		os.Exit(ExitConflictsFound)
	}
	os.Exit(ExitSuccess)
}

// readSources reads report files given as arguments, or stdin when none are.
func readSources(args []string) ([]consolidate.SourceReport, error) {
	if len(args) == 0 {
		return report.DecodeSources(os.Stdin)
	}
	var sources []consolidate.SourceReport
	for _, path := range args {
		batch, err := report.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, batch...)
	}
	return sources, nil
}

// writeReport encodes the result to --output or stdout.
func writeReport(result *consolidate.ConsolidatedReport) error {
	pretty := consolidatePretty
	if !pretty && !consolidateCompact && consolidateOutput == "" {
		// Humans get indented output, pipes get one line.
		pretty = isatty.IsTerminal(os.Stdout.Fd())
	}

	if consolidateOutput == "" {
		return report.Encode(os.Stdout, result, pretty)
	}

	f, err := os.Create(consolidateOutput)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", consolidateOutput, err)
	}
	defer f.Close()
	return report.Encode(f, result, pretty)
}
