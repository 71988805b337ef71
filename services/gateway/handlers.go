// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gateway exposes the consolidation engine over HTTP.
//
// The gateway is a thin shell: it decodes source report envelopes, hands
// them to the engine, and encodes the result. All merge semantics live in
// services/consolidate; nothing here inspects report contents beyond what
// metrics labeling needs.
package gateway

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/Quorum/services/consolidate"
	"github.com/AleutianAI/Quorum/services/consolidate/report"
)

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "quorum-gateway",
	})
}

// HandleConsolidate returns the handler for POST /v1/consolidate.
//
// # Description
//
// The request body is a JSON array of source report envelopes. The response
// is the full consolidated report. A malformed body or a report without a
// source identifier yields 400; nothing else in the input can fail the
// request.
func HandleConsolidate(svc *consolidate.Consolidator, m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		sources, err := report.DecodeSources(c.Request.Body)
		if err != nil {
			m.recordOutcome("invalid_input")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rep, err := svc.Consolidate(c.Request.Context(), sources)
		if err != nil {
			if errors.Is(err, consolidate.ErrInvalidInput) {
				m.recordOutcome("invalid_input")
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			m.recordOutcome("error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		m.recordSuccess(len(sources), len(rep.Conflicts), time.Since(start).Seconds())
		c.JSON(http.StatusOK, rep)
	}
}
