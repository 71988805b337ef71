// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/Quorum/services/consolidate"
)

// ============================================================================
// Test Setup
// ============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	router := gin.New()
	// Metrics stay nil: promauto registers globally and would collide across
	// test runs within the package.
	SetupRoutes(router, consolidate.New(consolidate.Options{}), nil)
	return router
}

// ============================================================================
// Route Registration
// ============================================================================

func TestSetupRoutes(t *testing.T) {
	router := newTestRouter()

	expected := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"POST", "/v1/consolidate"},
	}

	routes := router.Routes()
	for _, want := range expected {
		found := false
		for _, r := range routes {
			if r.Method == want.method && r.Path == want.path {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected route %s %s not found", want.method, want.path)
		}
	}
}

// ============================================================================
// Handlers
// ============================================================================

func TestHealthCheck(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestHandleConsolidate(t *testing.T) {
	router := newTestRouter()

	payload := `[
		{"source": "a", "data": {"findings": [{"description": "open redirect", "severity": "high"}]}},
		{"source": "b", "data": {"findings": [{"description": "open redirect", "severity": "hi"}]}}
	]`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/consolidate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var rep consolidate.ConsolidatedReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if rep.Metadata.SourceCount != 2 {
		t.Errorf("SourceCount = %d, want 2", rep.Metadata.SourceCount)
	}
	if rep.Findings.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1 (deduplicated)", rep.Findings.TotalCount)
	}
}

func TestHandleConsolidate_BadRequest(t *testing.T) {
	router := newTestRouter()

	tests := map[string]string{
		"not an array":   `{"source": "a"}`,
		"not json":       `hello`,
		"missing source": `[{"data": {"findings": []}}]`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/consolidate", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestHandleConsolidate_EmptyArray(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/consolidate", strings.NewReader(`[]`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var rep consolidate.ConsolidatedReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if rep.Summary.TotalFindings != 0 {
		t.Errorf("TotalFindings = %d, want 0", rep.Summary.TotalFindings)
	}
}
