// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package consolidate

import (
	"testing"
)

// TestAggregateMetrics_ConfidenceAveraging verifies the mean excludes
// sources that did not report confidence: 80, 90, (missing) -> 85.0.
func TestAggregateMetrics_ConfidenceAveraging(t *testing.T) {
	reports := []SourceReport{
		{Source: "A", Metrics: &Metrics{Confidence: 80}},
		{Source: "B", Metrics: &Metrics{Confidence: 90.0}},
		{Source: "C", Metrics: &Metrics{}},
	}

	summary := aggregateMetrics(reports)

	if summary.AverageConfidence == nil {
		t.Fatal("AverageConfidence = nil, want 85.0")
	}
	if *summary.AverageConfidence != 85.0 {
		t.Errorf("AverageConfidence = %v, want 85.0", *summary.AverageConfidence)
	}
}

// TestAggregateMetrics_ConfidenceCoercion verifies numeric strings are
// accepted and non-numeric values skipped, never fatal.
func TestAggregateMetrics_ConfidenceCoercion(t *testing.T) {
	reports := []SourceReport{
		{Source: "A", Metrics: &Metrics{Confidence: "72.5"}},
		{Source: "B", Metrics: &Metrics{Confidence: "not a number"}},
		{Source: "C", Metrics: &Metrics{Confidence: []any{1, 2}}},
	}

	summary := aggregateMetrics(reports)

	if summary.AverageConfidence == nil {
		t.Fatal("AverageConfidence = nil, want 72.5")
	}
	if *summary.AverageConfidence != 72.5 {
		t.Errorf("AverageConfidence = %v, want 72.5", *summary.AverageConfidence)
	}
}

// TestAggregateMetrics_Rounding verifies the one-decimal rounding of the
// mean.
func TestAggregateMetrics_Rounding(t *testing.T) {
	reports := []SourceReport{
		{Source: "A", Metrics: &Metrics{Confidence: 70}},
		{Source: "B", Metrics: &Metrics{Confidence: 80}},
		{Source: "C", Metrics: &Metrics{Confidence: 85}},
	}

	summary := aggregateMetrics(reports)

	// (70+80+85)/3 = 78.333... -> 78.3
	if summary.AverageConfidence == nil || *summary.AverageConfidence != 78.3 {
		t.Errorf("AverageConfidence = %v, want 78.3", summary.AverageConfidence)
	}
}

// TestAggregateMetrics_CoverageConsensus verifies most-frequent wins and
// ties break toward the first-encountered value.
func TestAggregateMetrics_CoverageConsensus(t *testing.T) {
	tests := []struct {
		name      string
		coverages []string
		want      string
	}{
		{"majority wins", []string{"partial", "full", "full"}, "full"},
		{"tie keeps first seen", []string{"partial", "full"}, "partial"},
		{"single value", []string{"full"}, "full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reports []SourceReport
			for i, cov := range tt.coverages {
				reports = append(reports, SourceReport{
					Source:  string(rune('A' + i)),
					Metrics: &Metrics{Coverage: cov},
				})
			}
			summary := aggregateMetrics(reports)
			if summary.CoverageConsensus == nil {
				t.Fatal("CoverageConsensus = nil")
			}
			if *summary.CoverageConsensus != tt.want {
				t.Errorf("CoverageConsensus = %q, want %q", *summary.CoverageConsensus, tt.want)
			}
		})
	}
}

// TestAggregateMetrics_SummaryStats verifies key-by-key summation with the
// four standard counters always present.
func TestAggregateMetrics_SummaryStats(t *testing.T) {
	reports := []SourceReport{
		{Source: "A", Metrics: &Metrics{SummaryStats: map[string]any{
			"critical_count": 2,
			"files_reviewed": 10,
		}}},
		{Source: "B", Metrics: &Metrics{SummaryStats: map[string]any{
			"critical_count": 1.0,
			"files_reviewed": "oops", // non-numeric treated as 0
		}}},
	}

	summary := aggregateMetrics(reports)

	stats := summary.CombinedSummaryStats
	if stats["critical_count"] != 3 {
		t.Errorf("critical_count = %d, want 3", stats["critical_count"])
	}
	if stats["files_reviewed"] != 10 {
		t.Errorf("files_reviewed = %d, want 10", stats["files_reviewed"])
	}
	for _, key := range []string{"critical_count", "high_count", "medium_count", "low_count"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("standard counter %q missing", key)
		}
	}
	if stats["high_count"] != 0 {
		t.Errorf("high_count = %d, want 0 default", stats["high_count"])
	}
}

// TestAggregateMetrics_TopPrioritiesAndPerSource verifies concatenation and
// verbatim per-source traceability.
func TestAggregateMetrics_TopPrioritiesAndPerSource(t *testing.T) {
	reports := []SourceReport{
		{Source: "A", Metrics: &Metrics{TopPriorities: []string{"fix auth", "add tests"}}},
		{Source: "B", Metrics: &Metrics{TopPriorities: []string{"fix auth"}}},
		{Source: "C"}, // no metrics at all
	}

	summary := aggregateMetrics(reports)

	if len(summary.AllTopPriorities) != 3 {
		t.Errorf("AllTopPriorities = %v, want 3 entries concatenated", summary.AllTopPriorities)
	}
	if len(summary.PerSourceMetrics) != 2 {
		t.Errorf("PerSourceMetrics has %d entries, want 2 (C skipped)", len(summary.PerSourceMetrics))
	}
	if _, ok := summary.PerSourceMetrics["C"]; ok {
		t.Error("source without metrics must not appear in PerSourceMetrics")
	}
}

// TestAggregateMetrics_Empty verifies nils for absent data, not zeros.
func TestAggregateMetrics_Empty(t *testing.T) {
	summary := aggregateMetrics(nil)

	if summary.AverageConfidence != nil {
		t.Errorf("AverageConfidence = %v, want nil", *summary.AverageConfidence)
	}
	if summary.CoverageConsensus != nil {
		t.Errorf("CoverageConsensus = %v, want nil", *summary.CoverageConsensus)
	}
	if len(summary.CombinedSummaryStats) != 4 {
		t.Errorf("CombinedSummaryStats = %v, want exactly the four standard counters", summary.CombinedSummaryStats)
	}
}

// TestToFloat exercises the coercion table.
func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"float64", 3.5, 3.5, true},
		{"int", 7, 7, true},
		{"numeric string", "42", 42, true},
		{"float string", "6.25", 6.25, true},
		{"garbage string", "high", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"slice", []any{1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toFloat(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("toFloat(%v) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
