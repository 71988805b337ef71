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
	"encoding/json"
	"math"
	"strconv"
)

// standardCounterKeys are always present in CombinedSummaryStats, defaulting
// to zero, so consumers can index them unconditionally.
var standardCounterKeys = []string{
	"critical_count",
	"high_count",
	"medium_count",
	"low_count",
}

// aggregateMetrics computes the cross-source metrics consensus.
//
// # Description
//
// Sources without metrics are skipped entirely. Confidence values are
// coerced to float and non-numeric values ignored, never fatal. Coverage
// consensus is the most frequent coverage string, with ties broken by the
// value encountered first in source order. Summary stat counters are summed
// key-by-key with non-numeric values treated as zero.
//
// AverageConfidence is the arithmetic mean rounded to one decimal place, or
// nil when no source supplied a usable confidence.
func aggregateMetrics(reports []SourceReport) MetricsSummary {
	summary := MetricsSummary{
		CombinedSummaryStats: make(map[string]int),
		PerSourceMetrics:     make(map[string]Metrics),
		AllTopPriorities:     make([]string, 0),
	}
	for _, key := range standardCounterKeys {
		summary.CombinedSummaryStats[key] = 0
	}

	var confidences []float64
	coverageCounts := make(map[string]int)
	var coverageOrder []string

	for _, report := range reports {
		m := report.Metrics
		if m == nil {
			continue
		}
		summary.PerSourceMetrics[report.Source] = *m

		if v, ok := toFloat(m.Confidence); ok {
			confidences = append(confidences, v)
		}
		if m.Coverage != "" {
			if _, seen := coverageCounts[m.Coverage]; !seen {
				coverageOrder = append(coverageOrder, m.Coverage)
			}
			coverageCounts[m.Coverage]++
		}
		for key, value := range m.SummaryStats {
			n, ok := toFloat(value)
			if !ok {
				n = 0
			}
			summary.CombinedSummaryStats[key] += int(n)
		}
		summary.AllTopPriorities = append(summary.AllTopPriorities, m.TopPriorities...)
	}

	if len(confidences) > 0 {
		var sum float64
		for _, v := range confidences {
			sum += v
		}
		avg := round1(sum / float64(len(confidences)))
		summary.AverageConfidence = &avg
	}

	if len(coverageOrder) > 0 {
		best := coverageOrder[0]
		for _, value := range coverageOrder[1:] {
			if coverageCounts[value] > coverageCounts[best] {
				best = value
			}
		}
		summary.CoverageConsensus = &best
	}

	return summary
}

// toFloat coerces a decoded JSON value to float64. Numeric strings are
// accepted; anything else reports false.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
