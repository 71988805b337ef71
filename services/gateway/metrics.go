// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "quorum"

// Subsystem for gateway metrics
const gatewaySubsystem = "gateway"

// Metrics holds the Prometheus metrics for the consolidation gateway.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
type Metrics struct {
	// ConsolidationsTotal counts consolidation requests by outcome.
	// Labels: status (success, invalid_input, error)
	ConsolidationsTotal *prometheus.CounterVec

	// ConflictsTotal counts conflicts detected across all requests.
	ConflictsTotal prometheus.Counter

	// SourcesPerRequest measures how many source reports arrive per request.
	SourcesPerRequest prometheus.Histogram

	// RequestDurationSeconds measures end-to-end consolidation latency.
	RequestDurationSeconds prometheus.Histogram
}

// DefaultMetrics is the singleton instance, set by InitMetrics.
var DefaultMetrics *Metrics

// InitMetrics creates and registers the gateway metrics.
//
// Call once at startup; promauto panics on duplicate registration.
func InitMetrics() *Metrics {
	DefaultMetrics = &Metrics{
		ConsolidationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "consolidations_total",
				Help:      "Total consolidation requests by outcome",
			},
			[]string{"status"},
		),

		ConflictsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "conflicts_total",
				Help:      "Total priority conflicts detected across requests",
			},
		),

		SourcesPerRequest: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "sources_per_request",
				Help:      "Number of source reports per consolidation request",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),

		RequestDurationSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "request_duration_seconds",
				Help:      "End-to-end consolidation request latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),
	}
	return DefaultMetrics
}

// recordOutcome increments the request counter for one outcome. Safe on a
// nil receiver so handlers work without metrics wired.
func (m *Metrics) recordOutcome(status string) {
	if m == nil {
		return
	}
	m.ConsolidationsTotal.WithLabelValues(status).Inc()
}

// recordSuccess records a successful consolidation's observations.
func (m *Metrics) recordSuccess(sources, conflicts int, seconds float64) {
	if m == nil {
		return
	}
	m.ConsolidationsTotal.WithLabelValues("success").Inc()
	m.ConflictsTotal.Add(float64(conflicts))
	m.SourcesPerRequest.Observe(float64(sources))
	m.RequestDurationSeconds.Observe(seconds)
}
