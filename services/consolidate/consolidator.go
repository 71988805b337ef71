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
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/Quorum/pkg/logging"
)

// tracerName identifies this package's spans.
const tracerName = "github.com/AleutianAI/Quorum/services/consolidate"

// Options configures a Consolidator.
//
// All fields have sensible defaults; a zero-value Options runs the merge
// stages concurrently and logs through logging.Default().
type Options struct {
	// Logger receives data-quality warnings and stage timings.
	// Default: logging.Default().
	Logger *logging.Logger

	// Sequential disables the concurrent stage fan-out. The stages have no
	// data dependency on one another, so this only matters for debugging.
	// Default: false (concurrent).
	Sequential bool
}

// Consolidator merges source reports into consolidated reports.
//
// # Thread Safety
//
// Consolidator is safe for concurrent use. It holds no per-call state;
// every Consolidate invocation builds its result from scratch and nothing
// is cached between calls. Callers wanting memoization should wrap the call
// with their own cache keyed on a hash of the input.
type Consolidator struct {
	logger     *logging.Logger
	validate   *validator.Validate
	tracer     trace.Tracer
	sequential bool
}

// New creates a Consolidator.
func New(opts Options) *Consolidator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Consolidator{
		logger:     logger,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		tracer:     otel.Tracer(tracerName),
		sequential: opts.Sequential,
	}
}

// Consolidate merges the supplied source reports into one consolidated,
// deduplicated, conflict-annotated report.
//
// # Description
//
// The six merge stages (findings, recommendations, risks, metrics, actions,
// conflicts) are mutually independent and run concurrently, each reducing
// into its own result so no accumulation map is shared across goroutines.
// There is no I/O anywhere in the engine; worst-case cost is linear in the
// total number of items, so no internal deadline is imposed. Callers embed
// their own timeout around the call if they need one.
//
// # Inputs
//
//   - ctx: Context for tracing and cancellation. Must not be nil.
//   - sources: The reports to consolidate, in priority order: when two
//     sources supply differing payloads for the same dedup key, the
//     last-processed source wins. A nil or empty slice is valid and yields
//     a report with zero totals.
//
// # Outputs
//
//   - *ConsolidatedReport: The complete consolidated report.
//   - error: ErrInvalidInput when a source report fails boundary validation
//     (blank source identifier). Partial results are never returned.
func (c *Consolidator) Consolidate(ctx context.Context, sources []SourceReport) (*ConsolidatedReport, error) {
	if ctx == nil {
		return nil, fmt.Errorf("ctx must not be nil")
	}

	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "quorum.consolidate",
		trace.WithAttributes(attribute.Int("quorum.source_count", len(sources))))
	defer span.End()

	for i := range sources {
		if err := c.validate.Struct(&sources[i]); err != nil {
			return nil, fmt.Errorf("%w: source report %d: %v", ErrInvalidInput, i, err)
		}
	}

	var (
		findings       FindingGroup
		findingUnknown map[string]int
		recs           RecommendationGroup
		risks          RiskGroup
		riskUnknown    map[string]int
		metrics        MetricsSummary
		actions        []RankedAction
		conflicts      []Conflict
	)

	// Partition-then-reduce: each stage owns its result variables outright,
	// so the fan-out needs no locks.
	stages := []struct {
		name string
		run  func()
	}{
		{"findings", func() { findings, findingUnknown = mergeFindings(sources) }},
		{"recommendations", func() { recs = mergeRecommendations(sources) }},
		{"risks", func() { risks, riskUnknown = mergeRisks(sources) }},
		{"metrics", func() { metrics = aggregateMetrics(sources) }},
		{"actions", func() { actions = rankActions(sources) }},
		{"conflicts", func() { conflicts = detectConflicts(sources) }},
	}

	if c.sequential {
		for _, stage := range stages {
			stage.run()
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for _, stage := range stages {
			g.Go(func() error {
				_, stageSpan := c.tracer.Start(gctx, "quorum.consolidate."+stage.name)
				defer stageSpan.End()
				stage.run()
				return nil
			})
		}
		// The stages are pure functions and never error; Wait is a join.
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	if err := verifyRanks(actions); err != nil {
		return nil, err
	}

	unknown := mergeCounts(findingUnknown, riskUnknown)
	if len(unknown) > 0 {
		c.logger.Warn("unrecognized severity values passed through",
			"counts", unknown)
	}

	report := &ConsolidatedReport{
		Metadata: Metadata{
			ConsolidationID: uuid.NewString(),
			Sources:         sourceNames(sources),
			SourceCount:     len(sources),
			ConsolidatedAt:  time.Now().UTC(),
		},
		Findings:        findings,
		Recommendations: recs,
		Risks:           risks,
		Metrics:         metrics,
		RankedActions:   actions,
		Conflicts:       conflicts,
	}
	// Derived purely from the substructures above; never recomputed from
	// the raw input.
	report.Summary = Summary{
		TotalFindings:        findings.TotalCount,
		UniqueInsights:       len(findings.UniqueInsights),
		TotalRecommendations: recs.TotalCount,
		TotalRisks:           risks.TotalCount,
		ConflictsFound:       len(conflicts),
		AvgConfidence:        metrics.AverageConfidence,
	}
	if len(unknown) > 0 {
		report.Diagnostics.UnknownSeverities = unknown
	}

	c.logger.Debug("consolidation complete",
		"consolidation_id", report.Metadata.ConsolidationID,
		"sources", len(sources),
		"findings", findings.TotalCount,
		"conflicts", len(conflicts),
		"duration_ms", time.Since(start).Milliseconds())
	return report, nil
}

// Consolidate merges source reports with default options. See
// Consolidator.Consolidate.
func Consolidate(ctx context.Context, sources []SourceReport) (*ConsolidatedReport, error) {
	return New(Options{}).Consolidate(ctx, sources)
}

// sourceNames extracts the source identifiers in input order.
func sourceNames(sources []SourceReport) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Source
	}
	return names
}

// mergeCounts sums count maps; nil when all inputs are empty.
func mergeCounts(maps ...map[string]int) map[string]int {
	var out map[string]int
	for _, m := range maps {
		for k, v := range m {
			if out == nil {
				out = make(map[string]int)
			}
			out[k] += v
		}
	}
	return out
}
