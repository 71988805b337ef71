// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package consolidate merges independent analysis reports into a single
// deduplicated, ranked, conflict-annotated report.
//
// # Description
//
// Several reviewers (human or automated) examine the same artifact and each
// produces a structured report of findings, recommendations, risks, metrics,
// and ranked actions. This package collapses equivalent observations across
// those reports, attributes every merged item to its contributing sources,
// computes consensus metrics, re-ranks actions by agreement, and flags
// recommendations whose priority the sources disagree on.
//
// The single entry point is Consolidator.Consolidate. Internally it runs six
// independent merge stages:
//
//   - finding merge: dedup by category + description prefix
//   - recommendation merge: dedup by description prefix, agreement-sorted
//   - risk merge: dedup by description prefix, severity-sorted
//   - metrics aggregation: mean confidence, coverage consensus, summed counters
//   - action ranking: consensus re-rank of per-source ranked action lists
//   - conflict detection: priority disagreement over shared topics
//
// Deduplication is a literal lowercase prefix comparison (50 characters for
// findings, 60 for recommendations, risks, and actions). Two sources wording
// the same issue differently beyond the prefix will not merge; two different
// issues sharing an opening phrase will. Consumers that need fuzzier matching
// must pre-normalize their descriptions.
//
// # Failure Semantics
//
// Malformed per-item data never fails a consolidation: missing fields are
// defaulted and unrecognized severities pass through unchanged (and are
// counted in the report diagnostics). The only terminal error is
// ErrInvalidInput, returned when a source report fails boundary validation.
// Callers always receive either a complete report or that single error.
//
// # Thread Safety
//
// A Consolidator holds no per-call state and is safe for concurrent use.
// Every Consolidate call builds its result from scratch; nothing is cached
// between calls.
package consolidate
