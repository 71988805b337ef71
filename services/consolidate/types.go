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
	"time"
)

// ConsolidationAlgorithmVersion is the version of the merge algorithm.
// Increment when making changes that affect dedup keys, sort orders, or
// conflict detection.
const ConsolidationAlgorithmVersion = "1.0"

// Default values applied during merging.
const (
	// DefaultCategory is assigned to items that arrive without a category.
	DefaultCategory = "uncategorized"

	// DefaultRank is assumed for a ranked action whose source did not
	// provide an explicit rank.
	DefaultRank = 99
)

// Dedup key prefix lengths. These are literal character counts over the
// lowercased, trimmed text; see the package documentation for the accuracy
// trade-off.
const (
	FindingKeyLen     = 50
	DescriptionKeyLen = 60
	ActionKeyLen      = 60
)

// TopicWordCount is the number of leading words that form a conflict topic.
const TopicWordCount = 3

// Severity is the canonical severity vocabulary.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// severityRankOrder maps canonical severities to sort rank (lower = more
// severe). Unrecognized severities sort after low.
var severityRankOrder = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// unknownSeverityRank is the sort rank for severities outside the canonical
// vocabulary.
const unknownSeverityRank = 4

// Rank returns the numeric sort order of this severity.
// Unknown severities rank after SeverityLow.
func (s Severity) Rank() int {
	if r, ok := severityRankOrder[s]; ok {
		return r
	}
	return unknownSeverityRank
}

// Known returns true when the severity is in the canonical vocabulary.
func (s Severity) Known() bool {
	_, ok := severityRankOrder[s]
	return ok
}

// =============================================================================
// SOURCE REPORT ITEMS
// =============================================================================

// Finding is one observation from a single source.
//
// Category and Severity are optional; Description is the identity-bearing
// field. Fields outside the known set are preserved opaquely in Extra and
// round-trip through JSON untouched.
type Finding struct {
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description"`
	Severity    string         `json:"severity,omitempty"`
	Extra       map[string]any `json:"-"`
}

// Recommendation is one suggested action from a single source.
// Priority is free-form; the engine only uses it for grouping, stable
// secondary sorting, and conflict detection.
type Recommendation struct {
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description"`
	Priority    string         `json:"priority,omitempty"`
	Extra       map[string]any `json:"-"`
}

// Risk is one identified risk from a single source.
type Risk struct {
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description"`
	Severity    string         `json:"severity,omitempty"`
	Extra       map[string]any `json:"-"`
}

// Metrics carries a source's self-reported quality metrics.
//
// Confidence is deliberately untyped: sources report it as a number or a
// numeric string, and non-numeric values are skipped during aggregation
// rather than rejected. SummaryStats values follow the same rule.
type Metrics struct {
	Confidence    any            `json:"confidence,omitempty"`
	Coverage      string         `json:"coverage,omitempty"`
	SummaryStats  map[string]any `json:"summary_stats,omitempty"`
	TopPriorities []string       `json:"top_priorities,omitempty"`
}

// ActionEntry is one entry of a source's ranked action list.
// A Rank of zero or below means the source did not rank the action;
// DefaultRank is assumed during merging.
type ActionEntry struct {
	Action string `json:"action"`
	Rank   int    `json:"rank,omitempty"`
}

// SourceReport is one complete report from a single analysis source.
//
// Reports are immutable once received: the engine never mutates a
// SourceReport, and every inner collection is optional. A report with no
// findings simply contributes zero findings.
type SourceReport struct {
	Source          string           `json:"source" validate:"required"`
	Findings        []Finding        `json:"findings,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Risks           []Risk           `json:"risks,omitempty"`
	Metrics         *Metrics         `json:"metrics,omitempty"`
	RankedActions   []ActionEntry    `json:"ranked_actions,omitempty"`
}

// =============================================================================
// MERGED RESULTS
// =============================================================================

// MergedFinding is a deduplicated finding with source attribution.
//
// Sources is never empty and lists contributing sources in input order
// without duplicates. IsUnique is true exactly when one source contributed;
// it is fixed at construction and never changes afterward.
type MergedFinding struct {
	Finding  Finding  `json:"finding"`
	Sources  []string `json:"sources"`
	IsUnique bool     `json:"is_unique"`
}

// MergedRecommendation is a deduplicated recommendation with agreement data.
type MergedRecommendation struct {
	Recommendation Recommendation `json:"recommendation"`
	Sources        []string       `json:"sources"`
	IsUnique       bool           `json:"is_unique"`
	AgreementCount int            `json:"agreement_count"`
}

// MergedRisk is a deduplicated risk with agreement data.
type MergedRisk struct {
	Risk           Risk     `json:"risk"`
	Sources        []string `json:"sources"`
	IsUnique       bool     `json:"is_unique"`
	AgreementCount int      `json:"agreement_count"`
}

// UniqueInsight pairs a finding contributed by exactly one source with that
// source's identifier.
type UniqueInsight struct {
	Finding Finding `json:"finding"`
	Source  string  `json:"source"`
}

// UniqueRecommendation pairs a single-source recommendation with its source.
type UniqueRecommendation struct {
	Recommendation Recommendation `json:"recommendation"`
	Source         string         `json:"source"`
}

// FindingGroup is the consolidated findings section.
type FindingGroup struct {
	AllFindings    []MergedFinding            `json:"all_findings"`
	ByCategory     map[string][]MergedFinding `json:"by_category"`
	BySeverity     map[string][]MergedFinding `json:"by_severity"`
	UniqueInsights []UniqueInsight            `json:"unique_insights"`

	// SourceCounts is the raw pre-dedup finding count per source.
	// Diagnostic only; nothing downstream consumes it.
	SourceCounts map[string]int `json:"source_counts"`
	TotalCount   int            `json:"total_count"`
}

// RecommendationGroup is the consolidated recommendations section, sorted by
// agreement count descending then priority ascending.
type RecommendationGroup struct {
	AllRecommendations    []MergedRecommendation            `json:"all_recommendations"`
	ByPriority            map[string][]MergedRecommendation `json:"by_priority"`
	UniqueRecommendations []UniqueRecommendation            `json:"unique_recommendations"`
	TotalCount            int                               `json:"total_count"`
}

// RiskGroup is the consolidated risks section, sorted by severity rank then
// agreement count descending.
type RiskGroup struct {
	AllRisks   []MergedRisk            `json:"all_risks"`
	BySeverity map[string][]MergedRisk `json:"by_severity"`
	TotalCount int                     `json:"total_count"`
}

// MetricsSummary is the cross-source metrics consensus.
//
// AverageConfidence and CoverageConsensus are nil when no source supplied
// the underlying value; absence is never coerced to zero.
type MetricsSummary struct {
	AverageConfidence    *float64           `json:"average_confidence"`
	CoverageConsensus    *string            `json:"coverage_consensus"`
	CombinedSummaryStats map[string]int     `json:"combined_summary_stats"`
	PerSourceMetrics     map[string]Metrics `json:"per_source_metrics"`
	AllTopPriorities     []string           `json:"all_top_priorities"`
}

// RankedAction is one consensus-ranked action.
//
// ConsolidatedRank values across a report are always the contiguous integers
// 1..N with no duplicates; the ranker verifies this after every run.
type RankedAction struct {
	Action           string   `json:"action"`
	Sources          []string `json:"sources"`
	SourceRanks      []int    `json:"source_ranks"`
	AvgRank          float64  `json:"avg_rank"`
	AgreementCount   int      `json:"agreement_count"`
	ConsolidatedRank int      `json:"consolidated_rank"`
}

// ConflictKind classifies a detected inter-source disagreement.
type ConflictKind string

const (
	// ConflictPriorityDisagreement marks recommendations on the same topic
	// whose priorities differ across sources.
	ConflictPriorityDisagreement ConflictKind = "priority_disagreement"
)

// Conflict is a detected disagreement between sources.
//
// Topic grouping is a coarse three-word-prefix heuristic that favors recall
// over precision; consumers should present conflicts for human review rather
// than auto-resolve them.
type Conflict struct {
	Topic           string           `json:"topic"`
	Kind            ConflictKind     `json:"kind"`
	Sources         []string         `json:"sources"`
	Priorities      []string         `json:"priorities"`
	Recommendations []Recommendation `json:"recommendations"`
}

// =============================================================================
// CONSOLIDATED REPORT
// =============================================================================

// Metadata identifies one consolidation run.
type Metadata struct {
	ConsolidationID string    `json:"consolidation_id"`
	Sources         []string  `json:"sources"`
	SourceCount     int       `json:"source_count"`
	ConsolidatedAt  time.Time `json:"consolidated_at"`
}

// Summary holds headline counts derived from the merged sections. It is
// computed once from the assembled report and never independently mutated.
type Summary struct {
	TotalFindings        int      `json:"total_findings"`
	UniqueInsights       int      `json:"unique_insights"`
	TotalRecommendations int      `json:"total_recommendations"`
	TotalRisks           int      `json:"total_risks"`
	ConflictsFound       int      `json:"conflicts_found"`
	AvgConfidence        *float64 `json:"avg_confidence"`
}

// Diagnostics carries data-quality observations that never block
// consolidation.
type Diagnostics struct {
	// UnknownSeverities counts raw occurrences of severity values outside
	// the canonical vocabulary, keyed by the value seen.
	UnknownSeverities map[string]int `json:"unknown_severities,omitempty"`
}

// ConsolidatedReport is the complete output of one consolidation run.
type ConsolidatedReport struct {
	Metadata        Metadata            `json:"metadata"`
	Findings        FindingGroup        `json:"findings"`
	Recommendations RecommendationGroup `json:"recommendations"`
	Risks           RiskGroup           `json:"risks"`
	Metrics         MetricsSummary      `json:"metrics"`
	RankedActions   []RankedAction      `json:"ranked_actions"`
	Conflicts       []Conflict          `json:"conflicts"`
	Summary         Summary             `json:"summary"`
	Diagnostics     Diagnostics         `json:"diagnostics"`
}

// =============================================================================
// OPAQUE EXTRA FIELD ROUND-TRIPPING
// =============================================================================

// knownFindingKeys are the JSON keys the engine interprets on findings and
// risks; everything else lands in Extra.
var knownFindingKeys = map[string]bool{
	"category":    true,
	"description": true,
	"severity":    true,
}

var knownRecommendationKeys = map[string]bool{
	"category":    true,
	"description": true,
	"priority":    true,
}

// decodeItem splits raw JSON into known string fields and opaque extras.
func decodeItem(data []byte, known map[string]bool) (fields map[string]string, extra map[string]any, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	fields = make(map[string]string, len(known))
	for key := range known {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			// Wrong-typed known field: treat as absent, keep it opaque.
			var v any
			if err := json.Unmarshal(msg, &v); err == nil {
				if extra == nil {
					extra = make(map[string]any)
				}
				extra[key] = v
			}
			continue
		}
		fields[key] = s
	}
	for key, msg := range raw {
		if known[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[key] = v
	}
	return fields, extra, nil
}

// encodeItem merges known fields over the opaque extras for output.
func encodeItem(fields map[string]any, extra map[string]any) ([]byte, error) {
	out := make(map[string]any, len(fields)+len(extra))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a finding, preserving unknown fields in Extra.
func (f *Finding) UnmarshalJSON(data []byte) error {
	fields, extra, err := decodeItem(data, knownFindingKeys)
	if err != nil {
		return err
	}
	f.Category = fields["category"]
	f.Description = fields["description"]
	f.Severity = fields["severity"]
	f.Extra = extra
	return nil
}

// MarshalJSON re-emits the finding with its opaque extras.
func (f Finding) MarshalJSON() ([]byte, error) {
	return encodeItem(map[string]any{
		"category":    f.Category,
		"description": f.Description,
		"severity":    f.Severity,
	}, f.Extra)
}

// UnmarshalJSON decodes a recommendation, preserving unknown fields in Extra.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	fields, extra, err := decodeItem(data, knownRecommendationKeys)
	if err != nil {
		return err
	}
	r.Category = fields["category"]
	r.Description = fields["description"]
	r.Priority = fields["priority"]
	r.Extra = extra
	return nil
}

// MarshalJSON re-emits the recommendation with its opaque extras.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	return encodeItem(map[string]any{
		"category":    r.Category,
		"description": r.Description,
		"priority":    r.Priority,
	}, r.Extra)
}

// UnmarshalJSON decodes a risk, preserving unknown fields in Extra.
func (r *Risk) UnmarshalJSON(data []byte) error {
	fields, extra, err := decodeItem(data, knownFindingKeys)
	if err != nil {
		return err
	}
	r.Category = fields["category"]
	r.Description = fields["description"]
	r.Severity = fields["severity"]
	r.Extra = extra
	return nil
}

// MarshalJSON re-emits the risk with its opaque extras.
func (r Risk) MarshalJSON() ([]byte, error) {
	return encodeItem(map[string]any{
		"category":    r.Category,
		"description": r.Description,
		"severity":    r.Severity,
	}, r.Extra)
}
