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

import "testing"

// TestDetectConflicts_PriorityDisagreement verifies the reference scenario:
// two sources recommending the same topic at different priorities produce a
// priority_disagreement conflict.
func TestDetectConflicts_PriorityDisagreement(t *testing.T) {
	reports := []SourceReport{
		{Source: "A", Recommendations: []Recommendation{
			{Description: "Add rate limiting to the API gateway", Priority: "high"},
		}},
		{Source: "B", Recommendations: []Recommendation{
			{Description: "add rate limiting before next release", Priority: "low"},
		}},
	}

	conflicts := detectConflicts(reports)

	if len(conflicts) != 1 {
		t.Fatalf("conflict count = %d, want 1", len(conflicts))
	}
	c := conflicts[0]
	if c.Topic != "add rate limiting" {
		t.Errorf("Topic = %q, want %q", c.Topic, "add rate limiting")
	}
	if c.Kind != ConflictPriorityDisagreement {
		t.Errorf("Kind = %q, want %q", c.Kind, ConflictPriorityDisagreement)
	}
	if len(c.Sources) != 2 {
		t.Errorf("Sources = %v, want two", c.Sources)
	}
	if len(c.Priorities) != 2 {
		t.Errorf("Priorities = %v, want two", c.Priorities)
	}
	if len(c.Recommendations) != 2 {
		t.Errorf("Recommendations = %d, want 2", len(c.Recommendations))
	}
}

// TestDetectConflicts_NoConflict covers groups that fail one of the two
// distinctness requirements.
func TestDetectConflicts_NoConflict(t *testing.T) {
	tests := map[string][]SourceReport{
		"same source only": {
			{Source: "A", Recommendations: []Recommendation{
				{Description: "enable audit logging everywhere", Priority: "high"},
				{Description: "enable audit logging on ingest", Priority: "low"},
			}},
		},
		"same priority": {
			{Source: "A", Recommendations: []Recommendation{
				{Description: "enable audit logging everywhere", Priority: "high"},
			}},
			{Source: "B", Recommendations: []Recommendation{
				{Description: "enable audit logging on ingest", Priority: "high"},
			}},
		},
		"distinct topics": {
			{Source: "A", Recommendations: []Recommendation{
				{Description: "enable audit logging", Priority: "high"},
			}},
			{Source: "B", Recommendations: []Recommendation{
				{Description: "disable legacy endpoints", Priority: "low"},
			}},
		},
		"single member": {
			{Source: "A", Recommendations: []Recommendation{
				{Description: "enable audit logging", Priority: "high"},
			}},
		},
	}

	for name, reports := range tests {
		t.Run(name, func(t *testing.T) {
			if got := detectConflicts(reports); len(got) != 0 {
				t.Errorf("conflicts = %v, want none", got)
			}
		})
	}
}

// TestDetectConflicts_RawRecommendations verifies the detector sees every
// raw recommendation, including those deduplication would later collapse.
func TestDetectConflicts_RawRecommendations(t *testing.T) {
	// Identical descriptions dedupe to one recommendation downstream, yet
	// still conflict here because the priorities disagree.
	reports := []SourceReport{
		{Source: "A", Recommendations: []Recommendation{
			{Description: "tighten access controls", Priority: "critical"},
		}},
		{Source: "B", Recommendations: []Recommendation{
			{Description: "tighten access controls", Priority: "medium"},
		}},
	}

	conflicts := detectConflicts(reports)

	if len(conflicts) != 1 {
		t.Fatalf("conflict count = %d, want 1", len(conflicts))
	}
	if got := conflicts[0].Topic; got != "tighten access controls" {
		t.Errorf("Topic = %q", got)
	}
}

// TestDetectConflicts_BlankDescriptions verifies blank descriptions are
// skipped rather than grouped under an empty topic.
func TestDetectConflicts_BlankDescriptions(t *testing.T) {
	reports := []SourceReport{
		{Source: "A", Recommendations: []Recommendation{{Description: "   ", Priority: "high"}}},
		{Source: "B", Recommendations: []Recommendation{{Description: "", Priority: "low"}}},
	}

	if got := detectConflicts(reports); len(got) != 0 {
		t.Errorf("conflicts = %v, want none", got)
	}
}

// TestDetectConflicts_ShortTopics verifies topics shorter than three words
// still group on their available words.
func TestDetectConflicts_ShortTopics(t *testing.T) {
	reports := []SourceReport{
		{Source: "A", Recommendations: []Recommendation{{Description: "Rotate keys", Priority: "high"}}},
		{Source: "B", Recommendations: []Recommendation{{Description: "rotate keys quarterly going forward", Priority: "low"}}},
	}

	conflicts := detectConflicts(reports)

	// "rotate keys" and "rotate keys quarterly" are distinct topics, so no
	// conflict arises even though the subject overlaps.
	if len(conflicts) != 0 {
		t.Errorf("conflicts = %v, want none", conflicts)
	}
}
