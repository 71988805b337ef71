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

// findingAccum collects one dedup bucket while merging findings.
type findingAccum struct {
	finding Finding
	sources []string
	seen    map[string]bool
}

func (a *findingAccum) addSource(source string) {
	if a.seen[source] {
		return
	}
	a.seen[source] = true
	a.sources = append(a.sources, source)
}

// mergeFindings deduplicates findings across all source reports.
//
// # Description
//
// The dedup key is lowercase(category) + ":" + the first FindingKeyLen
// characters of the lowercased, trimmed description. When several sources
// collide on a key, the last-processed source's payload wins; sources are
// processed in the order supplied, and that ordering is the only tie-break.
// Severities are normalized during the merge; categories default to
// DefaultCategory.
//
// # Outputs
//
//   - FindingGroup: merged findings plus category/severity groupings,
//     unique insights, and raw per-source counts.
//   - map[string]int: raw occurrence counts of unrecognized severity values.
//
// Empty input yields an empty group, never an error.
func mergeFindings(reports []SourceReport) (FindingGroup, map[string]int) {
	accums := make(map[string]*findingAccum)
	var order []string
	sourceCounts := make(map[string]int)
	unknown := make(map[string]int)

	for _, report := range reports {
		for _, raw := range report.Findings {
			f := raw
			f.Category = defaultCategory(f.Category)
			f.Severity = NormalizeSeverity(f.Severity)
			if f.Severity != "" && !Severity(f.Severity).Known() {
				unknown[f.Severity]++
			}
			sourceCounts[report.Source]++

			key := findingKey(f.Category, f.Description)
			acc, ok := accums[key]
			if !ok {
				acc = &findingAccum{seen: make(map[string]bool)}
				accums[key] = acc
				order = append(order, key)
			}
			// Last source in input order wins the payload.
			acc.finding = f
			acc.addSource(report.Source)
		}
	}

	group := FindingGroup{
		AllFindings:    make([]MergedFinding, 0, len(order)),
		ByCategory:     make(map[string][]MergedFinding),
		BySeverity:     make(map[string][]MergedFinding),
		UniqueInsights: make([]UniqueInsight, 0),
		SourceCounts:   sourceCounts,
	}
	for _, key := range order {
		acc := accums[key]
		merged := MergedFinding{
			Finding:  acc.finding,
			Sources:  acc.sources,
			IsUnique: len(acc.sources) == 1,
		}
		group.AllFindings = append(group.AllFindings, merged)
		group.ByCategory[merged.Finding.Category] = append(group.ByCategory[merged.Finding.Category], merged)
		if merged.Finding.Severity != "" {
			group.BySeverity[merged.Finding.Severity] = append(group.BySeverity[merged.Finding.Severity], merged)
		}
		if merged.IsUnique {
			group.UniqueInsights = append(group.UniqueInsights, UniqueInsight{
				Finding: merged.Finding,
				Source:  merged.Sources[0],
			})
		}
	}
	group.TotalCount = len(group.AllFindings)
	return group, unknown
}
