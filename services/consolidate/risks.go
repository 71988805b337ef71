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

import "sort"

// riskAccum collects one dedup bucket while merging risks.
type riskAccum struct {
	risk    Risk
	sources []string
	seen    map[string]bool
}

func (a *riskAccum) addSource(source string) {
	if a.seen[source] {
		return
	}
	a.seen[source] = true
	a.sources = append(a.sources, source)
}

// mergeRisks deduplicates risks across sources.
//
// # Description
//
// The dedup key scheme matches mergeRecommendations: the first
// DescriptionKeyLen characters of the lowercased, trimmed description, with
// last-processed source winning the payload. Severities are normalized
// before grouping.
//
// The merged list is sorted by severity rank ascending (critical first,
// unknown severities after low), then agreement count descending.
//
// # Outputs
//
//   - RiskGroup: the sorted merged risks and their severity grouping.
//   - map[string]int: raw occurrence counts of unrecognized severity values.
func mergeRisks(reports []SourceReport) (RiskGroup, map[string]int) {
	accums := make(map[string]*riskAccum)
	var order []string
	unknown := make(map[string]int)

	for _, report := range reports {
		for _, raw := range report.Risks {
			risk := raw
			risk.Category = defaultCategory(risk.Category)
			risk.Severity = NormalizeSeverity(risk.Severity)
			if risk.Severity != "" && !Severity(risk.Severity).Known() {
				unknown[risk.Severity]++
			}

			key := descriptionKey(risk.Description)
			acc, ok := accums[key]
			if !ok {
				acc = &riskAccum{seen: make(map[string]bool)}
				accums[key] = acc
				order = append(order, key)
			}
			acc.risk = risk
			acc.addSource(report.Source)
		}
	}

	group := RiskGroup{
		AllRisks:   make([]MergedRisk, 0, len(order)),
		BySeverity: make(map[string][]MergedRisk),
	}
	for _, key := range order {
		acc := accums[key]
		group.AllRisks = append(group.AllRisks, MergedRisk{
			Risk:           acc.risk,
			Sources:        acc.sources,
			IsUnique:       len(acc.sources) == 1,
			AgreementCount: len(acc.sources),
		})
	}

	sort.SliceStable(group.AllRisks, func(i, j int) bool {
		a, b := group.AllRisks[i], group.AllRisks[j]
		aRank, bRank := Severity(a.Risk.Severity).Rank(), Severity(b.Risk.Severity).Rank()
		if aRank != bRank {
			return aRank < bRank
		}
		return a.AgreementCount > b.AgreementCount
	})

	for _, merged := range group.AllRisks {
		if merged.Risk.Severity != "" {
			group.BySeverity[merged.Risk.Severity] = append(group.BySeverity[merged.Risk.Severity], merged)
		}
	}
	group.TotalCount = len(group.AllRisks)
	return group, unknown
}
