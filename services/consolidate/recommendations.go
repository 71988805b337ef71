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

// recommendationAccum collects one dedup bucket while merging
// recommendations.
type recommendationAccum struct {
	rec     Recommendation
	sources []string
	seen    map[string]bool
}

func (a *recommendationAccum) addSource(source string) {
	if a.seen[source] {
		return
	}
	a.seen[source] = true
	a.sources = append(a.sources, source)
}

// mergeRecommendations deduplicates recommendations across sources.
//
// # Description
//
// The dedup key is the first DescriptionKeyLen characters of the lowercased,
// trimmed description; category is not part of the key because
// recommendations are typically cross-cutting. Last-processed source wins
// the payload on collision.
//
// The merged list is sorted by agreement count descending, then priority
// ascending. Priority is compared lexicographically on the raw string: the
// engine imposes no canonical priority order, only a stable secondary sort,
// so callers wanting true severity ordering must pre-normalize priorities.
func mergeRecommendations(reports []SourceReport) RecommendationGroup {
	accums := make(map[string]*recommendationAccum)
	var order []string

	for _, report := range reports {
		for _, raw := range report.Recommendations {
			rec := raw
			rec.Category = defaultCategory(rec.Category)

			key := descriptionKey(rec.Description)
			acc, ok := accums[key]
			if !ok {
				acc = &recommendationAccum{seen: make(map[string]bool)}
				accums[key] = acc
				order = append(order, key)
			}
			acc.rec = rec
			acc.addSource(report.Source)
		}
	}

	group := RecommendationGroup{
		AllRecommendations:    make([]MergedRecommendation, 0, len(order)),
		ByPriority:            make(map[string][]MergedRecommendation),
		UniqueRecommendations: make([]UniqueRecommendation, 0),
	}
	for _, key := range order {
		acc := accums[key]
		group.AllRecommendations = append(group.AllRecommendations, MergedRecommendation{
			Recommendation: acc.rec,
			Sources:        acc.sources,
			IsUnique:       len(acc.sources) == 1,
			AgreementCount: len(acc.sources),
		})
	}

	sort.SliceStable(group.AllRecommendations, func(i, j int) bool {
		a, b := group.AllRecommendations[i], group.AllRecommendations[j]
		if a.AgreementCount != b.AgreementCount {
			return a.AgreementCount > b.AgreementCount
		}
		return a.Recommendation.Priority < b.Recommendation.Priority
	})

	for _, merged := range group.AllRecommendations {
		group.ByPriority[merged.Recommendation.Priority] = append(group.ByPriority[merged.Recommendation.Priority], merged)
		if merged.IsUnique {
			group.UniqueRecommendations = append(group.UniqueRecommendations, UniqueRecommendation{
				Recommendation: merged.Recommendation,
				Source:         merged.Sources[0],
			})
		}
	}
	group.TotalCount = len(group.AllRecommendations)
	return group
}
