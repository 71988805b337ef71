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
	"fmt"
	"sort"
)

// actionAccum collects one dedup bucket while merging ranked actions.
type actionAccum struct {
	action  string
	ranks   []int
	sources []string
	seen    map[string]bool
}

func (a *actionAccum) addSource(source string) {
	if a.seen[source] {
		return
	}
	a.seen[source] = true
	a.sources = append(a.sources, source)
}

// rankActions merges per-source ranked action lists into one consensus
// ranking.
//
// # Description
//
// Actions are deduplicated on the first ActionKeyLen characters of the
// lowercased, trimmed action text; last-processed source wins the retained
// wording. Each contributing entry's rank is collected (DefaultRank when a
// source provided none), avg_rank is the mean of those ranks, and the merged
// list is sorted by agreement count descending then avg_rank ascending.
// Consolidated ranks 1..N are assigned after the global sort.
//
// # Outputs
//
//   - []RankedAction: the consensus ranking. The consolidated ranks are
//     always the contiguous integers 1..N; verifyRanks enforces this
//     postcondition after every run.
func rankActions(reports []SourceReport) []RankedAction {
	accums := make(map[string]*actionAccum)
	var order []string

	for _, report := range reports {
		for _, entry := range report.RankedActions {
			rank := entry.Rank
			if rank <= 0 {
				rank = DefaultRank
			}

			key := actionKey(entry.Action)
			acc, ok := accums[key]
			if !ok {
				acc = &actionAccum{seen: make(map[string]bool)}
				accums[key] = acc
				order = append(order, key)
			}
			acc.action = entry.Action
			acc.ranks = append(acc.ranks, rank)
			acc.addSource(report.Source)
		}
	}

	actions := make([]RankedAction, 0, len(order))
	for _, key := range order {
		acc := accums[key]
		var sum int
		for _, r := range acc.ranks {
			sum += r
		}
		actions = append(actions, RankedAction{
			Action:         acc.action,
			Sources:        acc.sources,
			SourceRanks:    acc.ranks,
			AvgRank:        float64(sum) / float64(len(acc.ranks)),
			AgreementCount: len(acc.sources),
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].AgreementCount != actions[j].AgreementCount {
			return actions[i].AgreementCount > actions[j].AgreementCount
		}
		return actions[i].AvgRank < actions[j].AvgRank
	})

	for i := range actions {
		actions[i].ConsolidatedRank = i + 1
	}
	return actions
}

// verifyRanks checks the ranker postcondition: consolidated ranks must be
// exactly the contiguous integers 1..N with no duplicates or gaps.
func verifyRanks(actions []RankedAction) error {
	seen := make(map[int]bool, len(actions))
	for _, a := range actions {
		if a.ConsolidatedRank < 1 || a.ConsolidatedRank > len(actions) {
			return fmt.Errorf("%w: rank %d out of range 1..%d", ErrRankNotContiguous, a.ConsolidatedRank, len(actions))
		}
		if seen[a.ConsolidatedRank] {
			return fmt.Errorf("%w: duplicate rank %d", ErrRankNotContiguous, a.ConsolidatedRank)
		}
		seen[a.ConsolidatedRank] = true
	}
	return nil
}
