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

// topicEntry is one raw recommendation attributed to its source.
type topicEntry struct {
	source string
	rec    Recommendation
}

// detectConflicts flags recommendations whose priority the sources disagree
// on.
//
// # Description
//
// Raw, pre-dedup recommendations are grouped by topic: the lowercased first
// TopicWordCount words of the description. A topic yields a conflict when at
// least two distinct sources contributed entries and those entries carry
// more than one distinct priority value.
//
// The topic heuristic is deliberately coarse and favors recall over
// precision: two genuinely different recommendations sharing an opening
// phrase will be flagged together. Consumers decide what to do with the
// signal; nothing here attempts resolution.
func detectConflicts(reports []SourceReport) []Conflict {
	topics := make(map[string][]topicEntry)
	var order []string

	for _, report := range reports {
		for _, rec := range report.Recommendations {
			topic := topicKey(rec.Description)
			if topic == "" {
				continue
			}
			if _, ok := topics[topic]; !ok {
				order = append(order, topic)
			}
			topics[topic] = append(topics[topic], topicEntry{source: report.Source, rec: rec})
		}
	}

	conflicts := make([]Conflict, 0)
	for _, topic := range order {
		entries := topics[topic]
		if len(entries) < 2 {
			continue
		}

		var sources, priorities []string
		seenSource := make(map[string]bool)
		seenPriority := make(map[string]bool)
		recs := make([]Recommendation, 0, len(entries))
		for _, e := range entries {
			if !seenSource[e.source] {
				seenSource[e.source] = true
				sources = append(sources, e.source)
			}
			if !seenPriority[e.rec.Priority] {
				seenPriority[e.rec.Priority] = true
				priorities = append(priorities, e.rec.Priority)
			}
			recs = append(recs, e.rec)
		}
		if len(sources) < 2 || len(priorities) < 2 {
			continue
		}

		conflicts = append(conflicts, Conflict{
			Topic:           topic,
			Kind:            ConflictPriorityDisagreement,
			Sources:         sources,
			Priorities:      priorities,
			Recommendations: recs,
		})
	}
	return conflicts
}
