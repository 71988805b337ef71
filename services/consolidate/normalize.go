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

import "strings"

// severitySynonyms folds common severity spellings into the canonical
// vocabulary. Keys are compared after lowercasing and trimming.
var severitySynonyms = map[string]Severity{
	"critical": SeverityCritical,
	"crit":     SeverityCritical,
	"high":     SeverityHigh,
	"hi":       SeverityHigh,
	"medium":   SeverityMedium,
	"med":      SeverityMedium,
	"moderate": SeverityMedium,
	"low":      SeverityLow,
	"lo":       SeverityLow,
	"minor":    SeverityLow,
}

// NormalizeSeverity canonicalizes a raw severity value.
//
// Matching is case-insensitive over the trimmed input. Unrecognized values
// pass through unchanged rather than erroring, so callers can detect and
// report them instead of losing them silently. The function is idempotent:
// normalizing an already-normalized value is a no-op.
func NormalizeSeverity(raw string) string {
	if sev, ok := severitySynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return string(sev)
	}
	return raw
}

// prefix returns the first n characters of s. Character means rune here;
// multi-byte text must not be cut mid-character in a dedup key.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// findingKey builds the dedup key for a finding: category plus the first
// FindingKeyLen characters of the description, both lowercased.
func findingKey(category, description string) string {
	return strings.ToLower(category) + ":" + prefix(strings.ToLower(strings.TrimSpace(description)), FindingKeyLen)
}

// descriptionKey builds the dedup key for recommendations and risks: the
// first DescriptionKeyLen characters of the lowercased, trimmed description.
// Recommendations are typically cross-cutting, so category is deliberately
// not part of the key.
func descriptionKey(description string) string {
	return prefix(strings.ToLower(strings.TrimSpace(description)), DescriptionKeyLen)
}

// actionKey builds the dedup key for a ranked action.
func actionKey(action string) string {
	return prefix(strings.ToLower(strings.TrimSpace(action)), ActionKeyLen)
}

// topicKey extracts the conflict topic: the first TopicWordCount words of
// the lowercased description. Returns "" for blank descriptions.
func topicKey(description string) string {
	words := strings.Fields(strings.ToLower(description))
	if len(words) > TopicWordCount {
		words = words[:TopicWordCount]
	}
	return strings.Join(words, " ")
}

// defaultCategory substitutes DefaultCategory for blank categories.
func defaultCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return DefaultCategory
	}
	return category
}
