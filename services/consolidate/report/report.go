// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report is the JSON wire codec for the consolidation engine.
//
// It decodes the per-source report envelope shape
//
//	{ "source": "<id>", "data": { "findings": [...], "recommendations": [...],
//	  "risks": [...], "metrics": {...}, "ranked_actions": [...] } }
//
// into consolidate.SourceReport values, and encodes ConsolidatedReport back
// to JSON. Every inner list and object is optional; absence is equivalent to
// an empty collection. The codec performs no consolidation logic of its own.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/AleutianAI/Quorum/services/consolidate"
)

// Envelope is the on-wire shape of one source report.
type Envelope struct {
	Source string  `json:"source"`
	Data   Payload `json:"data"`
}

// Payload carries the report collections inside an envelope.
type Payload struct {
	Findings        []consolidate.Finding        `json:"findings,omitempty"`
	Recommendations []consolidate.Recommendation `json:"recommendations,omitempty"`
	Risks           []consolidate.Risk           `json:"risks,omitempty"`
	Metrics         *consolidate.Metrics         `json:"metrics,omitempty"`
	RankedActions   []consolidate.ActionEntry    `json:"ranked_actions,omitempty"`
}

// toSourceReport flattens an envelope into the engine's input type.
func (e Envelope) toSourceReport() consolidate.SourceReport {
	return consolidate.SourceReport{
		Source:          e.Source,
		Findings:        e.Data.Findings,
		Recommendations: e.Data.Recommendations,
		Risks:           e.Data.Risks,
		Metrics:         e.Data.Metrics,
		RankedActions:   e.Data.RankedActions,
	}
}

// DecodeSources reads a JSON array of source report envelopes.
//
// # Outputs
//
//   - []consolidate.SourceReport: The decoded reports in input order.
//   - error: Wraps consolidate.ErrInvalidInput when the payload is not a
//     JSON array of report-shaped objects. Anything less malformed is
//     absorbed by defaulting inside the engine.
func DecodeSources(r io.Reader) ([]consolidate.SourceReport, error) {
	var envelopes []Envelope
	dec := json.NewDecoder(r)
	if err := dec.Decode(&envelopes); err != nil {
		return nil, fmt.Errorf("%w: decode source reports: %v", consolidate.ErrInvalidInput, err)
	}
	sources := make([]consolidate.SourceReport, len(envelopes))
	for i, env := range envelopes {
		sources[i] = env.toSourceReport()
	}
	return sources, nil
}

// ReadFile reads source reports from a JSON file.
//
// The file may contain either a JSON array of envelopes or a single
// envelope object; both decode to a slice.
func ReadFile(path string) ([]consolidate.SourceReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file %s: %w", path, err)
	}

	var envelopes []Envelope
	if err := json.Unmarshal(data, &envelopes); err == nil {
		sources := make([]consolidate.SourceReport, len(envelopes))
		for i, env := range envelopes {
			sources[i] = env.toSourceReport()
		}
		return sources, nil
	}

	var single Envelope
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("%w: %s is neither a report envelope nor an array of them: %v",
			consolidate.ErrInvalidInput, path, err)
	}
	return []consolidate.SourceReport{single.toSourceReport()}, nil
}

// Encode writes a consolidated report as JSON.
//
// When pretty is true the output is indented for human reading; otherwise
// it is compact single-line JSON for piping.
func Encode(w io.Writer, rep *consolidate.ConsolidatedReport, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode consolidated report: %w", err)
	}
	return nil
}
