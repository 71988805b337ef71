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

import "errors"

// Sentinel errors for the consolidate package.
var (
	// ErrInvalidInput indicates the top-level input is not a usable set of
	// source reports. This is the only error Consolidate returns; all
	// per-item problems are absorbed by defaulting.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRankNotContiguous indicates the action ranker postcondition was
	// violated: consolidated ranks must be the contiguous integers 1..N.
	ErrRankNotContiguous = errors.New("consolidated ranks not contiguous")
)
