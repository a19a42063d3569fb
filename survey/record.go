// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

// Package survey models GPS survey datasets: typed records, CSV exchange,
// preprocessing, and DuckDB backed storage.
package survey

import (
	"github.com/jcodagnone/caladero/spatial"
)

// Record is a single surveyed observation: a GPS fix plus the free-text
// comment captured alongside it.
type Record struct {
	Point   spatial.Point `json:"point"`
	Comment string        `json:"comment"`
}

// Dataset is an ordered collection of records. Load order is preserved and
// meaningful: pairwise enumeration and cluster seeding follow it.
type Dataset []Record
