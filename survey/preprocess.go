// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"strings"

	"github.com/jcodagnone/caladero/spatial"
	"github.com/jcodagnone/caladero/utils/textutils"
)

// Dedupe returns a copy of the dataset without records whose exact
// coordinates already appeared, keeping the first occurrence.
func (ds Dataset) Dedupe() Dataset {
	seen := make(map[spatial.Point]struct{}, len(ds))
	out := make(Dataset, 0, len(ds))

	for _, rec := range ds {
		if _, ok := seen[rec.Point]; ok {
			continue
		}

		seen[rec.Point] = struct{}{}
		out = append(out, rec)
	}

	return out
}

// Filter returns the records whose comment contains keyword. Matching is
// case-insensitive and ignores accents on both sides, so "bajo pedregoso"
// matches "Bajo Pedregoso" and "BAJO PEDREGOSO".
func (ds Dataset) Filter(keyword string) Dataset {
	needle := textutils.LowerASCIIFolding(keyword)
	out := make(Dataset, 0, len(ds))

	for _, rec := range ds {
		if strings.Contains(textutils.LowerASCIIFolding(rec.Comment), needle) {
			out = append(out, rec)
		}
	}

	return out
}

// StandardizeComments returns a copy of the dataset with every comment
// trimmed and capitalized. Coordinates are left untouched.
func (ds Dataset) StandardizeComments() Dataset {
	out := make(Dataset, len(ds))

	for i, rec := range ds {
		rec.Comment = textutils.Capitalize(rec.Comment)
		out[i] = rec
	}

	return out
}
