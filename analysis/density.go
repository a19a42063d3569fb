// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"fmt"
	"sort"

	"github.com/uber/h3-go/v4"

	"github.com/jcodagnone/caladero/spatial"
	"github.com/jcodagnone/caladero/survey"
)

// GridCell is one occupied bin of a density grid.
type GridCell struct {
	Row    int            `json:"row"`
	Col    int            `json:"col"`
	Bounds spatial.Bounds `json:"bounds"`
	Center spatial.Point  `json:"center"`
	Count  int            `json:"count"`
}

// Grid is a binned density summary of a dataset over its bounding box.
// Only occupied cells are materialized.
type Grid struct {
	Bins     int            `json:"bins"`
	Bounds   spatial.Bounds `json:"bounds"`
	MaxCount int            `json:"max_count"`
	Cells    []GridCell     `json:"cells"`
}

// DensityGrid bins the dataset into a bins x bins histogram over its
// bounding box. Rows follow latitude south to north, columns longitude
// west to east. Cells are returned in row-major order.
func DensityGrid(ds survey.Dataset, bins int) (Grid, error) {
	if bins < 1 {
		return Grid{}, fmt.Errorf("bins must be positive, got %d", bins)
	}

	summary, err := Summarize(ds)
	if err != nil {
		return Grid{}, err
	}

	bounds := summary.Bounds
	latStep := (bounds.MaxLat - bounds.MinLat) / float64(bins)
	lngStep := (bounds.MaxLng - bounds.MinLng) / float64(bins)

	counts := make(map[int]int)

	for _, rec := range ds {
		row := bin(rec.Point.Lat, bounds.MinLat, latStep, bins)
		col := bin(rec.Point.Lng, bounds.MinLng, lngStep, bins)
		counts[row*bins+col]++
	}

	grid := Grid{
		Bins:   bins,
		Bounds: bounds,
		Cells:  make([]GridCell, 0, len(counts)),
	}

	for key, count := range counts {
		row, col := key/bins, key%bins

		cellBounds := spatial.Bounds{
			MinLat: bounds.MinLat + float64(row)*latStep,
			MaxLat: bounds.MinLat + float64(row+1)*latStep,
			MinLng: bounds.MinLng + float64(col)*lngStep,
			MaxLng: bounds.MinLng + float64(col+1)*lngStep,
		}

		grid.Cells = append(grid.Cells, GridCell{
			Row:    row,
			Col:    col,
			Bounds: cellBounds,
			Center: cellBounds.Center(),
			Count:  count,
		})

		if count > grid.MaxCount {
			grid.MaxCount = count
		}
	}

	sort.Slice(grid.Cells, func(i, j int) bool {
		if grid.Cells[i].Row != grid.Cells[j].Row {
			return grid.Cells[i].Row < grid.Cells[j].Row
		}

		return grid.Cells[i].Col < grid.Cells[j].Col
	})

	return grid, nil
}

// bin maps a coordinate to its bin index. Values on the upper edge of the
// box fall into the last bin; a degenerate box collapses into bin 0.
func bin(v, minV, step float64, bins int) int {
	if step == 0 {
		return 0
	}

	idx := int((v - minV) / step)
	if idx >= bins {
		idx = bins - 1
	}

	if idx < 0 {
		idx = 0
	}

	return idx
}

// CellCount is the number of records falling in one H3 cell.
type CellCount struct {
	Cell  string `json:"cell"`
	Count int    `json:"count"`
}

// CellCounts aggregates the dataset into H3 cells at the given resolution
// (0 coarsest, 15 finest). Results are sorted by descending count, then by
// cell id.
func CellCounts(ds survey.Dataset, res int) ([]CellCount, error) {
	if res < 0 || res > 15 {
		return nil, fmt.Errorf("h3 resolution must be between 0 and 15, got %d", res)
	}

	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}

	counts := make(map[h3.Cell]int)

	for _, rec := range ds {
		latLng := h3.NewLatLng(rec.Point.Lat, rec.Point.Lng)

		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return nil, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
		}

		counts[cell]++
	}

	out := make([]CellCount, 0, len(counts))
	for cell, count := range counts {
		out = append(out, CellCount{Cell: cell.String(), Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Cell < out[j].Cell
	})

	return out, nil
}
