// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/jcodagnone/caladero/spatial"
)

// Ground represents a named fishing ground from the grounds GIS layer.
type Ground struct {
	Name   string         `json:"name"`
	Zone   string         `json:"zone"`
	Bounds spatial.Bounds `json:"bounds"`
}

// GroundIndex provides point lookups over the known fishing grounds.
type GroundIndex struct {
	grounds []*Ground
}

// LoadGrounds loads the named-grounds GIS layer from a GeoJSON file.
func LoadGrounds(path string) (*GroundIndex, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("reading grounds file: %w", err)
	}

	return ParseGrounds(data)
}

// ParseGrounds decodes a GeoJSON FeatureCollection of polygonal grounds.
// Each ground keeps the bounding box of its outer ring; matching is done
// against the box, not the polygon itself.
func ParseGrounds(data []byte) (*GroundIndex, error) {
	var geoJSON struct {
		Features []struct {
			Geometry struct {
				Type        string        `json:"type"`
				Coordinates [][][]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties struct {
				Name string `json:"name"`
				Zone string `json:"zone"`
			} `json:"properties"`
		} `json:"features"`
	}

	if err := json.Unmarshal(data, &geoJSON); err != nil {
		return nil, fmt.Errorf("parsing grounds JSON: %w", err)
	}

	index := &GroundIndex{}

	for _, feature := range geoJSON.Features {
		if len(feature.Geometry.Coordinates) == 0 {
			continue
		}

		// GeoJSON rings are [lng, lat] pairs.
		ring := feature.Geometry.Coordinates[0]

		var bounds spatial.Bounds

		first := true

		for _, coord := range ring {
			if len(coord) < 2 {
				continue
			}

			p := spatial.Point{Lat: coord[1], Lng: coord[0]}
			if first {
				bounds = spatial.BoundsAround(p)
				first = false
			} else {
				bounds = bounds.Extend(p)
			}
		}

		if first {
			continue
		}

		index.grounds = append(index.grounds, &Ground{
			Name:   feature.Properties.Name,
			Zone:   feature.Properties.Zone,
			Bounds: bounds,
		})
	}

	return index, nil
}

// Match returns the ground containing p, or nil when no ground does.
// When grounds overlap, the smallest box wins.
func (idx *GroundIndex) Match(p spatial.Point) *Ground {
	var (
		best     *Ground
		bestArea float64
	)

	for _, g := range idx.grounds {
		if !g.Bounds.Contains(p) {
			continue
		}

		area := (g.Bounds.MaxLat - g.Bounds.MinLat) * (g.Bounds.MaxLng - g.Bounds.MinLng)
		if best == nil || area < bestArea {
			best = g
			bestArea = area
		}
	}

	return best
}

// All returns the known grounds sorted by name.
func (idx *GroundIndex) All() []*Ground {
	out := make([]*Ground, len(idx.grounds))
	copy(out, idx.grounds)

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}
