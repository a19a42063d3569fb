// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcodagnone/caladero/spatial"
)

const groundsFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": { "name": "Outer Bank", "zone": "Test Shelf" },
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-81.0, 25.0], [-80.0, 25.0], [-80.0, 26.0], [-81.0, 26.0], [-81.0, 25.0]]]
      }
    },
    {
      "type": "Feature",
      "properties": { "name": "Inner Reef", "zone": "Test Shelf" },
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-80.6, 25.4], [-80.4, 25.4], [-80.4, 25.6], [-80.6, 25.6], [-80.6, 25.4]]]
      }
    },
    {
      "type": "Feature",
      "properties": { "name": "Empty Ring", "zone": "Broken" },
      "geometry": { "type": "Polygon", "coordinates": [] }
    }
  ]
}`

func TestParseGrounds(t *testing.T) {
	idx, err := ParseGrounds([]byte(groundsFixture))
	require.NoError(t, err)

	all := idx.All()
	require.Len(t, all, 2, "features without coordinates are dropped")
	assert.Equal(t, "Inner Reef", all[0].Name)
	assert.Equal(t, "Outer Bank", all[1].Name)

	assert.Equal(t, spatial.Bounds{
		MinLat: 25.0, MaxLat: 26.0, MinLng: -81.0, MaxLng: -80.0,
	}, all[1].Bounds)
}

func TestGroundIndexMatch(t *testing.T) {
	idx, err := ParseGrounds([]byte(groundsFixture))
	require.NoError(t, err)

	tests := []struct {
		name  string
		point spatial.Point
		want  string
	}{
		{"inside nested ground", spatial.Point{Lat: 25.5, Lng: -80.5}, "Inner Reef"},
		{"inside outer only", spatial.Point{Lat: 25.9, Lng: -80.9}, "Outer Bank"},
		{"on outer edge", spatial.Point{Lat: 25.0, Lng: -81.0}, "Outer Bank"},
		{"outside everything", spatial.Point{Lat: 30.0, Lng: -80.5}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Match(tt.point)
			if tt.want == "" {
				assert.Nil(t, got)

				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestParseGroundsInvalidJSON(t *testing.T) {
	_, err := ParseGrounds([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing grounds JSON")
}

func TestLoadGroundsShippedLayer(t *testing.T) {
	idx, err := LoadGrounds("../grounds.json")
	require.NoError(t, err)

	all := idx.All()
	require.Len(t, all, 7)

	biscayne := idx.Match(spatial.Point{Lat: 25.7742, Lng: -80.1937})
	require.NotNil(t, biscayne)
	assert.Equal(t, "Biscayne Bay", biscayne.Name)

	// Alacranes sits inside the larger Campeche box; the smaller ground wins.
	alacranes := idx.Match(spatial.Point{Lat: 22.4, Lng: -89.8})
	require.NotNil(t, alacranes)
	assert.Equal(t, "Arrecife Alacranes", alacranes.Name)

	assert.Nil(t, idx.Match(spatial.Point{Lat: -34.9, Lng: -56.16}))
}

func TestLoadGroundsMissingFile(t *testing.T) {
	_, err := LoadGrounds("does-not-exist.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading grounds file")
}
