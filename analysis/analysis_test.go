// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcodagnone/caladero/spatial"
	"github.com/jcodagnone/caladero/survey"
)

// lngAtKm returns the longitude km east of the origin along the equator,
// where haversine arithmetic is exact enough to build distances by hand.
func lngAtKm(km float64) float64 {
	return km / spatial.EarthRadiusKm * 180 / math.Pi
}

func equatorRecord(km float64, comment string) survey.Record {
	return survey.Record{
		Point:   spatial.Point{Lat: 0, Lng: lngAtKm(km)},
		Comment: comment,
	}
}

func TestPairwiseDistancesCount(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ds := make(survey.Dataset, 0, n)
			for i := 0; i < n; i++ {
				ds = append(ds, equatorRecord(float64(i)*3, fmt.Sprintf("p%d", i)))
			}

			assert.Len(t, PairwiseDistances(ds), n*(n-1)/2)
		})
	}
}

func TestPairwiseDistancesOrder(t *testing.T) {
	a := survey.Record{Point: spatial.Point{Lat: 25.0, Lng: -80.0}, Comment: "a"}
	b := survey.Record{Point: spatial.Point{Lat: 26.0, Lng: -81.0}, Comment: "b"}
	c := survey.Record{Point: spatial.Point{Lat: 27.0, Lng: -82.0}, Comment: "c"}

	got := PairwiseDistances(survey.Dataset{a, b, c})
	require.Len(t, got, 3)

	assert.Equal(t, a.Point, got[0].A)
	assert.Equal(t, b.Point, got[0].B)
	assert.Equal(t, a.Point, got[1].A)
	assert.Equal(t, c.Point, got[1].B)
	assert.Equal(t, b.Point, got[2].A)
	assert.Equal(t, c.Point, got[2].B)
}

func TestPairwiseDistancesKnownValues(t *testing.T) {
	ds := survey.Dataset{
		{Point: spatial.Point{Lat: 25.0, Lng: -80.0}},
		{Point: spatial.Point{Lat: 27.0, Lng: -82.0}},
	}

	got := PairwiseDistances(ds)
	require.Len(t, got, 1)
	assert.InDelta(t, 300.0, got[0].Kilometers, 5.0)
	assert.Equal(t, ds[0].Point.DistanceKm(ds[1].Point), got[0].Kilometers)
}

func TestClusterByRadiusSeedRule(t *testing.T) {
	// p1 is within radius of both p0 and p2, but p2 is too far from the
	// seed p0, so p2 starts its own cluster.
	ds := survey.Dataset{
		equatorRecord(0, "p0"),
		equatorRecord(8, "p1"),
		equatorRecord(12, "p2"),
	}

	require.LessOrEqual(t, ds[1].Point.DistanceKm(ds[2].Point), 10.0)

	clusters := ClusterByRadius(ds, 10)
	require.Len(t, clusters, 2)

	require.Len(t, clusters[0], 2)
	assert.Equal(t, "p0", clusters[0][0].Comment)
	assert.Equal(t, "p1", clusters[0][1].Comment)

	require.Len(t, clusters[1], 1)
	assert.Equal(t, "p2", clusters[1][0].Comment)
}

func TestClusterByRadiusIsOrderDependent(t *testing.T) {
	// The same three points as above, seeded from the middle one, collapse
	// into a single cluster.
	ds := survey.Dataset{
		equatorRecord(8, "p1"),
		equatorRecord(0, "p0"),
		equatorRecord(12, "p2"),
	}

	clusters := ClusterByRadius(ds, 10)
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0], 3)
	assert.Equal(t, "p1", clusters[0][0].Comment, "seed comes first")
}

func TestClusterByRadiusPartition(t *testing.T) {
	ds := survey.Dataset{
		{Point: spatial.Point{Lat: 25.7742, Lng: -80.1937}, Comment: "a"},
		{Point: spatial.Point{Lat: 27.3364, Lng: -82.5307}, Comment: "b"},
		{Point: spatial.Point{Lat: 25.7742, Lng: -80.1937}, Comment: "duplicate of a"},
		{Point: spatial.Point{Lat: 24.5551, Lng: -81.78}, Comment: "c"},
		{Point: spatial.Point{Lat: 27.35, Lng: -82.54}, Comment: "near b"},
	}

	for _, radius := range []float64{0, 5, 50, 1000} {
		t.Run(fmt.Sprintf("radius=%v", radius), func(t *testing.T) {
			clusters := ClusterByRadius(ds, radius)

			seen := make(map[survey.Record]int)
			total := 0

			for _, cluster := range clusters {
				require.NotEmpty(t, cluster)

				total += len(cluster)
				for _, rec := range cluster {
					seen[rec]++
				}
			}

			assert.Equal(t, len(ds), total)

			for _, rec := range ds {
				assert.Equal(t, 1, seen[rec], "record %q must appear exactly once", rec.Comment)
			}
		})
	}
}

func TestClusterByRadiusZero(t *testing.T) {
	ds := survey.Dataset{
		{Point: spatial.Point{Lat: 25.0, Lng: -80.0}, Comment: "first"},
		{Point: spatial.Point{Lat: 25.0, Lng: -80.0}, Comment: "same place"},
		{Point: spatial.Point{Lat: 25.0001, Lng: -80.0}, Comment: "a few meters off"},
	}

	clusters := ClusterByRadius(ds, 0)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0], 2, "identical coordinates share a cluster")
	assert.Len(t, clusters[1], 1)
}

func TestClusterByRadiusEmpty(t *testing.T) {
	assert.Empty(t, ClusterByRadius(survey.Dataset{}, 10))
}

func TestSummarize(t *testing.T) {
	ds := survey.Dataset{
		{Point: spatial.Point{Lat: 25.0, Lng: -80.0}, Comment: "a"},
		{Point: spatial.Point{Lat: 27.0, Lng: -82.0}, Comment: "b"},
	}

	got, err := Summarize(ds)
	require.NoError(t, err)

	assert.Equal(t, Summary{
		Count:  2,
		AvgLat: 26.0,
		AvgLng: -81.0,
		Bounds: spatial.Bounds{MinLat: 25.0, MaxLat: 27.0, MinLng: -82.0, MaxLng: -80.0},
	}, got)
}

func TestSummarizeSingleRecord(t *testing.T) {
	p := spatial.Point{Lat: 25.7742, Lng: -80.1937}

	got, err := Summarize(survey.Dataset{{Point: p, Comment: "solo"}})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Count)
	assert.Equal(t, p.Lat, got.AvgLat)
	assert.Equal(t, p.Lng, got.AvgLng)
	assert.Equal(t, spatial.BoundsAround(p), got.Bounds)
}

func TestSummarizeEmptyDataset(t *testing.T) {
	_, err := Summarize(survey.Dataset{})
	require.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Summarize(nil)
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestSummarizeClusters(t *testing.T) {
	clusters := ClusterByRadius(survey.Dataset{
		equatorRecord(0, "p0"),
		equatorRecord(8, "p1"),
		equatorRecord(12, "p2"),
	}, 10)

	got := SummarizeClusters(clusters, nil)
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].Size)
	assert.Equal(t, spatial.Point{Lat: 0, Lng: 0}, got[0].Seed)
	assert.InDelta(t, lngAtKm(4), got[0].Centroid.Lng, 1e-9)
	assert.InDelta(t, 8.0, got[0].SpreadKm, 1e-6)
	assert.Empty(t, got[0].Ground)

	assert.Equal(t, 1, got[1].Size)
	assert.Zero(t, got[1].SpreadKm)
}

func TestSummarizeClustersMatchesGrounds(t *testing.T) {
	idx, err := survey.ParseGrounds([]byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": { "name": "Biscayne Bay", "zone": "Southeast Florida" },
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[-80.45, 25.3], [-80.08, 25.3], [-80.08, 25.95], [-80.45, 25.95], [-80.45, 25.3]]]
			}
		}]
	}`))
	require.NoError(t, err)

	clusters := ClusterByRadius(survey.Dataset{
		{Point: spatial.Point{Lat: 25.7742, Lng: -80.1937}, Comment: "in the bay"},
		{Point: spatial.Point{Lat: 27.3364, Lng: -82.5307}, Comment: "elsewhere"},
	}, 10)

	got := SummarizeClusters(clusters, idx)
	require.Len(t, got, 2)
	assert.Equal(t, "Biscayne Bay", got[0].Ground)
	assert.Empty(t, got[1].Ground)
}
