// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

// Package analysis implements the distance, clustering and summary
// operations over survey datasets.
package analysis

import (
	"errors"

	"github.com/jcodagnone/caladero/spatial"
	"github.com/jcodagnone/caladero/survey"
)

// ErrEmptyDataset is returned by aggregations that need at least one record.
var ErrEmptyDataset = errors.New("empty dataset")

// DistanceRecord holds the great-circle distance for one unordered pair of
// surveyed points.
type DistanceRecord struct {
	A          spatial.Point `json:"point_a"`
	B          spatial.Point `json:"point_b"`
	Kilometers float64       `json:"distance_km"`
}

// PairwiseDistances computes the distance between every unordered pair of
// records. Pairs are emitted in (i, j) order with i < j, so a dataset of n
// records yields exactly n*(n-1)/2 entries.
func PairwiseDistances(ds survey.Dataset) []DistanceRecord {
	out := make([]DistanceRecord, 0, len(ds)*(len(ds)-1)/2)

	for i := 0; i < len(ds); i++ {
		for j := i + 1; j < len(ds); j++ {
			out = append(out, DistanceRecord{
				A:          ds[i].Point,
				B:          ds[j].Point,
				Kilometers: ds[i].Point.DistanceKm(ds[j].Point),
			})
		}
	}

	return out
}

// Cluster is a group of records gathered around a seed record. The seed is
// always the first element.
type Cluster []survey.Record

// ClusterByRadius partitions the dataset with a single greedy pass in
// dataset order: each unvisited record seeds a new cluster and collects
// every remaining unvisited record within radiusKm of that seed.
// Membership is measured against the seed alone, never between members, so
// two records within radiusKm of each other can still land in different
// clusters depending on dataset order. Callers that persist cluster counts
// rely on this rule staying as is.
func ClusterByRadius(ds survey.Dataset, radiusKm float64) []Cluster {
	clusters := make([]Cluster, 0, len(ds))

	visited := make([]bool, len(ds))

	for i, seed := range ds {
		if visited[i] {
			continue
		}

		cluster := Cluster{seed}
		visited[i] = true

		for j, candidate := range ds {
			if visited[j] {
				continue
			}

			if seed.Point.DistanceKm(candidate.Point) <= radiusKm {
				cluster = append(cluster, candidate)
				visited[j] = true
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}

// Summary aggregates a dataset: record count, arithmetic mean of each
// coordinate, and the bounding box of all points.
type Summary struct {
	Count  int            `json:"total_points"`
	AvgLat float64        `json:"average_latitude"`
	AvgLng float64        `json:"average_longitude"`
	Bounds spatial.Bounds `json:"bounding_box"`
}

// Summarize computes the dataset summary. An empty dataset fails with
// ErrEmptyDataset instead of yielding NaN aggregates.
func Summarize(ds survey.Dataset) (Summary, error) {
	if len(ds) == 0 {
		return Summary{}, ErrEmptyDataset
	}

	var sumLat, sumLng float64

	bounds := spatial.BoundsAround(ds[0].Point)

	for _, rec := range ds {
		sumLat += rec.Point.Lat
		sumLng += rec.Point.Lng
		bounds = bounds.Extend(rec.Point)
	}

	n := float64(len(ds))

	return Summary{
		Count:  len(ds),
		AvgLat: sumLat / n,
		AvgLng: sumLng / n,
		Bounds: bounds,
	}, nil
}

// ClusterSummary describes one cluster for presentation: its size, seed,
// centroid, how far members stray from the seed, and the matched fishing
// ground when one is known.
type ClusterSummary struct {
	Size     int           `json:"size"`
	Seed     spatial.Point `json:"seed"`
	Centroid spatial.Point `json:"centroid"`
	SpreadKm float64       `json:"spread_km"`
	Ground   string        `json:"ground,omitempty"`
	Records  Cluster       `json:"records"`
}

// SummarizeClusters derives presentation rows from clusters, in cluster
// order. When grounds is non-nil each centroid is matched against the
// known fishing grounds.
func SummarizeClusters(clusters []Cluster, grounds *survey.GroundIndex) []ClusterSummary {
	out := make([]ClusterSummary, 0, len(clusters))

	for _, cluster := range clusters {
		if len(cluster) == 0 {
			continue
		}

		seed := cluster[0].Point

		var sumLat, sumLng, spread float64

		for _, rec := range cluster {
			sumLat += rec.Point.Lat
			sumLng += rec.Point.Lng

			if d := seed.DistanceKm(rec.Point); d > spread {
				spread = d
			}
		}

		n := float64(len(cluster))
		cs := ClusterSummary{
			Size:     len(cluster),
			Seed:     seed,
			Centroid: spatial.Point{Lat: sumLat / n, Lng: sumLng / n},
			SpreadKm: spread,
			Records:  cluster,
		}

		if grounds != nil {
			if g := grounds.Match(cs.Centroid); g != nil {
				cs.Ground = g.Name
			}
		}

		out = append(out, cs)
	}

	return out
}
