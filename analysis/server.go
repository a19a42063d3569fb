// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"errors"
	"html/template"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jcodagnone/caladero/survey"
)

// Server exposes the stored dataset and the analysis operations over a
// local HTTP API, plus a Leaflet map view on /.
type Server struct {
	repo    survey.Repository
	grounds *survey.GroundIndex
}

// NewServer wires a server over the record repository. grounds may be nil
// when no grounds layer is loaded.
func NewServer(repo survey.Repository, grounds *survey.GroundIndex) *Server {
	return &Server{
		repo:    repo,
		grounds: grounds,
	}
}

func (s *Server) Run() error {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.New("").ParseGlob("templates/*.html")))

	r.GET("/", s.mapView)
	r.GET("/api/summary", s.getSummary)
	r.GET("/api/points", s.getPoints)
	r.GET("/api/clusters", s.getClusters)
	r.GET("/api/density", s.getDensity)
	r.GET("/api/cells", s.getCells)
	r.GET("/api/distances", s.getDistances)

	return r.Run("localhost:8080")
}

func (s *Server) mapView(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", nil)
}

// dataset loads the stored records, answering the HTTP error itself when
// loading fails. The bool reports whether the caller may proceed.
func (s *Server) dataset(ctx *gin.Context) (survey.Dataset, bool) {
	ds, err := s.repo.All()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return nil, false
	}

	return ds, true
}

func (s *Server) getSummary(ctx *gin.Context) {
	ds, ok := s.dataset(ctx)
	if !ok {
		return
	}

	summary, err := Summarize(ds)
	if err != nil {
		if errors.Is(err, ErrEmptyDataset) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no survey records loaded"})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// GeoJSON response types, shaped so Leaflet can consume them directly.
type FeatureGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type FeatureProperties struct {
	Comment string `json:"comment"`
	Ground  string `json:"ground,omitempty"`
}

type Feature struct {
	Type       string            `json:"type"`
	Geometry   FeatureGeometry   `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func (s *Server) getPoints(ctx *gin.Context) {
	ds, ok := s.dataset(ctx)
	if !ok {
		return
	}

	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(ds)),
	}

	for _, rec := range ds {
		props := FeatureProperties{Comment: rec.Comment}

		if s.grounds != nil {
			if g := s.grounds.Match(rec.Point); g != nil {
				props.Ground = g.Name
			}
		}

		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: FeatureGeometry{
				Type: "Point",
				// GeoJSON positions are [lng, lat]
				Coordinates: [2]float64{rec.Point.Lng, rec.Point.Lat},
			},
			Properties: props,
		})
	}

	ctx.JSON(http.StatusOK, fc)
}

func (s *Server) getClusters(ctx *gin.Context) {
	radius, err := strconv.ParseFloat(ctx.DefaultQuery("radius", "10"), 64)
	if err != nil || radius < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius parameter"})

		return
	}

	ds, ok := s.dataset(ctx)
	if !ok {
		return
	}

	clusters := ClusterByRadius(ds, radius)

	ctx.JSON(http.StatusOK, SummarizeClusters(clusters, s.grounds))
}

func (s *Server) getDensity(ctx *gin.Context) {
	bins, err := strconv.Atoi(ctx.DefaultQuery("bins", "10"))
	if err != nil || bins < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid bins parameter"})

		return
	}

	ds, ok := s.dataset(ctx)
	if !ok {
		return
	}

	grid, err := DensityGrid(ds, bins)
	if err != nil {
		if errors.Is(err, ErrEmptyDataset) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no survey records loaded"})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, grid)
}

func (s *Server) getCells(ctx *gin.Context) {
	res, err := strconv.Atoi(ctx.DefaultQuery("res", "5"))
	if err != nil || res < 0 || res > 15 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid res parameter"})

		return
	}

	ds, ok := s.dataset(ctx)
	if !ok {
		return
	}

	counts, err := CellCounts(ds, res)
	if err != nil {
		if errors.Is(err, ErrEmptyDataset) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no survey records loaded"})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, counts)
}

func (s *Server) getDistances(ctx *gin.Context) {
	limit := 0

	if l := ctx.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})

			return
		}

		limit = n
	}

	ds, ok := s.dataset(ctx)
	if !ok {
		return
	}

	distances := PairwiseDistances(ds)

	// Longest first, so a truncated response shows the dataset extremes.
	sort.Slice(distances, func(i, j int) bool {
		return distances[i].Kilometers > distances[j].Kilometers
	})

	if limit > 0 && limit < len(distances) {
		distances = distances[:limit]
	}

	ctx.JSON(http.StatusOK, distances)
}
