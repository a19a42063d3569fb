// Copyright 2025 The Caladero Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/jcodagnone/caladero/analysis"
	"github.com/jcodagnone/caladero/survey"
	"github.com/jcodagnone/caladero/utils/textutils"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Análisis del relevamiento almacenado",
}

var (
	analyzeCSV     string
	distancesTop   int
	clustersRadius float64
	densityBins    int
	densityRes     int
)

// analysisDataset resolves the dataset the analyze commands operate on: a
// CSV sheet when --csv is given, the stored records otherwise.
func analysisDataset() (survey.Dataset, error) {
	if analyzeCSV != "" {
		return survey.LoadCSV(analyzeCSV)
	}

	dbpath := filepath.Join(dbPath, databaseFile)
	if _, err := os.Stat(dbpath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("database not found at %s - run 'survey load' or 'seed' first", dbpath)
	}

	db, err := sql.Open("duckdb", dbpath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ds, err := survey.NewRepository(db).All()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	return ds, nil
}

// friendlyEmpty rewraps the empty dataset sentinel with a hint about how
// to load data.
func friendlyEmpty(err error) error {
	if errors.Is(err, analysis.ErrEmptyDataset) {
		return errors.New("no survey records loaded - run 'survey load' or 'seed' first")
	}

	return err
}

var analyzeSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Resumen del relevamiento: total, promedios y área",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ds, err := analysisDataset()
		if err != nil {
			return err
		}

		s, err := analysis.Summarize(ds)
		if err != nil {
			return friendlyEmpty(err)
		}

		fmt.Printf("Puntos relevados:  %s\n", textutils.FormatInt(int64(s.Count)))
		fmt.Printf("Latitud media:     %.6f\n", s.AvgLat)
		fmt.Printf("Longitud media:    %.6f\n", s.AvgLng)
		fmt.Printf("Área:              lat %.4f..%.4f, lng %.4f..%.4f\n",
			s.Bounds.MinLat, s.Bounds.MaxLat, s.Bounds.MinLng, s.Bounds.MaxLng)

		return nil
	},
}

var analyzeDistancesCmd = &cobra.Command{
	Use:   "distances",
	Short: "Distancias entre pares de puntos, las mayores primero",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ds, err := analysisDataset()
		if err != nil {
			return err
		}

		if len(ds) < 2 {
			return errors.New("need at least two records to compute distances")
		}

		distances := analysis.PairwiseDistances(ds)

		sort.Slice(distances, func(i, j int) bool {
			return distances[i].Kilometers > distances[j].Kilometers
		})

		top := distancesTop
		if top <= 0 || top > len(distances) {
			top = len(distances)
		}

		fmt.Printf("%s pares, mostrando %d:\n",
			textutils.FormatInt(int64(len(distances))), top)

		for _, d := range distances[:top] {
			fmt.Printf("%9.3f km  (%9.4f, %9.4f) → (%9.4f, %9.4f)  rumbo %5.1f°\n",
				d.Kilometers, d.A.Lat, d.A.Lng, d.B.Lat, d.B.Lng, d.A.BearingTo(d.B))
		}

		return nil
	},
}

var analyzeClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Agrupa los puntos alrededor de semillas dentro de un radio",
	Long: `
Recorre los puntos en el orden de carga: cada punto no visitado inicia un
grupo y captura los puntos restantes dentro del radio, medido siempre
contra la semilla.
`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if clustersRadius < 0 {
			return fmt.Errorf("radius must be non-negative, got %v", clustersRadius)
		}

		ds, err := analysisDataset()
		if err != nil {
			return err
		}

		if len(ds) == 0 {
			return friendlyEmpty(analysis.ErrEmptyDataset)
		}

		clusters := analysis.ClusterByRadius(ds, clustersRadius)
		summaries := analysis.SummarizeClusters(clusters, loadGroundsOptional())

		fmt.Printf("%d grupos con radio %.1f km:\n", len(summaries), clustersRadius)

		for i, cs := range summaries {
			line := fmt.Sprintf("  #%-3d %4d punto(s)  centro (%9.4f, %9.4f)  dispersión %6.2f km",
				i+1, cs.Size, cs.Centroid.Lat, cs.Centroid.Lng, cs.SpreadKm)
			if cs.Ground != "" {
				line += "  [" + cs.Ground + "]"
			}

			fmt.Println(line)
		}

		return nil
	},
}

var analyzeDensityCmd = &cobra.Command{
	Use:   "density",
	Short: "Densidad de puntos por celda, en grilla o en celdas H3",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ds, err := analysisDataset()
		if err != nil {
			return err
		}

		if densityRes >= 0 {
			counts, err := analysis.CellCounts(ds, densityRes)
			if err != nil {
				return friendlyEmpty(err)
			}

			fmt.Printf("%d celdas H3 con resolución %d:\n", len(counts), densityRes)

			for _, c := range counts {
				fmt.Printf("  %s  %4d punto(s)\n", c.Cell, c.Count)
			}

			return nil
		}

		grid, err := analysis.DensityGrid(ds, densityBins)
		if err != nil {
			return friendlyEmpty(err)
		}

		fmt.Printf("Grilla %dx%d sobre lat %.4f..%.4f, lng %.4f..%.4f (máximo %d):\n",
			grid.Bins, grid.Bins,
			grid.Bounds.MinLat, grid.Bounds.MaxLat,
			grid.Bounds.MinLng, grid.Bounds.MaxLng,
			grid.MaxCount)

		for _, cell := range grid.Cells {
			fmt.Printf("  fila %2d col %2d  %4d punto(s)  centro (%9.4f, %9.4f)\n",
				cell.Row, cell.Col, cell.Count, cell.Center.Lat, cell.Center.Lng)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeSummaryCmd)
	analyzeCmd.AddCommand(analyzeDistancesCmd)
	analyzeCmd.AddCommand(analyzeClustersCmd)
	analyzeCmd.AddCommand(analyzeDensityCmd)

	analyzeCmd.PersistentFlags().StringVar(
		&analyzeCSV,
		"csv",
		"",
		"Analiza una planilla CSV directamente, sin usar la base de datos",
	)
	analyzeDistancesCmd.Flags().IntVar(
		&distancesTop,
		"top",
		10,
		"Cantidad de pares a mostrar (0 para todos)",
	)
	analyzeClustersCmd.Flags().Float64Var(
		&clustersRadius,
		"radius",
		0,
		"Radio de agrupamiento en kilómetros",
	)
	analyzeDensityCmd.Flags().IntVar(
		&densityBins,
		"bins",
		10,
		"Cantidad de divisiones por lado de la grilla",
	)
	analyzeDensityCmd.Flags().IntVar(
		&densityRes,
		"res",
		-1,
		"Resolución H3 (0 a 15); reemplaza a la grilla",
	)

	_ = analyzeClustersCmd.MarkFlagRequired("radius")
}
