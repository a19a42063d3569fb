// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jcodagnone/caladero/survey"
	"github.com/jcodagnone/caladero/utils/textutils"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Gestión de las planillas de relevamiento",
}

var (
	loadSkipInvalid bool
	loadDedupe      bool
	loadStandardize bool
	loadDryRun      bool
	exportKeyword   string
)

var surveyLoadCmd = &cobra.Command{
	Use:   "load <planilla.csv...>",
	Short: "Carga planillas CSV de relevamiento en la base de datos",
	Long: `
Valida cada planilla (columnas x, y, comment) y almacena los puntos en la
base DuckDB local. Las filas inválidas abortan la carga, salvo que se use
--skip-invalid.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var ds survey.Dataset

		for _, path := range args {
			sheet, skipped, err := survey.LoadCSVWith(path, survey.LoadOptions{
				SkipInvalid: loadSkipInvalid,
			})
			if err != nil {
				return err
			}

			if skipped > 0 {
				log.Printf("Loaded %s records from %s (%d invalid rows skipped)",
					textutils.FormatInt(int64(len(sheet))), path, skipped)
			} else {
				log.Printf("Loaded %s records from %s",
					textutils.FormatInt(int64(len(sheet))), path)
			}

			ds = append(ds, sheet...)
		}

		if loadDedupe {
			before := len(ds)
			ds = ds.Dedupe()

			if dropped := before - len(ds); dropped > 0 {
				log.Printf("Dropped %d records with duplicate coordinates", dropped)
			}
		}

		if loadStandardize {
			ds = ds.StandardizeComments()
		}

		if loadDryRun {
			log.Printf("Dry run - %s records validated, nothing persisted",
				textutils.FormatInt(int64(len(ds))))

			return nil
		}

		if err := os.MkdirAll(dbPath, 0o750); err != nil {
			return fmt.Errorf("creating db directory: %w", err)
		}

		dbpath := filepath.Join(dbPath, databaseFile)

		db, err := sql.Open("duckdb", dbpath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		repo := survey.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(ds),
				progressbar.OptionSetDescription("Guardando puntos"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		const batchSize = 500

		for start := 0; start < len(ds); start += batchSize {
			end := start + batchSize
			if end > len(ds) {
				end = len(ds)
			}

			if err := repo.BulkInsert(ds[start:end]); err != nil {
				return fmt.Errorf("inserting records: %w", err)
			}

			if bar != nil {
				if err := bar.Add(end - start); err != nil {
					log.Printf("updating progress bar: %v", err)
				}
			}
		}

		total, err := repo.Count()
		if err != nil {
			return fmt.Errorf("counting records: %w", err)
		}

		fmt.Printf("✅ Guardados %s puntos (%s en total en %s)\n",
			textutils.FormatInt(int64(len(ds))),
			textutils.FormatInt(int64(total)),
			dbpath)

		return nil
	},
}

var surveyExportCmd = &cobra.Command{
	Use:   "export <salida.csv>",
	Short: "Exporta los puntos almacenados a una planilla CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		dbpath := filepath.Join(dbPath, databaseFile)
		if _, err := os.Stat(dbpath); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database not found at %s - run 'survey load' or 'seed' first", dbpath)
		}

		db, err := sql.Open("duckdb", dbpath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		repo := survey.NewRepository(db)

		ds, err := repo.All()
		if err != nil {
			return fmt.Errorf("loading records: %w", err)
		}

		if exportKeyword != "" {
			ds = ds.Filter(exportKeyword)
		}

		if err := survey.SaveCSV(args[0], ds); err != nil {
			return err
		}

		fmt.Printf("✅ Exportados %s puntos a %s\n",
			textutils.FormatInt(int64(len(ds))), args[0])

		return nil
	},
}

var surveyGroundsCmd = &cobra.Command{
	Use:   "grounds",
	Short: "Lista los caladeros conocidos",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		idx, err := survey.LoadGrounds(groundsPath)
		if err != nil {
			return err
		}

		a, b, c := strings.Repeat("─", 24), strings.Repeat("─", 22), strings.Repeat("─", 30)
		fmt.Println("Caladeros conocidos:")
		fmt.Printf("╭─%24s─┬─%-22s─┬─%-30s╮\n", a, b, c)
		fmt.Printf("│ %-24s │ %-22s │ %-30s│\n", "Nombre", "Zona", "Límites")
		fmt.Printf("├─%24s─┼─%-22s─┼─%-30s┤\n", a, b, c)

		for _, g := range idx.All() {
			bounds := fmt.Sprintf("%.2f..%.2f / %.2f..%.2f",
				g.Bounds.MinLat, g.Bounds.MaxLat, g.Bounds.MinLng, g.Bounds.MaxLng)
			fmt.Printf("│ %-24s │ %-22s │ %-30s│\n", g.Name, g.Zone, bounds)
		}

		fmt.Printf("╰─%24s─┴─%-22s─┴─%-30s╯\n", a, b, c)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(surveyCmd)
	surveyCmd.AddCommand(surveyLoadCmd)
	surveyCmd.AddCommand(surveyExportCmd)
	surveyCmd.AddCommand(surveyGroundsCmd)

	surveyLoadCmd.Flags().BoolVar(
		&loadSkipInvalid,
		"skip-invalid",
		false,
		"Omite las filas inválidas en lugar de abortar la carga",
	)
	surveyLoadCmd.Flags().BoolVar(
		&loadDedupe,
		"dedupe",
		false,
		"Descarta los puntos con coordenadas repetidas, conservando el primero",
	)
	surveyLoadCmd.Flags().BoolVar(
		&loadStandardize,
		"standardize-comments",
		false,
		"Normaliza los comentarios (espacios y capitalización)",
	)
	surveyLoadCmd.Flags().BoolVar(
		&loadDryRun,
		"dry-run",
		false,
		"No persiste ningun cambio",
	)
	surveyExportCmd.Flags().StringVar(
		&exportKeyword,
		"keyword",
		"",
		"Exporta solo los puntos cuyo comentario contiene la palabra",
	)
}
