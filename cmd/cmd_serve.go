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

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/jcodagnone/caladero/analysis"
	"github.com/jcodagnone/caladero/survey"
)

// loadGroundsOptional loads the grounds layer named by --grounds, or nil
// when the file does not exist. A broken file is only logged; map and
// cluster views simply lose the ground names.
func loadGroundsOptional() *survey.GroundIndex {
	if _, err := os.Stat(groundsPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("Grounds layer %s not found, continuing without it", groundsPath)

		return nil
	}

	idx, err := survey.LoadGrounds(groundsPath)
	if err != nil {
		log.Printf("Loading grounds layer: %v", err)

		return nil
	}

	return idx
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sirve el mapa interactivo del relevamiento (solo local)",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
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
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		server := analysis.NewServer(repo, loadGroundsOptional())

		fmt.Println("🗺️  Survey map server starting...")
		fmt.Println("📍 Open http://localhost:8080 in your browser")
		fmt.Println("🔒 Local only - not exposed to internet")

		return server.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
