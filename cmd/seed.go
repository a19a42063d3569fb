// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/jcodagnone/caladero/survey"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seeds the database with data from cmd/testdata/seed.csv",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := os.MkdirAll(dbPath, 0o750); err != nil {
				return fmt.Errorf("creating db directory: %w", err)
			}
			dbpath := filepath.Join(dbPath, databaseFile)

			return seedDatabase(dbpath)
		},
	}
}

func init() {
	rootCmd.AddCommand(newSeedCmd())
}

func seedDatabase(dbpath string) error {
	// remove old db if it exists
	_ = os.Remove(dbpath)
	_ = os.Remove(dbpath + ".wal")

	db, err := sql.Open("duckdb", dbpath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := survey.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	ds, err := survey.LoadCSV("cmd/testdata/seed.csv")
	if err != nil {
		return fmt.Errorf("failed to load seed sheet: %w", err)
	}

	if err := repo.BulkInsert(ds); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	fmt.Printf("Database seeded with %d survey points.\n", len(ds))

	return nil
}
