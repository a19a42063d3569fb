// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// databaseFile is the DuckDB file kept under --db-path.
const databaseFile = "caladero.duckdb"

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var (
	dbPath      string
	groundsPath string
)

var rootCmd = &cobra.Command{
	Use:   "caladero",
	Short: "relevamiento y análisis de puntos de pesca",
	Long: `
caladero administra planillas de relevamiento GPS de zonas de pesca:
carga y valida las planillas CSV, almacena los puntos relevados y
calcula distancias, agrupamientos y resúmenes sobre ellos.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"db-path",
		"db",
		"Directorio base donde almacenar el estado",
	)
	rootCmd.PersistentFlags().StringVar(
		&groundsPath,
		"grounds",
		"grounds.json",
		"Archivo GeoJSON con los caladeros conocidos",
	)
}
