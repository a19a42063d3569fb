// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jcodagnone/caladero/spatial"
)

// isTerminal tells whether f is interactive; if stat fails we say it isn't.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugCoordsCmd = &cobra.Command{
	Use:   "coords",
	Short: "Convierte coordenadas GMS o decimales a grados decimales",
	Long: `Lee una coordenada por línea (par "latitud, longitud" en grados, minutos
y segundos, o en grados decimales) e imprime en stdout la coordenada
seguida del par decimal.

$ echo '25°46'\''26.5"N, 80°11'\''37.4"W' | caladero debug coords
25°46'26.5"N, 80°11'37.4"W		25.774028 -80.193722
	`,
	Run: func(_ *cobra.Command, _ []string) {
		input := os.Stdin
		if isTerminal(input) {
			fmt.Fprintln(os.Stderr, "Ingrese coordenadas a convertir, una por línea…")
		}
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			line := scanner.Text()
			point, err := spatial.ParsePoint(line)
			if err != nil {
				fmt.Printf("%s\t%q\n", line, err)
			} else {
				fmt.Printf("%s\t\t%.6f %.6f\n", line, point.Lat, point.Lng)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugCoordsCmd)
}
