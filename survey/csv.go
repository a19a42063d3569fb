// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jcodagnone/caladero/spatial"
)

// Survey sheets name their columns after the field notebook convention:
// x holds the latitude and y the longitude.
const (
	colLatitude  = "x"
	colLongitude = "y"
	colComment   = "comment"
)

// LoadOptions controls how strictly a load treats malformed rows.
type LoadOptions struct {
	// SkipInvalid drops rows with malformed coordinates instead of
	// failing the whole load.
	SkipInvalid bool
}

// LoadCSV reads a survey sheet from path. Any malformed row aborts the load
// with an error naming the line and column.
func LoadCSV(path string) (Dataset, error) {
	ds, _, err := LoadCSVWith(path, LoadOptions{})

	return ds, err
}

// LoadCSVWith reads a survey sheet from path honoring opts, returning the
// dataset and the number of rows that were skipped.
func LoadCSVWith(path string, opts LoadOptions) (Dataset, int, error) {
	f, err := os.Open(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return nil, 0, fmt.Errorf("opening survey sheet: %w", err)
	}
	defer f.Close()

	ds, skipped, err := ReadCSV(f, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	return ds, skipped, nil
}

// ReadCSV decodes survey rows from r. The first row must be a header
// declaring the x, y and comment columns; column order is free and unknown
// columns are ignored.
func ReadCSV(r io.Reader, opts LoadOptions) (Dataset, int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{colLatitude, colLongitude, colComment} {
		if _, ok := idx[required]; !ok {
			return nil, 0, &RecordError{Kind: ErrorKindMissingColumn, Field: required}
		}
	}

	var ds Dataset

	skipped := 0

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err == nil {
			var rec Record

			rec, err = parseRow(row, idx, line)
			if err == nil {
				ds = append(ds, rec)

				continue
			}
		}

		if !opts.SkipInvalid {
			return nil, 0, err
		}

		skipped++
	}

	return ds, skipped, nil
}

func parseRow(row []string, idx map[string]int, line int) (Record, error) {
	latStr := strings.TrimSpace(row[idx[colLatitude]])

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Record{}, &RecordError{
			Kind: ErrorKindBadCoordinate, Line: line,
			Field: colLatitude, Value: latStr, Err: errors.Unwrap(err),
		}
	}

	lngStr := strings.TrimSpace(row[idx[colLongitude]])

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Record{}, &RecordError{
			Kind: ErrorKindBadCoordinate, Line: line,
			Field: colLongitude, Value: lngStr, Err: errors.Unwrap(err),
		}
	}

	// The negated comparisons also reject NaN.
	if !(lat >= -90 && lat <= 90) {
		return Record{}, &RecordError{
			Kind: ErrorKindCoordinateRange, Line: line,
			Field: colLatitude, Value: latStr,
		}
	}

	if !(lng >= -180 && lng <= 180) {
		return Record{}, &RecordError{
			Kind: ErrorKindCoordinateRange, Line: line,
			Field: colLongitude, Value: lngStr,
		}
	}

	return Record{
		Point:   spatial.Point{Lat: lat, Lng: lng},
		Comment: row[idx[colComment]],
	}, nil
}

// WriteCSV encodes the dataset to w using the survey sheet layout.
func WriteCSV(w io.Writer, ds Dataset) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{colLatitude, colLongitude, colComment}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range ds {
		row := []string{
			strconv.FormatFloat(rec.Point.Lat, 'f', -1, 64),
			strconv.FormatFloat(rec.Point.Lng, 'f', -1, 64),
			rec.Comment,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// SaveCSV writes the dataset to path, truncating any existing file.
func SaveCSV(path string, ds Dataset) error {
	f, err := os.Create(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := WriteCSV(f, ds); err != nil {
		f.Close()

		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}
