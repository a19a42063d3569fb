// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// RecordError representa errores de validación de registros del relevamiento.
type RecordError struct {
	Kind  ErrorKind
	Line  int    // 1-based file line, 0 when the error is not row-bound
	Field string // column name in the survey sheet
	Value string
	Err   error
}

// ErrorKind define tipos de errores de validación.
type ErrorKind int

const (
	// ErrorKindUnknown error desconocido.
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindMissingColumn falta una columna requerida.
	ErrorKindMissingColumn
	// ErrorKindBadCoordinate coordenada no numérica.
	ErrorKindBadCoordinate
	// ErrorKindCoordinateRange coordenada fuera de rango.
	ErrorKindCoordinateRange
)

func (e *RecordError) Error() string {
	var sb strings.Builder

	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}

	switch e.Kind {
	case ErrorKindMissingColumn:
		fmt.Fprintf(&sb, "missing required column %q", e.Field)
	case ErrorKindBadCoordinate:
		fmt.Fprintf(&sb, "column %q: invalid %s %q", e.Field, coordinateName(e.Field), e.Value)
	case ErrorKindCoordinateRange:
		fmt.Fprintf(&sb, "column %q: %s %s out of range", e.Field, coordinateName(e.Field), e.Value)
	default:
		sb.WriteString("invalid record")
	}

	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}

	return sb.String()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func coordinateName(field string) string {
	switch field {
	case colLatitude:
		return "latitude"
	case colLongitude:
		return "longitude"
	default:
		return "value"
	}
}

// IsMissingColumnError verifica si el error es por una columna faltante.
func IsMissingColumnError(err error) bool {
	var recErr *RecordError
	if errors.As(err, &recErr) {
		return recErr.Kind == ErrorKindMissingColumn
	}

	return false
}

// IsBadCoordinateError verifica si el error es por una coordenada inválida,
// sea no numérica o fuera de rango.
func IsBadCoordinateError(err error) bool {
	var recErr *RecordError
	if errors.As(err, &recErr) {
		return recErr.Kind == ErrorKindBadCoordinate ||
			recErr.Kind == ErrorKindCoordinateRange
	}

	return false
}

// IsMalformedRowError verifica si el error viene de una fila CSV rota a
// nivel estructural (cantidad de campos, comillas sin cerrar).
func IsMalformedRowError(err error) bool {
	var csvErr *csv.ParseError

	return errors.As(err, &csvErr)
}
