// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// e.g. `25°46'26.5"N`, with optional spacing between components.
	dmsPattern = regexp.MustCompile(
		`^(\d+(?:\.\d+)?)\s*°\s*(\d+(?:\.\d+)?)\s*'\s*(\d+(?:\.\d+)?)\s*(?:"|'')\s*([NSEWnsew])$`)
	// e.g. `-80.1937`, `27.33 N`, `80.19°W`.
	decimalPattern = regexp.MustCompile(
		`^([+-]?\d+(?:\.\d+)?)\s*°?\s*([NSEWnsew])?$`)
)

// ParseDMS converts a single coordinate in degrees-minutes-seconds notation
// (such as `25°46'26.5"N`) to decimal degrees. Plain decimal degrees, with
// or without a hemisphere suffix, are accepted too. South and west
// hemispheres yield negative values.
func ParseDMS(s string) (float64, error) {
	s = strings.TrimSpace(s)

	if m := dmsPattern.FindStringSubmatch(s); m != nil {
		deg, _ := strconv.ParseFloat(m[1], 64)
		min, _ := strconv.ParseFloat(m[2], 64)
		sec, _ := strconv.ParseFloat(m[3], 64)

		v := deg + min/60 + sec/3600
		if hemisphereSign(m[4]) < 0 {
			v = -v
		}

		return v, nil
	}

	if m := decimalPattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid coordinate %q: %w", s, err)
		}

		if m[2] != "" {
			v = math.Abs(v) * hemisphereSign(m[2])
		}

		return v, nil
	}

	return 0, fmt.Errorf("invalid DMS coordinate %q", s)
}

func hemisphereSign(h string) float64 {
	switch strings.ToUpper(h) {
	case "S", "W":
		return -1
	default:
		return 1
	}
}

// ParsePoint parses a "latitude, longitude" pair where each side may use
// DMS or decimal notation, e.g. `25°46'26.5"N, 80°11'37.4"W`.
func ParsePoint(s string) (Point, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("expected \"latitude, longitude\", got %q", s)
	}

	lat, err := ParseDMS(parts[0])
	if err != nil {
		return Point{}, fmt.Errorf("latitude: %w", err)
	}

	lng, err := ParseDMS(parts[1])
	if err != nil {
		return Point{}, fmt.Errorf("longitude: %w", err)
	}

	p := Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return Point{}, fmt.Errorf("coordinate out of range: %s", p)
	}

	return p, nil
}
