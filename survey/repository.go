// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"database/sql"
)

// Repository handles persistence of survey records.
type Repository interface {
	// CreateSchema creates the records table
	CreateSchema() error

	// BulkInsert appends a dataset, preserving its order
	BulkInsert(ds Dataset) error

	// All returns every stored record in insertion order
	All() (Dataset, error)

	// Count returns the total number of stored records
	Count() (int, error)

	// Clear removes every stored record
	Clear() error

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlRecordRepository struct {
	db *sql.DB
}

// NewRepository creates a DuckDB backed record repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRecordRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlRecordRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlRecordRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS records_seq START 1;

		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY DEFAULT nextval('records_seq'),
			point POINT_2D NOT NULL,
			comment VARCHAR NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	return err
}

func (r *sqlRecordRepository) BulkInsert(ds Dataset) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records(point, comment)
		VALUES (ST_Point(?, ?), ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	for _, rec := range ds {
		if _, err = stmt.Exec(rec.Point.Lng, rec.Point.Lat, rec.Comment); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	return tx.Commit()
}

// All returns the stored dataset ordered by insertion id, so pair
// enumeration and cluster seeding see the same order the sheets were
// loaded in.
func (r *sqlRecordRepository) All() (Dataset, error) {
	rows, err := r.db.Query(`SELECT point, comment FROM records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ds Dataset

	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Point, &rec.Comment); err != nil {
			return nil, err
		}

		ds = append(ds, rec)
	}

	return ds, rows.Err()
}

func (r *sqlRecordRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM records",
	).Scan(&count)

	return count, err
}

func (r *sqlRecordRepository) Clear() error {
	_, err := r.db.Exec("DELETE FROM records")

	return err
}
