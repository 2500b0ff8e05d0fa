// SPDX-License-Identifier: MIT

// Package store persists local job history in SQLite and job result
// payloads in Badger. The history is the source for the CLI's job
// listing and the gateway's job endpoints; the platform remains the
// source of truth.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver

	"github.com/qbraid/qbraid-go/internal/runtime"
)

// ErrNotFound indicates no history record exists for the given job ID.
var ErrNotFound = errors.New("job record not found")

// JobRecord is one row of local job history.
type JobRecord struct {
	JobID     string
	VendorID  string
	DeviceID  string
	Provider  string
	Status    runtime.JobStatus
	Shots     int
	Tags      map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// History is a SQLite-backed job history.
type History struct {
	db *sql.DB
}

// OpenHistory opens (and migrates) the history database. The DSN sets
// WAL and busy_timeout pragmas so they apply to every pooled connection.
func OpenHistory(path string) (*History, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path, (5 * time.Second).Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id     TEXT PRIMARY KEY,
	vendor_id  TEXT NOT NULL DEFAULT '',
	device_id  TEXT NOT NULL,
	provider   TEXT NOT NULL,
	status     TEXT NOT NULL,
	shots      INTEGER NOT NULL DEFAULT 0,
	tags       TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs(created_at);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: migrate failed: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (h *History) Close() error { return h.db.Close() }

// Upsert inserts the record or, if the job already exists, refreshes
// status, vendor ID and updated_at.
func (h *History) Upsert(ctx context.Context, rec JobRecord) error {
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	now := time.Now().UTC()
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}
	_, err = h.db.ExecContext(ctx, `
INSERT INTO jobs (job_id, vendor_id, device_id, provider, status, shots, tags, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(job_id) DO UPDATE SET
	vendor_id  = excluded.vendor_id,
	status     = excluded.status,
	updated_at = excluded.updated_at`,
		rec.JobID, rec.VendorID, rec.DeviceID, rec.Provider, rec.Status.String(),
		rec.Shots, string(tags), created.Unix(), now.Unix())
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", rec.JobID, err)
	}
	return nil
}

// Get returns a single history record.
func (h *History) Get(ctx context.Context, jobID string) (JobRecord, error) {
	row := h.db.QueryRowContext(ctx, `
SELECT job_id, vendor_id, device_id, provider, status, shots, tags, created_at, updated_at
FROM jobs WHERE job_id = ?`, jobID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return JobRecord{}, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return rec, err
}

// ListFilter narrows a history listing.
type ListFilter struct {
	Status   runtime.JobStatus
	DeviceID string
	Limit    int
}

// List returns history records, newest first.
func (h *History) List(ctx context.Context, filter ListFilter) ([]JobRecord, error) {
	query := `
SELECT job_id, vendor_id, device_id, provider, status, shots, tags, created_at, updated_at
FROM jobs WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status.String())
	}
	if filter.DeviceID != "" {
		query += " AND device_id = ?"
		args = append(args, filter.DeviceID)
	}
	query += " ORDER BY created_at DESC, job_id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var recs []JobRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Prune removes records older than the retention window. It returns the
// number of rows removed.
func (h *History) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Unix()
	res, err := h.db.ExecContext(ctx, `DELETE FROM jobs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune jobs: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (JobRecord, error) {
	var (
		rec              JobRecord
		status, tags     string
		created, updated int64
	)
	if err := s.Scan(&rec.JobID, &rec.VendorID, &rec.DeviceID, &rec.Provider,
		&status, &rec.Shots, &tags, &created, &updated); err != nil {
		return JobRecord{}, err
	}
	rec.Status = runtime.JobStatus(status)
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return JobRecord{}, fmt.Errorf("decode tags: %w", err)
	}
	rec.CreatedAt = time.Unix(created, 0).UTC()
	rec.UpdatedAt = time.Unix(updated, 0).UTC()
	return rec, nil
}
