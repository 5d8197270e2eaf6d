// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package repository persists investigations and remediations in SQLite.
//
// Unlike the analytics engines, this state survives restarts: batch
// operations and the investigation workflow need durable records. Absent
// rows are reported as (nil, nil) at the repository boundary; handlers map
// that to HTTP 404.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS investigations (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	service     TEXT NOT NULL,
	severity    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'open',
	findings    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL,
	resolved_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS remediations (
	id               TEXT PRIMARY KEY,
	investigation_id TEXT NOT NULL REFERENCES investigations(id),
	action           TEXT NOT NULL,
	owner            TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	created_at       TIMESTAMP NOT NULL,
	completed_at     TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_remediations_investigation
	ON remediations(investigation_id);
`

// Investigation is a durable incident investigation record.
type Investigation struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Service    string     `json:"service"`
	Severity   string     `json:"severity"`
	Status     string     `json:"status"` // open, resolved
	Findings   string     `json:"findings,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Remediation is a follow-up action attached to an investigation.
type Remediation struct {
	ID              string     `json:"id"`
	InvestigationID string     `json:"investigation_id"`
	Action          string     `json:"action"`
	Owner           string     `json:"owner"`
	Status          string     `json:"status"` // pending, completed
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Repository wraps the SQLite handle.
type Repository struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path. Use ":memory:" for tests.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// under the concurrent batch executor.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close closes the database handle.
func (r *Repository) Close() error { return r.db.Close() }

// CreateInvestigation inserts a new open investigation.
func (r *Repository) CreateInvestigation(ctx context.Context, inv Investigation) (Investigation, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Status == "" {
		inv.Status = "open"
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO investigations (id, title, service, severity, status, findings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Title, inv.Service, inv.Severity, inv.Status, inv.Findings, inv.CreatedAt)
	if err != nil {
		return Investigation{}, fmt.Errorf("insert investigation: %w", err)
	}
	return inv, nil
}

// GetInvestigation returns (nil, nil) when the ID is unknown.
func (r *Repository) GetInvestigation(ctx context.Context, id string) (*Investigation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, service, severity, status, findings, created_at, resolved_at
		 FROM investigations WHERE id = ?`, id)
	inv, err := scanInvestigation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select investigation: %w", err)
	}
	return inv, nil
}

// ListInvestigations returns investigations, optionally filtered by status,
// newest first.
func (r *Repository) ListInvestigations(ctx context.Context, status string) ([]Investigation, error) {
	query := `SELECT id, title, service, severity, status, findings, created_at, resolved_at
		 FROM investigations`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list investigations: %w", err)
	}
	defer rows.Close()

	var out []Investigation
	for rows.Next() {
		inv, err := scanInvestigation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investigation: %w", err)
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

// ResolveInvestigation marks an investigation resolved with its findings.
// Unknown IDs return (nil, nil).
func (r *Repository) ResolveInvestigation(ctx context.Context, id, findings string) (*Investigation, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE investigations SET status = 'resolved', findings = ?, resolved_at = ?
		 WHERE id = ? AND status = 'open'`, findings, now, id)
	if err != nil {
		return nil, fmt.Errorf("resolve investigation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.GetInvestigation(ctx, id)
}

// CreateRemediation attaches a pending remediation to an investigation.
// An unknown investigation ID is an error: remediations never dangle.
func (r *Repository) CreateRemediation(ctx context.Context, rem Remediation) (Remediation, error) {
	inv, err := r.GetInvestigation(ctx, rem.InvestigationID)
	if err != nil {
		return Remediation{}, err
	}
	if inv == nil {
		return Remediation{}, fmt.Errorf("investigation %q not found", rem.InvestigationID)
	}
	if rem.ID == "" {
		rem.ID = uuid.NewString()
	}
	if rem.Status == "" {
		rem.Status = "pending"
	}
	if rem.CreatedAt.IsZero() {
		rem.CreatedAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO remediations (id, investigation_id, action, owner, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.InvestigationID, rem.Action, rem.Owner, rem.Status, rem.CreatedAt)
	if err != nil {
		return Remediation{}, fmt.Errorf("insert remediation: %w", err)
	}
	return rem, nil
}

// GetRemediation returns (nil, nil) when the ID is unknown.
func (r *Repository) GetRemediation(ctx context.Context, id string) (*Remediation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, investigation_id, action, owner, status, created_at, completed_at
		 FROM remediations WHERE id = ?`, id)
	rem, err := scanRemediation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select remediation: %w", err)
	}
	return rem, nil
}

// ListRemediations returns remediations, optionally filtered by
// investigation ID, oldest first.
func (r *Repository) ListRemediations(ctx context.Context, investigationID string) ([]Remediation, error) {
	query := `SELECT id, investigation_id, action, owner, status, created_at, completed_at
		 FROM remediations`
	args := []any{}
	if investigationID != "" {
		query += ` WHERE investigation_id = ?`
		args = append(args, investigationID)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list remediations: %w", err)
	}
	defer rows.Close()

	var out []Remediation
	for rows.Next() {
		rem, err := scanRemediation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan remediation: %w", err)
		}
		out = append(out, *rem)
	}
	return out, rows.Err()
}

// CompleteRemediation marks a pending remediation completed.
// Unknown IDs return (nil, nil).
func (r *Repository) CompleteRemediation(ctx context.Context, id string) (*Remediation, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE remediations SET status = 'completed', completed_at = ?
		 WHERE id = ? AND status = 'pending'`, now, id)
	if err != nil {
		return nil, fmt.Errorf("complete remediation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.GetRemediation(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvestigation(row rowScanner) (*Investigation, error) {
	var inv Investigation
	var resolvedAt sql.NullTime
	err := row.Scan(&inv.ID, &inv.Title, &inv.Service, &inv.Severity,
		&inv.Status, &inv.Findings, &inv.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		inv.ResolvedAt = &resolvedAt.Time
	}
	return &inv, nil
}

func scanRemediation(row rowScanner) (*Remediation, error) {
	var rem Remediation
	var completedAt sql.NullTime
	err := row.Scan(&rem.ID, &rem.InvestigationID, &rem.Action, &rem.Owner,
		&rem.Status, &rem.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		rem.CompletedAt = &completedAt.Time
	}
	return &rem, nil
}
