/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/dimgraph/dimgraph/datastore"
	"github.com/dimgraph/dimgraph/errors"
)

// Provider implements the datastore provider interfaces on top of SQLite,
// storing each record as a JSON blob in a single table.
type Provider struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at path and ensures the
// entities table exists.
func New(path string) (*Provider, error) {
	if path == "" {
		path = "dimgraph.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		attrs TEXT NOT NULL,
		version TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT ''
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create entities table: %w", err)
	}
	return &Provider{db: db}, nil
}

// Close closes the database.
func (p *Provider) Close() error {
	return p.db.Close()
}

// Fetch loads the record stored under id. A missing row surfaces as a
// NotFoundError, which the cache-aside store treats as a plain miss.
func (p *Provider) Fetch(ctx context.Context, id string) (*datastore.Record, error) {
	var (
		blob      []byte
		version   string
		updatedAt string
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT attrs, version, updated_at FROM entities WHERE id = ?`, id,
	).Scan(&blob, &version, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("record", id)
	}
	if err != nil {
		return nil, fmt.Errorf("select entity: %w", err)
	}
	return buildRecord(blob, version, updatedAt)
}

// Persist upserts the record under id, stamping Version and UpdatedAt.
func (p *Provider) Persist(ctx context.Context, id string, rec *datastore.Record) error {
	blob, err := json.Marshal(rec.Attrs)
	if err != nil {
		return fmt.Errorf("marshal attrs: %w", err)
	}
	version := rec.Version
	if version == "" {
		version = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	updatedAt := strfmt.DateTime(time.Now().UTC()).String()
	if rec.UpdatedAt != nil {
		updatedAt = rec.UpdatedAt.String()
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO entities (id, attrs, version, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET attrs = excluded.attrs,
		                               version = excluded.version,
		                               updated_at = excluded.updated_at`,
		id, blob, version, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert entity: %w", err)
	}
	return nil
}

// CheckChanged reports whether the stored version token differs from the
// given one. A missing row counts as changed.
func (p *Provider) CheckChanged(ctx context.Context, id string, version string) (bool, error) {
	var stored string
	err := p.db.QueryRowContext(ctx,
		`SELECT version FROM entities WHERE id = ?`, id,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("select version: %w", err)
	}
	return stored != version, nil
}

// Delete removes the record stored under id.
func (p *Provider) Delete(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return nil
}

// Scan enumerates every record in the table.
func (p *Provider) Scan(ctx context.Context) (<-chan datastore.ScanItem, <-chan error) {
	items := make(chan datastore.ScanItem, 100)
	errs := make(chan error, 1)

	go func() {
		defer close(items)
		defer close(errs)

		rows, err := p.db.QueryContext(ctx,
			`SELECT id, attrs, version, updated_at FROM entities ORDER BY id`)
		if err != nil {
			errs <- fmt.Errorf("select entities: %w", err)
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				id        string
				blob      []byte
				version   string
				updatedAt string
			)
			if err := rows.Scan(&id, &blob, &version, &updatedAt); err != nil {
				errs <- fmt.Errorf("scan row: %w", err)
				return
			}
			rec, err := buildRecord(blob, version, updatedAt)
			if err != nil {
				errs <- err
				continue
			}
			select {
			case items <- datastore.ScanItem{ID: id, Record: rec}:
			case <-ctx.Done():
				return
			}
		}
		if err := rows.Err(); err != nil {
			errs <- fmt.Errorf("iterate rows: %w", err)
		}
	}()
	return items, errs
}

func buildRecord(blob []byte, version, updatedAt string) (*datastore.Record, error) {
	var attrs map[string]any
	if err := json.Unmarshal(blob, &attrs); err != nil {
		return nil, fmt.Errorf("unmarshal attrs: %w", err)
	}
	rec := &datastore.Record{Attrs: attrs, Version: version}
	if updatedAt != "" {
		if ts, err := strfmt.ParseDateTime(updatedAt); err == nil {
			rec.UpdatedAt = &ts
		}
	}
	return rec, nil
}
