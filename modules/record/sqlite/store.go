package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flemzord/reagent/internal/record"
)

// timeFormat matches the schema's strftime default.
const timeFormat = "2006-01-02T15:04:05.000Z"

// recordStore implements record.Store backed by SQLite.
type recordStore struct {
	db *sql.DB
}

// Create inserts a new agent record.
func (s *recordStore) Create(ctx context.Context, r record.Record) error {
	tools, err := json.Marshal(r.Tools)
	if err != nil {
		return fmt.Errorf("sqlite: marshal tools: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agents (id, name, description, model, tools, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Description, r.Model, string(tools), r.Status,
		r.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert agent: %w", err)
	}
	return nil
}

// Get returns the record with the given ID, or record.ErrNotFound.
func (s *recordStore) Get(ctx context.Context, id string) (record.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, model, tools, status, created_at
		 FROM agents WHERE id = ?`, id)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, fmt.Errorf("%w: %s", record.ErrNotFound, id)
	}
	return r, err
}

// List returns all records, newest first.
func (s *recordStore) List(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, model, tools, status, created_at
		 FROM agents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list agents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []record.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate agents: %w", err)
	}
	return out, nil
}

// Delete removes the record with the given ID, or returns record.ErrNotFound.
func (s *recordStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete agent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete agent: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", record.ErrNotFound, id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (record.Record, error) {
	var r record.Record
	var tools, createdAt string

	if err := sc.Scan(&r.ID, &r.Name, &r.Description, &r.Model, &tools, &r.Status, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record.Record{}, err
		}
		return record.Record{}, fmt.Errorf("sqlite: scan agent: %w", err)
	}

	if err := json.Unmarshal([]byte(tools), &r.Tools); err != nil {
		return record.Record{}, fmt.Errorf("sqlite: unmarshal tools: %w", err)
	}

	ts, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		// Older rows may carry second precision.
		ts, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return record.Record{}, fmt.Errorf("sqlite: parse created_at %q: %w", createdAt, err)
		}
	}
	r.CreatedAt = ts

	return r, nil
}
