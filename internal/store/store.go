// Package store provides a durable named-slot blob store backed by a local
// SQLite database. It is the persistence collaborator for the response
// cache: one slot holds one serialized snapshot.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// schema is created at open. A slot is a single named blob; writes replace
// the previous value.
const schema = `
CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// ErrClosed indicates the store has been closed.
var ErrClosed = errors.New("slot store is closed")

// SlotStore is a durable key-value store of named text blobs.
type SlotStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the schema exists.
func Open(path string, logger *slog.Logger) (*SlotStore, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Serialize writers instead of failing on a locked database.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	logger.Debug("opened slot store", "path", path)
	return &SlotStore{db: db, logger: logger}, nil
}

// Save stores value under name, replacing any previous blob in that slot.
func (s *SlotStore) Save(ctx context.Context, name, value string) error {
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving slot %q: %w", name, err)
	}
	return nil
}

// Load returns the blob stored under name. The second return value is
// false when the slot has never been written.
func (s *SlotStore) Load(ctx context.Context, name string) (string, bool, error) {
	if s.db == nil {
		return "", false, ErrClosed
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM slots WHERE name = ?", name,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading slot %q: %w", name, err)
	}
	return value, true, nil
}

// Delete removes the blob stored under name. Deleting a missing slot is
// not an error.
func (s *SlotStore) Delete(ctx context.Context, name string) error {
	if s.db == nil {
		return ErrClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM slots WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting slot %q: %w", name, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SlotStore) Close() error {
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}
