// Package store implements the SQLite-backed analytics store: a typed
// adapter over the embedded engine plus stats and lifecycle operations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sessionlens/sessionlens/domain"
	"github.com/sessionlens/sessionlens/persistence"
)

// Store wraps one embedded SQLite database. A single logical thread of
// control is assumed: one writer (the loader) and one reader context are
// ever active at a time.
type Store struct {
	db    *sql.DB
	path  string
	saver *persistence.Saver
}

// open opens the database file at path and applies the bootstrap schema.
func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single connection: the store has exactly one logical thread of
	// control, and it keeps in-memory DSNs from splitting into separate
	// databases per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	// Sanity check that the restored image is actually usable.
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("restored database unusable: %w", err)
	}
	return db, nil
}

// Execute runs a DDL/DML statement without row decoding and reports the
// number of rows affected.
func (s *Store) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &domain.EngineError{Op: "exec", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &domain.EngineError{Op: "exec", Err: err}
	}
	return n, nil
}

// Begin starts the transaction for a batch load.
func (s *Store) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &domain.EngineError{Op: "begin", Err: err}
	}
	return tx, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Stats reports the total session count and stored date bounds over the
// unfiltered table. Any underlying fault maps to the zero result; this
// call never fails.
func (s *Store) Stats(ctx context.Context) domain.Stats {
	var st domain.Stats
	var min, max sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(start_time), MAX(start_time) FROM sessions`).
		Scan(&st.TotalSessions, &min, &max)
	if err != nil {
		log.Printf("WARN: stats query failed: %v", err)
		return domain.Stats{}
	}
	st.DateRange.Min = min.String
	st.DateRange.Max = max.String
	return st
}

// Clear deletes all rows from all three tables, removes the persisted
// snapshot key and writes the now-empty state. Deletion errors are logged
// but do not block the snapshot steps.
func (s *Store) Clear(ctx context.Context) {
	for _, q := range []string{
		`DELETE FROM messages`,
		`DELETE FROM questions`,
		`DELETE FROM sessions`,
	} {
		if _, err := s.Execute(ctx, q); err != nil {
			log.Printf("WARN: clear: %v", err)
		}
	}
	s.saver.Remove()
	s.Snapshot(ctx)
}

// Image produces a consistent byte image of the whole database via
// VACUUM INTO a scratch file.
func (s *Store) Image(ctx context.Context) ([]byte, error) {
	scratch := filepath.Join(os.TempDir(), fmt.Sprintf("sessionlens-%d-%d.db", os.Getpid(), time.Now().UnixNano()))
	_ = os.Remove(scratch)
	defer os.Remove(scratch)

	if _, err := s.Execute(ctx, `VACUUM INTO ?`, scratch); err != nil {
		return nil, err
	}
	image, err := os.ReadFile(scratch)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "image", Err: err}
	}
	return image, nil
}

// Snapshot serializes the current state into the key-value slot. It is
// fire-and-forget: failures are logged and never propagate to the insert
// or clear that triggered them.
func (s *Store) Snapshot(ctx context.Context) {
	image, err := s.Image(ctx)
	if err != nil {
		log.Printf("WARN: snapshot skipped: %v", err)
		return
	}
	s.saver.Save(image)
}
