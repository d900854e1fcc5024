// Package history persists a row per completed refac run (spec §6's
// auxiliary "refac history" surface) in a SQLite database, the adapted home
// for the teacher's task-execution learning store repurposed to the rename
// engine's domain.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jowharshamshiri/refac/internal/report"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one completed run as recorded in history.
type Entry struct {
	RunID      string
	Root       string
	Pattern    string
	Substitute string
	Edits      int
	Renames    int
	Succeeded  int
	Skipped    int
	Failed     int
	ElapsedMS  int64
	StartedAt  time.Time
}

// Store manages the SQLite-backed run history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DefaultPath returns <config home>/history.db, the default history store
// location.
func DefaultPath(configHome string) string {
	return filepath.Join(configHome, "history.db")
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one row summarizing a completed Report.
func (s *Store) Record(ctx context.Context, rep *report.Report) error {
	c := rep.Counts()

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO runs
		(run_id, root, pattern, substitute, edits, renames, succeeded, skipped, failed, elapsed_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.RunID, rep.Root, rep.Pattern, rep.Substitute,
		c.Edits, c.Renames, c.Succeeded, c.Skipped, c.Failed,
		rep.Elapsed.Milliseconds(), rep.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("record run history: %w", err)
	}
	return nil
}

// List returns the most recent limit runs, newest first. limit <= 0 means
// unbounded.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT run_id, root, pattern, substitute, edits, renames, succeeded, skipped, failed, elapsed_ms, started_at
		FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.Root, &e.Pattern, &e.Substitute,
			&e.Edits, &e.Renames, &e.Succeeded, &e.Skipped, &e.Failed,
			&e.ElapsedMS, &e.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run history rows: %w", err)
	}
	return entries, nil
}
