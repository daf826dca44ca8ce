// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a log of document builds in a SQLite database so
// past runs can be listed with their inputs, outputs and outcome.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultLimit = 20

	// timeLayout is fixed-width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Status is the outcome of a build.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Entry is one recorded build.
type Entry struct {
	ID        string        `json:"id" yaml:"id"`
	Tag       string        `json:"tag" yaml:"tag"`
	LinkDepth int           `json:"link_depth" yaml:"link_depth"`
	Notes     int           `json:"notes" yaml:"notes"`
	Document  string        `json:"document" yaml:"document"`
	Output    string        `json:"output,omitempty" yaml:"output,omitempty"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Status    Status        `json:"status" yaml:"status"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Filter narrows List results.
type Filter struct {
	Tag   string
	Limit int
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.config/zkdocs/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "zkdocs", "history.db"), nil
}

// Open opens or creates the database at path and its schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id TEXT PRIMARY KEY,
			tag TEXT NOT NULL,
			link_depth INTEGER NOT NULL,
			notes INTEGER NOT NULL,
			document TEXT NOT NULL,
			output TEXT,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_tag ON builds(tag)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores e. An empty ID is replaced by a new UUID, which is returned.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, tag, link_depth, notes, document, output, started_at, duration_ms, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Tag, e.LinkDepth, e.Notes, e.Document, e.Output,
		e.StartedAt.UTC().Format(timeLayout), e.Duration.Milliseconds(),
		string(e.Status), e.Error,
	)
	if err != nil {
		return "", fmt.Errorf("recording build %s: %w", e.ID, err)
	}
	return e.ID, nil
}

// List returns recorded builds, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT id, tag, link_depth, notes, document, COALESCE(output, ''),
		started_at, duration_ms, status, COALESCE(error, '') FROM builds`
	var args []any
	if f.Tag != "" {
		query += ` WHERE tag = ?`
		args = append(args, f.Tag)
	}
	query += ` ORDER BY started_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			startedAt string
			durMS     int64
			status    string
		)
		if err := rows.Scan(&e.ID, &e.Tag, &e.LinkDepth, &e.Notes, &e.Document, &e.Output,
			&startedAt, &durMS, &status, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning build row: %w", err)
		}
		e.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of build %s: %w", e.ID, err)
		}
		e.Duration = time.Duration(durMS) * time.Millisecond
		e.Status = Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
