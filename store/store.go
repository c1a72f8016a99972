// Package store persists the list of open tabs between runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tabs (
	position INTEGER PRIMARY KEY,
	path     TEXT NOT NULL,
	active   INTEGER NOT NULL DEFAULT 0
);`

// Tab is one persisted tab. Untitled tabs have no file to reopen and are
// never stored.
type Tab struct {
	Position int
	Path     string
	Active   bool
}

// Store is the tab list database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces the stored tab list with tabs. Positions are renumbered in
// the given order so the stored list stays contiguous after dropping
// untitled tabs.
func (s *Store) Save(ctx context.Context, tabs []Tab) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM tabs"); err != nil {
		return fmt.Errorf("clear tabs: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO tabs (position, path, active) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	pos := 0
	for _, t := range tabs {
		if t.Path == "" {
			continue
		}
		active := 0
		if t.Active {
			active = 1
		}
		if _, err := stmt.ExecContext(ctx, pos, t.Path, active); err != nil {
			return fmt.Errorf("insert tab %d: %w", pos, err)
		}
		pos++
	}
	return tx.Commit()
}

// Load returns the stored tabs in position order.
func (s *Store) Load(ctx context.Context) ([]Tab, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT position, path, active FROM tabs ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query tabs: %w", err)
	}
	defer rows.Close()

	var tabs []Tab
	for rows.Next() {
		var t Tab
		var active int
		if err := rows.Scan(&t.Position, &t.Path, &active); err != nil {
			return nil, err
		}
		t.Active = active != 0
		tabs = append(tabs, t)
	}
	return tabs, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
