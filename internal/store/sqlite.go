// Package store persists commit history into a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrSchema marks a failure while creating or upgrading the schema.
var ErrSchema = errors.New("schema migration failed")

// Store wraps the SQLite connection holding the ingested history.
type Store struct {
	db *sql.DB
}

// Commit is a row of commit_details.
type Commit struct {
	ID      string
	Author  string
	Date    int64
	Message string
}

// Relation is a row of commit_relation.
type Relation struct {
	Parent string
	Child  string
}

// Ref is a row of ref_details.
type Ref struct {
	Name string
	ID   string
	Kind string
}

// Open opens the database at path, creating the file if it does not exist.
// The schema is not touched; call Migrate for that.
func Open(ctx context.Context, path string) (*Store, error) {
	return open(ctx, path, "?_pragma=busy_timeout(5000)")
}

// OpenReadOnly opens an existing database for queries only. A missing file
// is reported with an error wrapping fs.ErrNotExist and is not created.
func OpenReadOnly(ctx context.Context, path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("opening sqlite %s: is a directory", path)
	}
	return open(ctx, path, "?_pragma=busy_timeout(5000)&_pragma=query_only(1)")
}

func open(ctx context.Context, path, params string) (*Store, error) {
	db, err := sql.Open("sqlite", path+params)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One connection: the file is owned by a single writer for the whole run.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Version returns the schema version recorded in the database file.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Migrate applies pending migrations and returns how many were applied.
// A fresh file has version 0 and receives the full schema. Each migration and
// its version bump commit together, so the version check and the table
// creation cannot disagree.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	current, err := s.Version(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	applied := 0
	for v := current + 1; v <= schemaVersion; v++ {
		err := s.WithTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range migrations[v] {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, v))
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("%w: version %d: %w", ErrSchema, v, err)
		}
		applied++
	}
	return applied, nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// InsertCommit inserts one commit_details row.
func InsertCommit(ctx context.Context, tx *sql.Tx, c Commit) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO commit_details (id, author, date, message) VALUES (?, ?, ?, ?)`,
		c.ID, c.Author, c.Date, c.Message,
	)
	if err != nil {
		return fmt.Errorf("inserting commit %s: %w", c.ID, err)
	}
	return nil
}

// InsertRelation inserts one commit_relation row. The parent is not required
// to exist in commit_details.
func InsertRelation(ctx context.Context, tx *sql.Tx, r Relation) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO commit_relation (parent, child) VALUES (?, ?)`,
		r.Parent, r.Child,
	)
	if err != nil {
		return fmt.Errorf("inserting relation %s -> %s: %w", r.Parent, r.Child, err)
	}
	return nil
}

// InsertRef inserts one ref_details row.
func InsertRef(ctx context.Context, tx *sql.Tx, r Ref) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ref_details (name, id, kind) VALUES (?, ?, ?)`,
		r.Name, r.ID, r.Kind,
	)
	if err != nil {
		return fmt.Errorf("inserting ref %s: %w", r.Name, err)
	}
	return nil
}

// IsUniqueViolation reports whether err was caused by a PRIMARY KEY or UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
