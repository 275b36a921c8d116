package store

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func migratedTestStore(t *testing.T) *Store {
	t.Helper()
	s := openTestStore(t)
	if _, err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func TestMigrate_FreshFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	applied, err := s.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if applied != schemaVersion {
		t.Errorf("applied = %d, expected %d", applied, schemaVersion)
	}
	v, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != schemaVersion {
		t.Errorf("Version() = %d, expected %d", v, schemaVersion)
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("Counts() = %v, expected three tables", counts)
	}
	for i, c := range counts {
		if c.Table != Tables[i] || c.Rows != 0 {
			t.Errorf("counts[%d] = %+v, expected empty %s", i, c, Tables[i])
		}
	}
	s.Close()

	// Reopening an up-to-date file applies nothing.
	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	applied, err = s.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Migrate applied %d, expected 0", applied)
	}
}

func TestMigrate_UnversionedExistingTables(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	// A file written by an older tool: tables present, user_version never set.
	if _, err := s.db.ExecContext(ctx, migrations[1][0]); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	_, err := s.Migrate(ctx)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("Migrate() error = %v, expected ErrSchema", err)
	}
	v, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 0 {
		t.Errorf("Version() = %d after failed migration, expected 0", v)
	}
	// The failed migration rolled back as a whole.
	if _, err := s.Counts(ctx); err == nil {
		t.Errorf("expected commit_relation to be missing after rollback")
	}
}

func TestInsert_UniqueViolations(t *testing.T) {
	ctx := context.Background()
	s := migratedTestStore(t)

	insert := func() error {
		return s.WithTx(ctx, func(tx *sql.Tx) error {
			if err := InsertCommit(ctx, tx, Commit{ID: "c1", Author: "a", Date: 1, Message: "m"}); err != nil {
				return err
			}
			return InsertRelation(ctx, tx, Relation{Parent: "p1", Child: "c1"})
		})
	}

	if err := insert(); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := insert()
	if err == nil {
		t.Fatalf("expected duplicate commit to fail")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, expected true", err)
	}

	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		return InsertRelation(ctx, tx, Relation{Parent: "p1", Child: "c1"})
	})
	if !IsUniqueViolation(err) {
		t.Errorf("duplicate edge: IsUniqueViolation(%v) = false, expected true", err)
	}

	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		if err := InsertRef(ctx, tx, Ref{Name: "refs/heads/main", ID: "c1", Kind: "branch"}); err != nil {
			return err
		}
		return InsertRef(ctx, tx, Ref{Name: "refs/heads/main", ID: "c1", Kind: "branch"})
	})
	if !IsUniqueViolation(err) {
		t.Errorf("duplicate ref: IsUniqueViolation(%v) = false, expected true", err)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := migratedTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		if err := InsertCommit(ctx, tx, Commit{ID: "c1", Author: "a", Date: 1, Message: "m"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, expected %v", err, boom)
	}

	commits, err := s.ListCommits(ctx)
	if err != nil {
		t.Fatalf("ListCommits: %v", err)
	}
	if len(commits) != 0 {
		t.Errorf("commits = %v, expected rollback", commits)
	}
}

func TestInsertRelation_NoReferentialCheck(t *testing.T) {
	ctx := context.Background()
	s := migratedTestStore(t)

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		return InsertRelation(ctx, tx, Relation{Parent: "not-yet-ingested", Child: "c1"})
	})
	if err != nil {
		t.Fatalf("InsertRelation: %v", err)
	}
	rels, err := s.ListRelations(ctx)
	if err != nil {
		t.Fatalf("ListRelations: %v", err)
	}
	if len(rels) != 1 || rels[0].Parent != "not-yet-ingested" {
		t.Errorf("relations = %v", rels)
	}
}

func TestIsUniqueViolation_Other(t *testing.T) {
	if IsUniqueViolation(nil) {
		t.Errorf("IsUniqueViolation(nil) = true")
	}
	if IsUniqueViolation(errors.New("disk I/O error")) {
		t.Errorf("IsUniqueViolation(other) = true")
	}
}

func TestOpenReadOnly_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.db")

	_, err := OpenReadOnly(context.Background(), path)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, expected fs.ErrNotExist", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("expected %s not to be created, stat error = %v", path, statErr)
	}
}

func TestOpenReadOnly_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	rw, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := rw.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	rw.Close()

	ro, err := OpenReadOnly(ctx, path)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer ro.Close()

	if v, err := ro.Version(ctx); err != nil || v != schemaVersion {
		t.Fatalf("Version() = %d, %v; expected %d, nil", v, err, schemaVersion)
	}
	err = ro.WithTx(ctx, func(tx *sql.Tx) error {
		return InsertCommit(ctx, tx, Commit{ID: "a", Author: "x", Date: 1, Message: "m"})
	})
	if err == nil {
		t.Fatalf("expected write to fail on a read-only store")
	}
}
