package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/git2sqlite/internal/git"
	"github.com/masmgr/git2sqlite/internal/store"
)

// RefFilter selects refs by glob patterns matched against the full ref name.
type RefFilter struct {
	Include []string // Empty means everything
	Exclude []string
}

// Validate checks that every pattern is a valid doublestar glob.
func (f RefFilter) Validate() error {
	for _, p := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid ref pattern: %q", p)
		}
	}
	return nil
}

// Matches reports whether a ref name passes the filter.
func (f RefFilter) Matches(name string) bool {
	// Check exclude patterns first
	for _, pattern := range f.Exclude {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// CollectRefs lists the repository's named refs that pass filter.
func CollectRefs(ctx context.Context, src git.RepositorySource, filter RefFilter) ([]store.Ref, error) {
	refs, err := src.Refs(ctx)
	if err != nil {
		return nil, &SourceAccessError{Op: "list refs", Err: err}
	}

	rows := make([]store.Ref, 0, len(refs))
	for _, r := range refs {
		if !filter.Matches(r.Name) {
			continue
		}
		rows = append(rows, store.Ref{Name: r.Name, ID: r.Target, Kind: string(r.Kind)})
	}
	return rows, nil
}

// PersistRefs writes all ref rows in a single transaction.
func PersistRefs(ctx context.Context, st *store.Store, refs []store.Ref) error {
	err := st.WithTx(ctx, func(tx *sql.Tx) error {
		for _, r := range refs {
			if err := store.InsertRef(ctx, tx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "persist refs", Err: err}
	}
	return nil
}
