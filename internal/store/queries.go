package store

import (
	"context"
	"fmt"
)

// TableCount is the number of rows in one table.
type TableCount struct {
	Table string
	Rows  int64
}

// Counts returns the row count of every persisted table, in creation order.
// Tables that do not exist are reported with an error.
func (s *Store) Counts(ctx context.Context) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(Tables))
	for _, table := range Tables {
		var n int64
		// Table names come from the fixed Tables list.
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// ListCommits returns all commit_details rows ordered by id.
func (s *Store) ListCommits(ctx context.Context) ([]Commit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, author, date, message FROM commit_details ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying commits: %w", err)
	}
	defer rows.Close()

	var commits []Commit
	for rows.Next() {
		var c Commit
		if err := rows.Scan(&c.ID, &c.Author, &c.Date, &c.Message); err != nil {
			return nil, fmt.Errorf("scanning commit: %w", err)
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

// ListRelations returns all commit_relation rows in insertion order.
func (s *Store) ListRelations(ctx context.Context) ([]Relation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT parent, child FROM commit_relation ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying relations: %w", err)
	}
	defer rows.Close()

	var relations []Relation
	for rows.Next() {
		var r Relation
		if err := rows.Scan(&r.Parent, &r.Child); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		relations = append(relations, r)
	}
	return relations, rows.Err()
}

// ListRefs returns all ref_details rows ordered by name.
func (s *Store) ListRefs(ctx context.Context) ([]Ref, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, id, kind FROM ref_details ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying refs: %w", err)
	}
	defer rows.Close()

	var refs []Ref
	for rows.Next() {
		var r Ref
		if err := rows.Scan(&r.Name, &r.ID, &r.Kind); err != nil {
			return nil, fmt.Errorf("scanning ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}
