package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/masmgr/git2sqlite/internal/store"
)

// DefaultBatchSize bounds how many records are held in memory at once.
const DefaultBatchSize = 50

// TxMode selects the unit of persistence.
type TxMode string

const (
	// TxPerCommit commits one transaction per commit: the commit row plus its parent edges.
	TxPerCommit TxMode = "commit"
	// TxPerWindow commits one transaction per window of records.
	TxPerWindow TxMode = "window"
)

// ParseTxMode parses the flag spelling of a transaction mode.
func ParseTxMode(s string) (TxMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "commit":
		return TxPerCommit, nil
	case "window", "batch":
		return TxPerWindow, nil
	default:
		return "", fmt.Errorf("invalid transaction mode: %s (expected commit, window)", s)
	}
}

// Chunk splits items into consecutive windows of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// PersistStats counts what a Persister wrote.
type PersistStats struct {
	Commits      int
	Relations    int
	Transactions int
}

// Add accumulates other into s.
func (s *PersistStats) Add(other PersistStats) {
	s.Commits += other.Commits
	s.Relations += other.Relations
	s.Transactions += other.Transactions
}

// Persister writes extracted records to the store.
type Persister struct {
	store *store.Store
	mode  TxMode
}

// NewPersister creates a persister using the given transaction mode.
func NewPersister(st *store.Store, mode TxMode) *Persister {
	if mode == "" {
		mode = TxPerCommit
	}
	return &Persister{store: st, mode: mode}
}

// Persist writes one window of records. The first failure aborts the call;
// transactions committed before it stay in the store. The returned stats
// cover only committed work.
func (p *Persister) Persist(ctx context.Context, records []CommitRecord) (PersistStats, error) {
	var stats PersistStats

	if p.mode == TxPerWindow {
		var pending PersistStats
		err := p.store.WithTx(ctx, func(tx *sql.Tx) error {
			for _, r := range records {
				n, err := insertRecord(ctx, tx, r)
				if err != nil {
					return err
				}
				pending.Commits++
				pending.Relations += n
			}
			return nil
		})
		if err != nil {
			return stats, &StoreError{Op: "persist window", Err: err}
		}
		pending.Transactions = 1
		return pending, nil
	}

	for _, r := range records {
		var n int
		err := p.store.WithTx(ctx, func(tx *sql.Tx) error {
			var err error
			n, err = insertRecord(ctx, tx, r)
			return err
		})
		if err != nil {
			return stats, &StoreError{Op: "persist commit " + r.ID, Err: err}
		}
		stats.Commits++
		stats.Relations += n
		stats.Transactions++
	}
	return stats, nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, r CommitRecord) (int, error) {
	if err := store.InsertCommit(ctx, tx, r.Row()); err != nil {
		return 0, err
	}
	rels := r.Relations()
	for _, rel := range rels {
		if err := store.InsertRelation(ctx, tx, rel); err != nil {
			return 0, err
		}
	}
	return len(rels), nil
}
