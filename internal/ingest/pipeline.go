// Package ingest walks a repository's commit graph and persists it into the store.
package ingest

import (
	"context"
	"time"

	"github.com/masmgr/git2sqlite/internal/git"
	"github.com/masmgr/git2sqlite/internal/store"
)

// Options configures a Pipeline.
type Options struct {
	BatchSize   int
	TxMode      TxMode
	CollectRefs bool
	RefFilter   RefFilter
}

// Summary describes a completed (or aborted) run.
type Summary struct {
	Head      string
	Walked    int
	Skipped   int
	Merges    int // Resolved commits with two or more parents
	Windows   int
	Persisted PersistStats
	Refs      int
	Duration  time.Duration
}

// Pipeline runs walk, extract and persist in sequence.
type Pipeline struct {
	src      git.RepositorySource
	store    *store.Store
	reporter Reporter
	opts     Options
}

// New creates a pipeline from src into st.
func New(src git.RepositorySource, st *store.Store, reporter Reporter, opts Options) *Pipeline {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.TxMode == "" {
		opts.TxMode = TxPerCommit
	}
	return &Pipeline{src: src, store: st, reporter: reporter, opts: opts}
}

// Run ingests every commit reachable from HEAD. On a store failure it stops
// and returns the error together with a summary of what was already committed.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}
	defer func() { summary.Duration = time.Since(start) }()

	p.reporter.Progress("Getting Commit Details...")

	walk, err := NewWalker(p.src, p.reporter).Walk(ctx)
	if err != nil {
		return summary, err
	}
	summary.Head = walk.Head
	summary.Walked = len(walk.IDs)
	summary.Skipped = walk.Skipped

	persister := NewPersister(p.store, p.opts.TxMode)
	for _, window := range Chunk(walk.IDs, p.opts.BatchSize) {
		records := p.extractWindow(ctx, window, summary)

		stats, err := persister.Persist(ctx, records)
		summary.Persisted.Add(stats)
		if err != nil {
			return summary, err
		}
		summary.Windows++
	}

	if p.opts.CollectRefs {
		refs, err := CollectRefs(ctx, p.src, p.opts.RefFilter)
		if err != nil {
			return summary, err
		}
		if err := PersistRefs(ctx, p.store, refs); err != nil {
			return summary, err
		}
		summary.Refs = len(refs)
	}

	p.reporter.Progress("Done!")
	return summary, nil
}

// extractWindow resolves and extracts the ids of one window. Ids that fail
// to resolve are reported and skipped.
func (p *Pipeline) extractWindow(ctx context.Context, ids []string, summary *Summary) []CommitRecord {
	records := make([]CommitRecord, 0, len(ids))
	for _, id := range ids {
		c, err := p.src.Commit(ctx, id)
		if err != nil {
			p.reporter.Warn(&SourceAccessError{Op: "resolve commit", ID: id, Err: err})
			summary.Skipped++
			continue
		}
		if c.IsMerge() {
			summary.Merges++
		}
		records = append(records, Extract(c))
	}
	return records
}
