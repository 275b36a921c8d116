package ingest

import (
	"context"
	"errors"
	"io"

	"github.com/masmgr/git2sqlite/internal/git"
)

// Reporter receives progress lines and recoverable per-item failures.
type Reporter interface {
	Progress(msg string)
	Warn(err error)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Progress(string) {}
func (NopReporter) Warn(error)      {}

// WalkResult is the materialized output of a walk.
type WalkResult struct {
	Head    string
	IDs     []string
	Skipped int
}

// Walker enumerates the commits reachable from HEAD.
type Walker struct {
	src      git.RepositorySource
	reporter Reporter
}

// NewWalker creates a walker over src.
func NewWalker(src git.RepositorySource, reporter Reporter) *Walker {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Walker{src: src, reporter: reporter}
}

// Walk collects every id reachable from HEAD into memory, in the source's
// order. Items the source fails to yield are reported and skipped. A stalled
// source is reported once and ends the walk with the ids collected so far.
func (w *Walker) Walk(ctx context.Context) (*WalkResult, error) {
	head, err := w.src.Head(ctx)
	if err != nil {
		return nil, &SourceAccessError{Op: "resolve HEAD", Err: err}
	}

	iter, err := w.src.Walk(ctx, head)
	if err != nil {
		return nil, &SourceAccessError{Op: "walk", ID: head, Err: err}
	}
	defer iter.Close()

	result := &WalkResult{Head: head}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.reporter.Warn(&SourceAccessError{Op: "walk", Err: err})
			result.Skipped++
			if errors.Is(err, git.ErrWalkStalled) {
				// Commits behind the unreadable object cannot be reached.
				break
			}
			continue
		}
		result.IDs = append(result.IDs, id)
	}
	return result, nil
}
