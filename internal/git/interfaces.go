package git

import (
	"context"
	"errors"
	"fmt"
)

// ErrWalkStalled marks an iterator error after which the iterator cannot
// advance. Callers must stop calling Next once they see it.
var ErrWalkStalled = errors.New("walk cannot advance")

// RepositorySource defines the interface for reading commit objects from a repository.
// This abstraction allows for easier testing and alternative implementations.
type RepositorySource interface {
	// Head returns the commit id the repository HEAD points at.
	Head(ctx context.Context) (string, error)
	// Walk returns the ids reachable from the given commit, in the source's order.
	Walk(ctx context.Context, from string) (CommitIDIter, error)
	// Commit resolves a single id to its commit object.
	Commit(ctx context.Context, id string) (*Commit, error)
	// Refs lists the named references of the repository, excluding HEAD and symbolic refs.
	Refs(ctx context.Context) ([]Ref, error)
}

// CommitIDIter yields commit ids one at a time.
// Next returns io.EOF once the walk is exhausted. An error wrapping
// ErrWalkStalled ends the walk early. Any other error concerns a single item;
// the caller may keep calling Next.
type CommitIDIter interface {
	Next() (string, error)
	Close()
}

// Compile-time interface conformance checks.
var (
	_ RepositorySource = (*GoGitSource)(nil)
	_ RepositorySource = (*CLISource)(nil)
	_ RepositorySource = (*MockSource)(nil)
)

// Open creates the RepositorySource selected by opts.Backend.
func Open(opts SourceOptions) (RepositorySource, error) {
	switch opts.Backend {
	case "", BackendGoGit:
		return OpenGoGitSource(opts)
	case BackendGitCLI:
		return OpenCLISource(opts)
	default:
		return nil, fmt.Errorf("unknown backend: %s", opts.Backend)
	}
}
