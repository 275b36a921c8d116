package git

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// GoGitSource reads commit objects through go-git.
type GoGitSource struct {
	repo  *git.Repository
	order WalkOrder
}

// OpenGoGitSource opens the repository at opts.RepoPath.
func OpenGoGitSource(opts SourceOptions) (*GoGitSource, error) {
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, err
	}
	return NewGoGitSource(repo, opts.Order)
}

// NewGoGitSource wraps an already opened repository.
func NewGoGitSource(repo *git.Repository, order WalkOrder) (*GoGitSource, error) {
	if _, err := logOrder(order); err != nil {
		return nil, err
	}
	return &GoGitSource{repo: repo, order: order}, nil
}

func logOrder(order WalkOrder) (git.LogOrder, error) {
	switch order {
	case WalkOrderDefault:
		return git.LogOrderDefault, nil
	case WalkOrderCommitterTime:
		return git.LogOrderCommitterTime, nil
	case WalkOrderBFS:
		return git.LogOrderBSF, nil
	case WalkOrderDFSPost:
		return git.LogOrderDFSPost, nil
	default:
		return git.LogOrderDefault, fmt.Errorf("walk order %s is not supported by the %s backend", order, BackendGoGit)
	}
}

// Head returns the commit id HEAD resolves to.
func (s *GoGitSource) Head(_ context.Context) (string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

// Walk returns the ids reachable from the given commit.
func (s *GoGitSource) Walk(_ context.Context, from string) (CommitIDIter, error) {
	order, err := logOrder(s.order)
	if err != nil {
		return nil, err
	}

	cIter, err := s.repo.Log(&git.LogOptions{From: plumbing.NewHash(from), Order: order})
	if err != nil {
		return nil, err
	}
	return &goGitIDIter{iter: cIter}, nil
}

// Commit resolves an id to its commit object.
func (s *GoGitSource) Commit(_ context.Context, id string) (*Commit, error) {
	c, err := s.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", id, err)
	}
	return fromObject(c), nil
}

// Refs lists the named references of the repository.
func (s *GoGitSource) Refs(_ context.Context) ([]Ref, error) {
	iter, err := s.repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var refs []Ref
	err = iter.ForEach(func(r *plumbing.Reference) error {
		if r.Type() != plumbing.HashReference || r.Name() == plumbing.HEAD {
			return nil
		}

		target, err := s.peel(r.Hash())
		if err != nil {
			return fmt.Errorf("ref %s: %w", r.Name(), err)
		}

		refs = append(refs, Ref{
			Name:   r.Name().String(),
			Target: target.String(),
			Kind:   ClassifyRef(r.Name().String()),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// peel resolves an annotated tag to the commit it tags. Anything that is not
// a tag object is returned unchanged.
func (s *GoGitSource) peel(h plumbing.Hash) (plumbing.Hash, error) {
	tag, err := s.repo.TagObject(h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return h, nil
	}
	if err != nil {
		return plumbing.ZeroHash, err
	}

	c, err := tag.Commit()
	if errors.Is(err, object.ErrUnsupportedObject) {
		return tag.Target, nil
	}
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return c.Hash, nil
}

func fromObject(c *object.Commit) *Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return &Commit{
		Hash:      c.Hash.String(),
		Author:    Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer: Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:   c.Message,
		Parents:   parents,
	}
}

// goGitIDIter adapts a go-git commit iterator. go-git only advances past an
// object once it has loaded, so an unreadable object (a missing parent in a
// shallow or damaged repository) would fail the same way on every call.
// The first such error is returned as stalled and the walk ends there.
type goGitIDIter struct {
	iter    object.CommitIter
	stalled bool
}

func (it *goGitIDIter) Next() (string, error) {
	if it.stalled {
		return "", io.EOF
	}

	c, err := it.iter.Next()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, storer.ErrStop) {
			return "", io.EOF
		}
		it.stalled = true
		return "", fmt.Errorf("%w: %w", ErrWalkStalled, err)
	}
	return c.Hash.String(), nil
}

func (it *goGitIDIter) Close() {
	it.iter.Close()
}
