// Package gittest builds throwaway Git repositories for tests.
package gittest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a repository on disk under a test temp directory.
type Repo struct {
	tb   testing.TB
	Dir  string
	Repo *gogit.Repository
	wt   *gogit.Worktree
	base time.Time
	n    int
}

// New initializes an empty non-bare repository.
func New(tb testing.TB) *Repo {
	tb.Helper()

	dir := tb.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		tb.Fatalf("Worktree: %v", err)
	}

	return &Repo{
		tb:   tb,
		Dir:  dir,
		Repo: repo,
		wt:   wt,
		base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// When returns the timestamp used for the i-th commit (zero based).
func (r *Repo) When(i int) time.Time {
	return r.base.Add(time.Duration(i) * time.Hour)
}

// Commit records a commit by "Test Author" and returns its id.
// Without parents the commit goes on top of HEAD.
func (r *Repo) Commit(msg string, parents ...string) string {
	r.tb.Helper()
	return r.CommitAs("Test Author", msg, parents...)
}

// CommitAs records a commit with the given author name and returns its id.
func (r *Repo) CommitAs(author, msg string, parents ...string) string {
	r.tb.Helper()

	rel := fmt.Sprintf("file%03d.txt", r.n)
	full := filepath.Join(r.Dir, rel)
	if err := os.WriteFile(full, []byte(fmt.Sprintf("commit %d\n", r.n)), 0o644); err != nil {
		r.tb.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.tb.Fatalf("Add: %v", err)
	}

	when := r.When(r.n)
	r.n++

	opts := &gogit.CommitOptions{
		Author:    &object.Signature{Name: author, Email: "test@example.com", When: when},
		Committer: &object.Signature{Name: "Test Committer", Email: "test@example.com", When: when},
	}
	for _, p := range parents {
		opts.Parents = append(opts.Parents, plumbing.NewHash(p))
	}

	hash, err := r.wt.Commit(msg, opts)
	if err != nil {
		r.tb.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

// Branch points refs/heads/<name> at target.
func (r *Repo) Branch(name, target string) {
	r.tb.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), plumbing.NewHash(target))
	if err := r.Repo.Storer.SetReference(ref); err != nil {
		r.tb.Fatalf("SetReference: %v", err)
	}
}

// Tag creates a lightweight tag, or an annotated one when message is not empty.
// It returns the id of the tag object for annotated tags and target otherwise.
func (r *Repo) Tag(name, target, message string) string {
	r.tb.Helper()

	var opts *gogit.CreateTagOptions
	if message != "" {
		opts = &gogit.CreateTagOptions{
			Tagger:  &object.Signature{Name: "Test Tagger", Email: "test@example.com", When: r.base},
			Message: message,
		}
	}
	ref, err := r.Repo.CreateTag(name, plumbing.NewHash(target), opts)
	if err != nil {
		r.tb.Fatalf("CreateTag: %v", err)
	}
	return ref.Hash().String()
}

// RemoveObject deletes the loose object file of id, leaving references to it
// dangling. Repositories opened afterwards fail to load it.
func (r *Repo) RemoveObject(id string) {
	r.tb.Helper()
	path := filepath.Join(r.Dir, ".git", "objects", id[:2], id[2:])
	if err := os.Remove(path); err != nil {
		r.tb.Fatalf("Remove object %s: %v", id, err)
	}
}
