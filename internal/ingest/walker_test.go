package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/masmgr/git2sqlite/internal/git"
	"github.com/masmgr/git2sqlite/internal/git/gittest"
)

func TestWalker_StalledSourceEndsWalk(t *testing.T) {
	a := &git.Commit{Hash: "a"}
	b := &git.Commit{Hash: "b", Parents: []string{"a"}}
	c := &git.Commit{Hash: "c", Parents: []string{"b"}}
	src := git.NewMockSource(c, b, a)
	src.StallAt = 2
	src.StallErr = errors.New("object not found")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reporter := &recordingReporter{}
	result, err := NewWalker(src, reporter).Walk(ctx)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(result.IDs) != 2 || result.IDs[0] != "c" || result.IDs[1] != "b" {
		t.Errorf("ids = %v, expected [c b]", result.IDs)
	}
	if result.Skipped != 1 || len(reporter.warnings) != 1 {
		t.Errorf("expected one skip and one warning, got %d and %d", result.Skipped, len(reporter.warnings))
	}
	if KindOf(reporter.warnings[0]) != KindSourceAccess {
		t.Errorf("warning = %v, expected source access error", reporter.warnings[0])
	}
}

func TestWalker_MissingObjectInRepository(t *testing.T) {
	fx := gittest.New(t)
	a := fx.Commit("A")
	b := fx.Commit("B")
	c := fx.Commit("C")
	fx.RemoveObject(a)

	src, err := git.OpenGoGitSource(git.SourceOptions{RepoPath: fx.Dir})
	if err != nil {
		t.Fatalf("OpenGoGitSource: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reporter := &recordingReporter{}
	result, err := NewWalker(src, reporter).Walk(ctx)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(result.IDs) != 2 || result.IDs[0] != c || result.IDs[1] != b {
		t.Errorf("ids = %v, expected [%s %s]", result.IDs, c, b)
	}
	if len(reporter.warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(reporter.warnings))
	}
	if !errors.Is(reporter.warnings[0], git.ErrWalkStalled) {
		t.Errorf("warning = %v, expected stalled walk", reporter.warnings[0])
	}
}

func TestWalker_ItemErrorsContinue(t *testing.T) {
	a := &git.Commit{Hash: "a"}
	b := &git.Commit{Hash: "b", Parents: []string{"a"}}
	src := git.NewMockSource(b, a)
	src.ItemErrs = map[int]error{0: errors.New("corrupt object")}

	reporter := &recordingReporter{}
	result, err := NewWalker(src, reporter).Walk(context.Background())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(result.IDs) != 1 || result.IDs[0] != "a" || result.Skipped != 1 {
		t.Errorf("result = %+v, expected [a] with one skip", result)
	}
}
