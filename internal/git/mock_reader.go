package git

import (
	"context"
	"fmt"
)

// MockSource is a test double for RepositorySource.
// It allows tests to provide predefined commit data without needing a real Git repository.
type MockSource struct {
	HeadID  string
	Order   []string           // Ids yielded by Walk, in order
	Commits map[string]*Commit // Ids missing here fail to resolve
	RefList []Ref

	HeadErr error
	WalkErr error
	RefsErr error
	// ItemErrs makes Walk yield an error in place of the id at that position.
	ItemErrs map[int]error
	// StallErr, when set, makes Walk fail at position StallAt on every call
	// without advancing, the way go-git does on an unreadable object.
	StallAt  int
	StallErr error
}

// NewMockSource builds a MockSource whose walk yields commits in the given order.
// The first commit is used as HEAD.
func NewMockSource(commits ...*Commit) *MockSource {
	m := &MockSource{Commits: make(map[string]*Commit, len(commits))}
	for _, c := range commits {
		m.Order = append(m.Order, c.Hash)
		m.Commits[c.Hash] = c
	}
	if len(commits) > 0 {
		m.HeadID = commits[0].Hash
	}
	return m
}

// Head returns HeadID or HeadErr.
func (m *MockSource) Head(_ context.Context) (string, error) {
	if m.HeadErr != nil {
		return "", m.HeadErr
	}
	return m.HeadID, nil
}

// Walk yields Order, ignoring from.
func (m *MockSource) Walk(_ context.Context, _ string) (CommitIDIter, error) {
	if m.WalkErr != nil {
		return nil, m.WalkErr
	}
	it := newMockIDIter(m.Order, m.ItemErrs)
	if m.StallErr != nil {
		it.stallAt, it.stallErr = m.StallAt, m.StallErr
	}
	return it, nil
}

// Commit returns the predefined commit for id.
func (m *MockSource) Commit(_ context.Context, id string) (*Commit, error) {
	c, ok := m.Commits[id]
	if !ok {
		return nil, fmt.Errorf("commit %s: object not found", id)
	}
	return c, nil
}

// Refs returns RefList or RefsErr.
func (m *MockSource) Refs(_ context.Context) ([]Ref, error) {
	return m.RefList, m.RefsErr
}

type mockIDIter struct {
	sliceIDIter
	errs     map[int]error
	stallAt  int
	stallErr error
}

func newMockIDIter(ids []string, errs map[int]error) *mockIDIter {
	return &mockIDIter{sliceIDIter: sliceIDIter{ids: ids}, errs: errs, stallAt: -1}
}

func (it *mockIDIter) Next() (string, error) {
	pos := it.pos
	if it.stallErr != nil && pos == it.stallAt {
		return "", fmt.Errorf("%w: %w", ErrWalkStalled, it.stallErr)
	}
	id, err := it.sliceIDIter.Next()
	if err != nil {
		return id, err
	}
	if e, ok := it.errs[pos]; ok {
		return "", e
	}
	return id, nil
}
