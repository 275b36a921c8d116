package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/masmgr/git2sqlite/internal/store"
)

var dbSeq struct {
	sync.Mutex
	n int
}

// newTestStore opens a migrated store in a fresh file under dir.
func newTestStore(t testing.TB, dir string) *store.Store {
	t.Helper()

	dbSeq.Lock()
	dbSeq.n++
	name := fmt.Sprintf("history-%d.db", dbSeq.n)
	dbSeq.Unlock()

	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	if _, err := st.Migrate(ctx); err != nil {
		st.Close()
		t.Fatalf("Migrate: %v", err)
	}
	return st
}

// recordingReporter keeps everything it is told.
type recordingReporter struct {
	progress []string
	warnings []error
}

func (r *recordingReporter) Progress(msg string) { r.progress = append(r.progress, msg) }
func (r *recordingReporter) Warn(err error)      { r.warnings = append(r.warnings, err) }

func relationSet(rels []store.Relation) map[store.Relation]bool {
	set := make(map[store.Relation]bool, len(rels))
	for _, r := range rels {
		set[r] = true
	}
	return set
}
