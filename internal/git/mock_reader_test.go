package git

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestMockSource_Walk(t *testing.T) {
	a := &Commit{Hash: "a"}
	b := &Commit{Hash: "b", Parents: []string{"a"}}

	t.Run("yields ids in order", func(t *testing.T) {
		src := NewMockSource(b, a)

		head, err := src.Head(context.Background())
		if err != nil || head != "b" {
			t.Fatalf("Head() = %q, %v; expected \"b\", nil", head, err)
		}

		iter, err := src.Walk(context.Background(), head)
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		defer iter.Close()

		var got []string
		for {
			id, err := iter.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			got = append(got, id)
		}
		if len(got) != 2 || got[0] != "b" || got[1] != "a" {
			t.Errorf("walk = %v, expected [b a]", got)
		}
	})

	t.Run("item errors do not stop the walk", func(t *testing.T) {
		src := NewMockSource(b, a)
		itemErr := errors.New("bad object")
		src.ItemErrs = map[int]error{0: itemErr}

		iter, _ := src.Walk(context.Background(), "b")
		if _, err := iter.Next(); !errors.Is(err, itemErr) {
			t.Fatalf("first Next() error = %v, expected %v", err, itemErr)
		}
		id, err := iter.Next()
		if err != nil || id != "a" {
			t.Fatalf("second Next() = %q, %v; expected \"a\", nil", id, err)
		}
		if _, err := iter.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("third Next() error = %v, expected io.EOF", err)
		}
	})

	t.Run("stalled walk repeats without advancing", func(t *testing.T) {
		src := NewMockSource(b, a)
		src.StallAt = 1
		src.StallErr = errors.New("object not found")

		iter, _ := src.Walk(context.Background(), "b")
		if id, err := iter.Next(); err != nil || id != "b" {
			t.Fatalf("first Next() = %q, %v; expected \"b\", nil", id, err)
		}
		for i := 0; i < 3; i++ {
			_, err := iter.Next()
			if !errors.Is(err, ErrWalkStalled) || !errors.Is(err, src.StallErr) {
				t.Fatalf("Next() error = %v, expected stalled %v", err, src.StallErr)
			}
		}
	})

	t.Run("unknown commit", func(t *testing.T) {
		src := NewMockSource(a)
		if _, err := src.Commit(context.Background(), "zzz"); err == nil {
			t.Fatalf("expected error for unknown commit")
		}
	})
}
