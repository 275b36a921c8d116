package ingest

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "Nil", err: nil, want: KindUnknown},
		{name: "Plain", err: cause, want: KindUnknown},
		{name: "Path", err: &PathResolutionError{Path: "x", Err: cause}, want: KindPathResolution},
		{name: "Source", err: &SourceAccessError{Op: "walk", Err: cause}, want: KindSourceAccess},
		{name: "Store", err: &StoreError{Op: "persist", Err: cause}, want: KindStore},
		{name: "Wrapped store", err: fmt.Errorf("run: %w", &StoreError{Op: "persist", Err: cause}), want: KindStore},
		{name: "Store wrapping source", err: &StoreError{Op: "persist", Err: &SourceAccessError{Op: "walk", Err: cause}}, want: KindStore},
		{name: "Source wrapping path", err: &SourceAccessError{Op: "open", Err: &PathResolutionError{Path: "x", Err: cause}}, want: KindSourceAccess},
		{name: "Multiple wraps", err: fmt.Errorf("%w: %w", cause, &StoreError{Op: "persist", Err: cause}), want: KindStore},
		{name: "Joined", err: errors.Join(cause, &SourceAccessError{Op: "walk", Err: cause}), want: KindSourceAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	for _, err := range []error{
		&PathResolutionError{Path: "x", Err: cause},
		&SourceAccessError{Op: "resolve commit", ID: "abc", Err: cause},
		&StoreError{Op: "persist", Err: cause},
	} {
		if !errors.Is(err, cause) {
			t.Errorf("%T does not unwrap to its cause", err)
		}
	}

	got := (&SourceAccessError{Op: "resolve commit", ID: "abc", Err: cause}).Error()
	if got != "resolve commit abc: cause" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKind_String(t *testing.T) {
	if KindStore.String() != "store" || Kind(42).String() != "unknown" {
		t.Errorf("unexpected Kind strings: %q %q", KindStore.String(), Kind(42).String())
	}
}
