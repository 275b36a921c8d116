package ingest

import (
	"fmt"
)

// Kind classifies an ingestion failure so callers can decide between
// skipping, retrying and aborting.
type Kind int

const (
	KindUnknown Kind = iota
	KindPathResolution
	KindSourceAccess
	KindStore
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPathResolution:
		return "path resolution"
	case KindSourceAccess:
		return "source access"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// PathResolutionError reports a repository or database path that could not be resolved.
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("resolve path %s: %v", e.Path, e.Err)
}

func (e *PathResolutionError) Unwrap() error { return e.Err }

// SourceAccessError reports a failure reading from the repository.
// ID is empty when the failure is not about a single commit.
type SourceAccessError struct {
	Op  string
	ID  string
	Err error
}

func (e *SourceAccessError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SourceAccessError) Unwrap() error { return e.Err }

// StoreError reports a failure writing to or reading from the database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first classified error in err's chain,
// searched depth-first the way errors.As does.
func KindOf(err error) Kind {
	switch e := err.(type) {
	case nil:
		return KindUnknown
	case *PathResolutionError:
		return KindPathResolution
	case *SourceAccessError:
		return KindSourceAccess
	case *StoreError:
		return KindStore
	case interface{ Unwrap() error }:
		return KindOf(e.Unwrap())
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if k := KindOf(inner); k != KindUnknown {
				return k
			}
		}
	}
	return KindUnknown
}
