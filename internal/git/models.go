package git

import (
	"fmt"
	"strings"
	"time"
)

// Commit is a resolved commit object as reported by a RepositorySource.
type Commit struct {
	Hash      string
	Author    Signature
	Committer Signature
	Message   string
	Parents   []string // In the order the object records them
}

// Signature represents an author or committer line.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// NumParents returns the number of parents of the commit.
func (c Commit) NumParents() int {
	return len(c.Parents)
}

// IsMerge reports whether the commit has two or more parents.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// RefKind classifies a named reference.
type RefKind string

const (
	RefKindBranch RefKind = "branch"
	RefKindRemote RefKind = "remote"
	RefKindTag    RefKind = "tag"
	RefKindNote   RefKind = "note"
	RefKindOther  RefKind = "other"
)

// ClassifyRef returns the kind of a fully qualified reference name.
func ClassifyRef(name string) RefKind {
	switch {
	case strings.HasPrefix(name, "refs/heads/"):
		return RefKindBranch
	case strings.HasPrefix(name, "refs/remotes/"):
		return RefKindRemote
	case strings.HasPrefix(name, "refs/tags/"):
		return RefKindTag
	case strings.HasPrefix(name, "refs/notes/"):
		return RefKindNote
	default:
		return RefKindOther
	}
}

// Ref is a named reference resolved to the object it points at.
// Annotated tags are peeled to the commit they tag.
type Ref struct {
	Name   string
	Target string
	Kind   RefKind
}

// WalkOrder controls the order in which a source enumerates commits.
type WalkOrder int

const (
	// WalkOrderDefault leaves the order to the backend.
	WalkOrderDefault WalkOrder = iota
	WalkOrderCommitterTime
	WalkOrderTopological
	WalkOrderBFS
	WalkOrderDFSPost
)

// String returns the flag spelling of the order.
func (o WalkOrder) String() string {
	switch o {
	case WalkOrderDefault:
		return "default"
	case WalkOrderCommitterTime:
		return "ctime"
	case WalkOrderTopological:
		return "topo"
	case WalkOrderBFS:
		return "bfs"
	case WalkOrderDFSPost:
		return "dfs-post"
	default:
		return "unknown"
	}
}

// ParseWalkOrder parses the flag spelling of a walk order.
func ParseWalkOrder(s string) (WalkOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return WalkOrderDefault, nil
	case "ctime", "date":
		return WalkOrderCommitterTime, nil
	case "topo", "topological":
		return WalkOrderTopological, nil
	case "bfs":
		return WalkOrderBFS, nil
	case "dfs-post", "post":
		return WalkOrderDFSPost, nil
	default:
		return WalkOrderDefault, fmt.Errorf("invalid walk order: %s (expected default, ctime, topo, bfs, dfs-post)", s)
	}
}

// Backend selects the RepositorySource implementation.
type Backend string

const (
	BackendGoGit  Backend = "gogit"
	BackendGitCLI Backend = "gitcli"
)

// SourceOptions configures a RepositorySource.
type SourceOptions struct {
	RepoPath string
	Backend  Backend
	Order    WalkOrder
}
