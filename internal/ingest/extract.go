package ingest

import (
	"github.com/masmgr/git2sqlite/internal/git"
	"github.com/masmgr/git2sqlite/internal/store"
)

// Fallbacks for commit fields the object does not carry.
const (
	UnknownAuthor = "Unknown"
	NoMessage     = "No message"
)

// CommitRecord is the normalized form of one commit.
type CommitRecord struct {
	ID        string
	Author    string
	Timestamp int64 // Committer time, seconds since epoch
	Message   string
	Parents   []string
}

// Extract maps a resolved commit to a CommitRecord.
func Extract(c *git.Commit) CommitRecord {
	author := c.Author.Name
	if author == "" {
		author = UnknownAuthor
	}
	message := c.Message
	if message == "" {
		message = NoMessage
	}

	parents := make([]string, c.NumParents())
	copy(parents, c.Parents)

	return CommitRecord{
		ID:        c.Hash,
		Author:    author,
		Timestamp: c.Committer.When.Unix(),
		Message:   message,
		Parents:   parents,
	}
}

// Row returns the commit_details row for the record.
func (r CommitRecord) Row() store.Commit {
	return store.Commit{ID: r.ID, Author: r.Author, Date: r.Timestamp, Message: r.Message}
}

// Relations returns one commit_relation row per parent, in parent order.
func (r CommitRecord) Relations() []store.Relation {
	rels := make([]store.Relation, 0, len(r.Parents))
	for _, p := range r.Parents {
		rels = append(rels, store.Relation{Parent: p, Child: r.ID})
	}
	return rels
}
