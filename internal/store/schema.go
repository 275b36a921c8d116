package store

// schemaVersion is the current schema version. Increment when adding migrations.
const schemaVersion = 1

// migrations maps version numbers to the statements that bring the schema
// from (version-1) to (version). Statements run in order inside one transaction.
var migrations = map[int][]string{
	1: {
		`CREATE TABLE commit_details (
			id TEXT PRIMARY KEY,
			author TEXT NOT NULL,
			date INTEGER NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE TABLE commit_relation (
			parent TEXT NOT NULL,
			child TEXT NOT NULL,
			PRIMARY KEY (parent, child)
		)`,
		`CREATE TABLE ref_details (
			name TEXT NOT NULL,
			id TEXT NOT NULL,
			kind TEXT NOT NULL,
			PRIMARY KEY (name, id)
		)`,
	},
}

// Tables lists the persisted tables in creation order.
var Tables = []string{"commit_details", "commit_relation", "ref_details"}
