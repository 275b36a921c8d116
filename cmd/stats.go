package cmd

import (
	"errors"
	"io/fs"
	"time"

	"github.com/masmgr/git2sqlite/internal/ingest"
	"github.com/masmgr/git2sqlite/internal/output"
	"github.com/masmgr/git2sqlite/internal/store"
	"github.com/urfave/cli/v2"
)

// StatsCmd returns the stats command.
func StatsCmd() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Show row counts of an ingested database",
		ArgsUsage: "[database path]",
		Flags:     commonFlags(),
		Action:    statsAction,
	}
}

func statsAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dbPath := cfg.Store.Path
	if c.NArg() > 0 {
		dbPath = c.Args().Get(0)
	}

	ctx := &CommandContext{Config: cfg, DBPath: dbPath, Output: OutputOptions(c)}
	st, err := store.OpenReadOnly(c.Context, dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &ingest.PathResolutionError{Path: dbPath, Err: err}
	}
	if err != nil {
		return &ingest.StoreError{Op: "open database", Err: err}
	}
	defer st.Close()

	version, err := st.Version(c.Context)
	if err != nil {
		return &ingest.StoreError{Op: "read schema version", Err: err}
	}
	tables, err := st.Counts(c.Context)
	if err != nil {
		return &ingest.StoreError{Op: "count rows", Err: err}
	}

	return writeStatsReport(ctx, &output.StatsReport{
		DBPath:        dbPath,
		SchemaVersion: version,
		GeneratedAt:   time.Now(),
		Tables:        tables,
	})
}
