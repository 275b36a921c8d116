package cmd

import (
	"time"

	"github.com/masmgr/git2sqlite/internal/ingest"
	"github.com/masmgr/git2sqlite/internal/output"
	"github.com/urfave/cli/v2"
)

// IngestCmd returns the ingest command.
func IngestCmd() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Aliases:   []string{"i"},
		Usage:     "Write the history reachable from HEAD into the database",
		ArgsUsage: "[repository path] [database path]",
		Flags:     ingestFlags(),
		Action:    ingestAction,
	}
}

func ingestFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Repository reader (gogit, gitcli)",
			Value: "gogit",
		},
		&cli.StringFlag{
			Name:  "order",
			Usage: "Walk order (default, ctime, topo, bfs, dfs-post)",
			Value: "default",
		},
		&cli.IntFlag{
			Name:    "batch-size",
			Aliases: []string{"n"},
			Usage:   "Number of commits held in memory per window",
			Value:   ingest.DefaultBatchSize,
		},
		&cli.StringFlag{
			Name:  "tx-mode",
			Usage: "Unit of persistence (commit, window)",
			Value: string(ingest.TxPerCommit),
		},
		&cli.BoolFlag{
			Name:  "strict-schema",
			Usage: "Abort when the schema cannot be created",
		},
		&cli.BoolFlag{
			Name:  "refs",
			Usage: "Also record branches, tags and other named refs",
		},
		&cli.StringSliceFlag{
			Name:  "ref-include",
			Usage: "Glob patterns of ref names to record (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "ref-exclude",
			Usage: "Glob patterns of ref names to skip (can be specified multiple times)",
		},
	)
}

func ingestAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	opts, err := ctx.PipelineOptions()
	if err != nil {
		return err
	}

	st, err := ctx.OpenStore(c.Context)
	if err != nil {
		return err
	}
	defer st.Close()

	report := &output.IngestReport{
		RepoPath: ctx.RepoPath,
		DBPath:   ctx.DBPath,
		Backend:  ctx.Config.Source.Backend,
		Order:    ctx.Config.Source.Order,
		TxMode:   string(opts.TxMode),
	}

	applied, err := st.Migrate(c.Context)
	report.SchemaApplied = applied
	switch {
	case err != nil && ctx.Config.Store.StrictSchema:
		return &ingest.StoreError{Op: "create schema", Err: err}
	case err != nil:
		// Reported only; the inserts below fail if the tables are really missing.
		ctx.Reporter.Warn(&ingest.StoreError{Op: "create schema", Err: err})
		report.SchemaError = err.Error()
	case applied > 0:
		ctx.Reporter.Progress("Database and tables created successfully!")
	}

	src, err := ctx.OpenSource()
	if err != nil {
		return err
	}

	summary, err := ingest.New(src, st, ctx.Reporter, opts).Run(c.Context)
	if err != nil {
		return err
	}

	report.Summary = *summary
	report.GeneratedAt = time.Now()
	return writeIngestReport(ctx, report)
}
