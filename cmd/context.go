package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/masmgr/git2sqlite/config"
	"github.com/masmgr/git2sqlite/internal/git"
	"github.com/masmgr/git2sqlite/internal/ingest"
	"github.com/masmgr/git2sqlite/internal/output"
	"github.com/masmgr/git2sqlite/internal/store"
	"github.com/urfave/cli/v2"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic of the ingest and stats commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	DBPath   string
	Output   output.OutputOptions
	Reporter *output.ConsoleReporter
}

// NewCommandContext creates a context from CLI flags and positional arguments:
// the repository path first, then the database path.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	repoArg := "."
	if c.NArg() > 0 {
		repoArg = c.Args().Get(0)
	}
	repoPath, err := filepath.Abs(repoArg)
	if err != nil {
		return nil, &ingest.PathResolutionError{Path: repoArg, Err: err}
	}

	dbPath := cfg.Store.Path
	if c.NArg() > 1 {
		dbPath = c.Args().Get(1)
	}

	opts := OutputOptions(c)

	// Keep stdout clean for machine-readable reports.
	progress := c.App.Writer
	if opts.Format != output.FormatConsole && opts.OutputPath == "" {
		progress = c.App.ErrWriter
	}
	reporter := output.NewConsoleReporter(progress)
	reporter.Err = c.App.ErrWriter

	return &CommandContext{
		Config:   cfg,
		RepoPath: repoPath,
		DBPath:   dbPath,
		Output:   opts,
		Reporter: reporter,
	}, nil
}

// OpenSource opens the repository with the configured backend and walk order.
func (ctx *CommandContext) OpenSource() (git.RepositorySource, error) {
	order, err := git.ParseWalkOrder(ctx.Config.Source.Order)
	if err != nil {
		return nil, err
	}

	src, err := git.Open(git.SourceOptions{
		RepoPath: ctx.RepoPath,
		Backend:  git.Backend(ctx.Config.Source.Backend),
		Order:    order,
	})
	if err != nil {
		return nil, &ingest.SourceAccessError{Op: "open repository " + ctx.RepoPath, Err: err}
	}
	return src, nil
}

// OpenStore opens or creates the database file.
func (ctx *CommandContext) OpenStore(c context.Context) (*store.Store, error) {
	st, err := store.Open(c, ctx.DBPath)
	if err != nil {
		return nil, &ingest.StoreError{Op: "open database", Err: err}
	}
	return st, nil
}

// PipelineOptions builds pipeline options from the configuration.
func (ctx *CommandContext) PipelineOptions() (ingest.Options, error) {
	mode, err := ingest.ParseTxMode(ctx.Config.Store.TxMode)
	if err != nil {
		return ingest.Options{}, err
	}
	if ctx.Config.Store.BatchSize < 0 {
		return ingest.Options{}, fmt.Errorf("invalid batch size: %d", ctx.Config.Store.BatchSize)
	}

	filter := ingest.RefFilter{Include: ctx.Config.Refs.Include, Exclude: ctx.Config.Refs.Exclude}
	if err := filter.Validate(); err != nil {
		return ingest.Options{}, err
	}

	return ingest.Options{
		BatchSize:   ctx.Config.Store.BatchSize,
		TxMode:      mode,
		CollectRefs: ctx.Config.Refs.Enabled,
		RefFilter:   filter,
	}, nil
}
