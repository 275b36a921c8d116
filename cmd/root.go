package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/git2sqlite/config"
	"github.com/masmgr/git2sqlite/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "git2sqlite",
		Usage:     "Ingest Git commit history into a SQLite database",
		Version:   "1.0.0",
		ArgsUsage: "[repository path] [database path]",
		Commands: []*cli.Command{
			IngestCmd(),
			StatsCmd(),
		},
		Flags:  ingestFlags(),
		Action: ingestAction,
	}
}

// Flags shared by every command.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Report format (console, json, csv)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Report file path (default: stdout)",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	default:
		return output.FormatConsole
	}
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		OutputPath: c.String("output"),
		Writer:     c.App.Writer,
	}
}

// loadConfig loads configuration from file or defaults, then applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("backend") {
		cfg.Source.Backend = c.String("backend")
	}
	if c.IsSet("order") {
		cfg.Source.Order = c.String("order")
	}
	if c.IsSet("batch-size") {
		cfg.Store.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("tx-mode") {
		cfg.Store.TxMode = c.String("tx-mode")
	}
	if c.IsSet("strict-schema") {
		cfg.Store.StrictSchema = c.Bool("strict-schema")
	}
	if c.IsSet("refs") {
		cfg.Refs.Enabled = c.Bool("refs")
	}
	if includes := c.StringSlice("ref-include"); len(includes) > 0 {
		cfg.Refs.Include = includes
	}
	if excludes := c.StringSlice("ref-exclude"); len(excludes) > 0 {
		cfg.Refs.Exclude = excludes
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
