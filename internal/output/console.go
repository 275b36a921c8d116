package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/masmgr/git2sqlite/internal/ingest"
)

// ConsoleReporter prints pipeline progress as plain lines and recoverable
// failures as red one-liners.
type ConsoleReporter struct {
	Out io.Writer
	Err io.Writer
}

// NewConsoleReporter reports progress to out and failures to stderr.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{Out: out, Err: os.Stderr}
}

// Progress prints msg on its own line.
func (r *ConsoleReporter) Progress(msg string) {
	fmt.Fprintln(r.Out, msg)
}

// Warn prints a recoverable failure.
func (r *ConsoleReporter) Warn(err error) {
	red := color.New(color.FgRed)
	if ingest.KindOf(err) == ingest.KindSourceAccess {
		red.Fprintf(r.Err, "Failed to process commit: %v\n", err)
		return
	}
	red.Fprintf(r.Err, "Error: %v\n", err)
}

// ConsoleIngestWriter writes ingestion reports to the console.
type ConsoleIngestWriter struct{}

// Write outputs the ingestion report to the console.
func (w *ConsoleIngestWriter) Write(report *IngestReport, options OutputOptions) error {
	return withOutput(options, func(out io.Writer) error {
		return writeConsoleIngest(out, report)
	})
}

func writeConsoleIngest(out io.Writer, report *IngestReport) error {
	s := report.Summary
	color.New(color.FgGreen).Fprintln(out, "Ingestion Summary")

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Repository:\t%s\n", report.RepoPath)
	fmt.Fprintf(tw, "Database:\t%s\n", report.DBPath)
	fmt.Fprintf(tw, "Backend:\t%s (order: %s)\n", report.Backend, report.Order)
	fmt.Fprintf(tw, "Head:\t%s\n", shortID(s.Head))
	fmt.Fprintf(tw, "Commits walked:\t%d\n", s.Walked)
	fmt.Fprintf(tw, "Commits skipped:\t%d\n", s.Skipped)
	fmt.Fprintf(tw, "Merge commits:\t%d\n", s.Merges)
	fmt.Fprintf(tw, "Commits written:\t%d\n", s.Persisted.Commits)
	fmt.Fprintf(tw, "Relations written:\t%d\n", s.Persisted.Relations)
	fmt.Fprintf(tw, "Refs written:\t%d\n", s.Refs)
	fmt.Fprintf(tw, "Transactions:\t%d (%s mode, %d windows)\n", s.Persisted.Transactions, report.TxMode, s.Windows)
	fmt.Fprintf(tw, "Elapsed:\t%s\n", formatDuration(s.Duration))
	if err := tw.Flush(); err != nil {
		return err
	}

	if report.SchemaError != "" {
		color.New(color.FgYellow).Fprintf(out, "Schema was not created: %s\n", report.SchemaError)
	}
	return nil
}

// ConsoleStatsWriter writes database statistics to the console.
type ConsoleStatsWriter struct{}

// Write outputs the statistics report to the console.
func (w *ConsoleStatsWriter) Write(report *StatsReport, options OutputOptions) error {
	return withOutput(options, func(out io.Writer) error {
		return writeConsoleStats(out, report)
	})
}

func writeConsoleStats(out io.Writer, report *StatsReport) error {
	color.New(color.FgGreen).Fprintln(out, "Database Statistics")
	fmt.Fprintf(out, "Database: %s\n", report.DBPath)
	fmt.Fprintf(out, "Schema version: %d\n\n", report.SchemaVersion)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Table\tRows")
	for _, t := range report.Tables {
		fmt.Fprintf(tw, "%s\t%d\n", t.Table, t.Rows)
	}
	return tw.Flush()
}
