package output

import (
	"io"
	"time"

	"github.com/masmgr/git2sqlite/internal/ingest"
	"github.com/masmgr/git2sqlite/internal/store"
)

// Compile-time interface conformance checks.
var (
	_ IngestReportWriter = (*ConsoleIngestWriter)(nil)
	_ IngestReportWriter = (*JSONIngestWriter)(nil)
	_ IngestReportWriter = (*CSVIngestWriter)(nil)

	_ StatsReportWriter = (*ConsoleStatsWriter)(nil)
	_ StatsReportWriter = (*JSONStatsWriter)(nil)
	_ StatsReportWriter = (*CSVStatsWriter)(nil)

	_ ingest.Reporter = (*ConsoleReporter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	Writer     io.Writer // Used when OutputPath is empty; nil means os.Stdout
}

// IngestReport describes one ingestion run.
type IngestReport struct {
	RepoPath      string
	DBPath        string
	Backend       string
	Order         string
	TxMode        string
	SchemaApplied int
	SchemaError   string
	GeneratedAt   time.Time
	Summary       ingest.Summary
}

// StatsReport describes the contents of a database file.
type StatsReport struct {
	DBPath        string
	SchemaVersion int
	GeneratedAt   time.Time
	Tables        []store.TableCount
}

// IngestReportWriter writes ingestion reports.
type IngestReportWriter interface {
	Write(report *IngestReport, options OutputOptions) error
}

// StatsReportWriter writes database statistics reports.
type StatsReportWriter interface {
	Write(report *StatsReport, options OutputOptions) error
}

// NewIngestReportWriter creates an ingest report writer for the specified format.
func NewIngestReportWriter(format OutputFormat) IngestReportWriter {
	switch format {
	case FormatJSON:
		return &JSONIngestWriter{}
	case FormatCSV:
		return &CSVIngestWriter{}
	default:
		return &ConsoleIngestWriter{}
	}
}

// NewStatsReportWriter creates a stats report writer for the specified format.
func NewStatsReportWriter(format OutputFormat) StatsReportWriter {
	switch format {
	case FormatJSON:
		return &JSONStatsWriter{}
	case FormatCSV:
		return &CSVStatsWriter{}
	default:
		return &ConsoleStatsWriter{}
	}
}
