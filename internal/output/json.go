package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONIngestWriter writes ingestion reports as JSON.
type JSONIngestWriter struct{}

// JSONIngestReport is the JSON output structure for an ingestion run.
type JSONIngestReport struct {
	RepoPath      string `json:"repo"`
	DBPath        string `json:"database"`
	Backend       string `json:"backend"`
	Order         string `json:"order"`
	TxMode        string `json:"txMode"`
	GeneratedAt   string `json:"generatedAt"`
	SchemaApplied int    `json:"schemaMigrationsApplied"`
	SchemaError   string `json:"schemaError,omitempty"`
	Head          string `json:"head"`
	Walked        int    `json:"commitsWalked"`
	Skipped       int    `json:"commitsSkipped"`
	Merges        int    `json:"mergeCommits"`
	Commits       int    `json:"commitsWritten"`
	Relations     int    `json:"relationsWritten"`
	Refs          int    `json:"refsWritten"`
	Windows       int    `json:"windows"`
	Transactions  int    `json:"transactions"`
	DurationMs    int64  `json:"durationMs"`
}

// Write outputs the ingestion report as JSON.
func (w *JSONIngestWriter) Write(report *IngestReport, options OutputOptions) error {
	s := report.Summary
	jsonReport := JSONIngestReport{
		RepoPath:      report.RepoPath,
		DBPath:        report.DBPath,
		Backend:       report.Backend,
		Order:         report.Order,
		TxMode:        report.TxMode,
		GeneratedAt:   report.GeneratedAt.Format(reportDateTimeLayout),
		SchemaApplied: report.SchemaApplied,
		SchemaError:   report.SchemaError,
		Head:          s.Head,
		Walked:        s.Walked,
		Skipped:       s.Skipped,
		Merges:        s.Merges,
		Commits:       s.Persisted.Commits,
		Relations:     s.Persisted.Relations,
		Refs:          s.Refs,
		Windows:       s.Windows,
		Transactions:  s.Persisted.Transactions,
		DurationMs:    s.Duration.Milliseconds(),
	}

	return writeJSON(jsonReport, options)
}

// JSONStatsWriter writes database statistics as JSON.
type JSONStatsWriter struct{}

// JSONStatsReport is the JSON output structure for database statistics.
type JSONStatsReport struct {
	DBPath        string           `json:"database"`
	SchemaVersion int              `json:"schemaVersion"`
	GeneratedAt   string           `json:"generatedAt"`
	Tables        map[string]int64 `json:"tables"`
}

// Write outputs the statistics report as JSON.
func (w *JSONStatsWriter) Write(report *StatsReport, options OutputOptions) error {
	tables := make(map[string]int64, len(report.Tables))
	for _, t := range report.Tables {
		tables[t.Table] = t.Rows
	}

	return writeJSON(JSONStatsReport{
		DBPath:        report.DBPath,
		SchemaVersion: report.SchemaVersion,
		GeneratedAt:   report.GeneratedAt.Format(reportDateTimeLayout),
		Tables:        tables,
	}, options)
}

func writeJSON(data interface{}, options OutputOptions) error {
	return withOutput(options, func(out io.Writer) error {
		return encodeJSON(out, data)
	})
}

func encodeJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
