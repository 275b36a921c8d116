package output

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVIngestWriter writes ingestion reports as CSV, one metric per row.
type CSVIngestWriter struct{}

// Write outputs the ingestion report as CSV.
func (w *CSVIngestWriter) Write(report *IngestReport, options OutputOptions) error {
	s := report.Summary
	rows := [][]string{
		{"Metric", "Value"},
		{"repo", report.RepoPath},
		{"database", report.DBPath},
		{"head", s.Head},
		{"commitsWalked", strconv.Itoa(s.Walked)},
		{"commitsSkipped", strconv.Itoa(s.Skipped)},
		{"mergeCommits", strconv.Itoa(s.Merges)},
		{"commitsWritten", strconv.Itoa(s.Persisted.Commits)},
		{"relationsWritten", strconv.Itoa(s.Persisted.Relations)},
		{"refsWritten", strconv.Itoa(s.Refs)},
		{"transactions", strconv.Itoa(s.Persisted.Transactions)},
		{"durationMs", strconv.FormatInt(s.Duration.Milliseconds(), 10)},
	}
	return writeCSV(rows, options)
}

// CSVStatsWriter writes database statistics as CSV.
type CSVStatsWriter struct{}

// Write outputs the statistics report as CSV.
func (w *CSVStatsWriter) Write(report *StatsReport, options OutputOptions) error {
	rows := [][]string{{"Table", "Rows"}}
	for _, t := range report.Tables {
		rows = append(rows, []string{t.Table, strconv.FormatInt(t.Rows, 10)})
	}
	return writeCSV(rows, options)
}

func writeCSV(rows [][]string, options OutputOptions) error {
	return withOutput(options, func(out io.Writer) error {
		writer := csv.NewWriter(out)
		if err := writer.WriteAll(rows); err != nil {
			return err
		}
		return writer.Error()
	})
}
