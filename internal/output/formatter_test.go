package output

import "testing"

func TestNewIngestReportWriter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
	}{
		{name: "Console", format: FormatConsole},
		{name: "JSON", format: FormatJSON},
		{name: "CSV", format: FormatCSV},
		{name: "Unknown defaults to Console", format: "unknown"},
		{name: "Empty defaults to Console", format: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewIngestReportWriter(tt.format)
			if writer == nil {
				t.Fatal("NewIngestReportWriter returned nil")
			}

			switch tt.format {
			case FormatJSON:
				if _, ok := writer.(*JSONIngestWriter); !ok {
					t.Errorf("Expected *JSONIngestWriter for format %q", tt.format)
				}
			case FormatCSV:
				if _, ok := writer.(*CSVIngestWriter); !ok {
					t.Errorf("Expected *CSVIngestWriter for format %q", tt.format)
				}
			default:
				if _, ok := writer.(*ConsoleIngestWriter); !ok {
					t.Errorf("Expected *ConsoleIngestWriter for format %q", tt.format)
				}
			}
		})
	}
}

func TestNewStatsReportWriter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
	}{
		{name: "Console", format: FormatConsole},
		{name: "JSON", format: FormatJSON},
		{name: "CSV", format: FormatCSV},
		{name: "Unknown defaults to Console", format: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewStatsReportWriter(tt.format)
			switch tt.format {
			case FormatJSON:
				if _, ok := writer.(*JSONStatsWriter); !ok {
					t.Errorf("Expected *JSONStatsWriter for format %q", tt.format)
				}
			case FormatCSV:
				if _, ok := writer.(*CSVStatsWriter); !ok {
					t.Errorf("Expected *CSVStatsWriter for format %q", tt.format)
				}
			default:
				if _, ok := writer.(*ConsoleStatsWriter); !ok {
					t.Errorf("Expected *ConsoleStatsWriter for format %q", tt.format)
				}
			}
		})
	}
}
