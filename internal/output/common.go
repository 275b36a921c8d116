package output

import (
	"io"
	"os"
	"time"
)

const reportDateTimeLayout = time.RFC3339

// withOutput runs write against the report destination: the file at
// OutputPath when set, otherwise options.Writer (os.Stdout when nil).
// A failure to close the file is returned like a write failure.
func withOutput(options OutputOptions, write func(out io.Writer) error) (err error) {
	if options.OutputPath == "" {
		out := options.Writer
		if out == nil {
			out = os.Stdout
		}
		return write(out)
	}

	file, err := os.Create(options.OutputPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return write(file)
}

// formatDuration rounds a duration for display.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Millisecond).String()
	default:
		return d.String()
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
