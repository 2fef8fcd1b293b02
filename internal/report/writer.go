package report

import (
	"io"
	"time"
)

// Writer defines the interface for report output.
// Implementations render a Bundle in one format.
type Writer interface {
	// Write outputs the bundle to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(bundle *Bundle) (int, error)
}

// Metadata describes the run a bundle was built from.
type Metadata struct {
	// RunID identifies the run in the history database.
	RunID string `json:"run_id,omitempty"`

	// Version is the sheetcheck version that produced the report.
	Version string `json:"version,omitempty"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`
}

// MultiWriter writes to multiple Writers in order.
// This is useful for printing a summary while also saving a file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the bundle to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(bundle *Bundle) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(bundle)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	meta   Metadata
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, meta Metadata) baseWriter {
	return baseWriter{output: output, meta: meta}
}

// countingWriter counts the bytes passed to the wrapped writer.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
