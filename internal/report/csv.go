package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

// csvHeader is the header row of the CSV report.
var csvHeader = []string{
	"Source", "Row", "Column", "Rule", "Mode", "Original Value", "Issues", "Suggested Fix",
}

// CSVWriter outputs one line per issue for spreadsheet tools.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output, Metadata{})}
}

// Write outputs the header and every row of the bundle.
func (w *CSVWriter) Write(bundle *Bundle) (int, error) {
	cw := &countingWriter{w: w.output}
	out := csv.NewWriter(cw)

	if err := out.Write(csvHeader); err != nil {
		return cw.n, err
	}
	for _, r := range bundle.Rows {
		mode := "normal"
		if r.Strict {
			mode = "strict"
		}
		record := []string{
			r.Source,
			strconv.Itoa(r.Row),
			r.Column,
			r.Rule.String(),
			mode,
			r.Value,
			r.Description(),
			r.Suggestion,
		}
		if err := out.Write(record); err != nil {
			return cw.n, err
		}
	}

	out.Flush()
	return cw.n, out.Error()
}
