package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sheetcheck/internal/model"
)

// defaultMaxIssues is how many issue lines SimpleWriter prints before
// summarising the rest.
const defaultMaxIssues = 20

// SimpleWriter outputs a human-readable summary for terminal display.
type SimpleWriter struct {
	baseWriter

	// maxIssues caps the number of issue lines printed. Zero prints all.
	maxIssues int

	// verbose adds suggested fixes to every issue line.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithMaxIssues caps the number of issue lines printed. Zero prints all.
func WithMaxIssues(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n >= 0 {
			w.maxIssues = n
		}
	}
}

// WithVerbose enables verbose output with suggested fixes.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output, Metadata{}),
		maxIssues:  defaultMaxIssues,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the bundle summary in human-readable format.
func (w *SimpleWriter) Write(bundle *Bundle) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, bundle)
	w.writeSummary(&sb, bundle)
	w.writeIssues(&sb, bundle)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the title and the list of sources.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, bundle *Bundle) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      SHEETCHECK VALIDATION SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	for _, src := range bundle.Summary.Sources {
		fmt.Fprintf(sb, "Source:         %s\n", src)
	}
	fmt.Fprintf(sb, "Columns:        %d\n", len(bundle.Summary.Columns))
	fmt.Fprintf(sb, "Cells Scanned:  %d\n", bundle.Summary.CellsScanned)
	sb.WriteString("\n")
}

// writeSummary writes counts per rule kind.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, bundle *Bundle) {
	s := bundle.Summary

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUES BY RULE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  SPACING:    %d (strict %d, normal %d)\n",
		s.RuleCount(model.RuleSpacing), s.StrictSpacing, s.NormalSpacing)
	fmt.Fprintf(sb, "  TIME:       %d\n", s.RuleCount(model.RuleTimeFormat))
	fmt.Fprintf(sb, "  EXTENSION:  %d\n", s.RuleCount(model.RuleExtensionCase))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:      %d issues in %d cells\n", s.TotalIssues, s.FlaggedCells)
	sb.WriteString("\n")
}

// writeIssues writes one line per issue, up to the configured cap.
func (w *SimpleWriter) writeIssues(sb *strings.Builder, bundle *Bundle) {
	if !bundle.Summary.HasIssues() {
		sb.WriteString("No issues found.\n")
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	rows := bundle.Rows
	if w.maxIssues > 0 && len(rows) > w.maxIssues {
		rows = rows[:w.maxIssues]
	}

	for _, r := range rows {
		indicator := "-"
		if r.Strict {
			indicator = "!"
		}
		fmt.Fprintf(sb, "  [%s] %s row %d, %s: %s\n", indicator, r.Source, r.Row, r.Column, r.Description())
		fmt.Fprintf(sb, "      Value: %q\n", r.Value)
		if w.verbose && r.Suggestion != "" {
			fmt.Fprintf(sb, "      Suggested Fix: %q\n", r.Suggestion)
		}
	}

	if rest := len(bundle.Rows) - len(rows); rest > 0 {
		fmt.Fprintf(sb, "\n  ... and %d more issues\n", rest)
	}
	sb.WriteString("\n")
}
