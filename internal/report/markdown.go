package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/sheetcheck/internal/model"
)

// markdownIssueLimit caps the issue table so large sheets stay readable.
// The CSV report always carries every row.
const markdownIssueLimit = 200

// MarkdownWriter outputs a validation summary in Markdown format.
// The nao1215/markdown builder gives us tables, alerts and mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, meta Metadata) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output, meta),
	}
}

// Write outputs the bundle in Markdown format.
func (w *MarkdownWriter) Write(bundle *Bundle) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, bundle)
	w.writeSummary(md, bundle)
	w.writeColumns(md, bundle)
	w.writeIssues(md, bundle)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, bundle *Bundle) {
	md.H1("Sheetcheck Validation Report")
	md.PlainText("")

	rows := [][]string{}
	if w.meta.RunID != "" {
		rows = append(rows, []string{"Run ID", "`" + w.meta.RunID + "`"})
	}
	if !w.meta.GeneratedAt.IsZero() {
		rows = append(rows, []string{"Generated", w.meta.GeneratedAt.Format("2006-01-02 15:04:05 MST")})
	}
	for _, src := range bundle.Summary.Sources {
		rows = append(rows, []string{"Source", "`" + src + "`"})
	}
	rows = append(rows,
		[]string{"Columns", strconv.Itoa(len(bundle.Summary.Columns))},
		[]string{"Cells Scanned", strconv.Itoa(bundle.Summary.CellsScanned)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the per-rule counts, a chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, bundle *Bundle) {
	s := bundle.Summary

	md.H2("Issue Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.AllRuleKinds())+1)
	for _, k := range model.AllRuleKinds() {
		rows = append(rows, []string{k.Info().Title, strconv.Itoa(s.RuleCount(k))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(s.TotalIssues) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Rule", "Issues"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.HasIssues() {
		w.writePieChart(md, s)
	}

	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of issues per rule label.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issues by Rule"),
		piechart.WithShowData(true),
	)

	if s.StrictSpacing > 0 {
		chart.LabelAndIntValue("Strict Spacing", uint64(s.StrictSpacing))
	}
	if s.NormalSpacing > 0 {
		chart.LabelAndIntValue("Spacing", uint64(s.NormalSpacing))
	}
	for _, k := range []model.RuleKind{model.RuleTimeFormat, model.RuleExtensionCase} {
		if n := s.RuleCount(k); n > 0 {
			chart.LabelAndIntValue(k.Info().Label, uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s Summary) {
	switch {
	case s.Malformed > 0:
		md.Cautionf("%d value(s) could not be parsed at all and need manual review.", s.Malformed)
	case s.HasIssues():
		md.Warningf("%d issue(s) found in %d cell(s). Flagged cells are highlighted in the workbook copy.",
			s.TotalIssues, s.FlaggedCells)
	default:
		md.Tip("No issues found. Every scanned cell passed the selected rules.")
	}
	md.PlainText("")
}

// writeColumns writes per-column counts.
func (w *MarkdownWriter) writeColumns(md *markdown.Markdown, bundle *Bundle) {
	md.H2("Columns")
	md.PlainText("")

	if len(bundle.Summary.Columns) == 0 {
		md.PlainText("No columns were validated.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(bundle.Summary.Columns))
	for i, c := range bundle.Summary.Columns {
		rows[i] = []string{
			c.Source,
			c.Column,
			c.Mode.String(),
			c.Rules.String(),
			strconv.Itoa(c.Cells),
			strconv.Itoa(c.Issues),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Column", "Mode", "Rules", "Cells", "Issues"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeIssues writes the issue table and rule recommendations.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, bundle *Bundle) {
	md.H2("Issues")
	md.PlainText("")

	if !bundle.Summary.HasIssues() {
		md.PlainText("No issues found.")
		md.PlainText("")
		return
	}

	shown := bundle.Rows
	if len(shown) > markdownIssueLimit {
		shown = shown[:markdownIssueLimit]
	}

	rows := make([][]string, len(shown))
	for i, r := range shown {
		fix := r.Suggestion
		if fix == "" {
			fix = "-"
		}
		rows[i] = []string{
			r.Source,
			strconv.Itoa(r.Row),
			r.Column,
			"`" + truncateString(r.Value, 40) + "`",
			truncateString(r.Description(), 80),
			truncateString(fix, 40),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Row", "Column", "Value", "Issue", "Suggested Fix"},
		Rows:   rows,
	})
	md.PlainText("")

	if rest := len(bundle.Rows) - len(shown); rest > 0 {
		md.Note(strconv.Itoa(rest) + " more issue(s) are listed in the CSV report.")
		md.PlainText("")
	}

	for _, k := range model.AllRuleKinds() {
		if bundle.Summary.RuleCount(k) == 0 {
			continue
		}
		info := k.Info()
		md.Details(info.Title, info.Recommendation)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	if w.meta.Version != "" {
		md.PlainTextf("*Report generated by sheetcheck %s*", w.meta.Version)
		return
	}
	md.PlainText("*Report generated by sheetcheck*")
}
