package report

import (
	"cmp"
	"slices"

	"github.com/nao1215/sheetcheck/internal/model"
)

// Row is one line of the tabular report: exactly one issue.
type Row struct {
	Source      string         `json:"source"`
	Column      string         `json:"column"`
	ColumnIndex int            `json:"column_index"`
	Row         int            `json:"row"`
	Rule        model.RuleKind `json:"rule"`
	Strict      bool           `json:"strict,omitempty"`
	Malformed   bool           `json:"malformed,omitempty"`
	Message     string         `json:"message"`
	Value       string         `json:"value"`
	Suggestion  string         `json:"suggestion,omitempty"`
}

// Cell returns the location of the row's cell.
func (r Row) Cell() model.CellRef {
	return model.CellRef{Source: r.Source, Column: r.Column, ColumnIndex: r.ColumnIndex, Row: r.Row}
}

// Description returns the message prefixed with its rule label,
// e.g. "[Strict Spacing] leading whitespace".
func (r Row) Description() string {
	issue := model.Issue{Rule: r.Rule, Strict: r.Strict}
	return issue.Label() + " " + r.Message
}

// ColumnSummary counts the work done on one validated column.
type ColumnSummary struct {
	Source string        `json:"source"`
	Column string        `json:"column"`
	Mode   model.Mode    `json:"mode"`
	Rules  model.RuleSet `json:"rules"`
	Cells  int           `json:"cells_scanned"`
	Issues int           `json:"issues"`
}

// Summary holds the aggregate counts of a bundle.
type Summary struct {
	Sources       []string               `json:"sources"`
	Columns       []ColumnSummary        `json:"columns"`
	CellsScanned  int                    `json:"cells_scanned"`
	TotalIssues   int                    `json:"total_issues"`
	FlaggedCells  int                    `json:"flagged_cells"`
	ByRule        map[model.RuleKind]int `json:"by_rule"`
	StrictSpacing int                    `json:"strict_spacing"`
	NormalSpacing int                    `json:"normal_spacing"`
	Malformed     int                    `json:"malformed"`
}

// RuleCount returns the number of issues raised by kind.
func (s Summary) RuleCount(kind model.RuleKind) int {
	return s.ByRule[kind]
}

// HasIssues reports whether any issue was found.
func (s Summary) HasIssues() bool {
	return s.TotalIssues > 0
}

// Bundle is the presentation-ready form of a session: ordered rows plus the
// set of rule kinds to highlight on each flagged cell.
type Bundle struct {
	// Rows holds one entry per issue, sorted by source, column, row and rule.
	Rows []Row `json:"rows"`

	// Highlights maps every flagged cell to the union of rule kinds that
	// flagged it. A cell appears once however many issues it has.
	Highlights map[model.CellRef]model.RuleSet `json:"-"`

	// Summary holds aggregate counts.
	Summary Summary `json:"summary"`
}

// Build turns a session into a Bundle. It never drops or merges issues, and
// the same session always produces the same bundle.
func Build(session model.SessionResult) Bundle {
	b := Bundle{
		Rows:       make([]Row, 0, session.IssueCount()),
		Highlights: make(map[model.CellRef]model.RuleSet),
		Summary: Summary{
			Sources: session.Sources(),
			Columns: make([]ColumnSummary, 0, len(session.Columns)),
			ByRule:  make(map[model.RuleKind]int),
		},
	}
	if b.Summary.Sources == nil {
		b.Summary.Sources = []string{}
	}

	for _, col := range session.Columns {
		b.Summary.Columns = append(b.Summary.Columns, ColumnSummary{
			Source: col.Source,
			Column: col.Column,
			Mode:   col.Mode,
			Rules:  model.NewRuleSet(col.Rules...),
			Cells:  col.CellsScanned,
			Issues: len(col.Issues),
		})
		b.Summary.CellsScanned += col.CellsScanned

		for _, issue := range col.Issues {
			b.Rows = append(b.Rows, Row{
				Source:      issue.Cell.Source,
				Column:      issue.Cell.Column,
				ColumnIndex: issue.Cell.ColumnIndex,
				Row:         issue.Cell.Row,
				Rule:        issue.Rule,
				Strict:      issue.Strict,
				Malformed:   issue.Malformed,
				Message:     issue.Message,
				Value:       issue.Value,
				Suggestion:  issue.Suggestion,
			})
			b.Highlights[issue.Cell] = b.Highlights[issue.Cell].Add(issue.Rule)

			b.Summary.ByRule[issue.Rule]++
			if issue.Malformed {
				b.Summary.Malformed++
			}
			if issue.Rule == model.RuleSpacing {
				if issue.Strict {
					b.Summary.StrictSpacing++
				} else {
					b.Summary.NormalSpacing++
				}
			}
		}
	}

	slices.SortStableFunc(b.Rows, func(x, y Row) int {
		return cmp.Or(
			cmp.Compare(x.Source, y.Source),
			cmp.Compare(x.Column, y.Column),
			cmp.Compare(x.Row, y.Row),
			cmp.Compare(x.Rule, y.Rule),
		)
	})

	b.Summary.TotalIssues = len(b.Rows)
	b.Summary.FlaggedCells = len(b.Highlights)
	return b
}

// HighlightCells returns the flagged cells in report order.
func (b Bundle) HighlightCells() []model.CellRef {
	cells := make([]model.CellRef, 0, len(b.Highlights))
	for ref := range b.Highlights {
		cells = append(cells, ref)
	}
	slices.SortFunc(cells, compareCellRefs)
	return cells
}

// HighlightsFor returns the flagged cells of one source in report order.
func (b Bundle) HighlightsFor(source string) []model.CellRef {
	var cells []model.CellRef
	for _, ref := range b.HighlightCells() {
		if ref.Source == source {
			cells = append(cells, ref)
		}
	}
	return cells
}

// RowsFor returns the rows of one source, preserving report order.
func (b Bundle) RowsFor(source string) []Row {
	var rows []Row
	for _, r := range b.Rows {
		if r.Source == source {
			rows = append(rows, r)
		}
	}
	return rows
}

func compareCellRefs(x, y model.CellRef) int {
	return cmp.Or(
		cmp.Compare(x.Source, y.Source),
		cmp.Compare(x.Column, y.Column),
		cmp.Compare(x.Row, y.Row),
		cmp.Compare(x.ColumnIndex, y.ColumnIndex),
	)
}
