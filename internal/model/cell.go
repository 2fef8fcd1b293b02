package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HeaderRow is the sheet row that holds column labels. Data rows start below it.
const HeaderRow = 1

// CellRef identifies one cell of a source sheet.
// It is comparable and used as the key of report highlight maps.
type CellRef struct {
	// Source labels the file (and sheet) the cell was read from.
	Source string `json:"source,omitempty"`

	// Column is the column label as it appears in the header row.
	Column string `json:"column"`

	// ColumnIndex is the 0-based position of the column in the sheet.
	ColumnIndex int `json:"column_index"`

	// Row is the 1-based sheet row. The header occupies HeaderRow.
	Row int `json:"row"`
}

// String renders the reference as "source!column:row" for logs and messages.
func (r CellRef) String() string {
	if r.Source == "" {
		return fmt.Sprintf("%s:%d", r.Column, r.Row)
	}
	return fmt.Sprintf("%s!%s:%d", r.Source, r.Column, r.Row)
}

// Cell is one data point of a column. Cells are immutable once read.
type Cell struct {
	Ref   CellRef
	Value string
}

// IsBlank reports whether the cell holds no data, i.e. is empty or whitespace only.
func (c Cell) IsBlank() bool {
	return strings.TrimSpace(c.Value) == ""
}

// Column is an ordered sequence of cells sharing one header label.
type Column struct {
	Source string
	Name   string
	Index  int
	Cells  []Cell
}

// NewColumn builds a Column from raw values. values[0] is placed on the first
// data row (HeaderRow+1).
func NewColumn(source, name string, index int, values []string) Column {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{
			Ref: CellRef{
				Source:      source,
				Column:      name,
				ColumnIndex: index,
				Row:         HeaderRow + 1 + i,
			},
			Value: v,
		}
	}
	return Column{Source: source, Name: name, Index: index, Cells: cells}
}

// Table is the in-memory form of one sheet: a header row and the data rows
// beneath it. Rows may be ragged; missing trailing cells read as empty.
type Table struct {
	// Source labels where the table came from, e.g. "orders.xlsx#Sheet1".
	Source string

	// Path is the file the table was read from, if any.
	Path string

	// Sheet is the sheet name for workbook sources. Empty for CSV.
	Sheet string

	// Headers are the trimmed header labels in sheet order.
	Headers []string

	// Rows holds the data rows below the header, in sheet order.
	Rows [][]string
}

// ColumnNames returns the non-empty header labels in sheet order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Headers))
	for _, h := range t.Headers {
		if h != "" {
			names = append(names, h)
		}
	}
	return names
}

// Column resolves a header label to its column. Matching ignores case and
// surrounding whitespace. A missing label yields an *InputShapeError that
// lists similar labels as suggestions.
func (t *Table) Column(name string) (Column, error) {
	want := FoldLabel(name)
	for i, h := range t.Headers {
		if h == "" || FoldLabel(h) != want {
			continue
		}
		values := make([]string, len(t.Rows))
		for r, row := range t.Rows {
			if i < len(row) {
				values[r] = row[i]
			}
		}
		return NewColumn(t.Source, h, i, values), nil
	}

	var suggestions []string
	for _, h := range t.Headers {
		if h != "" && want != "" && strings.Contains(FoldLabel(h), want) {
			suggestions = append(suggestions, h)
		}
	}
	return Column{}, &InputShapeError{
		Source:      t.Source,
		Column:      name,
		Suggestions: suggestions,
	}
}

// FoldLabel normalizes a header, column or sheet label for case-insensitive
// matching: surrounding whitespace is trimmed and the rest lower-cased.
func FoldLabel(s string) string {
	// A cases.Caser keeps state, so one is made per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
