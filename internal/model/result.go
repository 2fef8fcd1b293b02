package model

// ColumnResult is the output of validating one column.
// It is owned by the validator call that produced it and immutable once returned.
type ColumnResult struct {
	// Source labels the file the column came from.
	Source string `json:"source,omitempty"`

	// Column is the header label of the validated column.
	Column string `json:"column"`

	// Mode is the validation mode the column was checked with.
	Mode Mode `json:"mode"`

	// Rules are the rule kinds that were applied.
	Rules []RuleKind `json:"rules"`

	// CellsScanned is the number of non-blank cells evaluated.
	CellsScanned int `json:"cells_scanned"`

	// Issues holds every issue found, in row order.
	Issues []Issue `json:"issues"`
}

// IssueCount returns the number of issues in the result.
func (r ColumnResult) IssueCount() int {
	return len(r.Issues)
}

// SessionResult is the ordered collection of column results gathered during
// one run. It is discarded once the report has been built.
type SessionResult struct {
	Columns []ColumnResult `json:"columns"`
}

// IssueCount returns the total number of issues across all columns.
func (s SessionResult) IssueCount() int {
	n := 0
	for _, c := range s.Columns {
		n += len(c.Issues)
	}
	return n
}

// Issues returns every issue in accumulation order.
func (s SessionResult) Issues() []Issue {
	issues := make([]Issue, 0, s.IssueCount())
	for _, c := range s.Columns {
		issues = append(issues, c.Issues...)
	}
	return issues
}

// Sources returns the distinct sources in order of first appearance.
func (s SessionResult) Sources() []string {
	var sources []string
	seen := make(map[string]bool)
	for _, c := range s.Columns {
		if !seen[c.Source] {
			seen[c.Source] = true
			sources = append(sources, c.Source)
		}
	}
	return sources
}
