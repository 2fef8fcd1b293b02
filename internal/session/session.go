package session

import (
	"sync"

	"github.com/nao1215/sheetcheck/internal/model"
)

// Accumulator collects ColumnResults in call order.
// Accumulate and Snapshot are safe for concurrent use.
type Accumulator struct {
	mu      sync.Mutex
	columns []model.ColumnResult
	issues  int
}

// New creates an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{
		columns: make([]model.ColumnResult, 0),
	}
}

// Accumulate appends result to the session.
func (a *Accumulator) Accumulate(result model.ColumnResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.columns = append(a.columns, result)
	a.issues += len(result.Issues)
}

// Snapshot returns a copy of everything accumulated so far. The session is
// not reset, and later calls to Accumulate do not affect the returned value.
func (a *Accumulator) Snapshot() model.SessionResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	columns := make([]model.ColumnResult, len(a.columns))
	for i, c := range a.columns {
		c.Rules = append([]model.RuleKind(nil), c.Rules...)
		c.Issues = append([]model.Issue(nil), c.Issues...)
		columns[i] = c
	}
	return model.SessionResult{Columns: columns}
}

// Len returns the number of column results accumulated.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.columns)
}

// IssueCount returns the total number of issues accumulated.
func (a *Accumulator) IssueCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.issues
}
