package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRules is returned when a validation call selects zero rule kinds.
// Callers can match it with errors.Is on any *RuleSelectionError.
var ErrNoRules = errors.New("no validation rules selected")

// RuleSelectionError reports an invalid rule selection: either no rule kinds
// at all or names that do not correspond to a rule kind. No partial result
// accompanies it.
type RuleSelectionError struct {
	// Column is the column the selection was made for, if known.
	Column string

	// Unknown lists rule names that could not be parsed.
	Unknown []string
}

func (e *RuleSelectionError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid rule selection")
	if e.Column != "" {
		fmt.Fprintf(&sb, " for column %q", e.Column)
	}
	if len(e.Unknown) > 0 {
		fmt.Fprintf(&sb, ": unknown rule(s) %s (want spacing, time, extension)", strings.Join(e.Unknown, ", "))
	} else {
		sb.WriteString(": " + ErrNoRules.Error())
	}
	return sb.String()
}

// Is lets errors.Is(err, ErrNoRules) match an empty selection.
func (e *RuleSelectionError) Is(target error) bool {
	return target == ErrNoRules && len(e.Unknown) == 0
}

// InputShapeError reports that a requested column does not exist in the
// supplied data. It aborts validation of that column only.
type InputShapeError struct {
	Source      string
	Column      string
	Suggestions []string
}

func (e *InputShapeError) Error() string {
	msg := fmt.Sprintf("column %q not found", e.Column)
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// MalformedCellError reports a cell value that a rule could not parse.
// It is informational: evaluators convert it into an Issue instead of
// returning it, so one bad cell never aborts a column scan.
type MalformedCellError struct {
	Rule   RuleKind
	Value  string
	Reason string
}

func (e *MalformedCellError) Error() string {
	return fmt.Sprintf("cannot parse %q for %s check: %s", e.Value, e.Rule, e.Reason)
}
