package model

// Issue is a single rule violation detected in one scanned cell.
// Issues are created by rule evaluators, located by the column validator,
// and never mutated afterwards.
type Issue struct {
	// Cell locates the offending cell. It always refers to a cell that was
	// scanned by the validator pass that produced the issue.
	Cell CellRef `json:"cell"`

	// Rule is the rule kind that raised the issue.
	Rule RuleKind `json:"rule"`

	// Strict records that the column was validated in strict mode.
	// It does not change how the issue is ranked or reported.
	Strict bool `json:"strict,omitempty"`

	// Message is the human-readable description. When a rule detects several
	// problems in one cell they are joined with " | ".
	Message string `json:"message"`

	// Value is the raw cell value as read.
	Value string `json:"value"`

	// Offending is the substring that triggered the rule, when one exists.
	Offending string `json:"offending,omitempty"`

	// Expected is the form the rule expects, e.g. "HH:MM:SS" or ".pdf".
	Expected string `json:"expected,omitempty"`

	// Actual is the form found, paired with Expected.
	Actual string `json:"actual,omitempty"`

	// Suggestion is a corrected value when one can be derived. It is advice
	// only; sources are never rewritten.
	Suggestion string `json:"suggestion,omitempty"`

	// Malformed marks issues converted from a MalformedCellError: the value
	// could not be parsed by the rule at all.
	Malformed bool `json:"malformed,omitempty"`
}

// Label returns the bracketed prefix for combined descriptions,
// e.g. "[Strict Spacing]" or "[Time Format]".
func (i Issue) Label() string {
	label := i.Rule.Info().Label
	if i.Strict && i.Rule == RuleSpacing {
		label = "Strict " + label
	}
	return "[" + label + "]"
}
