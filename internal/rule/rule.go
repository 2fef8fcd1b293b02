package rule

import (
	"github.com/nao1215/sheetcheck/internal/model"
)

// Evaluator checks single cell values for one rule kind.
//
// Evaluate returns the issue and true when value violates the rule. The
// returned issue carries rule-specific fields only (rule, message, offending
// text, expected/actual, suggestion); the caller fills in the cell reference.
// Blank values never produce an issue. Implementations must be safe for
// concurrent use.
type Evaluator interface {
	Kind() model.RuleKind
	Evaluate(value string, mode model.Mode) (model.Issue, bool)
}

// DefaultAllowedPunctuation is the punctuation accepted by the spacing rule
// unless configured otherwise.
const DefaultAllowedPunctuation = "_.:-"

// Options configures the built-in evaluators.
type Options struct {
	// AllowedPunctuation lists the non-alphanumeric characters the spacing
	// rule accepts. Every other punctuation or symbol character is flagged.
	AllowedPunctuation string

	// FlagSpaceAroundPunctuation makes the spacing rule also flag a space
	// directly before or after an allowed punctuation character ("a _b").
	FlagSpaceAroundPunctuation bool

	// ExtensionExceptions maps an extension (any case, without the dot) to
	// its canonical spelling when that spelling is not all lowercase.
	ExtensionExceptions map[string]string

	// RequireExtension makes the extension rule flag values with no extension.
	RequireExtension bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		AllowedPunctuation: DefaultAllowedPunctuation,
	}
}

// Set holds one evaluator per rule kind.
type Set struct {
	evaluators map[model.RuleKind]Evaluator
}

// NewSet creates a Set with the three built-in evaluators configured by opts.
func NewSet(opts Options) *Set {
	s := &Set{evaluators: make(map[model.RuleKind]Evaluator)}
	s.Register(NewSpacing(opts.AllowedPunctuation, opts.FlagSpaceAroundPunctuation))
	s.Register(NewTimeFormat())
	s.Register(NewExtensionCase(opts.ExtensionExceptions, opts.RequireExtension))
	return s
}

// Register adds or replaces the evaluator for e.Kind().
// It must be called before the Set is shared between goroutines.
func (s *Set) Register(e Evaluator) {
	s.evaluators[e.Kind()] = e
}

// Evaluator returns the evaluator for kind. An unregistered kind yields a
// *model.RuleSelectionError.
func (s *Set) Evaluator(kind model.RuleKind) (Evaluator, error) {
	e, ok := s.evaluators[kind]
	if !ok {
		return nil, &model.RuleSelectionError{Unknown: []string{kind.String()}}
	}
	return e, nil
}
