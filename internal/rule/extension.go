package rule

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/sheetcheck/internal/model"
)

// ExtensionCase flags file names whose extension is not canonically cased.
//
// The extension is the text after the final '.', provided it is a non-empty
// run of letters and digits and the dot is not the first character. The
// canonical spelling is the lowercase form unless an exception says otherwise.
type ExtensionCase struct {
	exceptions map[string]string
	require    bool
}

// NewExtensionCase creates an extension case evaluator. exceptions maps an
// extension in any case to its canonical spelling. When require is true, a
// value without an extension is itself an issue.
func NewExtensionCase(exceptions map[string]string, require bool) *ExtensionCase {
	normalized := make(map[string]string, len(exceptions))
	for ext, canonical := range exceptions {
		key := lower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		normalized[key] = strings.TrimPrefix(strings.TrimSpace(canonical), ".")
	}
	return &ExtensionCase{exceptions: normalized, require: require}
}

// Kind returns model.RuleExtensionCase.
func (e *ExtensionCase) Kind() model.RuleKind {
	return model.RuleExtensionCase
}

// Evaluate checks the extension of the file name in value.
func (e *ExtensionCase) Evaluate(value string, _ model.Mode) (model.Issue, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return model.Issue{}, false
	}

	stem, ext, ok := splitExtension(v)
	if !ok {
		if !e.require {
			return model.Issue{}, false
		}
		return model.Issue{
			Rule:      model.RuleExtensionCase,
			Message:   "missing file extension",
			Offending: v,
			Expected:  "name.ext",
			Actual:    v,
		}, true
	}

	expected := lower(ext)
	if canonical, found := e.exceptions[expected]; found {
		expected = canonical
	}
	if ext == expected {
		return model.Issue{}, false
	}

	return model.Issue{
		Rule:       model.RuleExtensionCase,
		Message:    fmt.Sprintf("extension '.%s' should be '.%s'", ext, expected),
		Offending:  ext,
		Expected:   "." + expected,
		Actual:     "." + ext,
		Suggestion: stem + "." + expected,
	}, true
}

// splitExtension returns the part before the final dot and the extension.
func splitExtension(v string) (string, string, bool) {
	dot := strings.LastIndexByte(v, '.')
	if dot <= 0 || dot == len(v)-1 {
		return "", "", false
	}
	ext := v[dot+1:]
	for _, r := range ext {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", "", false
		}
	}
	return v[:dot], ext, true
}

// lower lower-cases s. A cases.Caser keeps state, so one is made per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
