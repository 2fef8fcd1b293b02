package rule

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/sheetcheck/internal/model"
)

// Spacing flags irregular whitespace and characters outside the allow-list.
//
// Normal mode flags leading and trailing whitespace, runs of two or more
// whitespace characters, non-printable characters and disallowed punctuation.
// Strict mode flags all of that plus any whitespace at all. Every problem
// found in one value is reported in a single issue.
type Spacing struct {
	allowed     map[rune]bool
	aroundPunct bool
}

// NewSpacing creates a spacing evaluator. allowed lists the accepted
// punctuation characters.
func NewSpacing(allowed string, flagSpaceAroundPunctuation bool) *Spacing {
	set := make(map[rune]bool, len(allowed))
	for _, r := range allowed {
		set[r] = true
	}
	return &Spacing{allowed: set, aroundPunct: flagSpaceAroundPunctuation}
}

// Kind returns model.RuleSpacing.
func (s *Spacing) Kind() model.RuleKind {
	return model.RuleSpacing
}

// spacingProblem is one detected defect and the text that triggered it.
type spacingProblem struct {
	desc      string
	offending string
}

// Evaluate checks value for spacing problems.
func (s *Spacing) Evaluate(value string, mode model.Mode) (model.Issue, bool) {
	if strings.TrimSpace(value) == "" {
		return model.Issue{}, false
	}

	if !utf8.ValidString(value) {
		err := &model.MalformedCellError{Rule: model.RuleSpacing, Value: value, Reason: "invalid UTF-8"}
		return model.Issue{
			Rule:      model.RuleSpacing,
			Message:   err.Error(),
			Offending: value,
			Malformed: true,
		}, true
	}

	var problems []spacingProblem
	if mode.IsStrict() {
		if p, ok := anyWhitespace(value); ok {
			problems = append(problems, p)
		}
	}
	problems = append(problems, s.normalProblems(value)...)

	if len(problems) == 0 {
		return model.Issue{}, false
	}

	descs := make([]string, len(problems))
	for i, p := range problems {
		descs[i] = p.desc
	}

	issue := model.Issue{
		Rule:      model.RuleSpacing,
		Message:   strings.Join(descs, " | "),
		Offending: problems[0].offending,
	}
	if fix := suggestSpacingFix(value, mode); fix != value {
		issue.Suggestion = fix
	}
	return issue, true
}

// anyWhitespace reports every whitespace character in value.
func anyWhitespace(value string) (spacingProblem, bool) {
	n := 0
	for _, r := range value {
		if unicode.IsSpace(r) {
			n++
		}
	}
	if n == 0 {
		return spacingProblem{}, false
	}
	return spacingProblem{
		desc:      fmt.Sprintf("contains %d whitespace character(s)", n),
		offending: " ",
	}, true
}

// normalProblems runs the checks shared by both modes.
func (s *Spacing) normalProblems(value string) []spacingProblem {
	var problems []spacingProblem

	trimmedLeft := strings.TrimLeftFunc(value, unicode.IsSpace)
	if trimmedLeft != value {
		problems = append(problems, spacingProblem{
			desc:      "leading whitespace",
			offending: value[:len(value)-len(trimmedLeft)],
		})
	}
	trimmedRight := strings.TrimRightFunc(value, unicode.IsSpace)
	if trimmedRight != value {
		problems = append(problems, spacingProblem{
			desc:      "trailing whitespace",
			offending: value[len(trimmedRight):],
		})
	}

	inner := strings.TrimSpace(value)
	if run := firstWhitespaceRun(inner, 2); run != "" {
		problems = append(problems, spacingProblem{
			desc:      "repeated internal whitespace",
			offending: run,
		})
	}

	var nonPrintable, special []rune
	seen := make(map[rune]bool)
	for _, r := range value {
		if seen[r] {
			continue
		}
		switch {
		case r == ' ':
		case !unicode.IsGraphic(r):
			seen[r] = true
			nonPrintable = append(nonPrintable, r)
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), unicode.IsSpace(r):
		case !s.allowed[r]:
			seen[r] = true
			special = append(special, r)
		}
	}
	if len(nonPrintable) > 0 {
		codes := make([]string, len(nonPrintable))
		for i, r := range nonPrintable {
			codes[i] = fmt.Sprintf("%U", r)
		}
		problems = append(problems, spacingProblem{
			desc:      "non-printable characters: " + strings.Join(codes, " "),
			offending: string(nonPrintable),
		})
	}
	if len(special) > 0 {
		problems = append(problems, spacingProblem{
			desc:      "special characters: " + string(special),
			offending: string(special),
		})
	}

	if s.aroundPunct {
		problems = append(problems, s.spaceAroundPunctuation(inner)...)
	}

	return problems
}

// spaceAroundPunctuation flags a space directly before or after an allowed
// punctuation character.
func (s *Spacing) spaceAroundPunctuation(value string) []spacingProblem {
	runes := []rune(value)
	var before, after bool
	for i, r := range runes {
		if !s.allowed[r] {
			continue
		}
		if i > 0 && runes[i-1] == ' ' {
			before = true
		}
		if i+1 < len(runes) && runes[i+1] == ' ' {
			after = true
		}
	}

	var problems []spacingProblem
	if before {
		problems = append(problems, spacingProblem{desc: "space before punctuation", offending: " "})
	}
	if after {
		problems = append(problems, spacingProblem{desc: "space after punctuation", offending: " "})
	}
	return problems
}

// firstWhitespaceRun returns the first run of at least minLen whitespace
// characters in value, or "".
func firstWhitespaceRun(value string, minLen int) string {
	start, n := -1, 0
	for i, r := range value {
		if unicode.IsSpace(r) {
			if start < 0 {
				start = i
			}
			n++
			continue
		}
		if n >= minLen {
			return value[start:i]
		}
		start, n = -1, 0
	}
	if n >= minLen {
		return value[start:]
	}
	return ""
}

// suggestSpacingFix trims the value, drops non-printable characters and
// collapses whitespace runs. Strict mode removes whitespace entirely.
func suggestSpacingFix(value string, mode model.Mode) string {
	var sb strings.Builder
	pendingSpace := false
	for _, r := range strings.TrimSpace(value) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case !unicode.IsGraphic(r):
		default:
			if pendingSpace && !mode.IsStrict() && sb.Len() > 0 {
				sb.WriteRune(' ')
			}
			pendingSpace = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
