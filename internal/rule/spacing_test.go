package rule

import (
	"strings"
	"testing"

	"github.com/nao1215/sheetcheck/internal/model"
)

// TestSpacingNormalMode tests the checks applied in normal mode.
func TestSpacingNormalMode(t *testing.T) {
	t.Parallel()

	s := NewSpacing(DefaultAllowedPunctuation, false)

	tests := []struct {
		name        string
		value       string
		wantIssue   bool
		wantMessage string
		wantFix     string
	}{
		{name: "clean single word", value: "report", wantIssue: false},
		{name: "single internal spaces are fine", value: "annual report 2024", wantIssue: false},
		{name: "allowed punctuation", value: "file_name-v1.2:final", wantIssue: false},
		{name: "accented letters", value: "café", wantIssue: false},
		{name: "empty cell", value: "", wantIssue: false},
		{name: "blank cell", value: "   ", wantIssue: false},
		{
			name:        "leading whitespace",
			value:       " report",
			wantIssue:   true,
			wantMessage: "leading whitespace",
			wantFix:     "report",
		},
		{
			name:        "trailing whitespace",
			value:       "report ",
			wantIssue:   true,
			wantMessage: "trailing whitespace",
			wantFix:     "report",
		},
		{
			name:        "double internal space",
			value:       "annual  report",
			wantIssue:   true,
			wantMessage: "repeated internal whitespace",
			wantFix:     "annual report",
		},
		{
			name:        "tab is non-printable",
			value:       "a\tb",
			wantIssue:   true,
			wantMessage: "non-printable characters: U+0009",
			wantFix:     "a b",
		},
		{
			name:        "special characters are listed once",
			value:       "a&b&c#",
			wantIssue:   true,
			wantMessage: "special characters: &#",
		},
		{
			name:        "several problems share one issue",
			value:       " a  b!",
			wantIssue:   true,
			wantMessage: "leading whitespace | repeated internal whitespace | special characters: !",
			wantFix:     "a b!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issue, ok := s.Evaluate(tt.value, model.ModeNormal)
			if ok != tt.wantIssue {
				t.Fatalf("Evaluate(%q) issue = %v, want %v (message %q)", tt.value, ok, tt.wantIssue, issue.Message)
			}
			if !ok {
				return
			}
			if issue.Rule != model.RuleSpacing {
				t.Errorf("expected spacing rule, got %v", issue.Rule)
			}
			if issue.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", issue.Message, tt.wantMessage)
			}
			if tt.wantFix != "" && issue.Suggestion != tt.wantFix {
				t.Errorf("suggestion = %q, want %q", issue.Suggestion, tt.wantFix)
			}
		})
	}
}

// TestSpacingStrictMode tests that strict mode flags any whitespace exactly once.
func TestSpacingStrictMode(t *testing.T) {
	t.Parallel()

	s := NewSpacing(DefaultAllowedPunctuation, false)

	t.Run("any whitespace yields exactly one issue", func(t *testing.T) {
		t.Parallel()

		for _, v := range []string{"a b", " a", "a b", "a\tb", "my file name.pdf", "x  y "} {
			issue, ok := s.Evaluate(v, model.ModeStrict)
			if !ok {
				t.Errorf("expected issue for %q", v)
				continue
			}
			if !strings.HasPrefix(issue.Message, "contains ") {
				t.Errorf("expected whitespace count first for %q, got %q", v, issue.Message)
			}
			if strings.ContainsAny(issue.Suggestion, " \t ") {
				t.Errorf("strict suggestion for %q still has whitespace: %q", v, issue.Suggestion)
			}
		}
	})

	t.Run("counts whitespace characters", func(t *testing.T) {
		t.Parallel()
		issue, ok := s.Evaluate("my file name.pdf", model.ModeStrict)
		if !ok {
			t.Fatal("expected issue")
		}
		if issue.Message != "contains 2 whitespace character(s)" {
			t.Errorf("unexpected message %q", issue.Message)
		}
		if issue.Suggestion != "myfilename.pdf" {
			t.Errorf("unexpected suggestion %q", issue.Suggestion)
		}
	})

	t.Run("strict is a superset of normal", func(t *testing.T) {
		t.Parallel()
		issue, ok := s.Evaluate("sku#1", model.ModeStrict)
		if !ok {
			t.Fatal("expected strict mode to keep normal checks")
		}
		if issue.Message != "special characters: #" {
			t.Errorf("unexpected message %q", issue.Message)
		}
	})

	t.Run("clean value passes", func(t *testing.T) {
		t.Parallel()
		if _, ok := s.Evaluate("SKU-0001", model.ModeStrict); ok {
			t.Error("expected no issue")
		}
	})

	t.Run("blank value passes", func(t *testing.T) {
		t.Parallel()
		if _, ok := s.Evaluate("  ", model.ModeStrict); ok {
			t.Error("expected no issue for blank cell")
		}
	})
}

// TestSpacingAllowList tests a custom punctuation allow-list.
func TestSpacingAllowList(t *testing.T) {
	t.Parallel()

	s := NewSpacing("/", false)

	if _, ok := s.Evaluate("a/b", model.ModeNormal); ok {
		t.Error("expected '/' to be allowed")
	}
	issue, ok := s.Evaluate("a_b", model.ModeNormal)
	if !ok {
		t.Fatal("expected '_' to be flagged when not in the allow-list")
	}
	if issue.Offending != "_" {
		t.Errorf("unexpected offending text %q", issue.Offending)
	}
}

// TestSpacingAroundPunctuation tests the optional space-around-punctuation check.
func TestSpacingAroundPunctuation(t *testing.T) {
	t.Parallel()

	off := NewSpacing(DefaultAllowedPunctuation, false)
	if _, ok := off.Evaluate("a - b", model.ModeNormal); ok {
		t.Error("expected no issue when the check is disabled")
	}

	on := NewSpacing(DefaultAllowedPunctuation, true)
	issue, ok := on.Evaluate("a - b", model.ModeNormal)
	if !ok {
		t.Fatal("expected issue when the check is enabled")
	}
	if issue.Message != "space before punctuation | space after punctuation" {
		t.Errorf("unexpected message %q", issue.Message)
	}
}

// TestSpacingInvalidUTF8 tests that undecodable text becomes a malformed issue.
func TestSpacingInvalidUTF8(t *testing.T) {
	t.Parallel()

	issue, ok := NewSpacing(DefaultAllowedPunctuation, false).Evaluate("ab\xff", model.ModeNormal)
	if !ok {
		t.Fatal("expected issue")
	}
	if !issue.Malformed {
		t.Error("expected malformed issue")
	}
}
