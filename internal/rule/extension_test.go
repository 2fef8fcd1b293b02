package rule

import (
	"testing"

	"github.com/nao1215/sheetcheck/internal/model"
)

// TestExtensionCaseDefaults tests the default policy.
func TestExtensionCaseDefaults(t *testing.T) {
	t.Parallel()

	e := NewExtensionCase(nil, false)

	tests := []struct {
		value     string
		wantIssue bool
		wantFix   string
	}{
		{value: "report.PDF", wantIssue: true, wantFix: "report.pdf"},
		{value: "image.JPG", wantIssue: true, wantFix: "image.jpg"},
		{value: "archive.tar.Gz", wantIssue: true, wantFix: "archive.tar.gz"},
		{value: " sheet.XLSX ", wantIssue: true, wantFix: "sheet.xlsx"},
		{value: "report.pdf", wantIssue: false},
		{value: "README", wantIssue: false},
		{value: ".Bashrc", wantIssue: false},
		{value: "trailing.", wantIssue: false},
		{value: "v1.2 Release Notes", wantIssue: false},
		{value: "", wantIssue: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			issue, ok := e.Evaluate(tt.value, model.ModeNormal)
			if ok != tt.wantIssue {
				t.Fatalf("Evaluate(%q) issue = %v, want %v", tt.value, ok, tt.wantIssue)
			}
			if ok && issue.Suggestion != tt.wantFix {
				t.Errorf("suggestion = %q, want %q", issue.Suggestion, tt.wantFix)
			}
		})
	}
}

// TestExtensionCaseDetails tests the expected/actual pair.
func TestExtensionCaseDetails(t *testing.T) {
	t.Parallel()

	issue, ok := NewExtensionCase(nil, false).Evaluate("report.Pdf", model.ModeNormal)
	if !ok {
		t.Fatal("expected issue")
	}
	if issue.Expected != ".pdf" || issue.Actual != ".Pdf" {
		t.Errorf("unexpected pair %q / %q", issue.Expected, issue.Actual)
	}
	if issue.Message != "extension '.Pdf' should be '.pdf'" {
		t.Errorf("unexpected message %q", issue.Message)
	}
	if issue.Offending != "Pdf" {
		t.Errorf("unexpected offending %q", issue.Offending)
	}
}

// TestExtensionCaseExceptions tests configured canonical spellings.
func TestExtensionCaseExceptions(t *testing.T) {
	t.Parallel()

	e := NewExtensionCase(map[string]string{".R": "R"}, false)

	if _, ok := e.Evaluate("analysis.R", model.ModeNormal); ok {
		t.Error("expected canonical exception spelling to pass")
	}
	issue, ok := e.Evaluate("analysis.r", model.ModeNormal)
	if !ok {
		t.Fatal("expected lowercase spelling to violate the exception")
	}
	if issue.Suggestion != "analysis.R" {
		t.Errorf("unexpected suggestion %q", issue.Suggestion)
	}
}

// TestExtensionCaseRequired tests the extension-required policy.
func TestExtensionCaseRequired(t *testing.T) {
	t.Parallel()

	e := NewExtensionCase(nil, true)
	issue, ok := e.Evaluate("README", model.ModeNormal)
	if !ok {
		t.Fatal("expected missing extension to be flagged")
	}
	if issue.Message != "missing file extension" {
		t.Errorf("unexpected message %q", issue.Message)
	}
	if _, ok := e.Evaluate("", model.ModeNormal); ok {
		t.Error("expected blank cell to pass")
	}
}

// TestSetEvaluator tests evaluator lookup.
func TestSetEvaluator(t *testing.T) {
	t.Parallel()

	s := NewSet(DefaultOptions())
	for _, k := range model.AllRuleKinds() {
		e, err := s.Evaluator(k)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", k, err)
		}
		if e.Kind() != k {
			t.Errorf("evaluator kind = %v, want %v", e.Kind(), k)
		}
	}
	if _, err := s.Evaluator(model.RuleKind(7)); err == nil {
		t.Error("expected error for unknown kind")
	}
}
