package model

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestRuleKindString tests the String method of RuleKind.
func TestRuleKindString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind     RuleKind
		expected string
	}{
		{RuleSpacing, "spacing"},
		{RuleTimeFormat, "time"},
		{RuleExtensionCase, "extension"},
		{RuleKind(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.kind.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.kind.String(), tc.expected)
			}
		})
	}
}

// TestParseRuleKind tests accepted spellings and rejection of unknown names.
func TestParseRuleKind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    RuleKind
		wantErr bool
	}{
		{"spacing", RuleSpacing, false},
		{" Spacing ", RuleSpacing, false},
		{"time", RuleTimeFormat, false},
		{"time-format", RuleTimeFormat, false},
		{"EXT", RuleExtensionCase, false},
		{"extension", RuleExtensionCase, false},
		{"colour", 0, true},
		{"", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRuleKind(tc.input)
			if tc.wantErr {
				var selErr *RuleSelectionError
				if !errors.As(err, &selErr) {
					t.Fatalf("expected RuleSelectionError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseRuleKind(%q) = %v, expected %v", tc.input, got, tc.want)
			}
		})
	}
}

// TestParseRuleKinds tests list parsing.
func TestParseRuleKinds(t *testing.T) {
	t.Parallel()

	t.Run("keeps order and drops duplicates", func(t *testing.T) {
		t.Parallel()
		kinds, err := ParseRuleKinds([]string{"extension", "spacing", "ext"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(kinds) != 2 || kinds[0] != RuleExtensionCase || kinds[1] != RuleSpacing {
			t.Errorf("unexpected kinds: %v", kinds)
		}
	})

	t.Run("reports every unknown name", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRuleKinds([]string{"spacing", "foo", "bar"})
		var selErr *RuleSelectionError
		if !errors.As(err, &selErr) {
			t.Fatalf("expected RuleSelectionError, got %v", err)
		}
		if len(selErr.Unknown) != 2 {
			t.Errorf("expected 2 unknown names, got %v", selErr.Unknown)
		}
		if errors.Is(err, ErrNoRules) {
			t.Error("unknown names must not match ErrNoRules")
		}
	})
}

// TestRuleKindJSON tests that rule kinds serialize by name.
func TestRuleKindJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]RuleKind{RuleSpacing, RuleExtensionCase})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `["spacing","extension"]` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var kinds []RuleKind
	if err := json.Unmarshal([]byte(`["time"]`), &kinds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != 1 || kinds[0] != RuleTimeFormat {
		t.Errorf("unexpected kinds: %v", kinds)
	}
}

// TestRuleSet tests set membership and ordering.
func TestRuleSet(t *testing.T) {
	t.Parallel()

	t.Run("zero value is empty", func(t *testing.T) {
		t.Parallel()
		var s RuleSet
		if s.Len() != 0 || s.Has(RuleSpacing) {
			t.Errorf("expected empty set, got %v", s)
		}
	})

	t.Run("kinds come back in evaluation order", func(t *testing.T) {
		t.Parallel()
		s := NewRuleSet(RuleExtensionCase, RuleSpacing, RuleSpacing)
		kinds := s.Kinds()
		if len(kinds) != 2 || kinds[0] != RuleSpacing || kinds[1] != RuleExtensionCase {
			t.Errorf("unexpected kinds: %v", kinds)
		}
		if s.String() != "spacing+extension" {
			t.Errorf("unexpected string: %q", s.String())
		}
	})

	t.Run("marshals as name list", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(NewRuleSet(RuleTimeFormat))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `["time"]` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("unmarshals from name list", func(t *testing.T) {
		t.Parallel()
		var s RuleSet
		if err := json.Unmarshal([]byte(`["extension","spacing"]`), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != NewRuleSet(RuleSpacing, RuleExtensionCase) {
			t.Errorf("unexpected set: %s", s)
		}
		if err := json.Unmarshal([]byte(`["colour"]`), &s); err == nil {
			t.Error("expected error for unknown rule")
		}
	})

	t.Run("invalid kind panics", func(t *testing.T) {
		t.Parallel()
		defer func() {
			if recover() == nil {
				t.Error("expected panic for invalid rule kind")
			}
		}()
		NewRuleSet(RuleKind(9))
	})
}

// TestParseMode tests mode parsing.
func TestParseMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeNormal, false},
		{"normal", ModeNormal, false},
		{"STRICT", ModeStrict, false},
		{"lenient", ModeNormal, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseMode(%q) = %v, expected %v", tc.input, got, tc.want)
			}
		})
	}
}
