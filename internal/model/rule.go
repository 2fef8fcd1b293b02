package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RuleKind identifies one class of validation rule. The numeric order is the
// evaluation and report order; String and ParseRuleKind give the textual form
// used in flags and config files.
type RuleKind int

const (
	// RuleSpacing flags irregular whitespace and special characters.
	RuleSpacing RuleKind = iota

	// RuleTimeFormat flags values that are not zero-padded 24-hour HH:MM:SS times.
	RuleTimeFormat

	// RuleExtensionCase flags file names whose extension is not in canonical case.
	RuleExtensionCase
)

// AllRuleKinds returns every rule kind in evaluation order.
func AllRuleKinds() []RuleKind {
	return []RuleKind{RuleSpacing, RuleTimeFormat, RuleExtensionCase}
}

// String returns the identifier used in flags and configuration files.
func (k RuleKind) String() string {
	switch k {
	case RuleSpacing:
		return "spacing"
	case RuleTimeFormat:
		return "time"
	case RuleExtensionCase:
		return "extension"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the known rule kinds.
func (k RuleKind) Valid() bool {
	return k >= RuleSpacing && k <= RuleExtensionCase
}

// MarshalText implements encoding.TextMarshaler so rule kinds serialize by name.
func (k RuleKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown rule kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RuleKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRuleKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ruleAliases maps accepted spellings to rule kinds.
var ruleAliases = map[string]RuleKind{
	"spacing":        RuleSpacing,
	"space":          RuleSpacing,
	"time":           RuleTimeFormat,
	"timeformat":     RuleTimeFormat,
	"time-format":    RuleTimeFormat,
	"extension":      RuleExtensionCase,
	"ext":            RuleExtensionCase,
	"extensioncase":  RuleExtensionCase,
	"extension-case": RuleExtensionCase,
}

// ParseRuleKind parses a rule kind name. Matching is case-insensitive.
func ParseRuleKind(s string) (RuleKind, error) {
	if k, ok := ruleAliases[FoldLabel(s)]; ok {
		return k, nil
	}
	return 0, &RuleSelectionError{Unknown: []string{s}}
}

// ParseRuleKinds parses a list of rule kind names, preserving order and
// dropping duplicates. All unknown names are reported together.
func ParseRuleKinds(names []string) ([]RuleKind, error) {
	var (
		kinds   []RuleKind
		unknown []string
		seen    = make(map[RuleKind]bool)
	)
	for _, name := range names {
		k, err := ParseRuleKind(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	if len(unknown) > 0 {
		return nil, &RuleSelectionError{Unknown: unknown}
	}
	return kinds, nil
}

// RuleInfo contains display metadata about a rule kind.
type RuleInfo struct {
	// Label is the bracketed prefix used in combined issue descriptions.
	Label string

	// Title is a short human-readable name.
	Title string

	// Recommendation explains how to fix values flagged by the rule.
	Recommendation string
}

// ruleInfoMapping is the single source of display text for each rule kind.
var ruleInfoMapping = map[RuleKind]RuleInfo{
	RuleSpacing: {
		Label:          "Spacing",
		Title:          "Spacing & special characters",
		Recommendation: "Trim surrounding whitespace, collapse repeated spaces and remove characters outside the allowed set.",
	},
	RuleTimeFormat: {
		Label:          "Time Format",
		Title:          "24-hour time format",
		Recommendation: "Write times as zero-padded 24-hour HH:MM:SS, e.g. 05:11:20.",
	},
	RuleExtensionCase: {
		Label:          "File Extension",
		Title:          "File extension case",
		Recommendation: "Use the canonical (normally lowercase) spelling of the file extension, e.g. .pdf.",
	},
}

// Info returns display metadata for the rule kind.
func (k RuleKind) Info() RuleInfo {
	if info, ok := ruleInfoMapping[k]; ok {
		return info
	}
	return RuleInfo{
		Label:          "Unknown",
		Title:          "Unknown rule",
		Recommendation: "Review the value manually.",
	}
}

// RuleSet is a set of rule kinds stored as a bit mask.
// The zero value is an empty set.
type RuleSet uint8

// NewRuleSet returns a set containing the given kinds.
func NewRuleSet(kinds ...RuleKind) RuleSet {
	var s RuleSet
	for _, k := range kinds {
		s = s.Add(k)
	}
	return s
}

// Add returns a copy of s with k included.
func (s RuleSet) Add(k RuleKind) RuleSet {
	if !k.Valid() {
		panic(fmt.Sprintf("model: invalid rule kind %d", int(k)))
	}
	return s | 1<<uint(k)
}

// Has reports whether k is in the set.
func (s RuleSet) Has(k RuleKind) bool {
	return k.Valid() && s&(1<<uint(k)) != 0
}

// Len returns the number of kinds in the set.
func (s RuleSet) Len() int {
	n := 0
	for _, k := range AllRuleKinds() {
		if s.Has(k) {
			n++
		}
	}
	return n
}

// Kinds returns the members of the set in evaluation order.
func (s RuleSet) Kinds() []RuleKind {
	kinds := make([]RuleKind, 0, s.Len())
	for _, k := range AllRuleKinds() {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// String returns the members joined by "+", e.g. "spacing+extension".
func (s RuleSet) String() string {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, "+")
}

// MarshalJSON serializes the set as a list of rule names.
func (s RuleSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, `"`+k.String()+`"`)
	}
	return []byte("[" + strings.Join(names, ",") + "]"), nil
}

// UnmarshalJSON parses a list of rule names.
func (s *RuleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	kinds, err := ParseRuleKinds(names)
	if err != nil {
		return err
	}
	*s = NewRuleSet(kinds...)
	return nil
}
