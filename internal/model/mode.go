package model

import "fmt"

// Mode selects how strictly whitespace is judged by the spacing rule.
// It is a flag threaded through validation calls, not a type hierarchy.
type Mode int

const (
	// ModeNormal flags only irregular spacing: leading/trailing whitespace,
	// repeated internal whitespace, non-printable and disallowed characters.
	ModeNormal Mode = iota

	// ModeStrict flags every Normal problem plus any whitespace at all.
	// It is meant for columns such as file names, IDs and SKUs.
	ModeStrict
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// IsStrict reports whether m is ModeStrict.
func (m Mode) IsStrict() bool {
	return m == ModeStrict
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeNormal && m != ModeStrict {
		return nil, fmt.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode parses "normal" or "strict" (case-insensitive). An empty string
// means ModeNormal.
func ParseMode(s string) (Mode, error) {
	switch FoldLabel(s) {
	case "", "normal":
		return ModeNormal, nil
	case "strict":
		return ModeStrict, nil
	default:
		return ModeNormal, fmt.Errorf("unknown validation mode %q: want normal or strict", s)
	}
}
