package config

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/xdg"

	"github.com/nao1215/sheetcheck/internal/model"
	"github.com/nao1215/sheetcheck/internal/rule"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sheetcheck"

	// DefaultOutputDir is where timestamped report folders are created.
	DefaultOutputDir = "reports"

	// DefaultBatchSize is the number of columns validated concurrently.
	// Rules are CPU-bound and cheap, so a small pool is enough.
	DefaultBatchSize = 4

	// DefaultLockTimeout bounds how long a run waits for another run to
	// finish refreshing the latest/ folder.
	DefaultLockTimeout = 10 * time.Second
)

// Config holds all configuration options for one sheetcheck run.
// It is populated from the config file first and CLI flags second, then
// passed through the application rather than kept in global state.
type Config struct {
	// Files are the spreadsheets to validate (.xlsx, .xlsm or .csv).
	Files []string

	// Sheets selects workbook sheets by name. Empty means the first sheet;
	// "*" selects every sheet. Ignored for CSV files.
	Sheets []string

	// Columns selects columns by header label (case-insensitive).
	// Empty means every column with a non-empty header.
	Columns []string

	// Rules are the rule kinds applied to columns without their own setting.
	Rules []model.RuleKind

	// StrictColumns are validated in strict mode.
	StrictColumns []string

	// TimeColumns are the columns the time rule checks.
	TimeColumns []string

	// TimeRuleRequested is set when the time rule was named explicitly in
	// --rules or the config file's rules. With TimeColumns empty, it selects
	// the columns listed in Columns for the time rule.
	TimeRuleRequested bool

	// AllowedPunctuation lists the punctuation the spacing rule accepts.
	AllowedPunctuation string

	// FlagSpaceAroundPunctuation makes the spacing rule flag "a _b".
	FlagSpaceAroundPunctuation bool

	// ExtensionExceptions maps extensions to a canonical non-lowercase spelling.
	ExtensionExceptions map[string]string

	// RequireExtension flags values that have no file extension.
	RequireExtension bool

	// ColumnSettings holds per-column overrides keyed by lowercased label.
	ColumnSettings map[string]ColumnSetting

	// OutputDir is the root of the report folders.
	OutputDir string

	// JSONReport prints the summary as JSON instead of plain text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the summary as Markdown instead of plain text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of columns validated concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// DBDir is the directory of the run history database.
	// Defaults to the XDG data directory (~/.local/share/sheetcheck on Linux).
	DBDir string

	// SaveToDB records each run in the history database.
	SaveToDB bool

	// LockTimeout bounds the wait for the latest/ folder lock.
	LockTimeout time.Duration
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Rules:               model.AllRuleKinds(),
		AllowedPunctuation:  rule.DefaultAllowedPunctuation,
		ExtensionExceptions: make(map[string]string),
		ColumnSettings:      make(map[string]ColumnSetting),
		OutputDir:           DefaultOutputDir,
		BatchSize:           DefaultBatchSize,
		DBDir:               XDGDataDir(),
		SaveToDB:            true,
		LockTimeout:         DefaultLockTimeout,
	}
}

// XDGDataDir returns the XDG data directory for sheetcheck.
// On Linux: ~/.local/share/sheetcheck
// On macOS: ~/Library/Application Support/sheetcheck
// On Windows: %LOCALAPPDATA%\sheetcheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sheetcheck.
// On Linux: ~/.config/sheetcheck
// On macOS: ~/Library/Application Support/sheetcheck
// On Windows: %APPDATA%\sheetcheck
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoInput
	}

	if len(c.Rules) == 0 {
		return &model.RuleSelectionError{}
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrNoOutputDir
	}

	if c.LockTimeout <= 0 {
		return ErrInvalidLockTimeout
	}

	if strings.IndexFunc(c.AllowedPunctuation, unicode.IsSpace) >= 0 {
		return ErrInvalidPunctuation
	}

	return nil
}

// RuleOptions returns the evaluator options described by c.
func (c *Config) RuleOptions() rule.Options {
	return rule.Options{
		AllowedPunctuation:         c.AllowedPunctuation,
		FlagSpaceAroundPunctuation: c.FlagSpaceAroundPunctuation,
		ExtensionExceptions:        c.ExtensionExceptions,
		RequireExtension:           c.RequireExtension,
	}
}

// ColumnRules returns the rule kinds and mode for the column labelled name.
//
// A per-column setting with rules replaces the global rule list. The time
// rule only runs on columns selected for it: columns in TimeColumns, columns
// whose setting lists it, or, when TimeColumns is empty and the time rule was
// requested explicitly, the columns named in Columns.
// A column is strict when it is listed in StrictColumns or its setting says so.
// The returned slice may be empty; callers treat that as a skipped column.
func (c *Config) ColumnRules(name string) ([]model.RuleKind, model.Mode) {
	setting, hasSetting := c.ColumnSettings[normalizeColumn(name)]

	rules := c.Rules
	if hasSetting && len(setting.Rules) > 0 {
		rules = setting.Rules
	}

	timeAllowed := c.timeSelected(name, setting, hasSetting)
	selected := make([]model.RuleKind, 0, len(rules))
	for _, k := range rules {
		if k == model.RuleTimeFormat && !timeAllowed {
			continue
		}
		selected = append(selected, k)
	}

	mode := model.ModeNormal
	if containsColumn(c.StrictColumns, name) || (hasSetting && setting.Mode.IsStrict()) {
		mode = model.ModeStrict
	}

	return selected, mode
}

// timeSelected reports whether the column labelled name is selected for the
// time rule.
func (c *Config) timeSelected(name string, setting ColumnSetting, hasSetting bool) bool {
	if containsColumn(c.TimeColumns, name) {
		return true
	}
	if hasSetting && slices.Contains(setting.Rules, model.RuleTimeFormat) {
		return true
	}
	return len(c.TimeColumns) == 0 && c.TimeRuleRequested && containsColumn(c.Columns, name)
}

// TimeRuleExpected reports whether the user asked for time checks, either by
// naming the rule or by listing time columns. The caller warns when such a
// run ends up checking no column for time.
func (c *Config) TimeRuleExpected() bool {
	if !model.NewRuleSet(c.Rules...).Has(model.RuleTimeFormat) {
		return false
	}
	return c.TimeRuleRequested || len(c.TimeColumns) > 0
}

// normalizeColumn folds a header label for case-insensitive lookups.
func normalizeColumn(name string) string {
	return model.FoldLabel(name)
}

// containsColumn reports whether names holds name, ignoring case.
func containsColumn(names []string, name string) bool {
	want := normalizeColumn(name)
	for _, n := range names {
		if normalizeColumn(n) == want {
			return true
		}
	}
	return false
}
