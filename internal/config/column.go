package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nao1215/sheetcheck/internal/model"
)

// ColumnConfig is the per-column section of the configuration file.
type ColumnConfig struct {
	// Rules replaces the global rule list for this column.
	Rules []string `yaml:"rules,omitempty"`

	// Mode is "normal" or "strict". Empty keeps the default.
	Mode string `yaml:"mode,omitempty"`
}

// ColumnSetting is a parsed ColumnConfig.
type ColumnSetting struct {
	Rules []model.RuleKind
	Mode  model.Mode
}

// File represents the structure of the .sheetcheck configuration file.
type File struct {
	// Rules are the rule names applied by default.
	Rules []string `yaml:"rules,omitempty"`

	// StrictColumns are validated in strict mode.
	StrictColumns []string `yaml:"strictColumns,omitempty"`

	// TimeColumns restricts the time rule to these columns.
	TimeColumns []string `yaml:"timeColumns,omitempty"`

	// AllowedPunctuation replaces the spacing rule's allow-list when set.
	AllowedPunctuation *string `yaml:"allowedPunctuation,omitempty"`

	// FlagSpaceAroundPunctuation enables the space-around-punctuation check.
	FlagSpaceAroundPunctuation bool `yaml:"flagSpaceAroundPunctuation,omitempty"`

	// ExtensionExceptions maps extensions to their canonical spelling.
	ExtensionExceptions map[string]string `yaml:"extensionExceptions,omitempty"`

	// RequireExtension flags values without an extension.
	RequireExtension bool `yaml:"requireExtension,omitempty"`

	// OutputDir overrides the report directory.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Columns maps header labels to per-column settings.
	Columns map[string]ColumnConfig `yaml:"columns,omitempty"`
}

// GetColumnConfig returns the section for the column labelled name.
// Labels are matched ignoring case and surrounding whitespace.
func (cf *File) GetColumnConfig(name string) (ColumnConfig, bool) {
	want := normalizeColumn(name)
	for label, cc := range cf.Columns {
		if normalizeColumn(label) == want {
			return cc, true
		}
	}
	return ColumnConfig{}, false
}

// Apply copies the settings of cf into c. Values present in the file replace
// the defaults; CLI flags are applied afterwards by the caller so they win.
func (c *Config) Apply(cf *File) error {
	if len(cf.Rules) > 0 {
		kinds, err := model.ParseRuleKinds(cf.Rules)
		if err != nil {
			return fmt.Errorf("config rules: %w", err)
		}
		c.Rules = kinds
		c.TimeRuleRequested = slices.Contains(kinds, model.RuleTimeFormat)
	}
	if len(cf.StrictColumns) > 0 {
		c.StrictColumns = cf.StrictColumns
	}
	if len(cf.TimeColumns) > 0 {
		c.TimeColumns = cf.TimeColumns
	}
	if cf.AllowedPunctuation != nil {
		c.AllowedPunctuation = *cf.AllowedPunctuation
	}
	if cf.FlagSpaceAroundPunctuation {
		c.FlagSpaceAroundPunctuation = true
	}
	if cf.RequireExtension {
		c.RequireExtension = true
	}
	if len(cf.ExtensionExceptions) > 0 {
		if c.ExtensionExceptions == nil {
			c.ExtensionExceptions = make(map[string]string)
		}
		for ext, canonical := range cf.ExtensionExceptions {
			c.ExtensionExceptions[ext] = canonical
		}
	}
	if cf.OutputDir != "" {
		c.OutputDir = cf.OutputDir
	}

	if c.ColumnSettings == nil {
		c.ColumnSettings = make(map[string]ColumnSetting)
	}
	for label, cc := range cf.Columns {
		setting, err := parseColumnConfig(label, cc)
		if err != nil {
			return err
		}
		c.ColumnSettings[normalizeColumn(label)] = setting
	}

	return nil
}

// parseColumnConfig validates one per-column section.
func parseColumnConfig(label string, cc ColumnConfig) (ColumnSetting, error) {
	var setting ColumnSetting

	if len(cc.Rules) > 0 {
		kinds, err := model.ParseRuleKinds(cc.Rules)
		if err != nil {
			var selErr *model.RuleSelectionError
			if errors.As(err, &selErr) {
				selErr.Column = label
			}
			return setting, fmt.Errorf("config column %q: %w", label, err)
		}
		setting.Rules = kinds
	}

	mode, err := model.ParseMode(cc.Mode)
	if err != nil {
		return setting, fmt.Errorf("config column %q: %w", label, err)
	}
	setting.Mode = mode

	return setting, nil
}
