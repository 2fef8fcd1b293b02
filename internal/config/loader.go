package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name looked up in the working and home
// directories, and the name "sheetcheck init" writes.
const DefaultConfigFile = ".sheetcheck"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads per-column rules and extension exceptions from a
// YAML file. The returned maps are never nil.
// A missing file yields ErrConfigNotFound, which "validate --config" treats
// as fatal and the automatic lookup ignores.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Columns == nil {
		cf.Columns = make(map[string]ColumnConfig)
	}
	if cf.ExtensionExceptions == nil {
		cf.ExtensionExceptions = make(map[string]string)
	}

	return &cf, nil
}

// FindConfigFile returns the first sheetcheck configuration that exists:
//  1. configPath, when given (an empty result if it does not exist)
//  2. ./.sheetcheck
//  3. ~/.sheetcheck
//  4. config.yaml under XDGConfigDir, e.g. ~/.config/sheetcheck/config.yaml
//
// It returns an empty string when none is found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
