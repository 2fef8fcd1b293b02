// Package config provides configuration structures and utilities for sheetcheck.
// It defines which columns are validated with which rules and modes, the rule
// tuning knobs, and where reports and run history are written.
package config
