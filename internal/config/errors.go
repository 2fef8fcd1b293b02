package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrNoInput is returned when no spreadsheet file is given.
	ErrNoInput = errors.New("no input specified: provide at least one .xlsx or .csv file")

	// ErrInvalidBatchSize is returned when the column concurrency is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one summary format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoOutputDir is returned when the report directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidLockTimeout is returned when the lock timeout is not positive.
	ErrInvalidLockTimeout = errors.New("invalid lock timeout: must be positive")

	// ErrInvalidPunctuation is returned when allowedPunctuation contains
	// whitespace, which would make the spacing rule contradict itself.
	ErrInvalidPunctuation = errors.New("invalid allowed punctuation: must not contain whitespace")
)
