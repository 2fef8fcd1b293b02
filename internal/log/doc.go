// Package log provides logging with automatic redaction of spreadsheet
// contents, built on top of the standard slog package.
//
// Spreadsheets routinely hold personal or commercial data, and logs are
// often shared in bug reports. The RedactingHandler therefore masks
// attributes that carry raw cell contents (value, cell_value,
// original_value, suggestion) and truncates long string values, even in
// verbose mode. Cell locations, column names and counts are logged as is.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("issue found",
//	    "cell", "orders.xlsx#Sheet1!SKU:12",
//	    "value", "ACME 00-12", // logged as ***REDACTED***
//	)
//
//	slog.SetDefault(logger)
package log
