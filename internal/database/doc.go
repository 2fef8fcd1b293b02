// Package database provides SQLite-based run history for sheetcheck.
//
// Every validate run records one row: when it ran, which sources it read,
// how many cells it scanned and how many issues each rule raised. Cell
// values and individual issues are never stored; the workbook and CSV
// reports in the output folder are the record of those.
//
// The database is a single file opened through modernc.org/sqlite, which
// needs no CGO.
package database
