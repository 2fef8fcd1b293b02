// Package main provides the entry point for the sheetcheck CLI.
//
// sheetcheck validates spreadsheet columns for irregular spacing, non-24-hour
// times and file extensions in the wrong case. Flagged cells are highlighted
// in a copy of each workbook and listed in a CSV report.
//
// Usage:
//
//	sheetcheck validate orders.xlsx
//	sheetcheck validate --columns FileName --strict FileName orders.xlsx
//
// See --help for all available options.
package main

func main() {
	Execute()
}
