// Package model defines the core data structures used throughout sheetcheck.
//
// This package contains the following main types:
//   - Cell, Column, Table: spreadsheet data as read from a source file
//   - RuleKind, Mode: which checks run and how strictly
//   - Issue: a single rule violation tied to one scanned cell
//   - ColumnResult, SessionResult: validation output for one column and one run
//
// The models are serializable to JSON for report output and run history.
package model
