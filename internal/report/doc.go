// Package report turns a validation session into output.
//
// Build converts a session into a Bundle: one row per issue in a stable
// order plus the set of rule kinds to highlight on every flagged cell.
// Writers render a Bundle:
//   - SimpleWriter: terminal summary
//   - JSONWriter: structured output for tool integration
//   - MarkdownWriter: shareable summary with a mermaid chart
//   - CSVWriter: one line per issue
//
// WorkbookWriter saves a highlighted copy of a source workbook with a
// "Validation Report" sheet appended.
package report
