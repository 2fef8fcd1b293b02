// Package rule implements the cell-level rule evaluators.
//
// Each evaluator implements the Evaluator interface: a pure function from one
// cell value (and the validation mode) to zero or one model.Issue. Evaluators
// never see cell positions; the validator attaches the cell reference, which
// guarantees that every issue points at a cell that was actually scanned.
//
// The evaluators are:
//   - Spacing: leading/trailing/repeated whitespace, non-printable characters
//     and punctuation outside an allow-list; in strict mode any whitespace
//   - TimeFormat: zero-padded 24-hour HH:MM:SS times
//   - ExtensionCase: canonical (lowercase) file extensions
//
// New rule kinds are added by implementing Evaluator and registering it in a
// Set; the validator does not need to change.
package rule
