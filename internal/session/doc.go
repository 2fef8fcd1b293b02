// Package session accumulates column results for the duration of one run.
//
// A Session is created by the caller, passed explicitly into the validation
// calls and turned into a report once every selected column has been
// checked. Nothing in a session is persisted or merged across runs.
package session
