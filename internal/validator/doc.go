// Package validator applies rule evaluators to spreadsheet columns.
//
// Validate checks one column and is pure over its input. ValidateTable
// resolves a list of planned columns against a table, checks them
// concurrently and accumulates the results into a session in plan order.
package validator
