// Package sheet reads spreadsheet files into model.Table values.
//
// Workbooks (.xlsx, .xlsm) are read with excelize; CSV files with
// encoding/csv. The first row of every sheet is the header row. Values are
// returned as displayed text and are never modified.
package sheet
