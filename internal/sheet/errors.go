package sheet

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are neither workbooks nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported file format: want .xlsx, .xlsm or .csv")

	// ErrSheetNotFound is returned when a requested sheet is not in the workbook.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrEmptySheet is returned when a sheet has no header row.
	ErrEmptySheet = errors.New("sheet has no header row")
)
