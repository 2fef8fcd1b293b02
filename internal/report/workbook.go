package report

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/sheetcheck/internal/model"
)

const (
	// ReportSheetName is the sheet appended to highlighted workbooks.
	ReportSheetName = "Validation Report"

	// csvSheetName names the data sheet of a workbook built from a CSV source.
	csvSheetName = "Data"

	// highlightFill and highlightFont are the colors of flagged cells.
	highlightFill = "FF0000"
	highlightFont = "FFFFFF"
)

// ErrNoTables is returned when WriteWorkbook is called without any table.
var ErrNoTables = errors.New("no tables to write")

// workbookHeader is the header row of the report sheet.
var workbookHeader = []any{"Source", "Row", "Column", "Original Value", "Issues", "Suggested Fix"}

// WorkbookWriter saves highlighted copies of validated workbooks.
// Sources are never modified; the copy is written to a new path.
type WorkbookWriter struct {
	logger *slog.Logger
}

// WorkbookOption configures a WorkbookWriter.
type WorkbookOption func(*WorkbookWriter)

// WithWorkbookLogger sets the logger used for cleanup failures.
func WithWorkbookLogger(logger *slog.Logger) WorkbookOption {
	return func(w *WorkbookWriter) {
		w.logger = logger
	}
}

// NewWorkbookWriter creates a WorkbookWriter.
func NewWorkbookWriter(opts ...WorkbookOption) *WorkbookWriter {
	w := &WorkbookWriter{}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// WriteWorkbook writes dst: a copy of the file the tables were read from,
// with every flagged cell filled red and a "Validation Report" sheet listing
// the issues of those tables.
//
// All tables must come from the same file. Workbook tables (Sheet set) are
// highlighted in a copy of the original file so formatting survives. A CSV
// table is first laid out on a new "Data" sheet.
func (w *WorkbookWriter) WriteWorkbook(dst string, tables []*model.Table, bundle *Bundle) (err error) {
	if len(tables) == 0 {
		return ErrNoTables
	}

	f, sheets, err := w.openWorkbook(tables)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			w.logger.Warn("failed to close workbook", "path", dst, "error", closeErr)
		}
	}()

	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{highlightFill}, Pattern: 1},
		Font: &excelize.Font{Color: highlightFont},
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}

	var rows []Row
	for i, table := range tables {
		for _, ref := range bundle.HighlightsFor(table.Source) {
			cell, err := excelize.CoordinatesToCellName(ref.ColumnIndex+1, ref.Row)
			if err != nil {
				return fmt.Errorf("invalid cell %s: %w", ref, err)
			}
			if err := f.SetCellStyle(sheets[i], cell, cell, style); err != nil {
				return fmt.Errorf("failed to highlight %s: %w", ref, err)
			}
		}
		rows = append(rows, bundle.RowsFor(table.Source)...)
	}

	if err := writeReportSheet(f, rows); err != nil {
		return err
	}

	if err := f.SaveAs(dst); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", dst, err)
	}
	return nil
}

// openWorkbook opens the source workbook, or lays a CSV table out on a new
// one. It returns the sheet name to highlight for each table.
func (w *WorkbookWriter) openWorkbook(tables []*model.Table) (*excelize.File, []string, error) {
	first := tables[0]
	if first.Sheet != "" {
		f, err := excelize.OpenFile(first.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open workbook %s: %w", first.Path, err)
		}
		sheets := make([]string, len(tables))
		for i, t := range tables {
			if t.Path != first.Path {
				_ = f.Close() //nolint:errcheck // returning the mismatch is more useful
				return nil, nil, fmt.Errorf("tables come from different files: %s and %s", first.Path, t.Path)
			}
			sheets[i] = t.Sheet
		}
		return f, sheets, nil
	}

	if len(tables) > 1 {
		return nil, nil, fmt.Errorf("csv source %s yielded %d tables", first.Path, len(tables))
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", csvSheetName); err != nil {
		_ = f.Close() //nolint:errcheck // returning the rename error is more useful
		return nil, nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if err := copyTable(f, csvSheetName, first); err != nil {
		_ = f.Close() //nolint:errcheck // returning the copy error is more useful
		return nil, nil, err
	}
	return f, []string{csvSheetName}, nil
}

// copyTable writes the header and rows of t to sheet starting at A1.
func copyTable(f *excelize.File, sheet string, t *model.Table) error {
	writeRow := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		record := make([]any, len(values))
		for i, v := range values {
			record[i] = v
		}
		return f.SetSheetRow(sheet, cell, &record)
	}

	if err := writeRow(model.HeaderRow, t.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writeRow(model.HeaderRow+1+i, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", model.HeaderRow+1+i, err)
		}
	}
	return nil
}

// writeReportSheet replaces any existing report sheet with one listing rows.
func writeReportSheet(f *excelize.File, rows []Row) error {
	idx, err := f.GetSheetIndex(ReportSheetName)
	if err != nil {
		return fmt.Errorf("failed to look up report sheet: %w", err)
	}
	if idx != -1 {
		if err := f.DeleteSheet(ReportSheetName); err != nil {
			return fmt.Errorf("failed to replace report sheet: %w", err)
		}
	}
	if _, err := f.NewSheet(ReportSheetName); err != nil {
		return fmt.Errorf("failed to add report sheet: %w", err)
	}

	header := workbookHeader
	if err := f.SetSheetRow(ReportSheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(ReportSheetName, "A1", "F1", bold); err != nil {
		return fmt.Errorf("failed to style report header: %w", err)
	}

	for i, r := range rows {
		record := []any{r.Source, r.Row, r.Column, r.Value, r.Description(), r.Suggestion}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ReportSheetName, cell, &record); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ReportSheetName, "D", "F", 40); err != nil {
		return fmt.Errorf("failed to size report columns: %w", err)
	}
	return nil
}

// WorkbookName returns the file name of the highlighted copy of a source,
// e.g. "orders_Sheet1_validation_report_20240131_051120.xlsx".
func WorkbookName(base, sheet, stamp string) string {
	if sheet == "" {
		return fmt.Sprintf("%s_validation_report_%s.xlsx", base, stamp)
	}
	return fmt.Sprintf("%s_%s_validation_report_%s.xlsx", base, sheet, stamp)
}

// CSVName returns the file name of the session CSV report.
func CSVName(stamp string) string {
	return fmt.Sprintf("validation_report_%s.csv", stamp)
}
