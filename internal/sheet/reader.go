package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/sheetcheck/internal/model"
)

// AllSheets selects every sheet of a workbook.
const AllSheets = "*"

// utf8BOM is stripped from the start of CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format identifies how a file is read.
type Format int

const (
	// FormatUnknown is any unsupported extension.
	FormatUnknown Format = iota
	// FormatWorkbook is an Office Open XML workbook.
	FormatWorkbook
	// FormatCSV is comma separated text.
	FormatCSV
)

// DetectFormat returns the format implied by the file extension.
func DetectFormat(path string) Format {
	switch cases.Lower(language.Und).String(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatWorkbook
	case ".csv":
		return FormatCSV
	default:
		return FormatUnknown
	}
}

// Reader loads tables from files.
type Reader struct {
	logger *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used by the Reader.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Read loads the selected sheets of path. For workbooks, an empty sheets
// list selects the first sheet and AllSheets selects every sheet; sheet
// names match case-insensitively. CSV files yield exactly one table and
// ignore sheets.
func (r *Reader) Read(path string, sheets []string) ([]*model.Table, error) {
	switch DetectFormat(path) {
	case FormatWorkbook:
		return r.readWorkbook(path, sheets)
	case FormatCSV:
		t, err := r.readCSV(path)
		if err != nil {
			return nil, err
		}
		return []*model.Table{t}, nil
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// SheetNames lists the sheets of a workbook in order.
func (r *Reader) SheetNames(path string) ([]string, error) {
	if DetectFormat(path) != FormatWorkbook {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer r.closeWorkbook(f, path)
	return f.GetSheetList(), nil
}

func (r *Reader) readWorkbook(path string, sheets []string) ([]*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer r.closeWorkbook(f, path)

	names, err := selectSheets(f.GetSheetList(), sheets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tables := make([]*model.Table, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s of %s: %w", name, path, err)
		}
		t, err := newTable(Label(path, name), path, name, rows)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("sheet loaded", "source", t.Source, "columns", len(t.Headers), "rows", len(t.Rows))
		tables = append(tables, t)
	}
	return tables, nil
}

func (r *Reader) readCSV(path string) (*model.Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	t, err := newTable(Label(path, ""), path, "", records)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("csv loaded", "source", t.Source, "columns", len(t.Headers), "rows", len(t.Rows))
	return t, nil
}

func (r *Reader) closeWorkbook(f *excelize.File, path string) {
	if err := f.Close(); err != nil {
		r.logger.Warn("failed to close workbook", "path", path, "error", err)
	}
}

// Label returns the source label of a sheet: "file.xlsx#Sheet" for workbook
// sheets, "file.csv" otherwise.
func Label(path, sheet string) string {
	base := filepath.Base(path)
	if sheet == "" {
		return base
	}
	return base + "#" + sheet
}

// selectSheets resolves requested sheet names against the workbook's list.
func selectSheets(available, requested []string) ([]string, error) {
	if len(available) == 0 {
		return nil, ErrSheetNotFound
	}
	if len(requested) == 0 {
		return available[:1], nil
	}
	if slices.Contains(requested, AllSheets) {
		return available, nil
	}

	var (
		selected []string
		missing  []string
	)
	for _, want := range requested {
		idx := slices.IndexFunc(available, func(name string) bool {
			return model.FoldLabel(name) == model.FoldLabel(want)
		})
		if idx < 0 {
			missing = append(missing, want)
			continue
		}
		if !slices.Contains(selected, available[idx]) {
			selected = append(selected, available[idx])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrSheetNotFound,
			strings.Join(missing, ", "), strings.Join(available, ", "))
	}
	return selected, nil
}

// newTable splits rows into a header and data rows.
func newTable(source, path, sheet string, rows [][]string) (*model.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptySheet)
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &model.Table{
		Source:  source,
		Path:    path,
		Sheet:   sheet,
		Headers: headers,
		Rows:    rows[1:],
	}, nil
}
