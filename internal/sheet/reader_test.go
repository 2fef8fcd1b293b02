package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an xlsx file with one sheet per entry of sheets.
func writeWorkbook(t *testing.T, path string, sheets map[string][][]any, order []string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
}

func testWorkbook(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"Orders": {
			{"SKU", " FileName ", "Start"},
			{"A-1", "a.PDF", "05:11:20"},
			{"B 2", "b.pdf"},
		},
		"Notes": {
			{"Note"},
			{"hello"},
		},
	}, []string{"Orders", "Notes"})
	return path
}

// TestDetectFormat tests extension based format detection.
func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Format
	}{
		{"a.xlsx", FormatWorkbook},
		{"a.XLSX", FormatWorkbook},
		{"a.xlsm", FormatWorkbook},
		{"dir/a.csv", FormatCSV},
		{"a.xls", FormatUnknown},
		{"a", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := DetectFormat(tt.path); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// TestReadWorkbook tests reading xlsx sheets.
func TestReadWorkbook(t *testing.T) {
	t.Parallel()

	t.Run("first sheet by default", func(t *testing.T) {
		t.Parallel()

		path := testWorkbook(t)
		tables, err := NewReader().Read(path, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tables) != 1 {
			t.Fatalf("expected 1 table, got %d", len(tables))
		}

		tbl := tables[0]
		if tbl.Source != "orders.xlsx#Orders" || tbl.Sheet != "Orders" || tbl.Path != path {
			t.Errorf("unexpected table identity %q %q %q", tbl.Source, tbl.Sheet, tbl.Path)
		}
		if !reflect.DeepEqual(tbl.Headers, []string{"SKU", "FileName", "Start"}) {
			t.Errorf("unexpected headers %v", tbl.Headers)
		}
		if len(tbl.Rows) != 2 {
			t.Fatalf("expected 2 data rows, got %d", len(tbl.Rows))
		}

		col, err := tbl.Column("start")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if col.Cells[0].Value != "05:11:20" || col.Cells[1].Value != "" {
			t.Errorf("unexpected column values %+v", col.Cells)
		}
		if col.Cells[0].Ref.Row != 2 || col.Cells[0].Ref.ColumnIndex != 2 {
			t.Errorf("unexpected cell ref %+v", col.Cells[0].Ref)
		}
	})

	t.Run("named and all sheets", func(t *testing.T) {
		t.Parallel()

		path := testWorkbook(t)
		tables, err := NewReader().Read(path, []string{"notes"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tables) != 1 || tables[0].Sheet != "Notes" {
			t.Errorf("expected Notes sheet, got %+v", tables)
		}

		tables, err = NewReader().Read(path, []string{AllSheets})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tables) != 2 {
			t.Errorf("expected 2 tables, got %d", len(tables))
		}
	})

	t.Run("missing sheet", func(t *testing.T) {
		t.Parallel()

		_, err := NewReader().Read(testWorkbook(t), []string{"Invoices"})
		if !errors.Is(err, ErrSheetNotFound) {
			t.Errorf("expected ErrSheetNotFound, got %v", err)
		}
	})

	t.Run("sheet names", func(t *testing.T) {
		t.Parallel()

		names, err := NewReader().SheetNames(testWorkbook(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(names, []string{"Orders", "Notes"}) {
			t.Errorf("unexpected names %v", names)
		}
	})
}

// TestReadCSV tests reading CSV files.
func TestReadCSV(t *testing.T) {
	t.Parallel()

	t.Run("reads header, ragged rows and BOM", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "files.csv")
		content := "\xEF\xBB\xBFFileName,Start\n\"my file.PDF\",5:11:20\nb.pdf\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		tables, err := NewReader().Read(path, []string{"ignored"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tbl := tables[0]
		if tbl.Source != "files.csv" || tbl.Sheet != "" {
			t.Errorf("unexpected identity %q %q", tbl.Source, tbl.Sheet)
		}
		if tbl.Headers[0] != "FileName" {
			t.Errorf("expected BOM to be stripped, got %q", tbl.Headers[0])
		}
		if len(tbl.Rows) != 2 || tbl.Rows[0][0] != "my file.PDF" {
			t.Errorf("unexpected rows %v", tbl.Rows)
		}
	})

	t.Run("keeps whitespace in values", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "x.csv")
		if err := os.WriteFile(path, []byte("Name\n  padded  \n"), 0600); err != nil {
			t.Fatal(err)
		}
		tables, err := NewReader().Read(path, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tables[0].Rows[0][0] != "  padded  " {
			t.Errorf("expected raw value, got %q", tables[0].Rows[0][0])
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.csv")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := NewReader().Read(path, nil); !errors.Is(err, ErrEmptySheet) {
			t.Errorf("expected ErrEmptySheet, got %v", err)
		}
	})
}

// TestReadUnsupported tests unknown extensions.
func TestReadUnsupported(t *testing.T) {
	t.Parallel()

	if _, err := NewReader().Read("legacy.xls", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

// TestLabel tests source labels.
func TestLabel(t *testing.T) {
	t.Parallel()

	if got := Label("/data/orders.xlsx", "Sheet1"); got != "orders.xlsx#Sheet1" {
		t.Errorf("unexpected label %q", got)
	}
	if got := Label("/data/files.csv", ""); got != "files.csv" {
		t.Errorf("unexpected label %q", got)
	}
}
