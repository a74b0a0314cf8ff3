package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RowSource exposes a spreadsheet as named sheets of string cells.
type RowSource interface {
	Sheets() []string
	Rows(sheet string) ([][]string, error)
}

// Workbook is a RowSource backed by an .xlsx file.
type Workbook struct {
	file *excelize.File
}

// OpenWorkbook opens the spreadsheet at path. Callers must Close it.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{file: f}, nil
}

func (w *Workbook) Sheets() []string { return w.file.GetSheetList() }

func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (w *Workbook) Close() error { return w.file.Close() }
