package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// DefaultCatalogPath is the source catalog spreadsheet written in the working directory.
const DefaultCatalogPath = "sources.xlsx"

const sheetName = "Sheet1"

// WriteSpreadsheet replaces path with a single-sheet workbook: a header row
// of columns followed by rows. Rows shorter than columns leave cells empty.
func WriteSpreadsheet(path string, columns []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create spreadsheet dir: %w", err)
		}
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := writeRow(f, 1, columns); err != nil {
		return fmt.Errorf("write spreadsheet header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(f, i+2, row); err != nil {
			return fmt.Errorf("write spreadsheet row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}

// ReadSpreadsheet returns every row of the first sheet, header included.
func ReadSpreadsheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	return rows, nil
}

func writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &row)
}
