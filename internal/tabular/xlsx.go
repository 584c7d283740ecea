package tabular

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/visitbill/internal/model"
)

// ReadXLSX reads the first sheet of an Excel workbook into a RawTable.
// The scheduling tool exports a single sheet; when a workbook has several,
// the first one holding any rows wins.
func ReadXLSX(path string) (*model.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(sheetRows) > 0 {
			rows = sheetRows
			break
		}
	}

	return split(filepath.Base(path), rows), nil
}
