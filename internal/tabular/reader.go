// Package tabular reads scheduling-tool exports into raw row tables.
// It owns file parsing only; column meaning and cleaning live downstream.
package tabular

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gyeh/visitbill/internal/model"
)

// Open reads the file at path into a RawTable, dispatching on extension.
// Supported: .csv, .xlsx, .xlsm, .parquet.
func Open(path string) (*model.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".parquet":
		return ReadParquet(path)
	}
	return nil, fmt.Errorf("unsupported file type %q (want .csv, .xlsx, .xlsm, or .parquet)", filepath.Ext(path))
}

// headerish reports whether row looks like a header row: at least one cell
// matches a known header label. Exports from the scheduling tool always
// carry headers, but hand-trimmed files sometimes do not.
func headerish(row []string) bool {
	letters := make(map[string]bool)
	for _, cell := range row {
		switch v := strings.ToLower(strings.TrimSpace(cell)); v {
		case "client name", "client", "employee name", "employee",
			"caregiver name", "caregiver", "service type", "service",
			"verification status", "status":
			return true
		case "a", "o":
			letters[v] = true
		}
	}
	// Some exports label columns with the spreadsheet letters; seeing both
	// the client column "a" and the status column "o" is header enough.
	return letters["a"] && letters["o"]
}

// split separates a sheet's rows into headers and data rows. When the
// first row does not look like a header row the table is headerless and
// all rows are data.
func split(source string, rows [][]string) *model.RawTable {
	t := &model.RawTable{Source: source}
	if len(rows) == 0 {
		return t
	}
	if headerish(rows[0]) {
		t.Headers = rows[0]
		t.Rows = rows[1:]
		return t
	}
	t.Rows = rows
	return t
}
