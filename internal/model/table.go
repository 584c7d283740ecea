package model

// RawTable is one parsed input document (a spreadsheet sheet or CSV file)
// before any cleaning. Rows hold cell values as read; a row shorter than
// the table width means its trailing cells were absent in the source.
type RawTable struct {
	// Source identifies the originating file, used for per-file breakdowns.
	Source string
	// Headers holds the header row labels. Empty when the file is
	// headerless, which switches column resolution to positional mode.
	Headers []string
	// Rows are the data rows in original order, header row excluded.
	Rows [][]string
}

// Width returns the widest row length across headers and data rows.
// Positional column resolution needs this to know whether the status
// column (position 14) can exist at all.
func (t *RawTable) Width() int {
	w := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Cell returns the value at pos in row, treating short rows as holding
// empty cells past their end.
func Cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}
