package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gyeh/visitbill/internal/model"
)

// ReadCSV reads a CSV export into a RawTable. Rows may have ragged
// widths; short rows are kept as-is and treated as having empty trailing
// cells downstream.
func ReadCSV(path string) (*model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, record)
	}

	return split(filepath.Base(path), rows), nil
}
