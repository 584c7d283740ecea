package tabular

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/visitbill/internal/model"
)

// visitRow is the Parquet schema for visit exports: the four semantic
// columns only, already positionally stable.
type visitRow struct {
	Client   string `parquet:"client,optional"`
	Employee string `parquet:"employee,optional"`
	Service  string `parquet:"service,optional"`
	Status   string `parquet:"status,optional"`
}

const parquetBatchSize = 1024

// ReadParquet reads a Parquet visit export into a RawTable. Synthesized
// headers keep column resolution in named mode.
func ReadParquet(path string) (*model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[visitRow](pf)
	defer reader.Close()

	t := &model.RawTable{
		Source:  filepath.Base(path),
		Headers: []string{"Client Name", "Employee Name", "Service Type", "Verification Status"},
	}

	buf := make([]visitRow, parquetBatchSize)
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			t.Rows = append(t.Rows, []string{buf[i].Client, buf[i].Employee, buf[i].Service, buf[i].Status})
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read parquet rows: %w", readErr)
		}
	}

	return t, nil
}
