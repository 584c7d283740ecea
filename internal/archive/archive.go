// Package archive persists the cleaned records of a run as a Parquet
// file, so the rows behind a billing total stay reviewable after the
// source spreadsheets are gone.
package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/visitbill/internal/model"
)

// Row is the Parquet schema for archived records.
type Row struct {
	Source    string `parquet:"source"`
	RowNumber int64  `parquet:"row_number"`
	Client    string `parquet:"client"`
	Employee  string `parquet:"employee"`
	Service   string `parquet:"service"`
}

const writeBatchSize = 1024

// Write writes records to a Parquet file at path, replacing any existing
// file. Record order is preserved.
func Write(path string, records []model.CleanRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	w := parquet.NewGenericWriter[Row](f)

	buf := make([]Row, 0, writeBatchSize)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write archive rows: %w", err)
		}
		buf = buf[:0]
		return nil
	}

	for _, r := range records {
		buf = append(buf, Row{
			Source:    r.Source,
			RowNumber: r.RowNumber,
			Client:    r.Client,
			Employee:  r.Employee,
			Service:   r.Service,
		})
		if len(buf) == writeBatchSize {
			if err := flush(); err != nil {
				f.Close()
				return err
			}
		}
	}
	if err := flush(); err != nil {
		f.Close()
		return err
	}

	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close archive writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// Read loads an archive file back into clean records, in written order.
func Read(path string) ([]model.CleanRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open archive parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	var records []model.CleanRecord
	buf := make([]Row, writeBatchSize)
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			records = append(records, model.CleanRecord{
				Source:    buf[i].Source,
				RowNumber: buf[i].RowNumber,
				Client:    buf[i].Client,
				Employee:  buf[i].Employee,
				Service:   buf[i].Service,
			})
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read archive rows: %w", readErr)
		}
	}
	return records, nil
}
