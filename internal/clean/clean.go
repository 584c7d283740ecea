// Package clean filters raw visit rows down to verified, complete records.
// Rejection is the expected outcome for bad rows, so this package returns
// rejected rows with reason codes instead of erroring; the only fatal
// condition, an unresolvable column mapping, is caught before cleaning.
package clean

import (
	"strings"

	"github.com/gyeh/visitbill/internal/model"
	"github.com/gyeh/visitbill/internal/resolve"
)

// Result holds the surviving records and the audit trail for one table.
type Result struct {
	Records  []model.CleanRecord
	Rejected []model.RejectedRow
}

// RowsRead returns the number of data rows examined.
func (r *Result) RowsRead() int64 {
	return int64(len(r.Records) + len(r.Rejected))
}

// Table cleans one raw table using the given mapping and status policy.
// Original row order is preserved; rows can only be dropped, never
// reordered or merged. Row numbers are 1-based over the data rows.
func Table(t *model.RawTable, m resolve.ColumnMapping, matcher *Matcher) *Result {
	res := &Result{}

	for i, row := range t.Rows {
		rowNum := int64(i) + 1

		if !matcher.Verified(model.Cell(row, m.Status)) {
			res.Rejected = append(res.Rejected, model.RejectedRow{
				Source:    t.Source,
				RowNumber: rowNum,
				Reason:    model.ReasonUnverifiedStatus,
			})
			continue
		}

		client := strings.TrimSpace(model.Cell(row, m.Client))
		employee := strings.TrimSpace(model.Cell(row, m.Employee))
		service := strings.TrimSpace(model.Cell(row, m.Service))
		if client == "" || employee == "" || service == "" {
			res.Rejected = append(res.Rejected, model.RejectedRow{
				Source:    t.Source,
				RowNumber: rowNum,
				Reason:    model.ReasonMissingField,
			})
			continue
		}

		res.Records = append(res.Records, model.CleanRecord{
			Client:    client,
			Employee:  employee,
			Service:   service,
			Source:    t.Source,
			RowNumber: rowNum,
		})
	}

	return res
}
