package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FileBreakdown holds per-file counters so multi-file runs stay auditable
// file by file even though billing is computed over the combined records.
type FileBreakdown struct {
	Source       string
	RowsRead     int64
	RowsKept     int64
	RowsRejected int64

	// Counts aggregated over this file alone.
	Counts *AggregateCounts
}

// RunSummary captures the outcome of one pipeline run.
type RunSummary struct {
	RunID uuid.UUID

	Files []FileBreakdown

	RowsRead     int64
	RowsKept     int64
	RowsRejected int64

	UniqueClients   int
	UniqueEmployees int
	UniqueServices  int

	UnratedServices []string
	GrandTotal      decimal.Decimal

	DurationRead  time.Duration
	DurationTotal time.Duration
}
