// Package pipeline runs the full transformation for one batch of files:
// resolve → clean → aggregate → price. Each phase consumes the previous
// phase's output and produces a new structure; nothing is mutated across
// phase boundaries, so identical inputs give identical results.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/visitbill/internal/aggregate"
	"github.com/gyeh/visitbill/internal/billing"
	"github.com/gyeh/visitbill/internal/clean"
	"github.com/gyeh/visitbill/internal/model"
	"github.com/gyeh/visitbill/internal/resolve"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Options tune a run. The zero value gives documented default behavior.
type Options struct {
	// Matcher is the verification policy; nil means exact "verified".
	Matcher *clean.Matcher
}

// Result is the complete output of one run.
type Result struct {
	// Files holds the per-file breakdowns in input order.
	Files []model.FileBreakdown
	// Rejected lists every excluded row with its reason, in original order
	// within each file.
	Rejected []model.RejectedRow
	// Combined is the aggregation over all files together.
	Combined *model.AggregateCounts
	// Billing holds the client statements priced from Combined.
	Billing *billing.Result
	// Summary rolls the run up for reporting and history.
	Summary model.RunSummary
}

// Run executes the pipeline over the given tables against a rate table
// snapshot. A SchemaError on any file aborts the whole batch before any
// row is processed; row-level problems never abort, they degrade into the
// rejection report.
func Run(log zerolog.Logger, tables []*model.RawTable, rates *model.RateTable, opts Options) (*Result, error) {
	start := time.Now()

	matcher := opts.Matcher
	if matcher == nil {
		matcher = clean.DefaultMatcher()
	}

	// Phase 1: resolve every file's columns up front so a schema problem
	// in any file rejects the batch with no partial output.
	mappings, err := resolveAll(log, tables)
	if err != nil {
		return nil, &PipelineError{Phase: "resolve", Err: err}
	}

	res := &Result{Combined: model.NewAggregateCounts()}
	res.Summary.RunID = uuid.New()

	// Phase 2+3: clean and aggregate file by file, merging into the
	// combined counts while keeping each file's own breakdown.
	for i, t := range tables {
		cleaned := clean.Table(t, mappings[i], matcher)
		counts := aggregate.Records(cleaned.Records)
		aggregate.Merge(res.Combined, counts)

		fb := model.FileBreakdown{
			Source:       t.Source,
			RowsRead:     cleaned.RowsRead(),
			RowsKept:     int64(len(cleaned.Records)),
			RowsRejected: int64(len(cleaned.Rejected)),
			Counts:       counts,
		}
		res.Files = append(res.Files, fb)
		res.Rejected = append(res.Rejected, cleaned.Rejected...)

		log.Info().
			Str("file", t.Source).
			Int64("rows_read", fb.RowsRead).
			Int64("rows_kept", fb.RowsKept).
			Int64("rows_rejected", fb.RowsRejected).
			Msg("file cleaned")
	}

	// Phase 4: price the combined matrix.
	res.Billing = billing.Price(res.Combined, rates)

	stats := aggregate.Summarize(res.Combined)
	res.Summary.Files = res.Files
	for _, fb := range res.Files {
		res.Summary.RowsRead += fb.RowsRead
		res.Summary.RowsKept += fb.RowsKept
		res.Summary.RowsRejected += fb.RowsRejected
	}
	res.Summary.UniqueClients = stats.UniqueClients
	res.Summary.UniqueEmployees = stats.UniqueEmployees
	res.Summary.UniqueServices = stats.UniqueServices
	res.Summary.UnratedServices = res.Billing.UnratedServices
	res.Summary.GrandTotal = res.Billing.GrandTotal
	res.Summary.DurationTotal = time.Since(start)

	log.Info().
		Str("run_id", res.Summary.RunID.String()).
		Int64("rows_read", res.Summary.RowsRead).
		Int64("rows_kept", res.Summary.RowsKept).
		Int64("rows_rejected", res.Summary.RowsRejected).
		Int("clients", stats.UniqueClients).
		Int("unrated_services", len(res.Summary.UnratedServices)).
		Str("grand_total", res.Summary.GrandTotal.String()).
		Str("duration", res.Summary.DurationTotal.String()).
		Msg("pipeline complete")

	return res, nil
}

func resolveAll(log zerolog.Logger, tables []*model.RawTable) ([]resolve.ColumnMapping, error) {
	mappings := make([]resolve.ColumnMapping, len(tables))
	for i, t := range tables {
		m, err := resolve.Table(t)
		if err != nil {
			return nil, err
		}
		mappings[i] = m
		log.Debug().
			Str("file", t.Source).
			Bool("named", m.Named).
			Int("client", m.Client).
			Int("employee", m.Employee).
			Int("service", m.Service).
			Int("status", m.Status).
			Msg("columns resolved")
	}
	return mappings, nil
}
