package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/visitbill/internal/model"
	embedsql "github.com/gyeh/visitbill/internal/sql"
)

// RunStore records processed batches so re-uploads of the same file are
// detectable and history stays queryable per file.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore wraps a pool.
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

// FileSeen reports whether a file with this SHA-256 was already part of a
// recorded run.
func (s *RunStore) FileSeen(ctx context.Context, sha256 string) (bool, error) {
	var seen bool
	if err := s.pool.QueryRow(ctx, embedsql.LookupFileSHA256, sha256).Scan(&seen); err != nil {
		return false, fmt.Errorf("lookup file sha: %w", err)
	}
	return seen, nil
}

// SaveRun records a run summary and its per-file breakdowns in one
// transaction. fileSHAs maps each breakdown's Source to its file digest.
func (s *RunStore) SaveRun(ctx context.Context, summary model.RunSummary, fileSHAs map[string]string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, embedsql.InsertRun,
		summary.RunID,
		summary.RowsRead,
		summary.RowsKept,
		summary.RowsRejected,
		summary.UniqueClients,
		summary.UniqueEmployees,
		summary.UniqueServices,
		summary.GrandTotal.String(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, fb := range summary.Files {
		if _, err := tx.Exec(ctx, embedsql.InsertRunFile,
			summary.RunID,
			fb.Source,
			fileSHAs[fb.Source],
			fb.RowsRead,
			fb.RowsKept,
			fb.RowsRejected,
		); err != nil {
			return fmt.Errorf("insert run file %q: %w", fb.Source, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}
	return nil
}
