package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gyeh/visitbill/internal/model"
	embedsql "github.com/gyeh/visitbill/internal/sql"
)

// RateStore reads and writes the configured service rates. Administrators
// mutate rates between runs; each run takes an immutable snapshot.
type RateStore struct {
	pool *pgxpool.Pool
}

// NewRateStore wraps a pool.
func NewRateStore(pool *pgxpool.Pool) *RateStore {
	return &RateStore{pool: pool}
}

// List returns all configured rules ordered by service name.
func (s *RateStore) List(ctx context.Context) ([]model.RateRule, error) {
	rows, err := s.pool.Query(ctx, embedsql.ListServiceTypes)
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}
	defer rows.Close()

	var rules []model.RateRule
	for rows.Next() {
		var name, method, rate string
		if err := rows.Scan(&name, &method, &rate); err != nil {
			return nil, fmt.Errorf("scan service type: %w", err)
		}
		m, err := model.ParseBillingMethod(method)
		if err != nil {
			return nil, fmt.Errorf("service type %q: %w", name, err)
		}
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("service type %q: invalid rate %q: %w", name, rate, err)
		}
		rules = append(rules, model.RateRule{Service: name, Method: m, Rate: d})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}
	return rules, nil
}

// Snapshot loads the current rules into an immutable RateTable.
func (s *RateStore) Snapshot(ctx context.Context) (*model.RateTable, error) {
	rules, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewRateTable(rules), nil
}

// Upsert inserts or updates the rule for its service name.
func (s *RateStore) Upsert(ctx context.Context, rule model.RateRule) error {
	_, err := s.pool.Exec(ctx, embedsql.UpsertServiceType,
		rule.Service, string(rule.Method), rule.Rate.String())
	if err != nil {
		return fmt.Errorf("upsert service type %q: %w", rule.Service, err)
	}
	return nil
}

// Delete removes the rule for service. Deleting an absent service is a
// no-op; the aggregate data keeps its history either way.
func (s *RateStore) Delete(ctx context.Context, service string) error {
	_, err := s.pool.Exec(ctx, embedsql.DeleteServiceType, service)
	if err != nil {
		return fmt.Errorf("delete service type %q: %w", service, err)
	}
	return nil
}

// Import upserts every rule from a loaded rates file in one transaction.
func (s *RateStore) Import(ctx context.Context, rules []model.RateRule) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rule := range rules {
		if _, err := tx.Exec(ctx, embedsql.UpsertServiceType,
			rule.Service, string(rule.Method), rule.Rate.String()); err != nil {
			return fmt.Errorf("import service type %q: %w", rule.Service, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
