package model

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// BillingMethod says how a service's rate is denominated. It does not
// change the fee arithmetic; it only labels the quantity on reports.
type BillingMethod string

const (
	BillingHourly BillingMethod = "hourly"
	BillingUnit   BillingMethod = "unit"
)

// ParseBillingMethod validates a billing method string.
func ParseBillingMethod(s string) (BillingMethod, error) {
	switch BillingMethod(s) {
	case BillingHourly, BillingUnit:
		return BillingMethod(s), nil
	}
	return "", fmt.Errorf("unknown billing method %q (want hourly or unit)", s)
}

// RateRule is the configured billing rule for one service type.
type RateRule struct {
	Service string
	Method  BillingMethod
	Rate    decimal.Decimal
}

// RateTable is an immutable per-run snapshot of service rates, looked up
// by exact service name (same case-sensitivity policy as aggregation keys).
type RateTable struct {
	rules map[string]RateRule
}

// NewRateTable builds a snapshot from rules. Later duplicates of the same
// service name replace earlier ones.
func NewRateTable(rules []RateRule) *RateTable {
	t := &RateTable{rules: make(map[string]RateRule, len(rules))}
	for _, r := range rules {
		t.rules[r.Service] = r
	}
	return t
}

// Lookup returns the rule for service. Absence is an expected condition,
// not an error; the fee calculator turns it into an unrated line item.
func (t *RateTable) Lookup(service string) (RateRule, bool) {
	r, ok := t.rules[service]
	return r, ok
}

// Len returns the number of configured services.
func (t *RateTable) Len() int {
	return len(t.rules)
}

// Rules returns the rules sorted by service name.
func (t *RateTable) Rules() []RateRule {
	rules := make([]RateRule, 0, len(t.rules))
	for _, r := range t.rules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Service < rules[j].Service })
	return rules
}
