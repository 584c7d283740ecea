// Package billing prices aggregated visit counts against configured
// service rates. All money arithmetic uses shopspring/decimal so totals
// reconcile exactly across re-runs.
package billing

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/visitbill/internal/model"
)

// yamlRate is one entry of the on-disk rates file:
//
//	"Home Health - Basic":
//	  method: hourly
//	  rate: "41.45"
type yamlRate struct {
	Method string `yaml:"method"`
	Rate   string `yaml:"rate"`
}

// LoadRatesFile reads a YAML rates file into an immutable RateTable.
func LoadRatesFile(path string) (*model.RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}

	var raw map[string]yamlRate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rates file: %w", err)
	}

	// Deterministic parse order so duplicate-key behavior is stable.
	services := make([]string, 0, len(raw))
	for s := range raw {
		services = append(services, s)
	}
	sort.Strings(services)

	rules := make([]model.RateRule, 0, len(raw))
	for _, service := range services {
		entry := raw[service]
		method, err := model.ParseBillingMethod(entry.Method)
		if err != nil {
			return nil, fmt.Errorf("rates file service %q: %w", service, err)
		}
		rate, err := decimal.NewFromString(entry.Rate)
		if err != nil {
			return nil, fmt.Errorf("rates file service %q: invalid rate %q: %w", service, entry.Rate, err)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("rates file service %q: rate must not be negative", service)
		}
		rules = append(rules, model.RateRule{Service: service, Method: method, Rate: rate})
	}

	return model.NewRateTable(rules), nil
}
