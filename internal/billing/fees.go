package billing

import (
	"github.com/shopspring/decimal"

	"github.com/gyeh/visitbill/internal/model"
)

// Result is the priced output of one run.
type Result struct {
	Statements []model.ClientStatement

	// UnratedServices lists, in first-seen order, every service that
	// produced at least one unrated line item.
	UnratedServices []string

	GrandTotal decimal.Decimal
}

// Price walks the client-service matrix in first-seen order and builds a
// statement per client. A missing rate rule yields a zero-amount line item
// flagged Unrated rather than an error or an omitted line.
func Price(counts *model.AggregateCounts, rates *model.RateTable) *Result {
	res := &Result{GrandTotal: decimal.Zero}
	unratedSeen := make(map[string]bool)

	for _, client := range counts.Matrix.Clients() {
		row := counts.Matrix.Row(client)
		stmt := model.ClientStatement{Client: client, Total: decimal.Zero}

		for _, service := range row.Keys() {
			count := row.Get(service)
			if count <= 0 {
				continue
			}

			item := model.BillingLineItem{
				Client:   client,
				Service:  service,
				Quantity: count,
			}
			if rule, ok := rates.Lookup(service); ok {
				item.Method = rule.Method
				item.Rate = rule.Rate
				item.Amount = rule.Rate.Mul(decimal.NewFromInt(count))
			} else {
				item.Rate = decimal.Zero
				item.Amount = decimal.Zero
				item.Unrated = true
				if !unratedSeen[service] {
					unratedSeen[service] = true
					res.UnratedServices = append(res.UnratedServices, service)
				}
			}

			stmt.Items = append(stmt.Items, item)
			stmt.Total = stmt.Total.Add(item.Amount)
		}

		res.Statements = append(res.Statements, stmt)
		res.GrandTotal = res.GrandTotal.Add(stmt.Total)
	}

	return res
}
