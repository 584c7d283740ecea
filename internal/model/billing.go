package model

import "github.com/shopspring/decimal"

// BillingLineItem is one client-service charge: the aggregated visit count
// priced against the configured rate. Quantity is interpreted as hours or
// units depending on Method; the arithmetic is the same either way.
type BillingLineItem struct {
	Client   string
	Service  string
	Quantity int64
	Method   BillingMethod
	Rate     decimal.Decimal
	Amount   decimal.Decimal

	// Unrated marks a service that appears in the data but has no rate
	// configured. The item is kept at zero so operators can see the gap
	// instead of a silently short total.
	Unrated bool
}

// ClientStatement is the ordered billing breakdown for one client.
// Items follow the first-seen service order from aggregation.
type ClientStatement struct {
	Client string
	Items  []BillingLineItem
	Total  decimal.Decimal
}
