// Package aggregate counts verified visits per client, employee, and
// service, and builds the client-service matrix billing runs on.
package aggregate

import "github.com/gyeh/visitbill/internal/model"

// Records aggregates one sequence of clean records in a single pass.
// Total for any input, including empty. Counts are commutative sums, so
// values are order-independent; first-seen key order is what pins report
// ordering when the input order is fixed.
func Records(records []model.CleanRecord) *model.AggregateCounts {
	c := model.NewAggregateCounts()
	for _, r := range records {
		c.Clients.Add(r.Client, 1)
		c.Employees.Add(r.Employee, 1)
		c.Services.Add(r.Service, 1)
		c.Matrix.Add(r.Client, r.Service, 1)
	}
	return c
}

// Merge adds src's counts into dst. Used to combine per-file counts into
// a whole-run total while each file's own counts stay reportable.
func Merge(dst, src *model.AggregateCounts) {
	for _, k := range src.Clients.Keys() {
		dst.Clients.Add(k, src.Clients.Get(k))
	}
	for _, k := range src.Employees.Keys() {
		dst.Employees.Add(k, src.Employees.Get(k))
	}
	for _, k := range src.Services.Keys() {
		dst.Services.Add(k, src.Services.Get(k))
	}
	for _, client := range src.Matrix.Clients() {
		row := src.Matrix.Row(client)
		for _, service := range row.Keys() {
			dst.Matrix.Add(client, service, row.Get(service))
		}
	}
}

// Stats summarizes an aggregation for run reporting.
type Stats struct {
	UniqueClients   int
	UniqueEmployees int
	UniqueServices  int
	TotalVisits     int64
}

// Summarize derives summary statistics from counts.
func Summarize(c *model.AggregateCounts) Stats {
	return Stats{
		UniqueClients:   c.Clients.Len(),
		UniqueEmployees: c.Employees.Len(),
		UniqueServices:  c.Services.Len(),
		TotalVisits:     c.Clients.Total(),
	}
}
