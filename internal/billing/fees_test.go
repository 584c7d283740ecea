package billing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gyeh/visitbill/internal/aggregate"
	"github.com/gyeh/visitbill/internal/model"
)

func basicRates(t *testing.T) *model.RateTable {
	t.Helper()
	rate, err := decimal.NewFromString("41.45")
	if err != nil {
		t.Fatal(err)
	}
	return model.NewRateTable([]model.RateRule{
		{Service: "Home Health - Basic", Method: model.BillingHourly, Rate: rate},
	})
}

func countsFor(records ...model.CleanRecord) *model.AggregateCounts {
	return aggregate.Records(records)
}

func TestPrice_RatedAndUnrated(t *testing.T) {
	counts := countsFor(
		model.CleanRecord{Client: "John Smith", Employee: "Mary Jones", Service: "Home Health - Basic"},
		model.CleanRecord{Client: "John Smith", Employee: "Mary Jones", Service: "Home Health - Basic"},
		model.CleanRecord{Client: "Paul Green", Employee: "Tim Brown", Service: "Meal Prep"},
	)

	res := Price(counts, basicRates(t))

	if len(res.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(res.Statements))
	}

	john := res.Statements[0]
	if john.Client != "John Smith" || len(john.Items) != 1 {
		t.Fatalf("unexpected first statement: %+v", john)
	}
	item := john.Items[0]
	if item.Quantity != 2 || item.Method != model.BillingHourly {
		t.Errorf("unexpected line item: %+v", item)
	}
	if want, _ := decimal.NewFromString("82.90"); !item.Amount.Equal(want) {
		t.Errorf("amount = %s, want 82.90", item.Amount)
	}
	if !john.Total.Equal(item.Amount) {
		t.Errorf("client total %s != item amount %s", john.Total, item.Amount)
	}

	paul := res.Statements[1]
	if len(paul.Items) != 1 {
		t.Fatalf("unexpected second statement: %+v", paul)
	}
	if !paul.Items[0].Unrated {
		t.Error("Meal Prep line item should be flagged unrated")
	}
	if !paul.Items[0].Amount.IsZero() || !paul.Total.IsZero() {
		t.Error("unrated items must contribute zero")
	}
	if len(res.UnratedServices) != 1 || res.UnratedServices[0] != "Meal Prep" {
		t.Errorf("unrated services = %v", res.UnratedServices)
	}
}

func TestPrice_Conservation(t *testing.T) {
	counts := countsFor(
		model.CleanRecord{Client: "A", Employee: "X", Service: "Home Health - Basic"},
		model.CleanRecord{Client: "A", Employee: "X", Service: "Home Health - Basic"},
		model.CleanRecord{Client: "A", Employee: "X", Service: "Meal Prep"},
		model.CleanRecord{Client: "B", Employee: "Y", Service: "Home Health - Basic"},
	)
	res := Price(counts, basicRates(t))

	itemSum := decimal.Zero
	totalSum := decimal.Zero
	for _, s := range res.Statements {
		totalSum = totalSum.Add(s.Total)
		for _, it := range s.Items {
			itemSum = itemSum.Add(it.Amount)
		}
	}
	if !itemSum.Equal(totalSum) {
		t.Errorf("sum of items %s != sum of totals %s", itemSum, totalSum)
	}
	if !res.GrandTotal.Equal(totalSum) {
		t.Errorf("grand total %s != sum of totals %s", res.GrandTotal, totalSum)
	}
}

func TestPrice_LineItemOrderFollowsMatrix(t *testing.T) {
	counts := countsFor(
		model.CleanRecord{Client: "A", Employee: "X", Service: "S2"},
		model.CleanRecord{Client: "A", Employee: "X", Service: "S1"},
		model.CleanRecord{Client: "A", Employee: "X", Service: "S2"},
	)
	res := Price(counts, model.NewRateTable(nil))
	items := res.Statements[0].Items
	if len(items) != 2 || items[0].Service != "S2" || items[1].Service != "S1" {
		t.Errorf("line items not in first-seen service order: %+v", items)
	}
}

func TestPrice_CaseSensitiveLookup(t *testing.T) {
	counts := countsFor(
		model.CleanRecord{Client: "A", Employee: "X", Service: "home health - basic"},
	)
	res := Price(counts, basicRates(t))
	if !res.Statements[0].Items[0].Unrated {
		t.Error("lowercase service name must not match the configured rate")
	}
}

func TestPrice_Empty(t *testing.T) {
	res := Price(model.NewAggregateCounts(), basicRates(t))
	if len(res.Statements) != 0 {
		t.Errorf("expected no statements, got %d", len(res.Statements))
	}
	if !res.GrandTotal.IsZero() {
		t.Errorf("grand total = %s, want 0", res.GrandTotal)
	}
}

func TestPrice_Idempotent(t *testing.T) {
	counts := countsFor(
		model.CleanRecord{Client: "A", Employee: "X", Service: "Home Health - Basic"},
		model.CleanRecord{Client: "B", Employee: "Y", Service: "Meal Prep"},
	)
	rates := basicRates(t)
	first := Price(counts, rates)
	second := Price(counts, rates)

	if len(first.Statements) != len(second.Statements) {
		t.Fatal("statement counts differ between runs")
	}
	for i := range first.Statements {
		a, b := first.Statements[i], second.Statements[i]
		if a.Client != b.Client || !a.Total.Equal(b.Total) || len(a.Items) != len(b.Items) {
			t.Errorf("statement %d differs between identical runs", i)
		}
	}
	if !first.GrandTotal.Equal(second.GrandTotal) {
		t.Error("grand totals differ between identical runs")
	}
}

func TestLoadRatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	os.WriteFile(path, []byte(
		"\"Home Health - Basic\":\n  method: hourly\n  rate: \"41.45\"\n"+
			"\"Personal Care\":\n  method: unit\n  rate: \"12.00\"\n"), 0644)

	table, err := LoadRatesFile(path)
	if err != nil {
		t.Fatalf("LoadRatesFile: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rules, got %d", table.Len())
	}
	rule, ok := table.Lookup("Home Health - Basic")
	if !ok {
		t.Fatal("expected Home Health - Basic rule")
	}
	if rule.Method != model.BillingHourly {
		t.Errorf("method = %q, want hourly", rule.Method)
	}
	if want, _ := decimal.NewFromString("41.45"); !rule.Rate.Equal(want) {
		t.Errorf("rate = %s, want 41.45", rule.Rate)
	}
	if _, ok := table.Lookup("Companionship"); ok {
		t.Error("absent service must not resolve")
	}
}

func TestLoadRatesFile_BadMethod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	os.WriteFile(path, []byte("\"X\":\n  method: weekly\n  rate: \"1.00\"\n"), 0644)
	if _, err := LoadRatesFile(path); err == nil {
		t.Fatal("expected error for unknown billing method")
	}
}

func TestLoadRatesFile_BadRate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	os.WriteFile(path, []byte("\"X\":\n  method: unit\n  rate: \"lots\"\n"), 0644)
	if _, err := LoadRatesFile(path); err == nil {
		t.Fatal("expected error for unparseable rate")
	}
}
