package pipeline

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gyeh/visitbill/internal/model"
	"github.com/gyeh/visitbill/internal/resolve"
)

var testHeaders = []string{"Client Name", "Employee Name", "Service Type", "Verification Status"}

func testRates(t *testing.T) *model.RateTable {
	t.Helper()
	rate, err := decimal.NewFromString("41.45")
	if err != nil {
		t.Fatal(err)
	}
	return model.NewRateTable([]model.RateRule{
		{Service: "Home Health - Basic", Method: model.BillingHourly, Rate: rate},
	})
}

func scenarioTable(source string) *model.RawTable {
	return &model.RawTable{
		Source:  source,
		Headers: testHeaders,
		Rows: [][]string{
			{"John Smith", "Mary Jones", "Home Health - Basic", "verified"},
			{"Bob Johnson", "Mary Jones", "Home Health - Basic", "omit"},
			{"Sarah Lee", "", "Home Health - Basic", "verified"},
			{"", "Tom Wilson", "Personal Care", "verified"},
			{"Mike Brown", "Lisa Davis", "", "verified"},
			{"Amy White", "Carol Smith", "Companionship", "pending"},
			{"John Smith", "Mary Jones", "Home Health - Basic", "verified"},
			{"Paul Green", "Tim Brown", "Meal Prep", "VERIFIED"},
		},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	res, err := Run(zerolog.Nop(), []*model.RawTable{scenarioTable("week1.csv")}, testRates(t), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Summary.RowsRead != 8 || res.Summary.RowsKept != 3 || res.Summary.RowsRejected != 5 {
		t.Errorf("summary counters = %d/%d/%d, want 8/3/5",
			res.Summary.RowsRead, res.Summary.RowsKept, res.Summary.RowsRejected)
	}

	if got := res.Combined.Matrix.Row("John Smith").Get("Home Health - Basic"); got != 2 {
		t.Errorf("John Smith matrix cell = %d, want 2", got)
	}

	if len(res.Billing.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(res.Billing.Statements))
	}
	john := res.Billing.Statements[0]
	if want, _ := decimal.NewFromString("82.90"); !john.Total.Equal(want) {
		t.Errorf("John Smith total = %s, want 82.90", john.Total)
	}
	paul := res.Billing.Statements[1]
	if !paul.Items[0].Unrated || !paul.Total.IsZero() {
		t.Errorf("Paul Green should have an unrated zero statement: %+v", paul)
	}

	if len(res.Summary.UnratedServices) != 1 || res.Summary.UnratedServices[0] != "Meal Prep" {
		t.Errorf("unrated services = %v", res.Summary.UnratedServices)
	}
	if want, _ := decimal.NewFromString("82.90"); !res.Summary.GrandTotal.Equal(want) {
		t.Errorf("grand total = %s, want 82.90", res.Summary.GrandTotal)
	}
}

func TestRun_MultiFileBreakdown(t *testing.T) {
	week2 := &model.RawTable{
		Source:  "week2.csv",
		Headers: testHeaders,
		Rows: [][]string{
			{"John Smith", "Mary Jones", "Home Health - Basic", "verified"},
			{"Nina Patel", "Mary Jones", "Home Health - Basic", "verified"},
		},
	}

	res, err := Run(zerolog.Nop(), []*model.RawTable{scenarioTable("week1.csv"), week2}, testRates(t), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Files) != 2 {
		t.Fatalf("expected 2 file breakdowns, got %d", len(res.Files))
	}
	if res.Files[0].Source != "week1.csv" || res.Files[0].RowsKept != 3 {
		t.Errorf("week1 breakdown: %+v", res.Files[0])
	}
	if res.Files[1].Source != "week2.csv" || res.Files[1].RowsKept != 2 {
		t.Errorf("week2 breakdown: %+v", res.Files[1])
	}

	// Combined counts cover both files; per-file counts stay separate.
	if got := res.Combined.Clients.Get("John Smith"); got != 3 {
		t.Errorf("combined John Smith = %d, want 3", got)
	}
	if got := res.Files[1].Counts.Clients.Get("John Smith"); got != 1 {
		t.Errorf("week2 John Smith = %d, want 1", got)
	}

	// Conservation: grand total equals the sum of every line item.
	itemSum := decimal.Zero
	for _, s := range res.Billing.Statements {
		for _, it := range s.Items {
			itemSum = itemSum.Add(it.Amount)
		}
	}
	if !itemSum.Equal(res.Summary.GrandTotal) {
		t.Errorf("item sum %s != grand total %s", itemSum, res.Summary.GrandTotal)
	}
}

func TestRun_SchemaErrorAbortsBatch(t *testing.T) {
	good := scenarioTable("week1.csv")
	narrow := &model.RawTable{
		Source: "narrow.csv",
		Rows:   [][]string{make([]string, 10)},
	}

	_, err := Run(zerolog.Nop(), []*model.RawTable{good, narrow}, testRates(t), Options{})
	if err == nil {
		t.Fatal("expected batch to fail on schema error")
	}

	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != "resolve" {
		t.Fatalf("expected resolve-phase PipelineError, got %v", err)
	}
	var se *resolve.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected wrapped SchemaError, got %v", err)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	empty := &model.RawTable{Source: "empty.csv", Headers: testHeaders}
	res, err := Run(zerolog.Nop(), []*model.RawTable{empty}, testRates(t), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Summary.RowsRead != 0 || len(res.Billing.Statements) != 0 {
		t.Errorf("empty input should yield empty output: %+v", res.Summary)
	}
	if !res.Summary.GrandTotal.IsZero() {
		t.Errorf("grand total = %s, want 0", res.Summary.GrandTotal)
	}
}

func TestRun_Idempotent(t *testing.T) {
	rates := testRates(t)
	run := func() *Result {
		res, err := Run(zerolog.Nop(), []*model.RawTable{scenarioTable("week1.csv")}, rates, Options{})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}
	a, b := run(), run()

	if a.Summary.RowsKept != b.Summary.RowsKept || !a.Summary.GrandTotal.Equal(b.Summary.GrandTotal) {
		t.Error("identical inputs must produce identical summaries")
	}
	for i := range a.Billing.Statements {
		sa, sb := a.Billing.Statements[i], b.Billing.Statements[i]
		if sa.Client != sb.Client || len(sa.Items) != len(sb.Items) {
			t.Fatalf("statement %d differs between runs", i)
		}
		for j := range sa.Items {
			if sa.Items[j] != sb.Items[j] && !sa.Items[j].Amount.Equal(sb.Items[j].Amount) {
				t.Errorf("line item %d/%d differs between runs", i, j)
			}
		}
	}
}
