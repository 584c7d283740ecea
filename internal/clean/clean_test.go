package clean

import (
	"testing"

	"github.com/gyeh/visitbill/internal/model"
	"github.com/gyeh/visitbill/internal/resolve"
)

// fourColMapping maps the compact test layout client,employee,service,status.
var fourColMapping = func() resolve.ColumnMapping {
	t := &model.RawTable{Headers: []string{"Client", "Employee", "Service", "Status"}}
	m, err := resolve.Table(t)
	if err != nil {
		panic(err)
	}
	return m
}()

func TestTable_FilterScenario(t *testing.T) {
	table := &model.RawTable{
		Source: "week1.csv",
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

	res := Table(table, fourColMapping, DefaultMatcher())

	if len(res.Records) != 3 {
		t.Fatalf("expected 3 surviving records, got %d", len(res.Records))
	}
	if res.Records[0].Client != "John Smith" || res.Records[0].RowNumber != 1 {
		t.Errorf("unexpected first record: %+v", res.Records[0])
	}
	if res.Records[1].Client != "John Smith" || res.Records[1].RowNumber != 7 {
		t.Errorf("unexpected second record: %+v", res.Records[1])
	}
	if res.Records[2].Client != "Paul Green" || res.Records[2].Service != "Meal Prep" {
		t.Errorf("unexpected third record: %+v", res.Records[2])
	}

	wantReasons := map[int64]model.RejectReason{
		2: model.ReasonUnverifiedStatus,
		3: model.ReasonMissingField,
		4: model.ReasonMissingField,
		5: model.ReasonMissingField,
		6: model.ReasonUnverifiedStatus,
	}
	if len(res.Rejected) != len(wantReasons) {
		t.Fatalf("expected %d rejected rows, got %d", len(wantReasons), len(res.Rejected))
	}
	for _, rej := range res.Rejected {
		if want, ok := wantReasons[rej.RowNumber]; !ok || rej.Reason != want {
			t.Errorf("row %d: got reason %q, want %q", rej.RowNumber, rej.Reason, want)
		}
		if rej.Source != "week1.csv" {
			t.Errorf("row %d: rejection should carry the source", rej.RowNumber)
		}
	}
	if res.RowsRead() != 8 {
		t.Errorf("RowsRead = %d, want 8", res.RowsRead())
	}
}

func TestTable_StatusWhitespaceAndCase(t *testing.T) {
	table := &model.RawTable{
		Rows: [][]string{
			{"A", "B", "C", "  Verified  "},
			{"A", "B", "C", "VERIFIED"},
			{"A", "B", "C", "verified-pending"},
		},
	}
	res := Table(table, fourColMapping, DefaultMatcher())
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if len(res.Rejected) != 1 || res.Rejected[0].RowNumber != 3 {
		t.Errorf("expected row 3 rejected, got %+v", res.Rejected)
	}
}

func TestTable_TrimsNameFields(t *testing.T) {
	table := &model.RawTable{
		Rows: [][]string{
			{"  John Smith ", "\tMary Jones", " Home Health - Basic  ", "verified"},
		},
	}
	res := Table(table, fourColMapping, DefaultMatcher())
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	r := res.Records[0]
	if r.Client != "John Smith" || r.Employee != "Mary Jones" || r.Service != "Home Health - Basic" {
		t.Errorf("fields not trimmed: %+v", r)
	}
}

func TestTable_ShortRowsTreatedAsEmpty(t *testing.T) {
	// A row with no status cell at all is unverified, not a panic.
	table := &model.RawTable{
		Rows: [][]string{
			{"John Smith", "Mary Jones"},
			{},
		},
	}
	res := Table(table, fourColMapping, DefaultMatcher())
	if len(res.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(res.Records))
	}
	for _, rej := range res.Rejected {
		if rej.Reason != model.ReasonUnverifiedStatus {
			t.Errorf("row %d: got %q, want unverified_status", rej.RowNumber, rej.Reason)
		}
	}
}

func TestTable_NumericLookingValuesAreOpaque(t *testing.T) {
	table := &model.RawTable{
		Rows: [][]string{
			{"1001", "007", "15.5", "verified"},
		},
	}
	res := Table(table, fourColMapping, DefaultMatcher())
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	r := res.Records[0]
	if r.Client != "1001" || r.Employee != "007" || r.Service != "15.5" {
		t.Errorf("numeric-looking values must pass through unchanged: %+v", r)
	}
}

func TestMatcher_SubstringOptIn(t *testing.T) {
	m := NewMatcher([]string{"verified"}, true)
	if !m.Verified("verified-pending") {
		t.Error("substring mode should accept verified-pending")
	}
	if m.Verified("") {
		t.Error("empty status must never pass")
	}

	exact := NewMatcher([]string{"verified", "confirmed"}, false)
	if !exact.Verified("Confirmed") {
		t.Error("multi-value exact mode should accept confirmed")
	}
	if exact.Verified("verified-pending") {
		t.Error("exact mode must reject substring matches")
	}
}
