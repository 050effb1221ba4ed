package etpo

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status        string
		pending       bool
		open          bool
		awaitsReceipt bool
		awaitsBilling bool
	}{
		{StatusDraft, true, true, false, false},
		{StatusToReceiveAndBill, true, true, true, true},
		{StatusToReceive, true, true, true, false},
		{StatusToBill, true, true, false, true},
		{StatusCompleted, false, false, false, false},
		{StatusClosed, false, true, false, false},
		{StatusCancelled, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			po := PurchaseOrder{Status: tt.status}
			if po.IsPending() != tt.pending {
				t.Errorf("IsPending = %v, want %v", po.IsPending(), tt.pending)
			}
			if po.IsOpen() != tt.open {
				t.Errorf("IsOpen = %v, want %v", po.IsOpen(), tt.open)
			}
			if po.AwaitsReceipt() != tt.awaitsReceipt {
				t.Errorf("AwaitsReceipt = %v, want %v", po.AwaitsReceipt(), tt.awaitsReceipt)
			}
			if po.AwaitsBilling() != tt.awaitsBilling {
				t.Errorf("AwaitsBilling = %v, want %v", po.AwaitsBilling(), tt.awaitsBilling)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2026-03-15 10:30:00")
	if !ok {
		t.Fatal("ParseDate failed on datetime string")
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "not-a-date", "2026-13-99", "15/03/2026"} {
		if _, ok := ParseDate(bad); ok {
			t.Errorf("ParseDate(%q) succeeded, want failure", bad)
		}
	}
}

func TestFloatField(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   float64
		wantOK bool
	}{
		{"nil", nil, 0, false},
		{"float64", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"string with commas", "1,234.56", 1234.56, true},
		{"garbage string", "n/a", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FloatField(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FloatField(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFromRecord(t *testing.T) {
	rec := map[string]interface{}{
		"name":             "PUR-ORD-2026-00001",
		"supplier_name":    "Acme", // supplier 缺失时回退到 supplier_name
		"status":           "To Bill",
		"grand_total":      "2,500.00",
		"transaction_date": "2026-03-01",
		"delivery_date":    "2026-03-20",
		"items": []interface{}{
			map[string]interface{}{
				"item_code": "WIDGET",
				"unit_price": 125.0, // rate 缺失时回退到 unit_price
				"quantity":   20.0,
				"amount":     2500.0,
			},
		},
	}

	got := FromRecord(rec)

	want := PurchaseOrder{
		Name:            "PUR-ORD-2026-00001",
		Supplier:        "Acme",
		Status:          "To Bill",
		GrandTotal:      2500,
		TransactionDate: "2026-03-01",
		ScheduleDate:    "2026-03-20",
		Items: []LineItem{
			{ItemCode: "WIDGET", ItemName: "WIDGET", Rate: 125, Qty: 20, Amount: 2500},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRecordDefaults(t *testing.T) {
	got := FromRecord(map[string]interface{}{})

	if got.Name != "Unknown" || got.Supplier != "Unknown" || got.Status != "Unknown" {
		t.Errorf("defaults = %+v", got)
	}
	if got.GrandTotal != 0 || len(got.Items) != 0 {
		t.Errorf("defaults = %+v", got)
	}
}
