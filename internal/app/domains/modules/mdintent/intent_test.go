package mdintent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Result
	}{
		// 审批意图优先于风险分析
		{
			name: "approve with po name",
			text: "Should I approve PUR-ORD-2026-00001?",
			want: Result{Intent: IntentApprovePO, POName: "PUR-ORD-2026-00001"},
		},
		{
			name: "approve without po name",
			text: "Can I approve this?",
			want: Result{Intent: IntentApprovePO},
		},
		{
			name: "risk analysis",
			text: "Show me risky orders",
			want: Result{Intent: IntentAnalyzePORisks},
		},
		{
			name: "analyze orders",
			text: "Analyze my purchase orders",
			want: Result{Intent: IntentAnalyzePORisks},
		},
		{
			name: "price anomalies",
			text: "Which items are overpriced?",
			want: Result{Intent: IntentDetectPriceAnomaly},
		},
		{
			name: "price check",
			text: "Check prices for anomalies",
			want: Result{Intent: IntentDetectPriceAnomaly},
		},
		{
			name: "delayed orders",
			text: "Show delayed orders",
			want: Result{Intent: IntentDetectDelayedOrders},
		},
		{
			name: "overdue",
			text: "Anything overdue?",
			want: Result{Intent: IntentDetectDelayedOrders},
		},
		// customer 在通用 order 之前
		{
			name: "customer orders",
			text: "Customer orders",
			want: Result{Intent: IntentListCustomers},
		},
		{
			name: "list customers",
			text: "List customers",
			want: Result{Intent: IntentListCustomers},
		},
		{
			name: "sales orders",
			text: "Show sales orders",
			want: Result{Intent: IntentListSalesOrders},
		},
		// "so" 按独立单词命中，"show" 不命中
		{
			name: "so as a word",
			text: "List SO",
			want: Result{Intent: IntentListSalesOrders},
		},
		{
			name: "invoices",
			text: "Show invoices",
			want: Result{Intent: IntentListSalesInvoices},
		},
		{
			name: "outstanding payments",
			text: "Outstanding payments?",
			want: Result{Intent: IntentListSalesInvoices},
		},
		{
			name: "vendor bills",
			text: "List vendor bills",
			want: Result{Intent: IntentListVendorBills},
		},
		{
			name: "po lookup by name",
			text: "Show me pur-ord-2025-00042",
			want: Result{Intent: IntentGetPurchaseOrder, POName: "PUR-ORD-2025-00042"},
		},
		{
			name: "monthly report",
			text: "Give me the monthly spend report",
			want: Result{Intent: IntentMonthlyReport},
		},
		{
			name: "pending report",
			text: "Show pending orders",
			want: Result{Intent: IntentPendingReport},
		},
		{
			name: "suppliers",
			text: "List suppliers",
			want: Result{Intent: IntentListSuppliers},
		},
		{
			name: "items",
			text: "What items do we have?",
			want: Result{Intent: IntentListItems},
		},
		{
			name: "purchase orders",
			text: "Show purchase orders",
			want: Result{Intent: IntentListPurchaseOrders},
		},
		{
			name: "total spend",
			text: "What's the total spend?",
			want: Result{Intent: IntentTotalSpend},
		},
		{
			name: "unknown",
			text: "Tell me a joke",
			want: Result{Intent: IntentUnknown},
		},
		{
			name: "empty",
			text: "   ",
			want: Result{Intent: IntentUnknown},
		},
	}

	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := NewResolver()

	// 同时提到 approve 与 risk 时，审批规则在前
	got := r.Resolve("Approve this risky order PUR-ORD-2026-00007")
	if got.Intent != IntentApprovePO {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentApprovePO)
	}
	if got.POName != "PUR-ORD-2026-00007" {
		t.Fatalf("po name = %q, want PUR-ORD-2026-00007", got.POName)
	}
}
