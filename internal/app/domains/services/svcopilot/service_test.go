package svcopilot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etanswer"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etdoc"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mdintent"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/repo/rperp"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/logger"
)

var testClock = func() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func newTestService(fake *rperp.Fake) *Service {
	return NewService(fake, logger.NopLogger{}).WithClock(testClock)
}

// 所有意图的响应必须结构完整：集合字段非 nil，上限受控
func checkShape(t *testing.T, resp *etanswer.Response) {
	t.Helper()
	if resp.Insights == nil {
		t.Error("Insights is nil")
	}
	if resp.NextQuestions == nil {
		t.Error("NextQuestions is nil")
	}
	if resp.Data == nil {
		t.Error("Data is nil")
	}
	if len(resp.Insights) > etanswer.MaxInsights {
		t.Errorf("Insights over cap: %d", len(resp.Insights))
	}
	if len(resp.NextQuestions) > etanswer.MaxNextQuestions {
		t.Errorf("NextQuestions over cap: %d", len(resp.NextQuestions))
	}
}

func TestHandleListSuppliers(t *testing.T) {
	fake := &rperp.Fake{Suppliers: []etdoc.Supplier{{Name: "Acme"}, {Name: "Beta"}}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "List suppliers")

	checkShape(t, got)
	if got.Intent != mdintent.IntentListSuppliers {
		t.Errorf("intent = %q", got.Intent)
	}
	if got.Answer != "You have 2 suppliers in your network." {
		t.Errorf("answer = %q", got.Answer)
	}
	// 少于 3 家供应商触发多元化建议
	if !strings.Contains(strings.Join(got.Insights, "\n"), "diversifying") {
		t.Errorf("insights = %v", got.Insights)
	}
}

func TestHandleCustomerOrdersIsListCustomers(t *testing.T) {
	fake := &rperp.Fake{Customers: []etdoc.Customer{{Name: "Globex"}}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "Customer orders")

	if got.Intent != mdintent.IntentListCustomers {
		t.Fatalf("intent = %q, want %q", got.Intent, mdintent.IntentListCustomers)
	}
	if got.Answer != "Found 1 customers." {
		t.Errorf("answer = %q", got.Answer)
	}
	if got.Explanation == nil {
		t.Error("expected explanation for customer listing")
	}
}

func TestHandleTotalSpend(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		{Name: "PO-1", Supplier: "Acme", Status: etpo.StatusCompleted, GrandTotal: 400},
		{Name: "PO-2", Supplier: "Beta", Status: etpo.StatusToBill, GrandTotal: 200},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "What's the total spend?")

	checkShape(t, got)
	if got.Intent != mdintent.IntentTotalSpend {
		t.Errorf("intent = %q", got.Intent)
	}
	if got.Answer != "Your total spend is $600.00 across 2 orders." {
		t.Errorf("answer = %q", got.Answer)
	}
	if got.Metrics == nil || got.Explanation == nil {
		t.Error("expected metrics and explanation")
	}
	data, ok := got.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data type = %T", got.Data)
	}
	if data["completed_count"] != 1 {
		t.Errorf("completed_count = %v", data["completed_count"])
	}
}

func TestHandleApprovePO(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		{Name: "PUR-ORD-2026-00001", Supplier: "Acme", Status: etpo.StatusDraft,
			Items: []etpo.LineItem{{ItemCode: "WIDGET", Rate: 100, Qty: 1, Amount: 100}}},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "Should I approve PUR-ORD-2026-00001?")

	checkShape(t, got)
	if got.Intent != mdintent.IntentApprovePO {
		t.Fatalf("intent = %q", got.Intent)
	}
	if !strings.Contains(got.Answer, "Approval Analysis for PUR-ORD-2026-00001") {
		t.Errorf("answer = %q", got.Answer)
	}
	if len(got.Findings) == 0 || got.NextActions == nil {
		t.Errorf("findings = %v, next actions = %v", got.Findings, got.NextActions)
	}
	if !strings.Contains(got.NextQuestions[0], "Explain why you recommend") {
		t.Errorf("next questions = %v", got.NextQuestions)
	}
}

func TestHandleApprovePOWithoutName(t *testing.T) {
	s := newTestService(&rperp.Fake{})

	got := s.Handle(context.Background(), "Can I approve this?")

	checkShape(t, got)
	if !strings.Contains(got.Answer, "Please specify which purchase order") {
		t.Errorf("answer = %q", got.Answer)
	}
}

func TestHandleGetPurchaseOrder(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		{Name: "PUR-ORD-2026-00042", Supplier: "Acme", Status: etpo.StatusToReceiveAndBill},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "Show me PUR-ORD-2026-00042")

	checkShape(t, got)
	if got.Intent != mdintent.IntentGetPurchaseOrder {
		t.Fatalf("intent = %q", got.Intent)
	}
	joined := strings.Join(got.Insights, "\n")
	if !strings.Contains(joined, "Status: To Receive and Bill") {
		t.Errorf("insights = %v", got.Insights)
	}
}

func TestHandleDelayedOrders(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		{Name: "PO-LATE", Supplier: "Slow", Status: etpo.StatusToReceive,
			ScheduleDate: "2026-01-04", GrandTotal: 1000}, // 70 天逾期
		{Name: "PO-OK", Supplier: "Fast", Status: etpo.StatusToReceive,
			ScheduleDate: "2026-04-01", GrandTotal: 500},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "Show delayed orders")

	checkShape(t, got)
	if got.Intent != mdintent.IntentDetectDelayedOrders {
		t.Fatalf("intent = %q", got.Intent)
	}
	if !strings.Contains(got.Answer, "Found 1 delayed orders out of 2 total") {
		t.Errorf("answer = %q", got.Answer)
	}
	if got.DelaySummary == nil || got.SupplierPerformance == nil {
		t.Error("expected delay summary and supplier performance")
	}
}

func TestHandlePriceAnomaliesClean(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		{Name: "PO-1", Supplier: "Acme", Status: etpo.StatusCompleted,
			Items: []etpo.LineItem{{ItemCode: "WIDGET", Rate: 100, Qty: 1, Amount: 100}}},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "Any unusual prices?")

	checkShape(t, got)
	if got.Answer != "No significant price anomalies were detected." {
		t.Errorf("answer = %q", got.Answer)
	}
	if len(got.Insights) != 1 || got.Insights[0] != "All suppliers are pricing competitively." {
		t.Errorf("insights = %v", got.Insights)
	}
}

func TestHandleRiskAnalysis(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		{Name: "PO-1", Supplier: "Acme", Status: etpo.StatusCompleted, GrandTotal: 100},
		{Name: "PO-2", Supplier: "Beta", Status: etpo.StatusCompleted, GrandTotal: 100},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "Show me risky orders")

	checkShape(t, got)
	if got.Intent != mdintent.IntentAnalyzePORisks {
		t.Fatalf("intent = %q", got.Intent)
	}
	if !strings.HasPrefix(got.Answer, "Risk analysis:") {
		t.Errorf("answer = %q", got.Answer)
	}
}

func TestHandleMonthlyReport(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		// 参考时钟 2026-03-15：3 月订单入选，2 月订单只计入累计
		{Name: "PO-MAR", Supplier: "Acme", Status: etpo.StatusCompleted,
			TransactionDate: "2026-03-02", GrandTotal: 300},
		{Name: "PO-FEB", Supplier: "Beta", Status: etpo.StatusCompleted,
			TransactionDate: "2026-02-20", GrandTotal: 700},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "Give me the monthly spend report")

	checkShape(t, got)
	if got.Intent != mdintent.IntentMonthlyReport {
		t.Fatalf("intent = %q", got.Intent)
	}
	if !strings.Contains(got.Answer, "Total Spend: $300.00") {
		t.Errorf("answer missing current month spend:\n%s", got.Answer)
	}
	if !strings.Contains(got.Answer, "All-time Total Spend: $1,000.00") {
		t.Errorf("answer missing all-time spend:\n%s", got.Answer)
	}
	monthPOs, ok := got.Data.([]etpo.PurchaseOrder)
	if !ok || len(monthPOs) != 1 || monthPOs[0].Name != "PO-MAR" {
		t.Errorf("data = %+v, want only PO-MAR", got.Data)
	}
}

func TestHandlePendingReport(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		{Name: "PO-1", Supplier: "Acme", Status: etpo.StatusToReceiveAndBill, GrandTotal: 250},
		{Name: "PO-2", Supplier: "Beta", Status: etpo.StatusCompleted, GrandTotal: 100},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "Show pending orders")

	checkShape(t, got)
	if got.Intent != mdintent.IntentPendingReport {
		t.Fatalf("intent = %q", got.Intent)
	}
	if !strings.Contains(got.Answer, "Total Pending: 1 orders ($250.00)") {
		t.Errorf("answer = %q", got.Answer)
	}
}

func TestHandleVendorBillsOutstanding(t *testing.T) {
	fake := &rperp.Fake{VendorBills: []etdoc.Invoice{
		{Name: "BILL-1", Party: "Acme", OutstandingAmount: 150},
		{Name: "BILL-2", Party: "Beta", OutstandingAmount: 350},
	}}
	s := newTestService(fake)

	got := s.Handle(context.Background(), "List vendor bills")

	checkShape(t, got)
	if !strings.Contains(got.Answer, "Outstanding amount: $500.00") {
		t.Errorf("answer = %q", got.Answer)
	}
}

func TestHandleUnknown(t *testing.T) {
	s := newTestService(&rperp.Fake{})

	got := s.Handle(context.Background(), "Tell me a joke")

	checkShape(t, got)
	if got.Intent != mdintent.IntentUnknown {
		t.Errorf("intent = %q", got.Intent)
	}
	if got.Answer != "I didn't understand that question." {
		t.Errorf("answer = %q", got.Answer)
	}
}

// 数据源故障时仍返回完整结构
func TestHandleGatewayErrorDegrades(t *testing.T) {
	fake := &rperp.Fake{Err: errors.New("erp unreachable")}
	s := newTestService(fake)

	for _, q := range []string{"List suppliers", "Show purchase orders", "Show delayed orders"} {
		got := s.Handle(context.Background(), q)
		checkShape(t, got)
		if got.Answer != "An error occurred while processing your request." {
			t.Errorf("Handle(%q) answer = %q", q, got.Answer)
		}
		if !strings.Contains(strings.Join(got.Insights, "\n"), "erp unreachable") {
			t.Errorf("Handle(%q) insights = %v", q, got.Insights)
		}
	}
}

// 空数据集的各意图返回规范空形态而不是报错
func TestHandleEmptyDatasets(t *testing.T) {
	s := newTestService(&rperp.Fake{})

	for _, q := range []string{
		"List suppliers",
		"Show purchase orders",
		"What's the total spend?",
		"Show delayed orders",
		"Any unusual prices?",
		"Give me the monthly spend report",
		"Show pending orders",
	} {
		got := s.Handle(context.Background(), q)
		checkShape(t, got)
	}
}
