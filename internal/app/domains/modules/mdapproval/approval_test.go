package mdapproval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/repo/rperp"
)

func historyPO(name, supplier, item string, rate float64) etpo.PurchaseOrder {
	return etpo.PurchaseOrder{
		Name:     name,
		Supplier: supplier,
		Status:   etpo.StatusCompleted,
		Items:    []etpo.LineItem{{ItemCode: item, Rate: rate, Qty: 1, Amount: rate}},
	}
}

func TestAnalyzeApprove(t *testing.T) {
	target := etpo.PurchaseOrder{
		Name:     "PUR-ORD-2026-00001",
		Supplier: "Acme",
		Status:   etpo.StatusDraft,
		Items:    []etpo.LineItem{{ItemCode: "WIDGET", Rate: 100, Qty: 1, Amount: 100}},
	}
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		target,
		historyPO("PO-H1", "Acme", "WIDGET", 100),
		historyPO("PO-H2", "Acme", "WIDGET", 105),
	}}

	got := NewAnalyzer(fake).Analyze(context.Background(), "PUR-ORD-2026-00001")

	if got.Decision != DecisionApprove {
		t.Fatalf("decision = %q, want %q (findings: %v)", got.Decision, DecisionApprove, got.Findings)
	}
	if got.RiskScore != 0 {
		t.Errorf("RiskScore = %d, want 0", got.RiskScore)
	}
	if len(got.Evidence) != 1 || got.Evidence[0].Status != "OK" {
		t.Errorf("evidence = %+v", got.Evidence)
	}
	wantActions := []string{"Proceed with approval"}
	if diff := cmp.Diff(wantActions, got.NextActions); diff != "" {
		t.Errorf("next actions mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(got.Findings[0], "Decision: APPROVE") {
		t.Errorf("first finding = %q", got.Findings[0])
	}
}

func TestAnalyzeDoNotApprove(t *testing.T) {
	// 单价 200 相对历史均价 100 偏差 100%，异常 + 高分
	target := etpo.PurchaseOrder{
		Name:     "PUR-ORD-2026-00002",
		Supplier: "Acme",
		Status:   etpo.StatusDraft,
		Items:    []etpo.LineItem{{ItemCode: "WIDGET", Rate: 200, Qty: 1, Amount: 200}},
	}
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		target,
		historyPO("PO-H1", "Acme", "WIDGET", 100),
		historyPO("PO-H2", "Acme", "WIDGET", 100),
	}}

	got := NewAnalyzer(fake).Analyze(context.Background(), "PUR-ORD-2026-00002")

	if got.Decision != DecisionDoNotApprove {
		t.Fatalf("decision = %q, want %q (score=%d)", got.Decision, DecisionDoNotApprove, got.RiskScore)
	}
	if got.Evidence[0].Status != "ANOMALY" {
		t.Errorf("evidence status = %q, want ANOMALY", got.Evidence[0].Status)
	}
	if !strings.Contains(strings.Join(got.NextActions, "\n"), "Negotiate price") {
		t.Errorf("next actions = %v", got.NextActions)
	}
}

func TestAnalyzeReviewOnMissingBaseline(t *testing.T) {
	target := etpo.PurchaseOrder{
		Name:     "PUR-ORD-2026-00003",
		Supplier: "Newcomer",
		Status:   etpo.StatusDraft,
		Items:    []etpo.LineItem{{ItemCode: "NOVELTY", Rate: 50, Qty: 1, Amount: 50}},
	}
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{target}}

	got := NewAnalyzer(fake).Analyze(context.Background(), "PUR-ORD-2026-00003")

	if got.Decision != DecisionReview {
		t.Fatalf("decision = %q, want %q", got.Decision, DecisionReview)
	}
	if got.RiskScore != 10 {
		t.Errorf("RiskScore = %d, want 10", got.RiskScore)
	}
	if got.Evidence[0].AvgRate != "N/A" || got.Evidence[0].Delta != "N/A" {
		t.Errorf("evidence = %+v, want N/A baseline", got.Evidence[0])
	}
}

// 恰好高于均价 20% 即判异常（>=）
func TestAnalyzeExactTwentyPercentIsAnomaly(t *testing.T) {
	target := etpo.PurchaseOrder{
		Name:     "PUR-ORD-2026-00004",
		Supplier: "Acme",
		Status:   etpo.StatusDraft,
		Items:    []etpo.LineItem{{ItemCode: "WIDGET", Rate: 120, Qty: 1, Amount: 120}},
	}
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		target,
		historyPO("PO-H1", "Acme", "WIDGET", 100),
	}}

	got := NewAnalyzer(fake).Analyze(context.Background(), "PUR-ORD-2026-00004")

	if got.Evidence[0].Status != "ANOMALY" {
		t.Errorf("evidence = %+v, want ANOMALY at exactly 20%%", got.Evidence[0])
	}
}

func TestAnalyzeSupplierExposure(t *testing.T) {
	target := etpo.PurchaseOrder{
		Name:     "PUR-ORD-2026-00005",
		Supplier: "Busy",
		Status:   etpo.StatusDraft,
		Items:    []etpo.LineItem{{ItemCode: "WIDGET", Rate: 100, Qty: 1, Amount: 100}},
	}
	open := func(name string) etpo.PurchaseOrder {
		return etpo.PurchaseOrder{Name: name, Supplier: "Busy", Status: etpo.StatusToReceive,
			Items: []etpo.LineItem{{ItemCode: "WIDGET", Rate: 100, Qty: 1, Amount: 100}}}
	}
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		target, open("PO-O1"), open("PO-O2"), open("PO-O3"),
	}}

	got := NewAnalyzer(fake).Analyze(context.Background(), "PUR-ORD-2026-00005")

	if !strings.Contains(strings.Join(got.Findings, "\n"), "open orders pending") {
		t.Errorf("expected open orders finding, got %v", got.Findings)
	}
	if got.RiskScore < 15 {
		t.Errorf("RiskScore = %d, want >= 15", got.RiskScore)
	}
}

// 同一输入重复分析结论一致
func TestAnalyzeIdempotent(t *testing.T) {
	fake := &rperp.Fake{PurchaseOrders: []etpo.PurchaseOrder{
		{Name: "PUR-ORD-2026-00006", Supplier: "Acme", Status: etpo.StatusDraft,
			Items: []etpo.LineItem{{ItemCode: "WIDGET", Rate: 150, Qty: 1, Amount: 150}}},
		historyPO("PO-H1", "Acme", "WIDGET", 100),
		historyPO("PO-H2", "Acme", "WIDGET", 100),
	}}
	a := NewAnalyzer(fake)

	first := a.Analyze(context.Background(), "PUR-ORD-2026-00006")
	second := a.Analyze(context.Background(), "PUR-ORD-2026-00006")

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Decision{})); diff != "" {
		t.Errorf("repeated analysis differs (-first +second):\n%s", diff)
	}
}

func TestAnalyzeMissingPO(t *testing.T) {
	fake := &rperp.Fake{}

	got := NewAnalyzer(fake).Analyze(context.Background(), "PUR-ORD-2026-09999")

	if got.Decision != DecisionReview {
		t.Errorf("decision = %q, want %q", got.Decision, DecisionReview)
	}
	if len(got.Findings) == 0 || got.Findings[0] != "PO does not exist in system" {
		t.Errorf("findings = %v", got.Findings)
	}
}

func TestAnalyzeGatewayError(t *testing.T) {
	fake := &rperp.Fake{Err: errors.New("connection refused")}

	got := NewAnalyzer(fake).Analyze(context.Background(), "PUR-ORD-2026-00001")

	if got.Decision != DecisionReview {
		t.Errorf("decision = %q, want %q", got.Decision, DecisionReview)
	}
	if !strings.Contains(strings.Join(got.Findings, "\n"), "Could not fetch PO details") {
		t.Errorf("findings = %v", got.Findings)
	}
}
