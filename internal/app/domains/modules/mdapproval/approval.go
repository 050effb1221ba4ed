package mdapproval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/repo/rperp"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/currency"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/errorx"
)

// 审批决策
const (
	DecisionApprove      = "APPROVE"
	DecisionReview       = "REVIEW"
	DecisionDoNotApprove = "DO NOT APPROVE"
)

// 风险累加与判定阈值
const (
	anomalyDeltaPct      = 20 // 当前单价高于历史均价 ≥20% 即异常
	riskAnomaly          = 30
	riskMissingBaseline  = 10
	riskSupplierExposure = 15
	doNotApproveScore    = 30
	reviewScore          = 25
	historyFetchLimit    = 100
)

// EvidenceRow 证据表行（逐条目价格对比）
type EvidenceRow struct {
	ItemCode string `json:"item_code"`
	Rate     string `json:"rate"`
	AvgRate  string `json:"avg_rate"`
	Delta    string `json:"delta"`
	Status   string `json:"status"`
}

// Decision 审批分析结果
type Decision struct {
	Decision    string        `json:"decision"`
	Summary     string        `json:"summary"`
	Findings    []string      `json:"findings"`
	Evidence    []EvidenceRow `json:"evidence"`
	NextActions []string      `json:"next_actions"`
	RiskScore   int           `json:"risk_score"`

	// 原始订单（编排层用于派生后续问题，不序列化）
	PO *etpo.PurchaseOrder `json:"-"`
}

// itemCheck 单条目价格核查
type itemCheck struct {
	itemCode        string
	rate            float64
	avgRate         float64
	deltaPct        float64
	hasBaseline     bool
	isAnomaly       bool
	historicalCount int
}

// Analyzer 采购订单审批分析器
type Analyzer struct {
	gateway rperp.Gateway
}

// NewAnalyzer 创建审批分析器实例
func NewAnalyzer(gateway rperp.Gateway) *Analyzer {
	return &Analyzer{gateway: gateway}
}

// Analyze 对单个采购订单给出 APPROVE / REVIEW / DO NOT APPROVE
// 订单缺失或数据源故障降级为 REVIEW，不向上抛错
func (a *Analyzer) Analyze(ctx context.Context, poName string) Decision {
	po, err := a.gateway.GetPurchaseOrder(ctx, poName)
	if err != nil {
		if errors.Is(err, errorx.ErrPONotFound) {
			return Decision{
				Decision:    DecisionReview,
				Summary:     fmt.Sprintf("PO %s not found", poName),
				Findings:    []string{"PO does not exist in system"},
				Evidence:    []EvidenceRow{},
				NextActions: []string{"Verify PO name", "Create PO if needed"},
			}
		}
		return Decision{
			Decision: DecisionReview,
			Summary:  fmt.Sprintf("Error fetching PO: %v", err),
			Findings: []string{fmt.Sprintf("Could not fetch PO details: %v", err)},
			Evidence: []EvidenceRow{},
			NextActions: []string{
				"Verify PO name is correct",
				"Check system connectivity",
			},
		}
	}
	history, err := a.gateway.ListPurchaseOrders(ctx, historyFetchLimit)
	if err != nil {
		// 无历史数据仍可出结论，只是全部条目都按缺基线处理
		history = nil
	}

	checks := a.checkItems(po, history)
	openOrders := supplierOpenOrders(po.Supplier, history)

	var anomalyItems, missingBaseline []itemCheck
	for _, c := range checks {
		if c.isAnomaly {
			anomalyItems = append(anomalyItems, c)
		}
		if c.historicalCount == 0 {
			missingBaseline = append(missingBaseline, c)
		}
	}

	findings := make([]string, 0, 5)
	riskScore := 0

	if len(anomalyItems) > 0 {
		findings = append(findings, fmt.Sprintf(
			"Price anomalies detected: %d item(s) >= %d%% above average", len(anomalyItems), anomalyDeltaPct))
		riskScore += riskAnomaly
	}
	if len(missingBaseline) > 0 {
		findings = append(findings, fmt.Sprintf(
			"Insufficient historical data: %d item(s) have no past purchase records", len(missingBaseline)))
		// 异常风险优先：仅在没有异常时才计缺基线分
		if len(anomalyItems) == 0 {
			riskScore += riskMissingBaseline
		}
	}
	if openOrders >= 3 {
		findings = append(findings, fmt.Sprintf("Supplier has %d open orders pending", openOrders))
		riskScore += riskSupplierExposure
	}
	if po.Status != etpo.StatusDraft && po.Status != etpo.StatusToReceive {
		findings = append(findings, fmt.Sprintf("PO status is '%s' (not standard for approval)", po.Status))
	}
	if len(findings) == 0 {
		findings = append(findings, "No significant risks or anomalies detected")
	}

	// 决策矩阵
	var decision, reason string
	switch {
	case len(anomalyItems) > 0 && riskScore >= doNotApproveScore:
		decision = DecisionDoNotApprove
		reason = "Price anomalies and/or high supplier risk"
	case riskScore >= reviewScore || len(missingBaseline) > 0:
		decision = DecisionReview
		reason = "Moderate risks or missing data require review"
	default:
		decision = DecisionApprove
		reason = "No significant risks detected"
	}
	findings = append([]string{fmt.Sprintf("Decision: %s (%s)", decision, reason)}, findings...)

	return Decision{
		Decision:    decision,
		Summary:     buildSummary(po),
		Findings:    findings,
		Evidence:    buildEvidence(checks),
		NextActions: nextActions(len(anomalyItems), len(missingBaseline), openOrders),
		RiskScore:   riskScore,
		PO:          po,
	}
}

// checkItems 核查每个行项目的价格相对历史基线
func (a *Analyzer) checkItems(po *etpo.PurchaseOrder, history []etpo.PurchaseOrder) []itemCheck {
	checks := make([]itemCheck, 0, len(po.Items))
	for _, line := range po.Items {
		avg, count := historicalItemRate(history, line.ItemCode, po.Supplier, po.Name)
		c := itemCheck{
			itemCode:        line.ItemCode,
			rate:            line.Rate,
			avgRate:         avg,
			historicalCount: count,
		}
		if avg > 0 {
			c.hasBaseline = true
			c.deltaPct = (line.Rate - avg) / avg * 100
			c.isAnomaly = c.deltaPct >= anomalyDeltaPct
		}
		checks = append(checks, c)
	}
	return checks
}

// historicalItemRate 条目历史均价：同一供应商的其他非草稿/取消/修订订单中该条目的平均单价
func historicalItemRate(history []etpo.PurchaseOrder, itemCode, supplier, excludePO string) (float64, int) {
	var sum float64
	count := 0
	for _, po := range history {
		switch po.Status {
		case etpo.StatusDraft, etpo.StatusCancelled, etpo.StatusAmended:
			continue
		}
		if supplier != "" && po.Supplier != supplier {
			continue
		}
		if po.Name == excludePO {
			continue
		}
		for _, line := range po.Items {
			if line.ItemCode == itemCode && line.Rate > 0 {
				sum += line.Rate
				count++
			}
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// supplierOpenOrders 供应商在途订单数
func supplierOpenOrders(supplier string, history []etpo.PurchaseOrder) int {
	count := 0
	for _, po := range history {
		if po.Supplier == supplier && po.IsOpen() {
			count++
		}
	}
	return count
}

// buildSummary 订单概要行
func buildSummary(po *etpo.PurchaseOrder) string {
	date := po.TransactionDate
	if date == "" {
		date = "N/A"
	}
	return fmt.Sprintf("Supplier: %s | Status: %s | Total: %s | Items: %d | Date: %s",
		po.Supplier, po.Status, currency.Format(po.GrandTotal), len(po.Items), date)
}

// buildEvidence 证据表：逐条目 单价/基线/偏差/标记
func buildEvidence(checks []itemCheck) []EvidenceRow {
	rows := make([]EvidenceRow, 0, len(checks))
	for _, c := range checks {
		row := EvidenceRow{
			ItemCode: c.itemCode,
			Rate:     fmt.Sprintf("$%.2f", c.rate),
			AvgRate:  "N/A",
			Delta:    "N/A",
			Status:   "OK",
		}
		if c.hasBaseline {
			row.AvgRate = fmt.Sprintf("$%.2f", c.avgRate)
			row.Delta = fmt.Sprintf("%.1f%%", c.deltaPct)
		}
		if c.isAnomaly {
			row.Status = "ANOMALY"
		}
		rows = append(rows, row)
	}
	return rows
}

// nextActions 后续动作建议；无其他动作时以「可以批准」兜底
func nextActions(anomalyCount, missingCount, openOrders int) []string {
	actions := make([]string, 0, 3)
	if anomalyCount > 0 {
		actions = append(actions, fmt.Sprintf(
			"Negotiate price on %d item(s) to match historical average", anomalyCount))
	}
	if missingCount > 0 {
		actions = append(actions, fmt.Sprintf(
			"Request quote or market price check for %d item(s)", missingCount))
	}
	if openOrders >= 3 {
		actions = append(actions, fmt.Sprintf(
			"Confirm delivery dates on %d open orders before approving new orders", openOrders))
	}
	if len(actions) == 0 {
		actions = append(actions, "Proceed with approval")
	}
	return actions
}

// DecisionLine 供编排层展示的决策标题
func (d Decision) DecisionLine(poName string) string {
	return fmt.Sprintf("Approval Analysis for %s\n\nDecision: %s", strings.ToUpper(poName), d.Decision)
}
