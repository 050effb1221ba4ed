package mdrisk

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/currency"
)

// 风险等级（按总分）
const (
	LevelHigh   = "High Risk"
	LevelMedium = "Medium Risk"
	LevelLow    = "Low Risk"
)

// 等级阈值
const (
	highRiskThreshold   = 60
	mediumRiskThreshold = 30
)

// Assessment 单个订单的风险评估
// 总分为四个独立子项之和：状态 0-40，价格 0-30，供应商 0-20，完整性 0-10
type Assessment struct {
	OrderID        string   `json:"order_id"`
	Supplier       string   `json:"supplier"`
	Status         string   `json:"status"`
	Amount         float64  `json:"amount"`
	RiskLevel      string   `json:"risk_level"`
	RiskScore      int      `json:"risk_score"`
	Reasons        []string `json:"reasons"`
	Recommendation string   `json:"recommendation"`
}

// Report 全量订单风险报告
type Report struct {
	Summary         string       `json:"summary"`
	Orders          []Assessment `json:"orders"`
	HighRiskCount   int          `json:"high_risk_count"`
	MediumRiskCount int          `json:"medium_risk_count"`
	LowRiskCount    int          `json:"low_risk_count"`
	Recommendations []string     `json:"recommendations"`
}

// Scorer 风险评分器；referenceDate 用于订单账龄计算，可注入
type Scorer struct {
	referenceDate time.Time
}

// NewScorer 创建评分器实例
func NewScorer(referenceDate time.Time) *Scorer {
	return &Scorer{referenceDate: referenceDate}
}

// Analyze 评估全部订单并按风险分降序汇总
func (s *Scorer) Analyze(orders []etpo.PurchaseOrder) *Report {
	if len(orders) == 0 {
		return &Report{
			Summary: "No purchase orders found.",
			Orders:  []Assessment{},
		}
	}

	assessments := make([]Assessment, 0, len(orders))
	high, medium, low := 0, 0, 0
	for _, po := range orders {
		a := s.Score(po, orders)
		assessments = append(assessments, a)
		switch a.RiskLevel {
		case LevelHigh:
			high++
		case LevelMedium:
			medium++
		default:
			low++
		}
	}

	sort.SliceStable(assessments, func(i, j int) bool {
		return assessments[i].RiskScore > assessments[j].RiskScore
	})

	return &Report{
		Summary:         fmt.Sprintf("Risk analysis: %d High, %d Medium, %d Low", high, medium, low),
		Orders:          assessments,
		HighRiskCount:   high,
		MediumRiskCount: medium,
		LowRiskCount:    low,
		Recommendations: topRecommendations(assessments),
	}
}

// Score 评估单个订单相对全集的风险
func (s *Scorer) Score(po etpo.PurchaseOrder, all []etpo.PurchaseOrder) Assessment {
	score := 0
	reasons := make([]string, 0, 4)

	statusScore, statusReason := s.statusRisk(po)
	score += statusScore
	if statusReason != "" {
		reasons = append(reasons, statusReason)
	}

	priceScore, priceReason := priceRisk(po, all)
	score += priceScore
	if priceReason != "" {
		reasons = append(reasons, priceReason)
	}

	supplierScore, supplierReason := supplierRisk(po.Supplier, all)
	score += supplierScore
	if supplierReason != "" {
		reasons = append(reasons, supplierReason)
	}

	completenessScore, completenessReason := completenessRisk(po)
	score += completenessScore
	if completenessReason != "" {
		reasons = append(reasons, completenessReason)
	}

	level := riskLevel(score)

	return Assessment{
		OrderID:        po.Name,
		Supplier:       po.Supplier,
		Status:         po.Status,
		Amount:         po.GrandTotal,
		RiskLevel:      level,
		RiskScore:      score,
		Reasons:        reasons,
		Recommendation: recommendation(level, reasons),
	}
}

// riskLevel 总分到等级的映射（≥60 High，≥30 Medium，否则 Low）
func riskLevel(score int) string {
	switch {
	case score >= highRiskThreshold:
		return LevelHigh
	case score >= mediumRiskThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// statusRisk 状态/账龄风险（0-40）
func (s *Scorer) statusRisk(po etpo.PurchaseOrder) (int, string) {
	status := po.Status

	if status == etpo.StatusCompleted {
		return 0, ""
	}

	if po.AwaitsReceipt() || po.AwaitsBilling() {
		txDate, ok := etpo.ParseDate(po.TransactionDate)
		if !ok {
			return 20, "Status shows pending items"
		}
		daysPending := int(s.referenceDate.Sub(txDate).Hours() / 24)
		switch {
		case daysPending > 30:
			return 40, fmt.Sprintf("Order pending for %d days (>30 days = High Risk)", daysPending)
		case daysPending > 14:
			return 25, fmt.Sprintf("Order pending for %d days (>2 weeks)", daysPending)
		default:
			return 15, "Order pending - awaiting receipt/invoice"
		}
	}

	if status == etpo.StatusCancelled {
		return 5, "Order cancelled (low risk)"
	}

	return 10, fmt.Sprintf("Status: %s", status)
}

// priceRisk 价格风险（0-30）：相对全集均值的偏差百分比
// 金额为零记固定 5 分；样本少于 2 条不计价格风险
func priceRisk(po etpo.PurchaseOrder, all []etpo.PurchaseOrder) (int, string) {
	amount := po.GrandTotal

	if amount == 0 {
		return 5, "Order amount is zero"
	}

	var sum float64
	count := 0
	for _, p := range all {
		if p.GrandTotal != 0 {
			sum += p.GrandTotal
			count++
		}
	}
	if count < 2 {
		return 0, ""
	}
	average := sum / float64(count)
	if average == 0 {
		return 0, ""
	}

	pctDiff := (amount - average) / average * 100
	switch {
	case pctDiff >= 20:
		return 30, fmt.Sprintf("Order amount %s is %.0f%% above average (%s)",
			currency.Format(amount), pctDiff, currency.Format(average))
	case pctDiff >= 10:
		return 15, fmt.Sprintf("Order amount %s is %.0f%% above average", currency.Format(amount), pctDiff)
	case pctDiff > 0:
		return 5, "Order amount slightly above average"
	}
	return 0, ""
}

// supplierRisk 供应商风险（0-20）：同一供应商的在途订单数
// pending 口径沿用既有统计方式：本供应商的待收货订单加上全部待开票订单
// （不限供应商），pending>open 的比较不在此处修正
func supplierRisk(supplier string, all []etpo.PurchaseOrder) (int, string) {
	openCount := 0
	pendingCount := 0
	for _, p := range all {
		if p.Supplier == supplier && p.IsOpen() {
			openCount++
		}
		if (p.Supplier == supplier && p.AwaitsReceipt()) || p.AwaitsBilling() {
			pendingCount++
		}
	}

	score := 0
	reason := ""
	switch {
	case openCount >= 3:
		score = 20
		reason = fmt.Sprintf("Supplier has %d open orders (concentration risk)", openCount)
	case openCount >= 1:
		score = 10
		reason = fmt.Sprintf("Supplier has %d open order(s)", openCount)
	}

	if pendingCount > openCount {
		if score < 15 {
			score = 15
		}
		reason = "Supplier has pattern of pending orders"
	}

	return score, reason
}

// completenessRisk 数据完整性风险（0-10）：待收货或待开票即存在缺口
func completenessRisk(po etpo.PurchaseOrder) (int, string) {
	if po.AwaitsReceipt() {
		return 8, "Awaiting goods receipt"
	}
	if po.AwaitsBilling() {
		return 8, "Awaiting supplier invoice"
	}
	return 0, ""
}

// recommendation 按主导信号生成处置建议：延迟措辞优先于价格措辞优先于通用复核
func recommendation(level string, reasons []string) string {
	hasAny := func(subs ...string) bool {
		for _, r := range reasons {
			lower := strings.ToLower(r)
			for _, sub := range subs {
				if strings.Contains(lower, sub) {
					return true
				}
			}
		}
		return false
	}

	switch level {
	case LevelHigh:
		if hasAny("delay", "pending for") {
			return "Urgent: Contact supplier immediately about delivery delays"
		}
		if hasAny("amount", "above") {
			return "Action: Negotiate pricing or find alternative supplier"
		}
		return "Action: Review order and take corrective action"
	case LevelMedium:
		if hasAny("pending") {
			return "Follow up: Check on order status with supplier"
		}
		if hasAny("open") {
			return "Monitor: Track supplier performance on multiple orders"
		}
		return "Review: Monitor this order closely"
	}
	return "No action needed - order tracking normally"
}

// topRecommendations 汇总层建议：高风险订单点名（最多 2 条示例）
func topRecommendations(assessments []Assessment) []string {
	recs := make([]string, 0, 4)

	var high, medium []Assessment
	for _, a := range assessments {
		switch a.RiskLevel {
		case LevelHigh:
			high = append(high, a)
		case LevelMedium:
			medium = append(medium, a)
		}
	}

	if len(high) > 0 {
		recs = append(recs, fmt.Sprintf("%d HIGH RISK order(s) require immediate attention", len(high)))
		for i, a := range high {
			if i >= 2 {
				break
			}
			recs = append(recs, fmt.Sprintf("  - %s (%s): %s", a.OrderID, a.Supplier, a.Recommendation))
		}
	}

	if len(medium) > 3 {
		recs = append(recs, fmt.Sprintf("%d medium risk orders - review supplier performance", len(medium)))
	}

	if len(recs) == 0 {
		recs = append(recs, "All orders appear to be low risk - continue normal monitoring")
	}
	return recs
}
