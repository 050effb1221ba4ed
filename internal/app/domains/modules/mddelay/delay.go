package mddelay

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/currency"
)

// 输出上限
const (
	maxDelayedOrders   = 50
	maxSupplierRows    = 10
	maxRecommendations = 6
)

// 延迟严重度分档（按逾期天数）
const (
	SeverityCritical = "Critical"
	SeverityHigh     = "High"
	SeverityMedium   = "Medium"
	SeverityLow      = "Low"
)

// 供应商绩效评级（按准时率）
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
)

// DelayedOrder 被判定延迟的订单
type DelayedOrder struct {
	POName       string  `json:"po_name"`
	Supplier     string  `json:"supplier"`
	ScheduleDate string  `json:"schedule_date"`
	DaysOverdue  int     `json:"days_overdue"`
	Amount       string  `json:"amount"`
	AmountRaw    float64 `json:"amount_raw"`
	Status       string  `json:"status"`
	ItemsCount   int     `json:"items_count"`
	Severity     string  `json:"severity"`
}

// Summary 延迟汇总
type Summary struct {
	TotalOrders      int     `json:"total_orders"`
	DelayedCount     int     `json:"delayed_count"`
	OnTimeCount      int     `json:"on_time_count"`
	OnTimePercentage float64 `json:"on_time_percentage"`
	TotalDelayDays   int     `json:"total_delay_days"`
	AverageDelayDays float64 `json:"average_delay_days"`
	CriticalCount    int     `json:"critical_count"`
	HighCount        int     `json:"high_count"`
	MediumCount      int     `json:"medium_count"`
	LowCount         int     `json:"low_count"`
}

// SupplierPerformance 供应商准时交付绩效
type SupplierPerformance struct {
	Supplier          string  `json:"supplier"`
	TotalOrders       int     `json:"total_orders"`
	OnTimeOrders      int     `json:"on_time_orders"`
	DelayedOrders     int     `json:"delayed_orders"`
	OnTimePercentage  float64 `json:"on_time_percentage"`
	AverageDelayDays  float64 `json:"average_delay_days"`
	PerformanceRating string  `json:"performance_rating"`
}

// Report 延迟订单报告
type Report struct {
	DelayedOrders       []DelayedOrder        `json:"delayed_orders"`
	Summary             Summary               `json:"summary"`
	SupplierPerformance []SupplierPerformance `json:"supplier_performance"`
	Recommendations     []string              `json:"recommendations"`
}

// Detector 延迟订单检测器
type Detector struct{}

// NewDetector 创建检测器实例
func NewDetector() *Detector {
	return &Detector{}
}

// Detect 相对 referenceDate 检测延迟订单
// 判定口径：交付计划日期严格早于参考日期；参考日期可注入以保证测试确定性
func (d *Detector) Detect(orders []etpo.PurchaseOrder, referenceDate time.Time) *Report {
	if len(orders) == 0 {
		return &Report{
			DelayedOrders:       []DelayedOrder{},
			SupplierPerformance: []SupplierPerformance{},
			Recommendations:     []string{"No purchase orders to analyze."},
		}
	}

	delayed := identifyDelayed(orders, referenceDate)
	performance := supplierPerformance(orders, delayed)
	recs := recommendations(delayed, performance)

	totalOrders := len(orders)
	delayedCount := len(delayed)
	onTime := totalOrders - delayedCount

	totalDelay := 0
	severityCounts := make(map[string]int)
	for _, o := range delayed {
		totalDelay += o.DaysOverdue
		severityCounts[o.Severity]++
	}
	avgDelay := 0.0
	if delayedCount > 0 {
		avgDelay = float64(totalDelay) / float64(delayedCount)
	}

	sort.SliceStable(delayed, func(i, j int) bool {
		return delayed[i].DaysOverdue > delayed[j].DaysOverdue
	})
	if len(delayed) > maxDelayedOrders {
		delayed = delayed[:maxDelayedOrders]
	}
	if len(performance) > maxSupplierRows {
		performance = performance[:maxSupplierRows]
	}

	return &Report{
		DelayedOrders: delayed,
		Summary: Summary{
			TotalOrders:      totalOrders,
			DelayedCount:     delayedCount,
			OnTimeCount:      onTime,
			OnTimePercentage: round1(float64(onTime) / float64(totalOrders) * 100),
			TotalDelayDays:   totalDelay,
			AverageDelayDays: round1(avgDelay),
			CriticalCount:    severityCounts[SeverityCritical],
			HighCount:        severityCounts[SeverityHigh],
			MediumCount:      severityCounts[SeverityMedium],
			LowCount:         severityCounts[SeverityLow],
		},
		SupplierPerformance: performance,
		Recommendations:     recs,
	}
}

// identifyDelayed 筛出计划日期早于参考日期的订单；日期缺失或不可解析的订单直接跳过
func identifyDelayed(orders []etpo.PurchaseOrder, referenceDate time.Time) []DelayedOrder {
	refDay := referenceDate.Truncate(24 * time.Hour)
	delayed := make([]DelayedOrder, 0)

	for _, po := range orders {
		scheduleDate, ok := etpo.ParseDate(po.ScheduleDate)
		if !ok {
			continue
		}
		if !scheduleDate.Before(refDay) {
			continue
		}

		daysOverdue := int(refDay.Sub(scheduleDate).Hours() / 24)
		itemsCount := len(po.Items)
		if itemsCount == 0 {
			itemsCount = 1
		}
		supplier := po.Supplier
		if supplier == "" {
			supplier = "Unknown"
		}

		delayed = append(delayed, DelayedOrder{
			POName:       po.Name,
			Supplier:     supplier,
			ScheduleDate: scheduleDate.Format("2006-01-02"),
			DaysOverdue:  daysOverdue,
			Amount:       currency.Format(po.GrandTotal),
			AmountRaw:    po.GrandTotal,
			Status:       po.Status,
			ItemsCount:   itemsCount,
			Severity:     classifySeverity(daysOverdue),
		})
	}
	return delayed
}

// classifySeverity 逾期天数到严重度的单调映射
func classifySeverity(daysOverdue int) string {
	switch {
	case daysOverdue >= 60:
		return SeverityCritical
	case daysOverdue >= 30:
		return SeverityHigh
	case daysOverdue >= 15:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// supplierPerformance 按供应商统计准时率，升序排列（最差在前）
// 平均延迟只在该供应商的延迟订单上计算
func supplierPerformance(orders []etpo.PurchaseOrder, delayed []DelayedOrder) []SupplierPerformance {
	type stats struct {
		total     int
		delayed   int
		delayDays int
	}
	bySupplier := make(map[string]*stats)
	order := make([]string, 0)

	for _, po := range orders {
		supplier := po.Supplier
		if supplier == "" {
			supplier = "Unknown"
		}
		s, ok := bySupplier[supplier]
		if !ok {
			s = &stats{}
			bySupplier[supplier] = s
			order = append(order, supplier)
		}
		s.total++
	}
	for _, d := range delayed {
		if s, ok := bySupplier[d.Supplier]; ok {
			s.delayed++
			s.delayDays += d.DaysOverdue
		}
	}

	performance := make([]SupplierPerformance, 0, len(order))
	for _, supplier := range order {
		s := bySupplier[supplier]
		onTime := s.total - s.delayed
		onTimePct := 100.0
		if s.total > 0 {
			onTimePct = float64(onTime) / float64(s.total) * 100
		}
		avgDelay := 0.0
		if s.delayed > 0 {
			avgDelay = float64(s.delayDays) / float64(s.delayed)
		}
		performance = append(performance, SupplierPerformance{
			Supplier:          supplier,
			TotalOrders:       s.total,
			OnTimeOrders:      onTime,
			DelayedOrders:     s.delayed,
			OnTimePercentage:  round1(onTimePct),
			AverageDelayDays:  round1(avgDelay),
			PerformanceRating: rateSupplier(onTimePct),
		})
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].OnTimePercentage < performance[j].OnTimePercentage
	})
	return performance
}

// rateSupplier 准时率到评级的单调映射
func rateSupplier(onTimePct float64) string {
	switch {
	case onTimePct >= 95:
		return RatingExcellent
	case onTimePct >= 85:
		return RatingGood
	case onTimePct >= 70:
		return RatingFair
	default:
		return RatingPoor
	}
}

// recommendations 从延迟集合生成建议，上限 6 条
func recommendations(delayed []DelayedOrder, performance []SupplierPerformance) []string {
	if len(delayed) == 0 {
		return []string{"All orders are on schedule. Great job!"}
	}

	recs := make([]string, 0, maxRecommendations)

	criticalCount, highCount := 0, 0
	totalDelayedAmount, totalDays := 0.0, 0
	for _, d := range delayed {
		switch d.Severity {
		case SeverityCritical:
			criticalCount++
		case SeverityHigh:
			highCount++
		}
		totalDelayedAmount += d.AmountRaw
		totalDays += d.DaysOverdue
	}

	if criticalCount > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d orders are severely delayed (60+ days). Immediate escalation and supplier contact required.",
			criticalCount))
	}
	if highCount > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d orders delayed 30-60 days. Contact suppliers immediately and request expedited delivery.",
			highCount))
	}

	for _, p := range performance {
		if p.OnTimePercentage < 50 {
			recs = append(recs, fmt.Sprintf(
				"Supplier '%s' has only %.1f%% on-time delivery. Consider renegotiating SLA or finding alternatives.",
				p.Supplier, p.OnTimePercentage))
			break
		}
	}

	if totalDelayedAmount > 0 {
		recs = append(recs, fmt.Sprintf(
			"Total value of delayed orders: %s. This impacts cash flow and operations.",
			currency.Format(totalDelayedAmount)))
	}

	avgDelay := float64(totalDays) / float64(len(delayed))
	recs = append(recs, fmt.Sprintf(
		"Average delay is %.0f days. Implement early warning system and improve supplier SLA enforcement.",
		avgDelay))

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// round1 保留一位小数
func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
