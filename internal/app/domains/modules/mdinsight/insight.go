package mdinsight

import (
	"fmt"
	"sort"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/currency"
)

// 推荐条数上限与高额订单阈值
const (
	maxRecommendations  = 6
	highOrderValueLimit = 10000
)

// SupplierSpend 供应商支出条目
type SupplierSpend struct {
	Name           string  `json:"name"`
	Spend          float64 `json:"spend"`
	SpendFormatted string  `json:"spend_formatted"`
}

// Insights 采购订单业务指标汇总
type Insights struct {
	TotalOrders                int             `json:"total_orders"`
	TotalSpend                 float64         `json:"total_spend"`
	TotalSpendFormatted        string          `json:"total_spend_formatted"`
	CountsByStatus             map[string]int  `json:"counts_by_status"`
	TopSuppliersBySpend        []SupplierSpend `json:"top_suppliers_by_spend"`
	PendingOrdersCount         int             `json:"pending_orders_count"`
	SupplierCount              int             `json:"supplier_count"`
	AverageOrderValue          float64         `json:"average_order_value"`
	AverageOrderValueFormatted string          `json:"average_order_value_formatted"`
	Recommendations            []string        `json:"recommendations"`
}

// Aggregator 支出指标聚合器（规则引擎）
type Aggregator struct{}

// NewAggregator 创建聚合器实例
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate 从采购订单集合计算业务指标与建议
// 空输入返回规范空结果而不是错误
func (a *Aggregator) Aggregate(orders []etpo.PurchaseOrder) *Insights {
	if len(orders) == 0 {
		return &Insights{
			TotalSpendFormatted:        currency.Format(0),
			CountsByStatus:             map[string]int{},
			TopSuppliersBySpend:        []SupplierSpend{},
			AverageOrderValueFormatted: currency.Format(0),
			Recommendations: []string{
				"No purchase orders found. Create one to start tracking spend.",
			},
		}
	}

	totalOrders := len(orders)

	var totalSpend float64
	statusCounts := make(map[string]int)
	supplierSpend := make(map[string]float64)
	supplierOrder := make([]string, 0) // 首次出现顺序，保证并列时排序稳定
	pendingCount := 0

	for _, po := range orders {
		totalSpend += po.GrandTotal

		status := po.Status
		if status == "" {
			status = "Unknown"
		}
		statusCounts[status]++

		supplier := po.Supplier
		if supplier == "" {
			supplier = "Unknown Supplier"
		}
		if _, seen := supplierSpend[supplier]; !seen {
			supplierOrder = append(supplierOrder, supplier)
		}
		supplierSpend[supplier] += po.GrandTotal

		if po.IsPending() {
			pendingCount++
		}
	}

	avgOrderValue := totalSpend / float64(totalOrders)
	topSuppliers := topSuppliersBySpend(supplierSpend, supplierOrder, 3)

	return &Insights{
		TotalOrders:                totalOrders,
		TotalSpend:                 totalSpend,
		TotalSpendFormatted:        currency.Format(totalSpend),
		CountsByStatus:             statusCounts,
		TopSuppliersBySpend:        topSuppliers,
		PendingOrdersCount:         pendingCount,
		SupplierCount:              len(supplierSpend),
		AverageOrderValue:          avgOrderValue,
		AverageOrderValueFormatted: currency.Format(avgOrderValue),
		Recommendations: a.recommendations(
			totalOrders, totalSpend, pendingCount, avgOrderValue,
			statusCounts, supplierSpend, topSuppliers,
		),
	}
}

// topSuppliersBySpend 按支出取前 N 名供应商，并列按首次出现顺序
func topSuppliersBySpend(spend map[string]float64, order []string, limit int) []SupplierSpend {
	ranked := make([]SupplierSpend, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, SupplierSpend{
			Name:           name,
			Spend:          spend[name],
			SpendFormatted: currency.Format(spend[name]),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Spend > ranked[j].Spend
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// recommendations 独立规则逐条检查，每条规则最多产生一条建议
func (a *Aggregator) recommendations(
	totalOrders int,
	totalSpend float64,
	pendingCount int,
	avgOrderValue float64,
	statusCounts map[string]int,
	supplierSpend map[string]float64,
	topSuppliers []SupplierSpend,
) []string {
	recs := make([]string, 0, maxRecommendations)

	if pendingCount > 0 {
		pct := currency.Percentage(float64(pendingCount), float64(totalOrders))
		recs = append(recs, fmt.Sprintf(
			"%d orders (%s) are pending. Review receiving/billing status.", pendingCount, pct))
	}

	toReceive := statusCounts[etpo.StatusToReceiveAndBill] + statusCounts[etpo.StatusToReceive]
	if toReceive > 3 {
		recs = append(recs, fmt.Sprintf(
			"Many orders (%d) await receipt. Coordinate with warehouse/receiving team.", toReceive))
	}

	toBill := statusCounts[etpo.StatusToBill] + statusCounts[etpo.StatusToReceiveAndBill]
	if toBill > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d orders need billing. Process invoices to keep accounts current.", toBill))
	}

	if len(topSuppliers) > 0 && topSuppliers[0].Spend > totalSpend*0.5 {
		pct := currency.Percentage(topSuppliers[0].Spend, totalSpend)
		recs = append(recs, fmt.Sprintf(
			"Supplier '%s' accounts for %s of spend. Consider diversifying to reduce dependency.",
			topSuppliers[0].Name, pct))
	}

	if len(supplierSpend) > 0 && len(supplierSpend) <= 2 {
		recs = append(recs,
			"You work with very few suppliers. Consider diversifying for better negotiating power and resilience.")
	}

	if len(supplierSpend) > 10 {
		recs = append(recs,
			"You have many suppliers. Consolidating could improve margins and reduce complexity.")
	}

	if avgOrderValue > highOrderValueLimit {
		recs = append(recs, fmt.Sprintf(
			"Average order value is %s. Consider reviewing large orders for cost optimization.",
			currency.Format(avgOrderValue)))
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
