package mdexplain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mdanomaly"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mddelay"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/currency"
)

// Title 所有解释的统一标题
const Title = "Why these recommendations?"

// Reason 单条推荐的依据（只引用已有数据，不编造数字）
type Reason struct {
	Recommendation string `json:"recommendation"`
	Evidence       string `json:"evidence"`
}

// Explanation 推荐解释
type Explanation struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Reasons     []Reason `json:"reasons"`
	NextActions []string `json:"next_actions"`
}

// TotalSpendData 支出总览解释所需的聚合数据
type TotalSpendData struct {
	TotalSpend        float64
	POCount           int
	CompletedCount    int
	AverageOrderValue float64
}

func newExplanation() Explanation {
	return Explanation{
		Title:       Title,
		Reasons:     []Reason{},
		NextActions: []string{},
	}
}

// TotalSpend 解释支出总览的推荐依据
func TotalSpend(d TotalSpendData) Explanation {
	e := newExplanation()
	e.Summary = fmt.Sprintf(
		"Your organization has spent %s across %d purchase orders, with an average order value of %s.",
		currency.Format(d.TotalSpend), d.POCount, currency.Format(d.AverageOrderValue))

	e.Reasons = append(e.Reasons, Reason{
		Recommendation: "Total spend across all purchase orders",
		Evidence:       fmt.Sprintf("%s spent across %d orders", currency.Format(d.TotalSpend), d.POCount),
	})

	completionRate := 0.0
	if d.POCount > 0 {
		completionRate = float64(d.CompletedCount) / float64(d.POCount) * 100
	}
	pending := d.POCount - d.CompletedCount
	e.Reasons = append(e.Reasons, Reason{
		Recommendation: fmt.Sprintf("Order completion status: %d of %d orders completed", d.CompletedCount, d.POCount),
		Evidence:       fmt.Sprintf("%.1f%% completion rate (%d completed, %d pending)", completionRate, d.CompletedCount, pending),
	})

	e.Reasons = append(e.Reasons, Reason{
		Recommendation: "Average purchase order size indicates spending patterns",
		Evidence: fmt.Sprintf("Average order value: %s (%s / %d orders)",
			currency.Format(d.AverageOrderValue), currency.Format(d.TotalSpend), d.POCount),
	})

	e.NextActions = []string{
		fmt.Sprintf("Review pending orders (%d) to track delivery and invoicing progress", pending),
		"Analyze spending trends by supplier to identify cost optimization opportunities",
		"Compare current spend to budget allocation for procurement planning",
	}
	return e
}

// PurchaseOrders 解释采购订单列表的推荐依据
func PurchaseOrders(orders []etpo.PurchaseOrder) Explanation {
	e := newExplanation()
	count := len(orders)
	e.Summary = fmt.Sprintf("You have %d purchase orders in the system with varying statuses and suppliers.", count)

	e.Reasons = append(e.Reasons, Reason{
		Recommendation: "Total number of purchase orders",
		Evidence:       fmt.Sprintf("%d purchase orders found in the system", count),
	})

	completed := 0
	if count > 0 {
		statusCounts := map[string]int{}
		suppliers := map[string]struct{}{}
		for _, po := range orders {
			status := po.Status
			if status == "" {
				status = "Unknown"
			}
			statusCounts[status]++
			if po.Status == etpo.StatusCompleted {
				completed++
			}
			if po.Supplier != "" {
				suppliers[po.Supplier] = struct{}{}
			}
		}

		statuses := make([]string, 0, len(statusCounts))
		for s := range statusCounts {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		parts := make([]string, 0, len(statuses))
		for _, s := range statuses {
			parts = append(parts, fmt.Sprintf("%d %s", statusCounts[s], s))
		}
		e.Reasons = append(e.Reasons, Reason{
			Recommendation: "Order status distribution",
			Evidence:       strings.Join(parts, ", "),
		})

		if len(suppliers) > 0 {
			e.Reasons = append(e.Reasons, Reason{
				Recommendation: "Supplier diversity",
				Evidence:       fmt.Sprintf("Orders placed with %d different suppliers", len(suppliers)),
			})
		}
	}

	e.NextActions = []string{
		"Review orders by status (To Receive, To Bill, Completed) to track progress",
		"Analyze supplier concentration - ensure you're not over-dependent on single suppliers",
		fmt.Sprintf("Follow up on pending items in %d orders", count-completed),
	}
	return e
}

// PriceAnomalies 解释价格异常检测结果
func PriceAnomalies(anomalies []mdanomaly.Anomaly, summary mdanomaly.Summary) Explanation {
	e := newExplanation()
	e.Summary = "Price analysis identified items with unusual pricing compared to historical averages."

	if len(anomalies) > 0 {
		codes := make([]string, 0, len(anomalies))
		for _, a := range anomalies {
			codes = append(codes, a.ItemName)
		}
		e.Reasons = append(e.Reasons, Reason{
			Recommendation: fmt.Sprintf("Price anomalies detected in %d item(s)", len(anomalies)),
			Evidence:       fmt.Sprintf("Items priced 20%% or higher above historical average: %s", strings.Join(codes, ", ")),
		})
	}

	normal := summary.TotalItemsAnalyzed - summary.ItemsWithAnomalies
	if normal > 0 {
		e.Reasons = append(e.Reasons, Reason{
			Recommendation: fmt.Sprintf("Normal pricing confirmed for %d item(s)", normal),
			Evidence:       "Items within expected price range based on historical data",
		})
	}

	if len(anomalies) > 0 {
		e.NextActions = []string{
			fmt.Sprintf("Negotiate pricing on %d item(s) to match historical averages", len(anomalies)),
			"Request quotes from alternative suppliers for high-priced items",
			"Verify if price increases are justified by market conditions or supplier communication",
		}
	} else {
		e.NextActions = []string{
			"Continue monitoring supplier pricing for consistency",
			"Maintain current suppliers if pricing remains competitive",
		}
	}
	return e
}

// DelayedOrders 解释延迟订单检测结果
func DelayedOrders(delayed []mddelay.DelayedOrder) Explanation {
	e := newExplanation()
	e.Summary = "Analysis shows which orders are delayed and by how long."

	if len(delayed) == 0 {
		e.Summary = "No delayed orders detected - all deliveries on track."
		e.NextActions = []string{
			"Continue monitoring delivery schedules",
			"Maintain positive relationships with suppliers",
		}
		return e
	}

	totalDays := 0
	for _, d := range delayed {
		totalDays += d.DaysOverdue
	}
	avgDays := float64(totalDays) / float64(len(delayed))

	e.Reasons = append(e.Reasons, Reason{
		Recommendation: fmt.Sprintf("%d order(s) are delayed", len(delayed)),
		Evidence:       fmt.Sprintf("Total %d days overdue, averaging %.1f days late per order", totalDays, avgDays),
	})

	e.NextActions = []string{
		fmt.Sprintf("Follow up with suppliers on %d delayed order(s)", len(delayed)),
		"Assess impact on production/operations due to delays",
		"Consider penalty clauses or supplier performance reviews if delays are recurring",
	}
	return e
}

// Listing 解释名录类查询（客户、供应商、商品、销售单据）
// partyLabel 非空时追加去重后的交易方统计，如 "customer" / "supplier"
func Listing(displayName string, count int, partyLabel string, uniqueParties int) Explanation {
	e := newExplanation()
	e.Summary = fmt.Sprintf("You have %d %s in the system.", count, displayName)

	e.Reasons = append(e.Reasons, Reason{
		Recommendation: fmt.Sprintf("Total %s count", displayName),
		Evidence:       fmt.Sprintf("%d %s found", count, displayName),
	})

	if partyLabel != "" && uniqueParties > 0 {
		e.Reasons = append(e.Reasons, Reason{
			Recommendation: fmt.Sprintf("Unique %ss", partyLabel),
			Evidence:       fmt.Sprintf("%d different %ss involved", uniqueParties, partyLabel),
		})
	}

	e.NextActions = []string{
		fmt.Sprintf("Review %s to identify inactive or high-value partners", displayName),
		fmt.Sprintf("Analyze performance metrics (spend, delivery, quality) for top %s", displayName),
		fmt.Sprintf("Plan relationship management strategy for key %s", displayName),
	}
	return e
}

// FormatText 将解释渲染为纯文本
func FormatText(e Explanation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", e.Title)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Summary:\n%s\n\n", e.Summary)

	if len(e.Reasons) > 0 {
		b.WriteString("Reasons:\n")
		for i, r := range e.Reasons {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r.Recommendation)
			fmt.Fprintf(&b, "   Evidence: %s\n\n", r.Evidence)
		}
	}
	if len(e.NextActions) > 0 {
		b.WriteString("Next Actions:\n")
		for _, a := range e.NextActions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	return b.String()
}
