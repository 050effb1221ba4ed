package mdanomaly

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/currency"
)

// 异常阈值：单价高于条目均价 20% 以上（严格大于）才视为异常
const (
	anomalyThreshold   = 0.20
	maxRecommendations = 4
)

// 严重度分档
const (
	SeverityCritical = "Critical"
	SeverityHigh     = "High"
	SeverityMedium   = "Medium"
	SeverityLow      = "Low"
)

// Anomaly 单条价格异常
type Anomaly struct {
	ItemName        string  `json:"item_name"`
	Supplier        string  `json:"supplier"`
	Price           string  `json:"price"`
	PriceRaw        float64 `json:"price_raw"`
	AveragePrice    string  `json:"average_price"`
	AveragePriceRaw float64 `json:"average_price_raw"`
	Difference      string  `json:"difference"`
	DifferenceRaw   float64 `json:"difference_raw"`
	Percentage      string  `json:"percentage"`
	PercentageRaw   float64 `json:"percentage_raw"`
	Severity        string  `json:"severity"`
}

// Summary 检测汇总
type Summary struct {
	TotalItemsAnalyzed int `json:"total_items_analyzed"`
	ItemsWithAnomalies int `json:"items_with_anomalies"`
	AnomalyCount       int `json:"anomaly_count"`
}

// Report 价格异常报告
type Report struct {
	Anomalies       []Anomaly `json:"anomalies"`
	Summary         Summary   `json:"summary"`
	Recommendations []string  `json:"recommendations"`
}

// observation 单次采购观测（条目 + 供应商 + 折算单价）
type observation struct {
	supplier string
	rate     float64
}

// itemMetrics 条目级价格基线
type itemMetrics struct {
	name          string
	averageRate   float64
	minRate       float64
	maxRate       float64
	supplierCount int
	purchases     []observation
}

// Detector 价格异常检测器（规则引擎）
type Detector struct{}

// NewDetector 创建检测器实例
func NewDetector() *Detector {
	return &Detector{}
}

// Detect 检测采购订单集合中的价格异常
// 空输入返回规范空结果
func (d *Detector) Detect(orders []etpo.PurchaseOrder) *Report {
	if len(orders) == 0 {
		return &Report{
			Anomalies:       []Anomaly{},
			Recommendations: []string{"No purchase orders to analyze."},
		}
	}

	metrics := calculateItemMetrics(groupByItem(orders))
	anomalies := detectAnomalies(metrics)

	anomalyItems := make(map[string]struct{})
	for _, a := range anomalies {
		anomalyItems[a.ItemName] = struct{}{}
	}

	return &Report{
		Anomalies: anomalies,
		Summary: Summary{
			TotalItemsAnalyzed: len(metrics),
			ItemsWithAnomalies: len(anomalyItems),
			AnomalyCount:       len(anomalies),
		},
		Recommendations: recommendations(anomalies, metrics),
	}
}

// groupByItem 展开行级观测并按条目分组，保持首次出现顺序
// 单价推导：直接 rate，否则 amount/qty，否则 amount；两者都缺则剔除
func groupByItem(orders []etpo.PurchaseOrder) []itemMetrics {
	index := make(map[string]int)
	groups := make([]itemMetrics, 0)

	for _, po := range orders {
		supplier := po.Supplier
		if supplier == "" {
			supplier = "Unknown"
		}
		for _, line := range po.Items {
			name := line.ItemCode
			if name == "" {
				name = "Unknown"
			}

			rate := line.Rate
			if rate == 0 {
				switch {
				case line.Amount != 0 && line.Qty != 0:
					rate = line.Amount / line.Qty
				case line.Amount != 0:
					rate = line.Amount
				default:
					continue // 无任何价格观测，不当作零价异常
				}
			}

			i, seen := index[name]
			if !seen {
				index[name] = len(groups)
				groups = append(groups, itemMetrics{name: name})
				i = len(groups) - 1
			}
			groups[i].purchases = append(groups[i].purchases, observation{supplier: supplier, rate: rate})
		}
	}
	return groups
}

// calculateItemMetrics 计算条目级均价/极值/供应商数
func calculateItemMetrics(groups []itemMetrics) []itemMetrics {
	out := groups[:0]
	for _, g := range groups {
		if len(g.purchases) == 0 {
			continue
		}
		var sum float64
		g.minRate = g.purchases[0].rate
		g.maxRate = g.purchases[0].rate
		suppliers := make(map[string]struct{})
		for _, p := range g.purchases {
			sum += p.rate
			if p.rate < g.minRate {
				g.minRate = p.rate
			}
			if p.rate > g.maxRate {
				g.maxRate = p.rate
			}
			suppliers[p.supplier] = struct{}{}
		}
		g.averageRate = sum / float64(len(g.purchases))
		g.supplierCount = len(suppliers)
		out = append(out, g)
	}
	return out
}

// detectAnomalies 标记高于 均价*(1+阈值) 的观测，按偏差百分比降序（稳定）
func detectAnomalies(metrics []itemMetrics) []Anomaly {
	anomalies := make([]Anomaly, 0)

	for _, m := range metrics {
		threshold := m.averageRate * (1 + anomalyThreshold)
		for _, p := range m.purchases {
			if p.rate <= threshold {
				continue
			}
			diff := p.rate - m.averageRate
			pct := 0.0
			if m.averageRate != 0 {
				pct = diff / m.averageRate * 100
			}
			anomalies = append(anomalies, Anomaly{
				ItemName:        m.name,
				Supplier:        p.supplier,
				Price:           currency.Format(p.rate),
				PriceRaw:        p.rate,
				AveragePrice:    currency.Format(m.averageRate),
				AveragePriceRaw: m.averageRate,
				Difference:      currency.Format(diff),
				DifferenceRaw:   diff,
				Percentage:      fmt.Sprintf("%.1f%%", pct),
				PercentageRaw:   pct,
				Severity:        classifySeverity(pct),
			})
		}
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].PercentageRaw > anomalies[j].PercentageRaw
	})
	return anomalies
}

// classifySeverity 偏差百分比到严重度的单调映射
func classifySeverity(percentage float64) string {
	switch {
	case percentage >= 50:
		return SeverityCritical
	case percentage >= 30:
		return SeverityHigh
	case percentage >= 20:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// recommendations 从异常集合生成建议，上限 4 条
func recommendations(anomalies []Anomaly, metrics []itemMetrics) []string {
	if len(anomalies) == 0 {
		return []string{"No significant price anomalies were detected."}
	}

	recs := make([]string, 0, maxRecommendations)

	var critical, high []Anomaly
	for _, a := range anomalies {
		switch a.Severity {
		case SeverityCritical:
			critical = append(critical, a)
		case SeverityHigh:
			high = append(high, a)
		}
	}

	if len(critical) > 0 {
		suppliers := uniqueStrings(critical, func(a Anomaly) string { return a.Supplier })
		items := uniqueStrings(critical, func(a Anomaly) string { return a.ItemName })
		if len(suppliers) > 2 {
			suppliers = suppliers[:2]
		}
		recs = append(recs, fmt.Sprintf(
			"CRITICAL: %d severe price anomalies. Negotiate with %s for %d items.",
			len(critical), strings.Join(suppliers, ", "), len(items)))
	}

	if len(high) > 0 {
		suppliers := uniqueStrings(high, func(a Anomaly) string { return a.Supplier })
		recs = append(recs, fmt.Sprintf(
			"Review pricing from %d suppliers with prices %s above average.",
			len(suppliers), high[0].Percentage))
	}

	// 异常次数最多的供应商
	offenderCount := make(map[string]int)
	offenderOrder := make([]string, 0)
	for _, a := range anomalies {
		if _, seen := offenderCount[a.Supplier]; !seen {
			offenderOrder = append(offenderOrder, a.Supplier)
		}
		offenderCount[a.Supplier]++
	}
	topOffender, topCount := "", 0
	for _, s := range offenderOrder {
		if offenderCount[s] > topCount {
			topOffender, topCount = s, offenderCount[s]
		}
	}
	if topCount > 1 {
		recs = append(recs, fmt.Sprintf(
			"Supplier '%s' has %d price anomalies. Request quotes from competitors.",
			topOffender, topCount))
	}

	// 每个条目最便宜的供应商，取覆盖条目最多者作为竞价参考
	cheapestItems := make(map[string][]string)
	cheapestOrder := make([]string, 0)
	for _, m := range metrics {
		best := m.purchases[0]
		for _, p := range m.purchases[1:] {
			if p.rate < best.rate {
				best = p
			}
		}
		if _, seen := cheapestItems[best.supplier]; !seen {
			cheapestOrder = append(cheapestOrder, best.supplier)
		}
		cheapestItems[best.supplier] = append(cheapestItems[best.supplier], m.name)
	}
	bestSupplier, bestCount := "", 0
	for _, s := range cheapestOrder {
		if len(cheapestItems[s]) > bestCount {
			bestSupplier, bestCount = s, len(cheapestItems[s])
		}
	}
	if bestSupplier != "" {
		recs = append(recs, fmt.Sprintf(
			"'%s' offers competitive pricing on %d items.", bestSupplier, bestCount))
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// uniqueStrings 按出现顺序去重
func uniqueStrings(anomalies []Anomaly, key func(Anomaly) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, a := range anomalies {
		k := key(a)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
