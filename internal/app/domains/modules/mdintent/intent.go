package mdintent

import (
	"regexp"
	"strings"
)

// 意图标签（闭集）
const (
	IntentApprovePO           = "approve_po"
	IntentAnalyzePORisks      = "analyze_po_risks"
	IntentDetectPriceAnomaly  = "detect_price_anomalies"
	IntentDetectDelayedOrders = "detect_delayed_orders"
	IntentListCustomers       = "list_customers"
	IntentListSalesOrders     = "list_sales_orders"
	IntentListSalesInvoices   = "list_sales_invoices"
	IntentListVendorBills     = "list_vendor_bills"
	IntentGetPurchaseOrder    = "get_purchase_order"
	IntentMonthlyReport       = "monthly_report"
	IntentPendingReport       = "pending_report"
	IntentListSuppliers       = "list_suppliers"
	IntentListItems           = "list_items"
	IntentListPurchaseOrders  = "list_purchase_orders"
	IntentTotalSpend          = "total_spend"
	IntentUnknown             = "unknown"
)

// Result 意图解析结果
type Result struct {
	Intent string
	POName string // 提取到的采购订单号（可为空）
}

var (
	// 采购订单号：四位年份段 + 五位序号
	poNamePattern = regexp.MustCompile(`pur-ord-\d{4}-\d{5}`)
	// "so" 必须按独立单词匹配，否则 "show" 会误命中
	soWordPattern = regexp.MustCompile(`\bso\b`)
	poWordPattern = regexp.MustCompile(`\bpo\b`)
)

// rule 单条匹配规则：谓词 + 意图 + 可选实体提取器
type rule struct {
	match   func(q string) bool
	intent  string
	extract func(q string) string
}

// 规则表按优先级从上到下求值，首个命中即返回。
// 顺序本身就是歧义消解策略：approve 在 risk 之前，risk 在价格/延迟之前，
// customer 在通用 order 之前，pending 在通用 order 之前。
var rules = []rule{
	{
		match:   func(q string) bool { return strings.Contains(q, "approve") },
		intent:  IntentApprovePO,
		extract: extractPOName,
	},
	{
		match: func(q string) bool {
			if strings.Contains(q, "risk") {
				return true
			}
			return strings.Contains(q, "analyze") &&
				(strings.Contains(q, "order") || poWordPattern.MatchString(q))
		},
		intent: IntentAnalyzePORisks,
	},
	{
		match: func(q string) bool {
			return containsAny(q, "expensive", "anomal", "overpriced", "unusual")
		},
		intent: IntentDetectPriceAnomaly,
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "price") && containsAny(q, "check", "anomal", "unusual")
		},
		intent: IntentDetectPriceAnomaly,
	},
	{
		match: func(q string) bool {
			return containsAny(q, "delay", "late", "overdue", "past due")
		},
		intent: IntentDetectDelayedOrders,
	},
	{
		match: func(q string) bool {
			return containsAny(q, "slow", "behind") && containsAny(q, "delivery", "order")
		},
		intent: IntentDetectDelayedOrders,
	},
	{
		match:  func(q string) bool { return strings.Contains(q, "customer") },
		intent: IntentListCustomers,
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "sales order") || soWordPattern.MatchString(q)
		},
		intent: IntentListSalesOrders,
	},
	{
		match: func(q string) bool {
			if strings.Contains(q, "invoice") {
				return true
			}
			return strings.Contains(q, "outstanding") && containsAny(q, "payment", "amount")
		},
		intent: IntentListSalesInvoices,
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "vendor bill") ||
				(strings.Contains(q, "bill") && strings.Contains(q, "purchase"))
		},
		intent: IntentListVendorBills,
	},
	{
		match:   func(q string) bool { return poNamePattern.MatchString(q) },
		intent:  IntentGetPurchaseOrder,
		extract: extractPOName,
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "monthly") && containsAny(q, "report", "spend")
		},
		intent: IntentMonthlyReport,
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "pending") && containsAny(q, "report", "order")
		},
		intent: IntentPendingReport,
	},
	{
		match:  func(q string) bool { return strings.Contains(q, "spend report") },
		intent: IntentMonthlyReport,
	},
	{
		match:  func(q string) bool { return strings.Contains(q, "supplier") },
		intent: IntentListSuppliers,
	},
	{
		match:  func(q string) bool { return strings.Contains(q, "item") },
		intent: IntentListItems,
	},
	{
		match: func(q string) bool {
			return containsAny(q, "purchase order", "purchase", "order")
		},
		intent: IntentListPurchaseOrders,
	},
	{
		match:  func(q string) bool { return containsAny(q, "total", "sum") },
		intent: IntentTotalSpend,
	},
}

// Resolver 意图解析器（纯函数式，无副作用）
type Resolver struct{}

// NewResolver 创建意图解析器实例
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve 将自由文本解析为意图，未命中返回 unknown
func (r *Resolver) Resolve(text string) Result {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return Result{Intent: IntentUnknown}
	}

	for _, rl := range rules {
		if rl.match(q) {
			res := Result{Intent: rl.intent}
			if rl.extract != nil {
				res.POName = rl.extract(q)
			}
			return res
		}
	}
	return Result{Intent: IntentUnknown}
}

// extractPOName 提取采购订单号并统一为大写
func extractPOName(q string) string {
	m := poNamePattern.FindString(q)
	if m == "" {
		return ""
	}
	return strings.ToUpper(m)
}

// containsAny 是否包含任意一个子串
func containsAny(q string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}
