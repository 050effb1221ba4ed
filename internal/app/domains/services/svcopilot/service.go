package svcopilot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etanswer"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mdanomaly"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mdapproval"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mddelay"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mdexplain"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mdinsight"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mdintent"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/modules/mdrisk"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/repo/rperp"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/currency"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/logger"
)

// 各意图的取数上限；列表展示取小、全量分析取大
const (
	listFetchLimit     = 50
	spendFetchLimit    = 200
	analysisFetchLimit = 500
)

// Service 业务助手编排服务
// 解析意图后调用对应数据网关与分析模块，组装统一响应
type Service struct {
	gateway  rperp.Gateway
	resolver *mdintent.Resolver
	insight  *mdinsight.Aggregator
	anomaly  *mdanomaly.Detector
	delay    *mddelay.Detector
	approval *mdapproval.Analyzer
	log      logger.Logger

	// now 可注入，测试与报表生成使用固定时钟
	now func() time.Time
}

// NewService 创建编排服务实例
func NewService(gateway rperp.Gateway, log logger.Logger) *Service {
	return &Service{
		gateway:  gateway,
		resolver: mdintent.NewResolver(),
		insight:  mdinsight.NewAggregator(),
		anomaly:  mdanomaly.NewDetector(),
		delay:    mddelay.NewDetector(),
		approval: mdapproval.NewAnalyzer(gateway),
		log:      log,
		now:      time.Now,
	}
}

// WithClock 注入固定时钟（测试用）
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Handle 处理一条用户提问，总是返回结构完整的响应，不向上抛错
func (s *Service) Handle(ctx context.Context, text string) *etanswer.Response {
	parsed := s.resolver.Resolve(text)
	ctx = context.WithValue(ctx, "intent", parsed.Intent)
	s.log.Infof(ctx, "handle question, intent=%s", parsed.Intent)

	switch parsed.Intent {
	case mdintent.IntentApprovePO:
		return s.handleApprovePO(ctx, parsed.POName)
	case mdintent.IntentAnalyzePORisks:
		return s.handleRiskAnalysis(ctx)
	case mdintent.IntentDetectPriceAnomaly:
		return s.handlePriceAnomalies(ctx)
	case mdintent.IntentDetectDelayedOrders:
		return s.handleDelayedOrders(ctx)
	case mdintent.IntentListCustomers:
		return s.handleListCustomers(ctx)
	case mdintent.IntentListSalesOrders:
		return s.handleListSalesOrders(ctx)
	case mdintent.IntentListSalesInvoices:
		return s.handleListSalesInvoices(ctx)
	case mdintent.IntentListVendorBills:
		return s.handleListVendorBills(ctx)
	case mdintent.IntentGetPurchaseOrder:
		return s.handleGetPurchaseOrder(ctx, parsed.POName)
	case mdintent.IntentMonthlyReport:
		return s.handleMonthlyReport(ctx)
	case mdintent.IntentPendingReport:
		return s.handlePendingReport(ctx)
	case mdintent.IntentListSuppliers:
		return s.handleListSuppliers(ctx)
	case mdintent.IntentListItems:
		return s.handleListItems(ctx)
	case mdintent.IntentListPurchaseOrders:
		return s.handleListPurchaseOrders(ctx)
	case mdintent.IntentTotalSpend:
		return s.handleTotalSpend(ctx)
	default:
		return s.handleUnknown()
	}
}

func (s *Service) handleApprovePO(ctx context.Context, poName string) *etanswer.Response {
	if poName == "" {
		return (&etanswer.Response{
			Intent: mdintent.IntentApprovePO,
			Answer: "Please specify which purchase order to review. For example: 'Should I approve PUR-ORD-2026-00001?'",
			NextQuestions: []string{
				"Show purchase orders",
				"List suppliers",
				"What's the total spend?",
			},
		}).Normalize()
	}

	analysis := s.approval.Analyze(ctx, poName)

	supplier := "supplier"
	if analysis.PO != nil && analysis.PO.Supplier != "" {
		supplier = analysis.PO.Supplier
	}

	return (&etanswer.Response{
		Intent:      mdintent.IntentApprovePO,
		Answer:      analysis.DecisionLine(poName),
		Summary:     analysis.Summary,
		Findings:    analysis.Findings,
		Evidence:    analysis.Evidence,
		NextActions: analysis.NextActions,
		Insights:    analysis.Findings,
		Data:        analysis.Evidence,
		NextQuestions: []string{
			"Explain why you recommend " + analysis.Decision,
			"What would you change to make this approvable?",
			"Compare this PO with last 3 orders from " + supplier,
		},
	}).Normalize()
}

func (s *Service) handleRiskAnalysis(ctx context.Context) *etanswer.Response {
	pos, err := s.gateway.ListPurchaseOrders(ctx, analysisFetchLimit)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentAnalyzePORisks, err)
	}

	report := mdrisk.NewScorer(s.now()).Analyze(pos)

	return (&etanswer.Response{
		Intent:          mdintent.IntentAnalyzePORisks,
		Answer:          report.Summary,
		Insights:        report.Recommendations,
		Data:            report.Orders,
		Recommendations: report.Recommendations,
		NextQuestions: []string{
			"Show delayed orders",
			"Show price anomalies",
			"Show purchase orders",
		},
	}).Normalize()
}

func (s *Service) handlePriceAnomalies(ctx context.Context) *etanswer.Response {
	pos, err := s.gateway.ListPurchaseOrders(ctx, analysisFetchLimit)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentDetectPriceAnomaly, err)
	}

	report := s.anomaly.Detect(pos)

	var answer string
	var insights []string
	var data []mdanomaly.Anomaly
	if len(report.Anomalies) == 0 {
		answer = "No significant price anomalies were detected."
		insights = []string{"All suppliers are pricing competitively."}
		data = []mdanomaly.Anomaly{}
	} else {
		answer = fmt.Sprintf("Found %d price anomalies across %d items.",
			report.Summary.AnomalyCount, report.Summary.ItemsWithAnomalies)
		insights = report.Recommendations
		data = report.Anomalies
	}

	explanation := mdexplain.PriceAnomalies(report.Anomalies, report.Summary)

	return (&etanswer.Response{
		Intent:   mdintent.IntentDetectPriceAnomaly,
		Answer:   answer,
		Insights: insights,
		Data:     data,
		NextQuestions: []string{
			"Show all purchase orders",
			"List suppliers",
			"What's the total spend?",
			"Show competitive prices",
		},
		AnomalySummary:  report.Summary,
		Recommendations: report.Recommendations,
		Explanation:     explanation,
	}).Normalize()
}

func (s *Service) handleDelayedOrders(ctx context.Context) *etanswer.Response {
	pos, err := s.gateway.ListPurchaseOrders(ctx, analysisFetchLimit)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentDetectDelayedOrders, err)
	}

	report := s.delay.Detect(pos, s.now())

	var answer string
	var insights []string
	var data []mddelay.DelayedOrder
	if len(report.DelayedOrders) == 0 {
		answer = "No delayed orders detected. All orders are on schedule!"
		insights = []string{"Great job maintaining supplier timelines."}
		data = []mddelay.DelayedOrder{}
	} else {
		answer = fmt.Sprintf("Found %d delayed orders out of %d total. On-time delivery: %v%%.",
			report.Summary.DelayedCount, report.Summary.TotalOrders, report.Summary.OnTimePercentage)
		insights = report.Recommendations
		data = report.DelayedOrders
	}

	explanation := mdexplain.DelayedOrders(report.DelayedOrders)

	return (&etanswer.Response{
		Intent:   mdintent.IntentDetectDelayedOrders,
		Answer:   answer,
		Insights: insights,
		Data:     data,
		NextQuestions: []string{
			"Show purchase orders",
			"List suppliers",
			"What's our spending?",
			"Show price anomalies",
		},
		DelaySummary:        report.Summary,
		SupplierPerformance: report.SupplierPerformance,
		Recommendations:     report.Recommendations,
		Explanation:         explanation,
	}).Normalize()
}

func (s *Service) handleListCustomers(ctx context.Context) *etanswer.Response {
	data, err := s.gateway.ListCustomers(ctx)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentListCustomers, err)
	}

	explanation := mdexplain.Listing("customers", len(data), "", 0)

	return (&etanswer.Response{
		Intent: mdintent.IntentListCustomers,
		Answer: fmt.Sprintf("Found %d customers.", len(data)),
		Insights: []string{
			fmt.Sprintf("You have %d active customers.", len(data)),
			"Review customer payment status and outstanding amounts.",
			"Monitor customer concentration risk.",
		},
		Data: data,
		NextQuestions: []string{
			"Show sales orders",
			"List invoices",
			"What's our revenue?",
		},
		Explanation: explanation,
	}).Normalize()
}

func (s *Service) handleListSalesOrders(ctx context.Context) *etanswer.Response {
	data, err := s.gateway.ListSalesOrders(ctx)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentListSalesOrders, err)
	}

	return (&etanswer.Response{
		Intent: mdintent.IntentListSalesOrders,
		Answer: fmt.Sprintf("Found %d sales orders.", len(data)),
		Insights: []string{
			fmt.Sprintf("You have %d sales orders.", len(data)),
			"Review delivery dates to ensure on-time fulfillment.",
			"Monitor sales order status and pending items.",
		},
		Data: data,
		NextQuestions: []string{
			"List customers",
			"Show invoices",
			"Show purchase orders",
		},
	}).Normalize()
}

func (s *Service) handleListSalesInvoices(ctx context.Context) *etanswer.Response {
	data, err := s.gateway.ListSalesInvoices(ctx)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentListSalesInvoices, err)
	}

	var outstanding float64
	for _, inv := range data {
		outstanding += inv.OutstandingAmount
	}

	return (&etanswer.Response{
		Intent: mdintent.IntentListSalesInvoices,
		Answer: fmt.Sprintf("Found %d invoices. Outstanding amount: %s", len(data), currency.Format(outstanding)),
		Insights: []string{
			fmt.Sprintf("Total invoices: %d", len(data)),
			fmt.Sprintf("Outstanding receivables: %s", currency.Format(outstanding)),
			"Review payment status and follow up on overdue payments.",
		},
		Data: data,
		NextQuestions: []string{
			"List customers",
			"Show sales orders",
			"Outstanding payments?",
		},
	}).Normalize()
}

func (s *Service) handleListVendorBills(ctx context.Context) *etanswer.Response {
	data, err := s.gateway.ListVendorBills(ctx)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentListVendorBills, err)
	}

	var outstanding float64
	for _, bill := range data {
		outstanding += bill.OutstandingAmount
	}

	return (&etanswer.Response{
		Intent: mdintent.IntentListVendorBills,
		Answer: fmt.Sprintf("Found %d vendor bills. Outstanding amount: %s", len(data), currency.Format(outstanding)),
		Insights: []string{
			fmt.Sprintf("Total vendor bills: %d", len(data)),
			fmt.Sprintf("Outstanding payables: %s", currency.Format(outstanding)),
			"Schedule payments and manage vendor relationships.",
		},
		Data: data,
		NextQuestions: []string{
			"List suppliers",
			"Show purchase orders",
			"Delayed orders?",
		},
	}).Normalize()
}

func (s *Service) handleGetPurchaseOrder(ctx context.Context, poName string) *etanswer.Response {
	po, err := s.gateway.GetPurchaseOrder(ctx, poName)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentGetPurchaseOrder, err)
	}

	status := po.Status
	if status == "" {
		status = "Unknown"
	}
	insights := []string{fmt.Sprintf("Status: %s", status)}
	if po.AwaitsReceipt() {
		insights = append(insights, "Awaiting receipt from supplier.")
	}
	if po.AwaitsBilling() {
		insights = append(insights, "Invoice pending. Process for payment.")
	}
	if status == etpo.StatusCompleted {
		insights = append(insights, "Order fully received and billed.")
	}

	return (&etanswer.Response{
		Intent:   mdintent.IntentGetPurchaseOrder,
		Answer:   fmt.Sprintf("Details for purchase order %s.", poName),
		Insights: insights,
		Data:     po,
		NextQuestions: []string{
			"Show all purchase orders",
			"List suppliers",
			"What's the total spend?",
		},
	}).Normalize()
}

func (s *Service) handleListSuppliers(ctx context.Context) *etanswer.Response {
	data, err := s.gateway.ListSuppliers(ctx)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentListSuppliers, err)
	}

	insights := []string{fmt.Sprintf("You work with %d suppliers.", len(data))}
	if len(data) > 5 {
		insights = append(insights, "Consider consolidating suppliers to improve negotiating power.")
	}
	if len(data) <= 2 {
		insights = append(insights, "Consider diversifying your supplier base for better resilience.")
	}

	return (&etanswer.Response{
		Intent:   mdintent.IntentListSuppliers,
		Answer:   fmt.Sprintf("You have %d suppliers in your network.", len(data)),
		Insights: insights,
		Data:     data,
		NextQuestions: []string{
			"List items",
			"Show purchase orders",
			"What's the total spend?",
		},
	}).Normalize()
}

func (s *Service) handleListItems(ctx context.Context) *etanswer.Response {
	data, err := s.gateway.ListItems(ctx)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentListItems, err)
	}

	insights := []string{fmt.Sprintf("You have %d items in inventory.", len(data))}
	if len(data) > 100 {
		insights = append(insights, "Large inventory. Consider periodic audits to manage stock.")
	}

	return (&etanswer.Response{
		Intent:   mdintent.IntentListItems,
		Answer:   fmt.Sprintf("Your catalog contains %d items.", len(data)),
		Insights: insights,
		Data:     data,
		NextQuestions: []string{
			"List suppliers",
			"Show purchase orders",
			"What's the total spend?",
		},
	}).Normalize()
}

func (s *Service) handleListPurchaseOrders(ctx context.Context) *etanswer.Response {
	pos, err := s.gateway.ListPurchaseOrders(ctx, listFetchLimit)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentListPurchaseOrders, err)
	}

	insights, nextQuestions := poListInsights(pos)
	metrics := s.insight.Aggregate(pos)
	explanation := mdexplain.PurchaseOrders(pos)

	return (&etanswer.Response{
		Intent:          mdintent.IntentListPurchaseOrders,
		Answer:          fmt.Sprintf("Displaying %d purchase orders. Total spend: %s.", len(pos), metrics.TotalSpendFormatted),
		Insights:        insights,
		Data:            pos,
		NextQuestions:   nextQuestions,
		Metrics:         metrics,
		Recommendations: metrics.Recommendations,
		Explanation:     explanation,
	}).Normalize()
}

func (s *Service) handleTotalSpend(ctx context.Context) *etanswer.Response {
	pos, err := s.gateway.ListPurchaseOrders(ctx, spendFetchLimit)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentTotalSpend, err)
	}

	metrics := s.insight.Aggregate(pos)
	completed := 0
	for _, po := range pos {
		if po.Status == etpo.StatusCompleted {
			completed++
		}
	}

	insights := []string{
		fmt.Sprintf("Total spend across %d purchase orders: %s.", len(pos), metrics.TotalSpendFormatted),
		fmt.Sprintf("%d orders have been completed.", completed),
		fmt.Sprintf("Average order value: %s.", metrics.AverageOrderValueFormatted),
	}

	spendData := mdexplain.TotalSpendData{
		TotalSpend:        metrics.TotalSpend,
		POCount:           len(pos),
		CompletedCount:    completed,
		AverageOrderValue: metrics.AverageOrderValue,
	}
	explanation := mdexplain.TotalSpend(spendData)

	return (&etanswer.Response{
		Intent:   mdintent.IntentTotalSpend,
		Answer:   fmt.Sprintf("Your total spend is %s across %d orders.", metrics.TotalSpendFormatted, len(pos)),
		Insights: insights,
		Data: map[string]interface{}{
			"total_spend":         metrics.TotalSpend,
			"po_count":            len(pos),
			"completed_count":     completed,
			"average_order_value": metrics.AverageOrderValue,
		},
		NextQuestions: []string{
			"Show purchase orders",
			"List suppliers",
			"What items do we purchase?",
		},
		Metrics:         metrics,
		Recommendations: metrics.Recommendations,
		Explanation:     explanation,
	}).Normalize()
}

func (s *Service) handleMonthlyReport(ctx context.Context) *etanswer.Response {
	pos, err := s.gateway.ListPurchaseOrders(ctx, analysisFetchLimit)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentMonthlyReport, err)
	}

	answer, insights, nextQuestions, monthPOs := s.monthlyReport(pos)
	metrics := s.insight.Aggregate(pos)

	return (&etanswer.Response{
		Intent:          mdintent.IntentMonthlyReport,
		Answer:          answer,
		Insights:        insights,
		Data:            monthPOs,
		NextQuestions:   nextQuestions,
		Metrics:         metrics,
		Recommendations: metrics.Recommendations,
	}).Normalize()
}

func (s *Service) handlePendingReport(ctx context.Context) *etanswer.Response {
	pos, err := s.gateway.ListPurchaseOrders(ctx, analysisFetchLimit)
	if err != nil {
		return s.errorResponse(ctx, mdintent.IntentPendingReport, err)
	}

	answer, insights, nextQuestions, pending := pendingReport(pos)
	metrics := s.insight.Aggregate(pos)

	return (&etanswer.Response{
		Intent:          mdintent.IntentPendingReport,
		Answer:          answer,
		Insights:        insights,
		Data:            pending,
		NextQuestions:   nextQuestions,
		Metrics:         metrics,
		Recommendations: metrics.Recommendations,
	}).Normalize()
}

func (s *Service) handleUnknown() *etanswer.Response {
	return (&etanswer.Response{
		Intent: mdintent.IntentUnknown,
		Answer: "I didn't understand that question.",
		Insights: []string{
			"Try asking about suppliers, items, or purchase orders.",
			"You can also ask about customers, sales orders, or invoices.",
			"Ask about total spend, pending orders, or monthly reports.",
		},
		NextQuestions: []string{
			"List suppliers",
			"Show customers",
			"Show purchase orders",
			"Show sales orders",
		},
	}).Normalize()
}

// errorResponse 数据源故障时的降级响应，结构仍完整可用
func (s *Service) errorResponse(ctx context.Context, intent string, err error) *etanswer.Response {
	s.log.Warnf(ctx, "gateway error for intent %s: %v", intent, err)
	return (&etanswer.Response{
		Intent:   intent,
		Answer:   "An error occurred while processing your request.",
		Insights: []string{err.Error()},
		NextQuestions: []string{
			"List suppliers",
			"Show items",
			"Show purchase orders",
		},
	}).Normalize()
}

// poListInsights 订单列表的状态洞察与后续问题
func poListInsights(pos []etpo.PurchaseOrder) ([]string, []string) {
	if len(pos) == 0 {
		return []string{"No purchase orders found."}, []string{"What suppliers do we work with?"}
	}

	var totalSpend float64
	incomplete, toReceive, toBill := 0, 0, 0
	for _, po := range pos {
		totalSpend += po.GrandTotal
		if po.IsOpen() {
			incomplete++
		}
		if po.AwaitsReceipt() {
			toReceive++
		}
		if po.AwaitsBilling() {
			toBill++
		}
	}

	insights := []string{
		fmt.Sprintf("You have %d purchase orders totaling %s.", len(pos), currency.Format(totalSpend)),
	}
	if incomplete > 0 {
		insights = append(insights, fmt.Sprintf("%d orders are not yet completed. Review pending items.", incomplete))
	}
	if toReceive > 0 {
		insights = append(insights, fmt.Sprintf("%d orders await receipt. Coordinate with receiving team.", toReceive))
	}
	if toBill > 0 {
		insights = append(insights, fmt.Sprintf("%d orders need billing. Process invoices soon.", toBill))
	}

	nextQuestions := []string{
		"What's the total spend?",
		"Show pending orders",
		"List suppliers",
	}
	if toReceive > 0 {
		nextQuestions = append([]string{"Which orders are 'To Receive'?"}, nextQuestions...)
	}
	if toBill > 0 {
		head := nextQuestions[:1:1]
		nextQuestions = append(append(head, "Which orders are 'To Bill'?"), nextQuestions[1:]...)
	}

	return insights, nextQuestions
}

// monthlyReport 当月支出报告；月份边界由注入时钟决定
func (s *Service) monthlyReport(pos []etpo.PurchaseOrder) (string, []string, []string, []etpo.PurchaseOrder) {
	if len(pos) == 0 {
		return "No purchase orders found for analysis.", []string{}, []string{}, []etpo.PurchaseOrder{}
	}

	today := s.now()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	monthPOs := make([]etpo.PurchaseOrder, 0)
	for _, po := range pos {
		txDate, ok := etpo.ParseDate(po.TransactionDate)
		if !ok {
			continue
		}
		if !txDate.Before(monthStart) {
			monthPOs = append(monthPOs, po)
		}
	}

	var monthSpend, allSpend float64
	completed, pending := 0, 0
	supplierSpend := map[string]float64{}
	supplierOrder := make([]string, 0)
	for _, po := range pos {
		allSpend += po.GrandTotal
	}
	for _, po := range monthPOs {
		monthSpend += po.GrandTotal
		if po.Status == etpo.StatusCompleted {
			completed++
		}
		if po.IsOpen() {
			pending++
		}
		supplier := po.Supplier
		if supplier == "" {
			supplier = "Unknown"
		}
		if _, seen := supplierSpend[supplier]; !seen {
			supplierOrder = append(supplierOrder, supplier)
		}
		supplierSpend[supplier] += po.GrandTotal
	}

	topSuppliers := topNSuppliers(supplierSpend, supplierOrder, 3)

	avgValue := 0.0
	if len(monthPOs) > 0 {
		avgValue = monthSpend / float64(len(monthPOs))
	}

	answer := fmt.Sprintf(`Monthly Spend Report (Current Month)

Total Spend: %s
Orders: %d total (%d completed, %d pending)
Average Order Value: %s

Top Suppliers:`, currency.Format(monthSpend), len(monthPOs), completed, pending, currency.Format(avgValue))
	for _, sp := range topSuppliers {
		answer += fmt.Sprintf("\n  - %s: %s", sp.name, currency.Format(sp.spend))
	}
	answer += fmt.Sprintf("\n\nAll-time Total Spend: %s", currency.Format(allSpend))

	topName := "N/A"
	if len(topSuppliers) > 0 {
		topName = topSuppliers[0].name
	}
	insights := []string{
		fmt.Sprintf("Current month: %d orders totaling %s", len(monthPOs), currency.Format(monthSpend)),
		fmt.Sprintf("%d orders are pending completion", pending),
		fmt.Sprintf("Top supplier: %s", topName),
	}

	nextQuestions := []string{
		"Show pending orders",
		"Compare to last month",
		"List top suppliers",
		"Export this report",
	}

	return answer, insights, nextQuestions, monthPOs
}

// pendingReport 待处理订单报告
func pendingReport(pos []etpo.PurchaseOrder) (string, []string, []string, []etpo.PurchaseOrder) {
	pending := make([]etpo.PurchaseOrder, 0)
	for _, po := range pos {
		if po.IsOpen() {
			pending = append(pending, po)
		}
	}
	if len(pending) == 0 {
		return "No pending orders found!", []string{}, []string{}, []etpo.PurchaseOrder{}
	}

	toReceive, toBill := 0, 0
	var pendingSpend float64
	for _, po := range pending {
		pendingSpend += po.GrandTotal
		if po.AwaitsReceipt() {
			toReceive++
		}
		if po.AwaitsBilling() {
			toBill++
		}
	}

	answer := fmt.Sprintf(`Pending Purchase Orders Report

Total Pending: %d orders (%s)
  - %d awaiting receipt
  - %d awaiting billing

Action Required:
- Coordinate with receiving team for items to be received
- Process invoices for items to be billed
`, len(pending), currency.Format(pendingSpend), toReceive, toBill)

	insights := []string{
		fmt.Sprintf("%d orders need attention (%s)", len(pending), currency.Format(pendingSpend)),
		fmt.Sprintf("Items to receive: %d orders - Coordinate with warehouse", toReceive),
		fmt.Sprintf("Items to bill: %d orders - Process invoices soon", toBill),
	}

	nextQuestions := []string{
		"Show all purchase orders",
		"List suppliers",
		"What's the total spend?",
	}

	return answer, insights, nextQuestions, pending
}

type supplierTotal struct {
	name  string
	spend float64
}

// topNSuppliers 按支出取前 N 个供应商，等额按首次出现顺序
func topNSuppliers(spend map[string]float64, order []string, n int) []supplierTotal {
	totals := make([]supplierTotal, 0, len(order))
	for _, name := range order {
		totals = append(totals, supplierTotal{name: name, spend: spend[name]})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].spend > totals[j].spend
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}
