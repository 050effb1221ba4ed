package rperp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etdoc"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/errorx"
)

// GatewayImpl ERPNext REST 网关实现
// 认证方式为 token 头：Authorization: token <key>:<secret>
type GatewayImpl struct {
	base      string
	apiKey    string
	apiSecret string
	client    *http.Client
}

// NewGateway 创建 ERPNext 网关实例
func NewGateway(baseURL, apiKey, apiSecret string, timeout time.Duration) Gateway {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &GatewayImpl{
		base:      strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: timeout},
	}
}

// listResponse ERPNext 列表响应外壳
type listResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// docResponse ERPNext 单文档响应外壳
type docResponse struct {
	Data map[string]interface{} `json:"data"`
}

// getList 请求一种 doctype 的记录列表
func (g *GatewayImpl) getList(ctx context.Context, doctype string, fields []string, limit int) ([]map[string]interface{}, error) {
	u := fmt.Sprintf("%s/api/resource/%s", g.base, url.PathEscape(doctype))

	params := url.Values{}
	if len(fields) > 0 {
		quoted := make([]string, 0, len(fields))
		for _, f := range fields {
			quoted = append(quoted, `"`+f+`"`)
		}
		params.Set("fields", "["+strings.Join(quoted, ",")+"]")
	}
	if limit > 0 {
		params.Set("limit_page_length", strconv.Itoa(limit))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	body, err := g.do(ctx, u)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode %s list: %v", errorx.ErrDataUnavailable, doctype, err)
	}
	return resp.Data, nil
}

// do 执行请求并读取响应体
func (g *GatewayImpl) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", errorx.ErrDataUnavailable, err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", g.apiKey, g.apiSecret))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorx.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errorx.ErrPONotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", errorx.ErrDataUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errorx.ErrDataUnavailable, err)
	}
	return body, nil
}

// ListSuppliers 查询供应商列表
func (g *GatewayImpl) ListSuppliers(ctx context.Context) ([]etdoc.Supplier, error) {
	recs, err := g.getList(ctx, "Supplier", nil, 0)
	if err != nil {
		return nil, err
	}
	out := make([]etdoc.Supplier, 0, len(recs))
	for _, rec := range recs {
		out = append(out, etdoc.SupplierFromRecord(rec))
	}
	return out, nil
}

// ListItems 查询商品目录
func (g *GatewayImpl) ListItems(ctx context.Context) ([]etdoc.Item, error) {
	recs, err := g.getList(ctx, "Item", []string{"name", "item_name"}, 0)
	if err != nil {
		return nil, err
	}
	out := make([]etdoc.Item, 0, len(recs))
	for _, rec := range recs {
		out = append(out, etdoc.ItemFromRecord(rec))
	}
	return out, nil
}

// ListPurchaseOrders 查询采购订单列表
func (g *GatewayImpl) ListPurchaseOrders(ctx context.Context, limit int) ([]etpo.PurchaseOrder, error) {
	fields := []string{"name", "supplier", "transaction_date", "schedule_date", "status", "grand_total"}
	recs, err := g.getList(ctx, "Purchase Order", fields, limit)
	if err != nil {
		return nil, err
	}
	out := make([]etpo.PurchaseOrder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, etpo.FromRecord(rec))
	}
	return out, nil
}

// GetPurchaseOrder 按单号查询单个采购订单
func (g *GatewayImpl) GetPurchaseOrder(ctx context.Context, name string) (*etpo.PurchaseOrder, error) {
	u := fmt.Sprintf("%s/api/resource/%s/%s", g.base, url.PathEscape("Purchase Order"), url.PathEscape(name))
	body, err := g.do(ctx, u)
	if err != nil {
		return nil, err
	}

	var resp docResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode purchase order: %v", errorx.ErrDataUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, errorx.ErrPONotFound
	}
	po := etpo.FromRecord(resp.Data)
	return &po, nil
}

// ListCustomers 查询客户列表
func (g *GatewayImpl) ListCustomers(ctx context.Context) ([]etdoc.Customer, error) {
	recs, err := g.getList(ctx, "Customer", nil, 0)
	if err != nil {
		return nil, err
	}
	out := make([]etdoc.Customer, 0, len(recs))
	for _, rec := range recs {
		out = append(out, etdoc.CustomerFromRecord(rec))
	}
	return out, nil
}

// ListSalesOrders 查询销售订单列表
func (g *GatewayImpl) ListSalesOrders(ctx context.Context) ([]etdoc.SalesOrder, error) {
	fields := []string{"name", "customer", "status", "grand_total", "delivery_date"}
	recs, err := g.getList(ctx, "Sales Order", fields, 0)
	if err != nil {
		return nil, err
	}
	out := make([]etdoc.SalesOrder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, etdoc.SalesOrderFromRecord(rec))
	}
	return out, nil
}

// ListSalesInvoices 查询销售发票列表
func (g *GatewayImpl) ListSalesInvoices(ctx context.Context) ([]etdoc.Invoice, error) {
	fields := []string{"name", "customer", "status", "grand_total", "outstanding_amount"}
	recs, err := g.getList(ctx, "Sales Invoice", fields, 0)
	if err != nil {
		return nil, err
	}
	out := make([]etdoc.Invoice, 0, len(recs))
	for _, rec := range recs {
		out = append(out, etdoc.InvoiceFromRecord(rec, "customer"))
	}
	return out, nil
}

// ListVendorBills 查询供应商账单列表
func (g *GatewayImpl) ListVendorBills(ctx context.Context) ([]etdoc.Invoice, error) {
	fields := []string{"name", "supplier", "status", "grand_total", "outstanding_amount"}
	recs, err := g.getList(ctx, "Purchase Invoice", fields, 0)
	if err != nil {
		return nil, err
	}
	out := make([]etdoc.Invoice, 0, len(recs))
	for _, rec := range recs {
		out = append(out, etdoc.InvoiceFromRecord(rec, "supplier"))
	}
	return out, nil
}
