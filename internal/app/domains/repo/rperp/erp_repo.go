package rperp

import (
	"context"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etdoc"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
)

// Gateway ERP 只读数据网关接口（只定义，不实现）
// 实现在本包的 REST 客户端；测试使用 Fake 实现
type Gateway interface {
	// ListSuppliers 查询供应商列表
	ListSuppliers(ctx context.Context) ([]etdoc.Supplier, error)

	// ListItems 查询商品目录
	ListItems(ctx context.Context) ([]etdoc.Item, error)

	// ListPurchaseOrders 查询采购订单列表（limit 为最大条数）
	ListPurchaseOrders(ctx context.Context, limit int) ([]etpo.PurchaseOrder, error)

	// GetPurchaseOrder 按单号查询单个采购订单（含行项目）
	GetPurchaseOrder(ctx context.Context, name string) (*etpo.PurchaseOrder, error)

	// ListCustomers 查询客户列表
	ListCustomers(ctx context.Context) ([]etdoc.Customer, error)

	// ListSalesOrders 查询销售订单列表
	ListSalesOrders(ctx context.Context) ([]etdoc.SalesOrder, error)

	// ListSalesInvoices 查询销售发票列表
	ListSalesInvoices(ctx context.Context) ([]etdoc.Invoice, error)

	// ListVendorBills 查询供应商账单列表
	ListVendorBills(ctx context.Context) ([]etdoc.Invoice, error)
}
