package rperp

import (
	"context"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etdoc"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/errorx"
)

// Fake 内存网关实现（测试替身）
// Err 非空时所有调用返回该错误，用于验证降级路径
type Fake struct {
	Suppliers      []etdoc.Supplier
	Items          []etdoc.Item
	PurchaseOrders []etpo.PurchaseOrder
	Customers      []etdoc.Customer
	SalesOrders    []etdoc.SalesOrder
	SalesInvoices  []etdoc.Invoice
	VendorBills    []etdoc.Invoice
	Err            error
}

var _ Gateway = (*Fake)(nil)

func (f *Fake) ListSuppliers(ctx context.Context) ([]etdoc.Supplier, error) {
	return f.Suppliers, f.Err
}

func (f *Fake) ListItems(ctx context.Context) ([]etdoc.Item, error) {
	return f.Items, f.Err
}

func (f *Fake) ListPurchaseOrders(ctx context.Context, limit int) ([]etpo.PurchaseOrder, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if limit > 0 && len(f.PurchaseOrders) > limit {
		return f.PurchaseOrders[:limit], nil
	}
	return f.PurchaseOrders, nil
}

func (f *Fake) GetPurchaseOrder(ctx context.Context, name string) (*etpo.PurchaseOrder, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	for i := range f.PurchaseOrders {
		if f.PurchaseOrders[i].Name == name {
			po := f.PurchaseOrders[i]
			return &po, nil
		}
	}
	return nil, errorx.ErrPONotFound
}

func (f *Fake) ListCustomers(ctx context.Context) ([]etdoc.Customer, error) {
	return f.Customers, f.Err
}

func (f *Fake) ListSalesOrders(ctx context.Context) ([]etdoc.SalesOrder, error) {
	return f.SalesOrders, f.Err
}

func (f *Fake) ListSalesInvoices(ctx context.Context) ([]etdoc.Invoice, error) {
	return f.SalesInvoices, f.Err
}

func (f *Fake) ListVendorBills(ctx context.Context) ([]etdoc.Invoice, error) {
	return f.VendorBills, f.Err
}
