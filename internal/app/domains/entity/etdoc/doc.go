package etdoc

import "github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/entity/etpo"

// 非采购类只读单据（供应商、商品、客户、销售单据）。
// 均为 ERP 侧拥有的快照，核心只消费不回写。

// Supplier 供应商
type Supplier struct {
	Name         string `json:"name"`
	SupplierName string `json:"supplier_name,omitempty"`
}

// Item 商品目录条目
type Item struct {
	Name     string `json:"name"`
	ItemName string `json:"item_name,omitempty"`
}

// Customer 客户
type Customer struct {
	Name         string `json:"name"`
	CustomerName string `json:"customer_name,omitempty"`
}

// SalesOrder 销售订单
type SalesOrder struct {
	Name         string  `json:"name"`
	Customer     string  `json:"customer"`
	Status       string  `json:"status"`
	GrandTotal   float64 `json:"grand_total"`
	DeliveryDate string  `json:"delivery_date,omitempty"`
}

// Invoice 发票（销售发票或供应商账单共用一个形状）
type Invoice struct {
	Name              string  `json:"name"`
	Party             string  `json:"party"`
	Status            string  `json:"status"`
	GrandTotal        float64 `json:"grand_total"`
	OutstandingAmount float64 `json:"outstanding_amount"`
}

// SupplierFromRecord 松散记录转换
func SupplierFromRecord(rec map[string]interface{}) Supplier {
	return Supplier{
		Name:         etpo.StringField(rec["name"], "Unknown"),
		SupplierName: etpo.StringField(rec["supplier_name"], ""),
	}
}

// ItemFromRecord 松散记录转换
func ItemFromRecord(rec map[string]interface{}) Item {
	return Item{
		Name:     etpo.StringField(rec["name"], "Unknown"),
		ItemName: etpo.StringField(rec["item_name"], ""),
	}
}

// CustomerFromRecord 松散记录转换
func CustomerFromRecord(rec map[string]interface{}) Customer {
	return Customer{
		Name:         etpo.StringField(rec["name"], "Unknown"),
		CustomerName: etpo.StringField(rec["customer_name"], ""),
	}
}

// SalesOrderFromRecord 松散记录转换
func SalesOrderFromRecord(rec map[string]interface{}) SalesOrder {
	return SalesOrder{
		Name:         etpo.StringField(rec["name"], "Unknown"),
		Customer:     etpo.StringField(rec["customer"], "Unknown"),
		Status:       etpo.StringField(rec["status"], "Unknown"),
		GrandTotal:   etpo.SafeFloat(rec["grand_total"]),
		DeliveryDate: etpo.StringField(rec["delivery_date"], ""),
	}
}

// InvoiceFromRecord 松散记录转换（partyKey 为 customer 或 supplier）
func InvoiceFromRecord(rec map[string]interface{}, partyKey string) Invoice {
	return Invoice{
		Name:              etpo.StringField(rec["name"], "Unknown"),
		Party:             etpo.StringField(rec[partyKey], "Unknown"),
		Status:            etpo.StringField(rec["status"], "Unknown"),
		GrandTotal:        etpo.SafeFloat(rec["grand_total"]),
		OutstandingAmount: etpo.SafeFloat(rec["outstanding_amount"]),
	}
}
