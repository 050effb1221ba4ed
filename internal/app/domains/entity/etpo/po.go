package etpo

import (
	"strings"
	"time"
)

// 订单状态常量（ERPNext 采购订单状态）
const (
	StatusDraft            = "Draft"
	StatusToReceiveAndBill = "To Receive and Bill"
	StatusToReceive        = "To Receive"
	StatusToBill           = "To Bill"
	StatusCompleted        = "Completed"
	StatusClosed           = "Closed"
	StatusCancelled        = "Cancelled"
	StatusAmended          = "Amended"
)

// LineItem 采购订单行项目（值对象）
type LineItem struct {
	ItemCode string  `json:"item_code"`
	ItemName string  `json:"item_name"`
	Rate     float64 `json:"rate"`
	Qty      float64 `json:"qty"`
	Amount   float64 `json:"amount"`
}

// PurchaseOrder 采购订单（只读快照，无写路径）
type PurchaseOrder struct {
	Name            string     `json:"name"`
	Supplier        string     `json:"supplier"`
	Status          string     `json:"status"`
	GrandTotal      float64    `json:"grand_total"`
	TransactionDate string     `json:"transaction_date"`
	ScheduleDate    string     `json:"schedule_date"`
	Items           []LineItem `json:"items,omitempty"`
}

// IsPending 是否待处理（不计终态 Completed/Closed/Cancelled）
func (po PurchaseOrder) IsPending() bool {
	switch strings.TrimSpace(po.Status) {
	case StatusCompleted, StatusClosed, StatusCancelled:
		return false
	}
	return true
}

// IsOpen 是否在途（风险口径：不计 Completed/Cancelled）
func (po PurchaseOrder) IsOpen() bool {
	return po.Status != StatusCompleted && po.Status != StatusCancelled
}

// AwaitsReceipt 是否待收货
func (po PurchaseOrder) AwaitsReceipt() bool {
	return strings.Contains(po.Status, StatusToReceive)
}

// AwaitsBilling 是否待开票
func (po PurchaseOrder) AwaitsBilling() bool {
	return strings.Contains(po.Status, StatusToBill)
}

// ParseDate 解析 ERP 日期字段（取前 10 位，格式 YYYY-MM-DD）
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
