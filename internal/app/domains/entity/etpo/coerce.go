package etpo

import (
	"strconv"
	"strings"
)

// 集中式安全取值：ERP 返回的是松散字段表，数值/日期字段可能缺失或类型不一，
// 坏值一律降级为零值而不是报错。

// SafeFloat 安全转换为 float64，失败返回 0
func SafeFloat(v interface{}) float64 {
	f, _ := FloatField(v)
	return f
}

// FloatField 转换为 float64，并返回字段是否存在有效值
func FloatField(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// StringField 安全转换为字符串，缺失返回 fallback
func StringField(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// FromRecord 将松散记录转换为 PurchaseOrder
func FromRecord(rec map[string]interface{}) PurchaseOrder {
	po := PurchaseOrder{
		Name:            StringField(rec["name"], "Unknown"),
		Supplier:        firstString(rec, "supplier", "supplier_name"),
		Status:          StringField(rec["status"], "Unknown"),
		GrandTotal:      SafeFloat(rec["grand_total"]),
		TransactionDate: StringField(rec["transaction_date"], ""),
		ScheduleDate:    firstString2(rec, "schedule_date", "delivery_date"),
	}

	items, ok := rec["items"].([]interface{})
	if !ok {
		return po
	}
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		po.Items = append(po.Items, LineItem{
			ItemCode: firstString(m, "item_code", "item_name"),
			ItemName: StringField(m["item_name"], StringField(m["item_code"], "Unknown")),
			Rate:     safeFirstFloat(m, "rate", "unit_price"),
			Qty:      safeFirstFloat(m, "qty", "quantity"),
			Amount:   safeFirstFloat(m, "amount", "line_total"),
		})
	}
	return po
}

// firstString 按顺序取第一个非空字符串字段，否则 "Unknown"
func firstString(rec map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return "Unknown"
}

// firstString2 同 firstString，但缺失时返回空串（用于可选日期字段）
func firstString2(rec map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// safeFirstFloat 按顺序取第一个非零数值字段
func safeFirstFloat(rec map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		if f := SafeFloat(rec[k]); f != 0 {
			return f
		}
	}
	return 0
}
