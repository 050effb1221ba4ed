package data

import "github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/repo/rperp"

// DataHandler ERP 数据直查 HTTP 处理器（前端列表页使用）
type DataHandler struct {
	gateway rperp.Gateway
}

// NewDataHandler 创建数据处理器实例
func NewDataHandler(gateway rperp.Gateway) *DataHandler {
	return &DataHandler{
		gateway: gateway,
	}
}
