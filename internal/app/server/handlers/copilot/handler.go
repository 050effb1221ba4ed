package copilot

import "github.com/RawanKhateeb/erpnext-business-copilot/internal/app/domains/services/svcopilot"

// CopilotHandler 业务助手 HTTP 处理器
type CopilotHandler struct {
	copilotService *svcopilot.Service
}

// NewCopilotHandler 创建助手处理器实例
func NewCopilotHandler(copilotService *svcopilot.Service) *CopilotHandler {
	return &CopilotHandler{
		copilotService: copilotService,
	}
}
