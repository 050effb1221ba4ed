package copilot

import (
	"github.com/gin-gonic/gin"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/ginx"
)

// AskRequest 提问请求体
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask godoc
// @Summary      业务助手问答
// @Description  解析自然语言提问并返回结构化答案（意图、洞察、数据、后续问题）
// @Description
// @Description  支持的问题类型：
// @Description  - 名录查询：供应商、商品、客户、销售单据
// @Description  - 采购分析：总支出、价格异常、延迟订单、风险评分
// @Description  - 审批辅助：Should I approve PUR-ORD-2026-00001?
// @Tags         copilot
// @Accept       json
// @Produce      json
// @Param        request body AskRequest true "用户提问"
// @Success      200 {object} ginx.Response{data=etanswer.Response} "问答成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Router       /copilot/ask [post]
func (h *CopilotHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	resp := h.copilotService.Handle(c.Request.Context(), req.Question)
	ginx.Success(c, resp)
}
