package data

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/errorx"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/ginx"
)

// GetPurchaseOrder 采购订单详情接口
// GET /api/v1/purchase-orders/:name
func (h *DataHandler) GetPurchaseOrder(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		ginx.BadRequest(c, "po name required")
		return
	}

	po, err := h.gateway.GetPurchaseOrder(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, errorx.ErrPONotFound) {
			ginx.NotFound(c, "purchase order not found")
			return
		}
		log.Printf("[ERROR] get purchase order failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}
	ginx.Success(c, po)
}
