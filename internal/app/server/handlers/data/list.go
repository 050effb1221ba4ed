package data

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/ginx"
)

const defaultPOLimit = 50

// ListSuppliers 供应商列表接口
// GET /api/v1/suppliers
func (h *DataHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.gateway.ListSuppliers(c.Request.Context())
	if err != nil {
		log.Printf("[ERROR] list suppliers failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}
	ginx.Success(c, suppliers)
}

// ListItems 商品目录接口
// GET /api/v1/items
func (h *DataHandler) ListItems(c *gin.Context) {
	items, err := h.gateway.ListItems(c.Request.Context())
	if err != nil {
		log.Printf("[ERROR] list items failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}
	ginx.Success(c, items)
}

// ListPurchaseOrders 采购订单列表接口
// GET /api/v1/purchase-orders?limit=50
func (h *DataHandler) ListPurchaseOrders(c *gin.Context) {
	limit := defaultPOLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	orders, err := h.gateway.ListPurchaseOrders(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] list purchase orders failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}
	ginx.Success(c, orders)
}
