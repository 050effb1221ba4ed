package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/logger"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/server/handlers/copilot"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/server/handlers/data"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/server/middlewares"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	copilotHandler *copilot.CopilotHandler,
	dataHandler *data.DataHandler,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "ok",
			"service":  "erpnext-business-copilot",
			"message":  "Service is running",
			"inflight": middlewares.InflightRequests(),
		})
	})

	v1 := r.Group("/api/v1")
	{
		cp := v1.Group("/copilot")
		{
			cp.POST("", copilotHandler.Ask)
			cp.POST("/ask", copilotHandler.Ask)
		}

		v1.GET("/suppliers", dataHandler.ListSuppliers)
		v1.GET("/items", dataHandler.ListItems)

		pos := v1.Group("/purchase-orders")
		{
			pos.GET("", dataHandler.ListPurchaseOrders)
			pos.GET("/:name", dataHandler.GetPurchaseOrder)
		}
	}

	return r
}
