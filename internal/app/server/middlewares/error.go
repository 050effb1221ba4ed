package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/ginx"
	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/logger"
)

// ErrorHandler 统一错误处理中间件
// 捕获 panic 与挂在 Context 上的业务错误，统一走响应包装
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf(c.Request.Context(), "panic recovered: %v", r)
				ginx.InternalError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			log.Errorf(c.Request.Context(), "request error: %v", err)
			if !c.Writer.Written() {
				ginx.Error(c, http.StatusInternalServerError, err.Error())
			}
		}
	}
}
