package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/RawanKhateeb/erpnext-business-copilot/internal/app/pkg/logger"
)

// inflightRequests 当前处理中的请求数
var inflightRequests = atomic.NewInt64(0)

// InflightRequests 返回当前处理中的请求数（健康检查展示用）
func InflightRequests() int64 {
	return inflightRequests.Load()
}

// Logger 访问日志中间件
// 为每个请求生成 request_id 并注入 Context，日志层自动带出
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		ctx := context.WithValue(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)

		inflightRequests.Inc()
		start := time.Now()

		c.Next()

		inflightRequests.Dec()
		log.Infof(ctx, "%s %s status=%d cost=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
