package middlewares

import (
	"time"

	"order-entry/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger 使用 zap 记录每个请求
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		if id := c.Param("id"); id != "" {
			ctx = logger.WithSessionID(ctx, id)
		}
		status := c.Writer.Status()
		if status >= 500 {
			log.Errorf(ctx, "%s %s %d %s %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.Errors.String())
			return
		}
		log.Debugf(ctx, "%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
