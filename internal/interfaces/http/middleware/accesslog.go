package middleware

import (
	"time"

	"idea-generator-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog 访问日志中间件，skipPaths 中的路径（探针、指标）不记录
func AccessLog(skipPaths ...string) gin.HandlerFunc {
	skip := pathSet(skipPaths)

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "api request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"body_size", c.Writer.Size(),
		)
	}
}
