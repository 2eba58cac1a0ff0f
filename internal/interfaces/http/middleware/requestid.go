package middleware

import (
	"idea-generator-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求 ID 头，客户端可透传
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLen = 128
)

// RequestID 为每个请求分配 ID，并把 request_id 与客户端 IP 写入日志上下文
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		ctx := logger.WithContext(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.ClientIPKey, c.ClientIP()))

		c.Next()
	}
}

// validRequestID 只接受非空、长度受限的可打印 ASCII
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
