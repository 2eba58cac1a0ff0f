// Package middleware 提供 HTTP 中间件
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"idea-generator-api/internal/interfaces/http/dto"
	apperrors "idea-generator-api/pkg/errors"
	"idea-generator-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获处理器 panic，返回统一的 INTERNAL_ERROR 响应
// 客户端已断开（http.ErrAbortHandler）时只中止，不写响应体
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				c.Abort()
				return
			}

			logger.Error(c.Request.Context(), "panic recovered", fmt.Errorf("%v", rec),
				"route", c.FullPath(),
				"method", c.Request.Method,
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			dto.AbortWithError(c, apperrors.ErrInternalError)
		}()

		c.Next()
	}
}
