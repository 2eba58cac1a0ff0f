// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"

	apperrors "idea-generator-api/pkg/errors"
)

// ErrorResponse 错误响应结构
// Error 为面向用户的文案，Code 为机器可读错误码
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	TraceID string `json:"trace_id,omitempty"`
}

// Success 返回 200 响应，响应体不做额外包装
func Success[T any](c *gin.Context, data T) {
	c.JSON(200, data)
}

// Fail 按 AppError 写出错误响应；Detail 与底层错误不外泄
func Fail(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = 500
	}
	code := appErr.Code
	message := appErr.Message
	if code == apperrors.CodeUnknown {
		code = apperrors.ErrInternalError.Code
		message = apperrors.ErrInternalError.Message
	}
	c.JSON(status, ErrorResponse{
		Error:   message,
		Code:    string(code),
		TraceID: c.GetString("trace_id"),
	})
}

// AbortWithError 写出错误响应并中止后续处理器
func AbortWithError(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
