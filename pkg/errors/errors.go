// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型（机器可读，调用方据此分支而非匹配文案）
type ErrorCode string

// 预定义错误码
const (
	// 生成链路错误分类
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
	CodeConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	CodeModelOutputError   ErrorCode = "MODEL_OUTPUT_ERROR"
	CodeUpstreamError      ErrorCode = "UPSTREAM_ERROR"

	// 通用错误
	CodeTooManyRequests ErrorCode = "RATE_LIMITED"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
	CodeUnknown         ErrorCode = "UNKNOWN"
)

// Kind 错误种类（封闭枚举）
type Kind string

const (
	KindInvalidInput       Kind = "InvalidInput"
	KindConfigurationError Kind = "ConfigurationError"
	KindModelOutputError   Kind = "ModelOutputError"
	KindUpstreamError      Kind = "UpstreamError"
	KindRateLimited        Kind = "RateLimited"
	KindInternal           Kind = "Internal"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind 返回错误所属种类
func (e *AppError) Kind() Kind {
	switch e.Code {
	case CodeInvalidInput:
		return KindInvalidInput
	case CodeConfigurationError:
		return KindConfigurationError
	case CodeModelOutputError:
		return KindModelOutputError
	case CodeUpstreamError:
		return KindUpstreamError
	case CodeTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}

// WithDetail 添加详细信息（仅记录日志，不返回给调用方）
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// Is 按错误码比较，便于 errors.Is(err, ErrTopicRequired)
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeModelOutputError:
		return http.StatusUnprocessableEntity
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeConfigurationError, CodeUpstreamError, CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrTopicRequired    = New(CodeInvalidInput, "Topic is required.")
	ErrServiceConfig    = New(CodeConfigurationError, "Service configuration error.")
	ErrEmptyModelOutput = New(CodeModelOutputError, "Unable to generate ideas for this topic. Please try a different topic.")
	ErrShortModelOutput = New(CodeModelOutputError, "Generated response was too short. Please try again.")
	ErrUpstreamFailed   = New(CodeUpstreamError, "Failed to generate ideas. Please try again.")
	ErrTooManyRequests  = New(CodeTooManyRequests, "Too many requests. Please slow down and try again.")
	ErrInternalError    = New(CodeInternalError, "Internal server error.")
)

// TopicTooLong 主题超长错误，文案携带当前上限
func TopicTooLong(max int) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("Topic is too long. Please keep it under %d characters.", max))
}

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
