// Package client 提供创意生成服务的 Go 客户端与表单控制器
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"idea-generator-api/internal/config"
	"idea-generator-api/internal/interfaces/http/dto"
	"idea-generator-api/internal/interfaces/http/middleware"
)

const generatePath = "/api/generate"

// maxResponseBytes 响应体读取上限
const maxResponseBytes = 1 << 20

// APIError 服务端返回的结构化错误
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d [%s]: %s", e.Status, e.Code, e.Message)
}

// APIClient 调用 /api/generate 的 HTTP 客户端
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient 创建客户端；Timeout 为 0 时不设超时
func NewAPIClient(cfg config.ClientConfig) *APIClient {
	return NewAPIClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
}

// NewAPIClientWithHTTP 使用自定义 http.Client 创建客户端
func NewAPIClientWithHTTP(baseURL string, hc *http.Client) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// Generate 发起一次生成请求，不重试
// 非 2xx 响应返回 *APIError，网络错误原样包装返回
func (c *APIClient) Generate(ctx context.Context, topic string) (*dto.GenerateResponse, error) {
	payload, err := json.Marshal(dto.GenerateRequest{Topic: &topic})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var out dto.GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var er dto.ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || strings.TrimSpace(er.Error) == "" {
		return &APIError{
			Status:  status,
			Code:    "UNKNOWN",
			Message: "Failed to generate ideas",
		}
	}
	return &APIError{
		Status:  status,
		Code:    er.Code,
		Message: er.Error,
	}
}
