// Package port 声明生成流程依赖的模型获取接口，实现位于 infrastructure/llm
package port

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/model"
)

// ErrMissingCredential 提供商 api_key 为空；请求时才会暴露
var ErrMissingCredential = errors.New("llm provider credential not configured")

// ChatModelFactory 按提供商名称返回可复用的 ChatModel
type ChatModelFactory interface {
	Get(ctx context.Context, provider string) (model.BaseChatModel, error)
}
