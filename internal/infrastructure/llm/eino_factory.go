// Package llm 提供 LLM 客户端管理
package llm

import (
	"context"
	"fmt"
	"sync"

	"idea-generator-api/internal/config"
	"idea-generator-api/internal/workflow/port"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// ChatModelBuilder 根据提供商配置构造 ChatModel
type ChatModelBuilder func(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
type EinoFactory struct {
	config *config.LLMConfig
	build  ChatModelBuilder
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

var _ port.ChatModelFactory = (*EinoFactory)(nil)

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return NewEinoFactoryWithBuilder(&cfg.LLM, NewOpenAICompatibleModel)
}

// NewEinoFactoryWithBuilder 使用自定义构造函数创建工厂
func NewEinoFactoryWithBuilder(cfg *config.LLMConfig, build ChatModelBuilder) *EinoFactory {
	return &EinoFactory{
		config: cfg,
		build:  build,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
// 凭证为空时返回 port.ErrMissingCredential，且不缓存
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}
	if !providerCfg.HasCredential() {
		return nil, fmt.Errorf("provider %s: %w", name, port.ErrMissingCredential)
	}

	chatModel, err := f.build(ctx, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

// NewOpenAICompatibleModel 使用 Eino 的 OpenAI 适配器
// Gemini 通过其 OpenAI 兼容端点接入
func NewOpenAICompatibleModel(ctx context.Context, p config.ProviderConfig) (model.BaseChatModel, error) {
	cfg := &openai.ChatModelConfig{
		APIKey:      p.APIKey,
		BaseURL:     p.BaseURL,
		Model:       p.Model,
		Temperature: ptrFloat32(float32(p.Temperature)),
		Timeout:     p.Timeout,
	}
	if p.MaxTokens > 0 {
		cfg.MaxTokens = ptrInt(p.MaxTokens)
	}
	if p.TopP > 0 {
		cfg.TopP = ptrFloat32(float32(p.TopP))
	}
	return openai.NewChatModel(ctx, cfg)
}

// CallOptions 返回单次调用的采样参数
func CallOptions(p config.ProviderConfig) []model.Option {
	opts := make([]model.Option, 0, 5)
	opts = append(opts, model.WithTemperature(float32(p.Temperature)))
	if p.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(p.MaxTokens))
	}
	if p.TopP > 0 {
		opts = append(opts, model.WithTopP(float32(p.TopP)))
	}
	if p.Model != "" {
		opts = append(opts, model.WithModel(p.Model))
	}
	// top_k 不在 OpenAI 协议字段内，作为扩展字段透传
	if p.TopK > 0 {
		opts = append(opts, openai.WithExtraFields(map[string]any{"top_k": p.TopK}))
	}
	return opts
}

func ptrFloat32(f float32) *float32 {
	return &f
}

func ptrInt(i int) *int {
	return &i
}
