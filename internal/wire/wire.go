//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"idea-generator-api/internal/application/ideas"
	"idea-generator-api/internal/config"
	"idea-generator-api/internal/interfaces/http/handler"
	"idea-generator-api/internal/interfaces/http/router"
	workflowprompt "idea-generator-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		IdeasSet,
		RouterSet,
	)
	return nil, nil, nil
}

// RedisSet Redis 提供者集合（可选，仅用于限流）
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRateLimiter,
	ProvideHealthChecker,
)

// IdeasSet 创意生成用例提供者集合
var IdeasSet = wire.NewSet(
	ProvideChatModelFactory,
	workflowprompt.NewRegistry,
	ideas.NewGenerator,
	wire.Bind(new(handler.IdeaGenerator), new(*ideas.Generator)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	ProvideGenerateHandler,
	ProvidePageHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
