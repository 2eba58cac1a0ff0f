package wire

import (
	"context"

	"idea-generator-api/internal/config"
	"idea-generator-api/internal/infrastructure/llm"
	"idea-generator-api/internal/infrastructure/persistence/redis"
	"idea-generator-api/internal/interfaces/http/handler"
	"idea-generator-api/internal/interfaces/http/middleware"
	"idea-generator-api/internal/workflow/port"
	"idea-generator-api/pkg/logger"
)

// ProvideRedisClientOptional 提供 Redis 客户端（未启用或不可达时返回 nil，不阻塞启动）
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, rate limiting disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 提供限流器；client 为 nil 时返回 nil 接口
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideHealthChecker 提供 Redis 健康检查；client 为 nil 时返回 nil 接口
func ProvideHealthChecker(client *redis.Client) handler.HealthChecker {
	if client == nil {
		return nil
	}
	return client
}

// ProvideChatModelFactory 提供 ChatModel 工厂
func ProvideChatModelFactory(cfg *config.Config) port.ChatModelFactory {
	return llm.NewEinoFactory(cfg)
}

// ProvideGenerateHandler 提供创意生成处理器
func ProvideGenerateHandler(cfg *config.Config, generator handler.IdeaGenerator) *handler.GenerateHandler {
	return handler.NewGenerateHandler(generator, cfg.Server.HTTP.MaxBodyBytes)
}

// ProvidePageHandler 提供单页处理器
func ProvidePageHandler(cfg *config.Config) *handler.PageHandler {
	return handler.NewPageHandler(cfg.Ideas.MaxTopicLength)
}
