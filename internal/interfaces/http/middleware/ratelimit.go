package middleware

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"idea-generator-api/internal/interfaces/http/dto"
	apperrors "idea-generator-api/pkg/errors"
	"idea-generator-api/pkg/logger"
	"idea-generator-api/pkg/metrics"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// Requests 窗口内允许的请求数
	Requests int
	// Window 滑动窗口长度
	Window time.Duration
	// KeyPrefix 限流键前缀
	KeyPrefix string
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按客户端 IP 限流的中间件
// 限流器缺失或故障时放行
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	// 如果未启用限流，返回空中间件
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	// 设置默认值
	if cfg.Requests <= 0 {
		cfg.Requests = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}
	limitHeader := strconv.Itoa(cfg.Requests)
	retryAfter := strconv.Itoa(retryAfterSeconds(cfg.Window))

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := cfg.KeyPrefix + ":" + c.ClientIP() + ":" + path

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			metrics.RateLimitErrors.Inc()
			logger.Warn(c.Request.Context(), "rate limiter unavailable, request let through", "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", limitHeader)
		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(path).Inc()
			c.Header("Retry-After", retryAfter)
			dto.AbortWithError(c, apperrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}

// retryAfterSeconds 向上取整到秒，至少为 1
func retryAfterSeconds(window time.Duration) int {
	secs := int(math.Ceil(window.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
