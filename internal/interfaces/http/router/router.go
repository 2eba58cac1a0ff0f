// Package router 提供 HTTP 路由配置
package router

import (
	"context"
	"net/http"

	"idea-generator-api/internal/config"
	"idea-generator-api/internal/interfaces/http/handler"
	"idea-generator-api/internal/interfaces/http/middleware"
	"idea-generator-api/internal/interfaces/http/web"
	"idea-generator-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Health   *handler.HealthHandler
	Generate *handler.GenerateHandler
	Page     *handler.PageHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	limiter  middleware.RateLimiter
}

// New 创建新的路由器；limiter 为 nil 时不限流
func New(cfg *config.Config, handlers Handlers, limiter middleware.RateLimiter) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// 只信任配置的代理；为空时 ClientIP 取连接对端地址
	if err := engine.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.Warn(context.Background(), "invalid trusted proxies, trusting none", "error", err.Error())
		_ = engine.SetTrustedProxies(nil)
	}

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	systemPaths := []string{"/health", "/ready", "/live", r.cfg.Observability.Metrics.Path}

	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, systemPaths...))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(systemPaths...))
	}

	r.engine.Use(middleware.AccessLog(systemPaths...))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	// Prometheus 指标端点（未单独监听时挂在主服务上）
	if r.cfg.Observability.Metrics.Enabled && r.cfg.Observability.Metrics.Port == 0 {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 单页前端
	r.engine.GET("/", r.handlers.Page.Index)
	r.engine.StaticFS("/static", http.FS(web.Static()))

	rl := r.cfg.Security.RateLimit
	RegisterAPIRoutes(r.engine.Group("/api"), r.handlers.Generate, middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:  rl.Enabled,
		Requests: rl.Requests,
		Window:   rl.Window,
	}, r.limiter))
}

// MetricsHandler 返回独立监听时使用的指标处理器
func MetricsHandler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	return mux
}
