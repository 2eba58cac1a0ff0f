package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-generator-api/internal/application/ideas"
	"idea-generator-api/internal/config"
	"idea-generator-api/internal/interfaces/http/handler"
	"idea-generator-api/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okGenerator struct{ calls int }

func (g *okGenerator) Generate(_ context.Context, topic string) (*ideas.Result, error) {
	g.calls++
	return &ideas.Result{Ideas: "1. **Idea**", Topic: topic, Timestamp: time.Now()}, nil
}

func (g *okGenerator) MaxTopicLength() int { return 200 }

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "idea-generator-api", Env: "test"},
		LLM: config.LLMConfig{
			DefaultProvider: "gemini",
			Providers:       map[string]config.ProviderConfig{"gemini": {APIKey: "k"}},
		},
		Observability: config.ObservabilityConfig{
			Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		},
		Security: config.SecurityConfig{
			RateLimit: config.RateLimitConfig{Enabled: true, Requests: 5, Window: time.Minute},
		},
	}
}

func newTestRouter(cfg *config.Config, gen handler.IdeaGenerator, limiter middleware.RateLimiter) *gin.Engine {
	return New(cfg, Handlers{
		Health:   handler.NewHealthHandler(cfg, nil),
		Generate: handler.NewGenerateHandler(gen, 1<<16),
		Page:     handler.NewPageHandler(200),
	}, limiter).Engine()
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesAreRegistered(t *testing.T) {
	gen := &okGenerator{}
	r := newTestRouter(testConfig(), gen, nil)

	for _, path := range []string{"/health", "/live", "/ready", "/", "/static/app.js", "/static/style.css", "/metrics"} {
		w := serve(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := serve(r, http.MethodPost, "/api/generate", `{"topic":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateRouteIsRateLimited(t *testing.T) {
	gen := &okGenerator{}
	r := newTestRouter(testConfig(), gen, denyLimiter{})

	w := serve(r, http.MethodPost, "/api/generate", `{"topic":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Zero(t, gen.calls)

	// 探针不受限流影响
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
}

func TestMetricsOnSeparatePortIsNotMounted(t *testing.T) {
	cfg := testConfig()
	cfg.Observability.Metrics.Port = 9100
	r := newTestRouter(cfg, &okGenerator{}, nil)

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/metrics", "").Code)

	w := httptest.NewRecorder()
	MetricsHandler("/metrics").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// perKeyLimiter 每个键只放行 limit 次
type perKeyLimiter struct {
	mu   sync.Mutex
	seen map[string]int
}

func (l *perKeyLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = map[string]int{}
	}
	if l.seen[key] >= limit {
		return false, nil
	}
	l.seen[key]++
	return true, nil
}

func postFrom(r http.Handler, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"topic":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit.Requests = 1
	gen := &okGenerator{}
	r := newTestRouter(cfg, gen, &perKeyLimiter{})

	var codes []int
	for i := 0; i < 5; i++ {
		codes = append(codes, postFrom(r, "10.0.0.1:4321", fmt.Sprintf("1.2.3.%d", i)))
	}
	assert.Equal(t, []int{200, 429, 429, 429, 429}, codes)
	assert.Equal(t, 1, gen.calls)
}

func TestRateLimitHonoursForwardedForFromTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit.Requests = 1
	cfg.Security.TrustedProxies = []string{"10.0.0.1"}
	r := newTestRouter(cfg, &okGenerator{}, &perKeyLimiter{})

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:4321", "1.2.3.1"))
	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1:4321", "1.2.3.2"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "10.0.0.1:4321", "1.2.3.1"))
}
