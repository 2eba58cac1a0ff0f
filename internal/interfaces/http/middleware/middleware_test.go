package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-generator-api/internal/interfaces/http/dto"
	"idea-generator-api/pkg/logger"
	"idea-generator-api/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var seen any
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		seen = c.Request.Context().Value(logger.RequestIDKey)
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodGet, "/ping", nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, seen)

	w = do(r, http.MethodGet, "/ping", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", seen)
}

func TestRecoveryReturnsStructuredError(t *testing.T) {
	w := do(newEngine(Recovery()), http.MethodGet, "/panic", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "Internal server error.", body.Error)
}

func TestRateLimitRejectsWith429(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	r := newEngine(RateLimit(RateLimitConfig{Enabled: true, Requests: 3, Window: time.Minute}, limiter))

	before := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("/ping"))
	w := do(r, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMITED", body.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.InDelta(t, before+1, testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("/ping")), 1e-9)
	require.Len(t, limiter.keys, 1)
	assert.Contains(t, limiter.keys[0], ":/ping")
}

func TestRateLimitAllowsAndFailsOpen(t *testing.T) {
	ok := newEngine(RateLimit(RateLimitConfig{Enabled: true}, &fakeLimiter{allowed: true}))
	assert.Equal(t, http.StatusOK, do(ok, http.MethodGet, "/ping", nil).Code)

	before := testutil.ToFloat64(metrics.RateLimitErrors)
	broken := newEngine(RateLimit(RateLimitConfig{Enabled: true}, &fakeLimiter{err: errors.New("redis down")}))
	assert.Equal(t, http.StatusOK, do(broken, http.MethodGet, "/ping", nil).Code)
	assert.InDelta(t, before+1, testutil.ToFloat64(metrics.RateLimitErrors), 1e-9)

	disabled := newEngine(RateLimit(RateLimitConfig{Enabled: false}, &fakeLimiter{allowed: false}))
	assert.Equal(t, http.StatusOK, do(disabled, http.MethodGet, "/ping", nil).Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := newEngine(CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}))

	w := do(r, http.MethodGet, "/ping", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodGet, "/ping", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSWildcard(t *testing.T) {
	r := newEngine(CORS(CORSConfig{}))
	w := do(r, http.MethodGet, "/ping", map[string]string{"Origin": "http://anywhere.example"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsCountsByRouteTemplate(t *testing.T) {
	r := newEngine(Metrics("/metrics"))

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "200"))
	do(r, http.MethodGet, "/ping", nil)
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "200"))
	assert.InDelta(t, before+1, after, 1e-9)
}

func TestRequestIDRejectsUnprintableOrLongIDs(t *testing.T) {
	r := newEngine(RequestID())

	for _, id := range []string{"has space", strings.Repeat("a", maxRequestIDLen+1)} {
		w := do(r, http.MethodGet, "/ping", map[string]string{RequestIDHeader: id})
		assert.NotEqual(t, id, w.Header().Get(RequestIDHeader))
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	}
}

func TestTraceContextWithoutSpanIsNoop(t *testing.T) {
	w := do(newEngine(TraceContext()), http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(TraceIDHeader))
}

func TestRateLimitRetryAfterRoundsUp(t *testing.T) {
	cases := map[time.Duration]string{
		500 * time.Millisecond:  "1",
		1500 * time.Millisecond: "2",
		time.Minute:             "60",
	}
	for window, want := range cases {
		r := newEngine(RateLimit(RateLimitConfig{Enabled: true, Requests: 1, Window: window}, &fakeLimiter{}))
		w := do(r, http.MethodGet, "/ping", nil)
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, want, w.Header().Get("Retry-After"), window.String())
	}
}
