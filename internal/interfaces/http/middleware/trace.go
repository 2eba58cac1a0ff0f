package middleware

import (
	"net/http"

	"idea-generator-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader 响应中回传的 trace ID 头
const TraceIDHeader = "X-Trace-ID"

// Trace OpenTelemetry 追踪中间件，探针路径不生成 span
func Trace(serviceName string, skipPaths ...string) gin.HandlerFunc {
	skip := pathSet(skipPaths)
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, ok := skip[r.URL.Path]
		return !ok
	}))
}

// TraceContext 把当前 span 的 trace_id/span_id 写入日志上下文与错误响应
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := trace.SpanContextFromContext(c.Request.Context())
		if !sc.IsValid() {
			c.Next()
			return
		}

		traceID, spanID := sc.TraceID().String(), sc.SpanID().String()
		c.Set("trace_id", traceID)

		ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.SpanIDKey, spanID))
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

func pathSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}
