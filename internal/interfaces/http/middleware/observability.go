package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityMiddleware records request totals and duration for every HTTP request
// and annotates the active span with the outcome.
// Metrics are labeled with the method and route template, never the raw URL.
// ObservabilityMiddleware 为每个 HTTP 请求记录请求总数与耗时，并在当前 Span 上标注结果。
// 指标以 HTTP 方法和路由模板标记，不使用原始 URL。
func ObservabilityMiddleware(
	httpRequestsTotal *prometheus.CounterVec,
	httpRequestDuration *prometheus.HistogramVec,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "not_found"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())

		span := trace.SpanFromContext(c.Request.Context())
		span.SetAttributes(
			attribute.String("http.route", path),
			attribute.Int("http.status_code", status),
		)
	}
}

//Personal.AI order the ending
