// Package monitoring provides logging, metrics and tracing backends, plus the adapter
// connecting the domain's metrics interface with Prometheus.
package monitoring

import (
	"time"

	"github.com/turtacn/transgate/internal/domain/service"
)

// MetricsAdapter implements the domain's service.Metrics interface, sending metrics to a Prometheus backend.
// This adapter translates the domain-specific metric calls into the appropriate Prometheus client calls.
// MetricsAdapter 实现了域的 service.Metrics 接口，将指标发送到 Prometheus 后端。
// 此适配器将特定于域的指标调用转换为适当的 Prometheus 客户端调用。
type MetricsAdapter struct {
	metrics *Metrics
}

// NewMetricsAdapter creates a new adapter that wraps a concrete Prometheus Metrics object,
// satisfying the domain's Metrics interface.
// NewMetricsAdapter 创建一个包装具体 Prometheus Metrics 对象的新适配器，
// 满足域的 Metrics 接口。
func NewMetricsAdapter(metrics *Metrics) service.Metrics {
	return &MetricsAdapter{metrics: metrics}
}

// RecordAuthResult delegates the call to the underlying Prometheus Metrics object.
// RecordAuthResult 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordAuthResult(result string) {
	a.metrics.AuthResults.WithLabelValues(result).Inc()
}

// RecordKeyFetch delegates the call to the underlying Prometheus Metrics object.
// RecordKeyFetch 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordKeyFetch(result string) {
	a.metrics.KeyFetches.WithLabelValues(result).Inc()
}

// RecordCacheAccess delegates the call to the underlying Prometheus Metrics object.
// RecordCacheAccess 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordCacheAccess(tier string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	a.metrics.KeyCacheAccess.WithLabelValues(tier, outcome).Inc()
}

// RecordModeration delegates the call to the underlying Prometheus Metrics object.
// RecordModeration 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordModeration(stage string, result string) {
	a.metrics.ModerationVerdicts.WithLabelValues(stage, result).Inc()
}

// RecordTranslation delegates the call to the underlying Prometheus Metrics object.
// RecordTranslation 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordTranslation(result string, duration time.Duration) {
	a.metrics.RecordTranslation(result, duration)
}

// RecordUpstreamCall delegates the call to the underlying Prometheus Metrics object.
// RecordUpstreamCall 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordUpstreamCall(upstream string, duration time.Duration, err error) {
	a.metrics.RecordUpstreamCall(upstream, duration, err)
}

var _ service.Metrics = (*MetricsAdapter)(nil)

//Personal.AI order the ending
