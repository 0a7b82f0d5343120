// Package service defines the domain services and the interfaces they depend on.
package service

import (
	"time"
)

// Metrics defines the interface for collecting business metrics.
// This abstraction allows the domain and application layers to remain independent of the specific monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集业务指标的接口。
// 这种抽象使领域层和应用层能够独立于具体的监控实现（例如 Prometheus）。
type Metrics interface {
	// RecordAuthResult records the terminal state of one token validation ("authorized" or an error code).
	// RecordAuthResult 记录一次令牌校验的最终状态。
	RecordAuthResult(result string)

	// RecordKeyFetch records an outbound signing key discovery attempt.
	// RecordKeyFetch 记录一次对外的签名密钥发现请求。
	RecordKeyFetch(result string)

	// RecordCacheAccess records a signing key cache hit or miss per tier.
	// RecordCacheAccess 记录各级签名密钥缓存的命中或未命中。
	RecordCacheAccess(tier string, hit bool)

	// RecordModeration records one moderation pass ("pass", "flagged" or "error") for a stage.
	// RecordModeration 记录某一阶段的一次内容审核结果。
	RecordModeration(stage string, result string)

	// RecordTranslation records the outcome and total duration of a translate operation.
	// RecordTranslation 记录一次翻译操作的结果与总耗时。
	RecordTranslation(result string, duration time.Duration)

	// RecordUpstreamCall records the latency of a call to an external service.
	// RecordUpstreamCall 记录一次外部服务调用的延迟。
	RecordUpstreamCall(upstream string, duration time.Duration, err error)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordAuthResult(string)                         {}
func (NoopMetrics) RecordKeyFetch(string)                           {}
func (NoopMetrics) RecordCacheAccess(string, bool)                  {}
func (NoopMetrics) RecordModeration(string, string)                 {}
func (NoopMetrics) RecordTranslation(string, time.Duration)         {}
func (NoopMetrics) RecordUpstreamCall(string, time.Duration, error) {}

var _ Metrics = NoopMetrics{}
