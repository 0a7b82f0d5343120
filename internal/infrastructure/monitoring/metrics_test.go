package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/transgate/internal/config"
	"github.com/turtacn/transgate/pkg/logger"
)

func TestMetricsAdapter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	adapter := NewMetricsAdapter(m)

	adapter.RecordAuthResult("authorized")
	adapter.RecordAuthResult("authorized")
	adapter.RecordAuthResult("auth_scope")
	adapter.RecordKeyFetch("success")
	adapter.RecordCacheAccess("l1", true)
	adapter.RecordCacheAccess("l1", false)
	adapter.RecordModeration("source", "pass")
	adapter.RecordTranslation("success", 20*time.Millisecond)
	adapter.RecordUpstreamCall("translator", 5*time.Millisecond, nil)
	adapter.RecordUpstreamCall("translator", 5*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthResults.WithLabelValues("authorized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthResults.WithLabelValues("auth_scope")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyFetches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyCacheAccess.WithLabelValues("l1", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyCacheAccess.WithLabelValues("l1", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModerationVerdicts.WithLabelValues("source", "pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TranslateRequests.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamErrors.WithLabelValues("translator")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamLatency))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestTracingManager_Disabled(t *testing.T) {
	tm, err := NewTracingManager(&config.TracingConfig{Enabled: false}, "test", logger.NewNoopLogger())
	require.NoError(t, err)

	ctx, span := tm.StartSpan(context.Background(), "op")
	defer span.End()
	assert.NotNil(t, ctx)
	assert.NoError(t, tm.Shutdown(context.Background()))
}

//Personal.AI order the ending
