package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/transgate/internal/application/dto"
	"github.com/turtacn/transgate/internal/config"
	"github.com/turtacn/transgate/internal/infrastructure/persistence/redis"
	"github.com/turtacn/transgate/pkg/logger"
)

func serveHealth(t *testing.T, h *HealthHandler, path string) (int, dto.HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthCheck_AlwaysHealthy(t *testing.T) {
	h := NewHealthHandler(config.NewStore(config.Identity{}), nil, logger.NewNoopLogger())

	code, body := serveHealth(t, h, "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Server is healthy", body.Status)
	assert.Empty(t, body.Checks)
}

func TestReadinessCheck(t *testing.T) {
	complete := config.Identity{TenantID: "tenant", ClientID: "client"}

	t.Run("identity configured without redis", func(t *testing.T) {
		h := NewHealthHandler(config.NewStore(complete), nil, logger.NewNoopLogger())
		code, body := serveHealth(t, h, "/ready")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, map[string]string{"identity": "ok"}, body.Checks)
	})

	t.Run("identity missing", func(t *testing.T) {
		h := NewHealthHandler(config.NewStore(config.Identity{TenantID: "tenant"}), nil, logger.NewNoopLogger())
		code, body := serveHealth(t, h, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not ready", body.Status)
		assert.NotEqual(t, "ok", body.Checks["identity"])
	})

	t.Run("redis reachable then down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		conn := redis.NewRedisConnection(&config.RedisConfig{Addresses: []string{mr.Addr()}}, logger.NewNoopLogger())
		require.NoError(t, conn.Connect(t.Context()))
		t.Cleanup(func() { _ = conn.Close() })

		h := NewHealthHandler(config.NewStore(complete), conn, logger.NewNoopLogger())

		code, body := serveHealth(t, h, "/ready")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Checks["redis"])

		mr.Close()
		code, body = serveHealth(t, h, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Contains(t, body.Checks["redis"], "error")
	})
}

//Personal.AI order the ending
