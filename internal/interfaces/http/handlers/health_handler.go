package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/transgate/internal/application/dto"
	domainservice "github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/logger"
)

const readinessCheckTimeout = 2 * time.Second

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	identity domainservice.IdentitySource
	redis    Pinger
	log      logger.Logger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when no
// shared key cache is configured.
func NewHealthHandler(identity domainservice.IdentitySource, redis Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		identity: identity,
		redis:    redis,
		log:      log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Reports that the process is serving. Unauthenticated.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: constants.MsgHealthy})
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Description  Checks if the service is ready to accept traffic.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessCheckTimeout)
	defer cancel()

	checks := h.performChecks(ctx)

	status := "ready"
	httpStatus := http.StatusOK
	for name, checkStatus := range checks {
		if checkStatus != "ok" {
			h.log.Warn(ctx, "Readiness check failed", logger.Fields{"check": name, "status": checkStatus})
			status = "not ready"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	c.JSON(httpStatus, dto.HealthResponse{Status: status, Checks: checks})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	var wg sync.WaitGroup
	checks := make(map[string]string)
	mu := &sync.Mutex{}

	checkers := map[string]func() string{
		"identity": h.checkIdentity,
	}
	if h.redis != nil {
		checkers["redis"] = func() string { return h.checkRedis(ctx) }
	}

	wg.Add(len(checkers))
	for name, check := range checkers {
		go func(name string, f func() string) {
			defer wg.Done()
			status := f()
			mu.Lock()
			checks[name] = status
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return checks
}

func (h *HealthHandler) checkIdentity() string {
	tenantID, clientID := h.identity.TenantAndClient()
	if tenantID == "" || clientID == "" {
		return "error: tenant or client not configured"
	}
	return "ok"
}

func (h *HealthHandler) checkRedis(ctx context.Context) string {
	if err := h.redis.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

//Personal.AI order the ending
