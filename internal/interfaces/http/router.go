package http

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/transgate/internal/application/dto"
	"github.com/turtacn/transgate/internal/config"
	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/internal/infrastructure/monitoring"
	"github.com/turtacn/transgate/internal/interfaces/http/handlers"
	"github.com/turtacn/transgate/internal/interfaces/http/middleware"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// Router HTTP 路由器
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	logger           logger.Logger
	healthHandler    *handlers.HealthHandler
	translateHandler *handlers.TranslateHandler
	validator        service.TokenValidator
	metrics          *monitoring.Metrics
	gatherer         prometheus.Gatherer
	server           *http.Server
	routesReady      bool
}

// NewRouter 创建路由器
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	healthHandler *handlers.HealthHandler,
	translateHandler *handlers.TranslateHandler,
	validator service.TokenValidator,
	metrics *monitoring.Metrics,
	gatherer prometheus.Gatherer,
) *Router {
	// 设置 Gin 模式
	if cfg.Server.Environment == constants.EnvironmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Router{
		engine:           gin.New(),
		config:           cfg,
		logger:           log,
		healthHandler:    healthHandler,
		translateHandler: translateHandler,
		validator:        validator,
		metrics:          metrics,
		gatherer:         gatherer,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	if r.routesReady {
		return
	}
	r.routesReady = true

	// 全局中间件
	r.engine.Use(handlers.RecoveryMiddleware(r.logger))
	r.engine.Use(handlers.RequestIDMiddleware())
	r.engine.Use(handlers.TracingMiddleware())
	r.engine.Use(handlers.LoggingMiddleware(r.logger))
	r.engine.Use(middleware.ObservabilityMiddleware(r.metrics.HTTPRequests, r.metrics.HTTPDuration))

	// CORS 配置
	origins := r.config.Server.AllowedOrigins
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", handlers.HeaderRequestID},
		ExposeHeaders: []string{handlers.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	r.engine.Use(cors.New(corsConfig))

	// 健康检查路由（不需要认证）
	r.engine.GET("/health", r.healthHandler.HealthCheck)
	r.engine.GET("/ready", r.healthHandler.ReadinessCheck)

	// Prometheus metrics
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	// Pprof 性能分析（仅在非生产环境）
	if r.config.Server.Environment != constants.EnvironmentProduction {
		pprof.Register(r.engine)
	}

	// 翻译路由（需要认证）
	protected := r.engine.Group("/")
	protected.Use(middleware.RequireToken(r.validator, r.config.Server.IsDevelopment(), r.logger))
	{
		protected.POST("/translate", r.translateHandler.Translate)
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, &dto.ErrorResponse{Error: "Not found"})
	})
}

// Handler 返回已注册路由的 HTTP 处理器
func (r *Router) Handler() http.Handler {
	r.SetupRoutes()
	return r.engine
}

// Start 启动 HTTP 服务器，阻塞直到服务器关闭
func (r *Router) Start() error {
	r.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    r.config.Server.ReadTimeout,
		WriteTimeout:   r.config.Server.WriteTimeout,
		IdleTimeout:    r.config.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	r.logger.Info(context.Background(), "Starting HTTP server", logger.Fields{"address": addr})

	// 优雅关闭
	go r.gracefulShutdown()

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// gracefulShutdown 优雅关闭服务器
func (r *Router) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	r.logger.Info(context.Background(), "Shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := r.server.Shutdown(ctx); err != nil {
		r.logger.Error(ctx, "Server forced to shutdown", err)
	}

	r.logger.Info(ctx, "HTTP server stopped")
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}

	r.logger.Info(ctx, "Stopping HTTP server...")
	return r.server.Shutdown(ctx)
}

//Personal.AI order the ending
