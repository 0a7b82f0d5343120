package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	appservice "github.com/turtacn/transgate/internal/application/service"
	"github.com/turtacn/transgate/internal/config"
	domainservice "github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/internal/infrastructure/azure"
	"github.com/turtacn/transgate/internal/infrastructure/kms"
	"github.com/turtacn/transgate/internal/infrastructure/monitoring"
	"github.com/turtacn/transgate/internal/infrastructure/persistence/redis"
	"github.com/turtacn/transgate/internal/interfaces/http"
	"github.com/turtacn/transgate/internal/interfaces/http/handlers"
	"github.com/turtacn/transgate/pkg/logger"
)

const startupTimeout = 30 * time.Second

func main() {
	configFile := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// Logger for startup
	startupLogger, _ := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})

	// Load config
	loader := config.NewLoader(startupLogger, *configFile)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, cfg.Server.Environment, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize tracer", err)
	}
	defer func() { _ = tracing.Shutdown(context.Background()) }()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(registry)
	metricsAdapter := monitoring.NewMetricsAdapter(metrics)

	// Identity is late-bound: Vault may override what the environment supplied.
	store := config.NewStore(cfg.Identity())
	if cfg.Vault.Enabled() {
		vaultProvider, err := kms.NewVaultProvider(cfg.Vault, nil, appLogger)
		if err != nil {
			appLogger.Fatal(ctx, "Failed to create Vault client", err)
		}
		secrets, err := vaultProvider.LoadSecrets(ctx)
		if err != nil {
			appLogger.Fatal(ctx, "Failed to load secrets from Vault", err)
		}
		secrets.Apply(cfg, store)
	}
	if err := cfg.ValidateUpstreams(); err != nil {
		appLogger.Fatal(ctx, "Invalid upstream configuration", err)
	}
	if !store.Get().Complete() {
		appLogger.Warn(ctx, "Tenant or client ID not configured; protected routes will fail until it is")
	}

	// Initialize Redis (optional shared signing key cache)
	fetcherOpts := kms.KeyFetcherOptions{
		AuthorityURL:      cfg.Auth.AuthorityURL,
		CacheTTL:          cfg.Auth.KeyCacheTTL,
		RequestsPerMinute: cfg.Auth.KeyRequestsPerMinute,
		Timeout:           cfg.Auth.KeyDiscoveryTimeout,
		Metrics:           metricsAdapter,
	}
	var readinessRedis handlers.Pinger
	if cfg.Redis.Enabled() {
		redisConn := redis.NewRedisConnection(&cfg.Redis, appLogger)
		if err := redisConn.Connect(ctx); err != nil {
			appLogger.Fatal(ctx, "Failed to connect to Redis", err)
		}
		defer redisConn.Close()
		fetcherOpts.Shared = redis.NewKeyCache(redisConn.GetClient(), cfg.Redis.KeyPrefix, appLogger)
		readinessRedis = redisConn
	}

	// Token validation
	resolvers := kms.NewResolverProvider(fetcherOpts, appLogger)
	validator := domainservice.NewTokenValidator(store, resolvers, domainservice.TokenValidatorOptions{
		AuthorityURL:  cfg.Auth.AuthorityURL,
		RequiredScope: cfg.Auth.RequiredScope,
		Leeway:        cfg.Auth.Leeway,
	}, metricsAdapter, appLogger)

	// Moderated translation
	gate := domainservice.NewModerationGate(
		azure.NewContentSafetyClient(&cfg.ContentSafety, metricsAdapter),
		cfg.Moderation.Thresholds,
		appLogger,
	)
	loader.Watch(func(next *config.Config) {
		gate.SetThresholds(next.Moderation.Thresholds)
		appLogger.Info(context.Background(), "Moderation thresholds reloaded", logger.Fields{
			"thresholds": gate.Thresholds(),
		})
	})
	translationSvc := appservice.NewTranslationAppService(
		gate,
		azure.NewTranslatorClient(&cfg.Translator, metricsAdapter),
		metricsAdapter,
		appLogger,
	)

	// Initialize HTTP handlers and router
	verbose := cfg.Server.IsDevelopment()
	router := http.NewRouter(
		cfg,
		appLogger,
		handlers.NewHealthHandler(store, readinessRedis, appLogger),
		handlers.NewTranslateHandler(translationSvc, verbose, appLogger),
		validator,
		metrics,
		registry,
	)

	if err := router.Start(); err != nil {
		appLogger.Fatal(context.Background(), "HTTP server failed", err)
	}
}

//Personal.AI order the ending
