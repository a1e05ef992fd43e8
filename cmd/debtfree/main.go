package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chatdomain "github.com/debtfree/debtfree-go/internal/chat/domain"
	chatinfra "github.com/debtfree/debtfree-go/internal/chat/infra"
	chatport "github.com/debtfree/debtfree-go/internal/chat/port"
	chatservice "github.com/debtfree/debtfree-go/internal/chat/service"
	"github.com/debtfree/debtfree-go/internal/config"
	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/handler"
	"github.com/debtfree/debtfree-go/internal/infra/cache"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/infra/resilience"
	"github.com/debtfree/debtfree-go/internal/port"
	"github.com/debtfree/debtfree-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.String("llm_model", cfg.LLMModel),
		zap.Bool("llm_key_set", cfg.LLMAPIKey != ""),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Int("default_horizon_months", cfg.DefaultHorizonMonths),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(context.Background(), "debtfree-api", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	var (
		planCache    port.Cache[*domain.SimulationResponse]
		historyStore chatport.HistoryStore
		checks       []handler.HealthCheck
	)
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()

		plans := cache.NewRedis[*domain.SimulationResponse](rdb, "debtfree:plan", cfg.CacheTTL, logger)
		planCache = plans
		historyStore = cache.NewRedis[[]chatdomain.Message](rdb, "debtfree:chat", cfg.CacheTTL, logger)
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: plans.Ping})
		logger.Info("using Redis for plan cache and chat history", zap.String("addr", cfg.RedisAddr))
	} else {
		plans := cache.New[*domain.SimulationResponse](cfg.CacheTTL)
		defer plans.Close()
		history := cache.New[[]chatdomain.Message](cfg.CacheTTL)
		defer history.Close()
		planCache, historyStore = plans, history
	}

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)
	cb := resilience.NewCircuitBreaker("llm", logger)

	// --- Services ---
	planner := service.NewPlanner(planCache, bulkhead, metrics, logger, service.Defaults{
		HorizonMonths: cfg.DefaultHorizonMonths,
		TakeHomeRate:  cfg.DefaultTakeHomeRate,
	})

	llm := chatinfra.NewLLMClient(
		&http.Client{Timeout: cfg.HTTPTimeout + cfg.LLMTimeout},
		chatinfra.LLMConfig{
			BaseURL: cfg.LLMAPIURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		},
		cb,
		resilienceCfg,
		metrics,
	)
	if cfg.LLMAPIKey == "" {
		logger.Warn("LLM_API_KEY not set: the advisor will answer with an unavailable message")
	}

	advisor := chatservice.NewAdvisorService(
		llm,
		planner,
		historyStore,
		chatservice.DefaultStrategies(planner),
		metrics,
		logger,
		cfg.ChatHistoryLimit,
	)

	// --- Router ---
	router := handler.NewRouter(planner, advisor, checks, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
