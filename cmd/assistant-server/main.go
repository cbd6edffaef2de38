// cmd/assistant-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sante-assist/internal/cache"
	"sante-assist/internal/classify"
	"sante-assist/internal/common/config"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/common/observability"
	"sante-assist/internal/llm"
	"sante-assist/internal/orchestrate"
	"sante-assist/internal/plan"
	"sante-assist/internal/scrape"
	"sante-assist/internal/suggest"
	"sante-assist/internal/synthesize"
	"sante-assist/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("assistant-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Catalog ---
	cat := catalog.LoadOrDefault(cfg.Pipeline.CatalogPath)
	zapLog.Info("Catalog loaded",
		zap.String("version", cat.Version),
		zap.Int("categories", len(cat.Entries)),
	)

	// --- Cache ---
	cacheCfg := &cache.Config{
		MaxSize:         cfg.Cache.MaxSize,
		DefaultTTL:      config.GetDuration(cfg.Cache.DefaultTTL),
		CleanupInterval: config.GetDuration(cfg.Cache.CleanupInterval),
		MinConfidence:   cfg.Cache.MinConfidence,
	}

	var store cache.Store
	if cfg.Cache.Backend == "redis" {
		err = retryWithBackoff(func() error {
			var err error
			store, err = cache.NewRedisStore(ctx, cache.RedisOptions{
				Address:  cfg.Cache.Redis.Address,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
			}, cacheCfg, log)
			return err
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		zapLog.Info("Redis cache connected successfully")
	} else {
		store = cache.NewMemoryStore(cacheCfg, log)
		zapLog.Info("In-memory cache initialized")
	}
	defer store.Stop()

	// --- Retrieval ---
	scrapeCfg := &scrape.Config{
		BaseURL:         cfg.Scraping.BaseURL,
		APIKey:          cfg.Scraping.APIKey,
		Timeout:         config.GetDuration(cfg.Scraping.Timeout),
		RetryAttempts:   cfg.Scraping.RetryAttempts,
		Parallelism:     cfg.Scraping.Parallelism,
		AllowedDomains:  cfg.Scraping.AllowedDomains,
		BreakerCooldown: config.GetDuration(cfg.Scraping.BreakerCooldown),
	}
	retriever := scrape.NewClient(
		scrapeCfg,
		scrape.NewLiveProvider(scrapeCfg),
		scrape.NewFallbackProvider(cat),
		log,
	)

	// --- LLM ---
	provider, err := llm.NewProvider(&cfg.LLM, log)
	if err != nil {
		zapLog.Fatal("llm provider init failed", zap.Error(err))
	}
	zapLog.Info("LLM provider initialized", zap.String("provider", provider.Name()))

	// --- Pipeline ---
	orchestrator := orchestrate.NewOrchestrator(
		&orchestrate.Config{
			MaxTokens:          cfg.LLM.MaxTokens,
			Temperature:        cfg.LLM.Temperature,
			MinCacheConfidence: cfg.Cache.MinConfidence,
		},
		provider,
		classify.NewClassifier(classify.LoadConfig(cfg.Pipeline.RoutingPolicy), log),
		plan.NewPlanner(plan.LoadConfig(cfg.Pipeline.MaxPagesPerQuery), cat, log),
		retriever,
		store,
		synthesize.NewSynthesizer(synthesize.LoadConfig(cfg.Pipeline.MaxContentLength), log),
		suggest.NewSuggester(log),
		obs,
		log,
	)

	srv := newServer(orchestrator, store, cfg.App.Version, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", srv.handleChat)
	mux.HandleFunc("/api/cache/stats", srv.handleCacheStats)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}

	zapLog.Info("Assistant server stopped")
}
