// Package main is the entrypoint for the keywordlens API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/keywordlens/internal/api"
	"github.com/kiranshivaraju/keywordlens/internal/api/handler"
	mw "github.com/kiranshivaraju/keywordlens/internal/api/middleware"
	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/internal/backend"
	"github.com/kiranshivaraju/keywordlens/internal/cache"
	"github.com/kiranshivaraju/keywordlens/internal/config"
	"github.com/kiranshivaraju/keywordlens/internal/provider"
	"github.com/kiranshivaraju/keywordlens/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, failing fast when invalid
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "use_mock_api", cfg.Backend.UseMock, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Store: Postgres when configured, memory otherwise
	var st store.Store
	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		slog.Info("database connected")

		if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied")
		st = store.NewPostgresStore(pool)
	} else {
		slog.Warn("DATABASE_URL not set, analysis records kept in memory")
		st = store.NewMemoryStore()
	}

	// 3. Cache: Redis when configured, memory for a single instance
	var c cache.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected")
		c = redisCache
	} else {
		slog.Warn("REDIS_URL not set, rate limits and job snapshots kept in memory")
		c = cache.NewMemoryCache()
	}

	// 4. Build router with dependencies
	router := buildRouter(cfg, st, c)

	// 5. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// buildRouter wires the provider selected by cfg into every route. The
// analyze rate limit counts in c.
func buildRouter(cfg *config.Config, st store.Store, c cache.Cache) http.Handler {
	p := provider.NewProvider(cfg.Backend)
	slog.Info("keyword provider initialized", "provider", p.Name())

	// The status route always probes the real backend, even in mock mode.
	prober := backend.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.AuthToken, cfg.Backend.Timeout)

	deps := api.Dependencies{
		HealthHandler: healthHandler(st, c),
		StatusHandler: handler.NewStatusHandler(prober, handler.StatusInfo{
			UseMock:  cfg.Backend.UseMock,
			BaseURL:  cfg.Backend.BaseURL,
			HasToken: cfg.Backend.AuthToken != "",
			Env:      cfg.Server.Env,
		}),
		AnalyzeHandler:      handler.NewAnalyzeHandler(p, st),
		ReportHandler:       handler.NewReportHandler(p, st, c),
		DomainStatusHandler: handler.NewDomainStatusHandler(p),
		GenerateCSVHandler:  handler.NewGenerateCSVHandler(p),
		DownloadCSVHandler:  handler.NewDownloadCSVHandler(p),
		SeedsHandler:        handler.NewSeedsHandler(p),
		ExpandInputHandler:  handler.NewExpandInputHandler(p),
		ListNotifications:   handler.NewListNotificationsHandler(st),
		Subscribe:           handler.NewSubscribeHandler(st),
		ListSubscriptions:   handler.NewListSubscriptionsHandler(st),
		AnalyzeDomain:       handler.NewAnalyzeDomainHandler(p),
		RateLimit:           mw.NewRateLimit(c, "analyze", cfg.RateLimit.AnalyzePerMinute),
	}

	return api.NewRouter(deps)
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
