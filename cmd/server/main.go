// Command server starts the resume autofill HTTP server.
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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	httpserver "github.com/jobautofill/backend/internal/adapter/httpserver"
	"github.com/jobautofill/backend/internal/adapter/observability"
	"github.com/jobautofill/backend/internal/adapter/ollama"
	"github.com/jobautofill/backend/internal/adapter/repo/memory"
	"github.com/jobautofill/backend/internal/adapter/repo/postgres"
	tikaext "github.com/jobautofill/backend/internal/adapter/textextractor/tika"
	"github.com/jobautofill/backend/internal/app"
	"github.com/jobautofill/backend/internal/config"
	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/extract"
	"github.com/jobautofill/backend/internal/usecase"
)

// redisAdapter narrows *redis.Client to the readiness interface.
type redisAdapter struct{ *redis.Client }

func (r redisAdapter) Ping(ctx context.Context) app.RedisPingResult { return r.Client.Ping(ctx) }

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	prompts, err := config.LoadPrompts("configs/prompts")
	if err != nil {
		slog.Error("prompt overrides invalid", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	// Resume store: Postgres when configured, in-process otherwise.
	var repo domain.ResumeRepository
	var pool app.Pinger
	if cfg.DBURL != "" {
		pgPool, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pgPool.Close()
		if err := postgres.EnsureSchema(ctx, pgPool); err != nil {
			slog.Error("db schema failed", slog.Any("error", err))
			os.Exit(1)
		}
		repo = postgres.NewResumeRepo(pgPool)
		pool = pgPool
		slog.Info("using postgres resume store")
	} else {
		repo = memory.New()
		slog.Info("using in-memory resume store")
	}

	// Model gateway, optionally behind a Redis completion cache.
	var gateway domain.ModelGateway = ollama.New(cfg)
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("redis url invalid", slog.Any("error", err))
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()
		gateway = ollama.NewChatCache(gateway, rdb, cfg.ChatCacheTTL)
		slog.Info("chat completion cache enabled", slog.Duration("ttl", cfg.ChatCacheTTL))
	}

	// Services.
	models := usecase.NewModelService(gateway, cfg.OllamaModel, cfg.ModelProbeTimeout)
	extraction := usecase.NewExtractionService(repo, gateway, models, prompts, cfg.OllamaTimeout)
	autofill := usecase.NewAutofillService(extraction, gateway, models, extract.New(cfg.DefaultCountry), prompts, cfg.OllamaTimeout, cfg.BatchConcurrency)
	resumes := usecase.NewResumeService(repo, tikaext.New(cfg.TikaURL))

	srv := httpserver.NewServer(cfg, resumes, extraction, autofill, models)
	var redisCheck app.RedisPinger
	if rdb != nil {
		redisCheck = redisAdapter{rdb}
	}
	srv.DBCheck, srv.RedisCheck, srv.OllamaCheck, srv.TikaCheck = app.BuildReadinessChecks(cfg, pool, redisCheck)

	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting",
			slog.Int("port", cfg.Port),
			slog.String("model", models.Active()))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
