package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"tariffagent/internal/classifier"
	"tariffagent/internal/config"
	"tariffagent/internal/db"
	"tariffagent/internal/model"
	"tariffagent/internal/observability"
	"tariffagent/internal/regulation"
	"tariffagent/internal/repository"
	"tariffagent/internal/server"
)

func main() {
	cfg := config.Load()
	observability.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)
	metricsSrv := observability.Start(cfg.MetricsPort, registry)

	opts := []classifier.Option{classifier.WithMetrics(metrics)}

	overrides := loadRegulations(ctx, cfg)
	table := regulation.Builtin(overrides)
	slog.Info("regulation table ready", "entries", table.Len())

	if cfg.DatabaseURL != "" {
		sqlDB, err := db.New(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Erro ao conectar no Postgres (history)", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()

		history := &repository.HistoryRepository{DB: sqlDB}
		if err := history.EnsureSchema(ctx); err != nil {
			slog.Error("Erro ao preparar classification_history", "error", err)
			os.Exit(1)
		}
		opts = append(opts, classifier.WithRecorder(history))
	}

	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		opts = append(opts, classifier.WithCache(&classifier.RedisCache{
			Client:    redisClient,
			Namespace: cfg.OpenAIDeployment,
			TTL:       cfg.CacheTTL,
		}))
		slog.Info("classification cache enabled", "ttl", cfg.CacheTTL)
	}

	// completer stays a nil interface when credentials are missing
	var completer classifier.Completer
	if cfg.AIConfigured() {
		completer = classifier.NewAzureClient(cfg.OpenAIKey, cfg.OpenAIEndpoint, cfg.OpenAIDeployment, cfg.OpenAIAPIVersion)
		slog.Info("Azure OpenAI client configured", "deployment", cfg.OpenAIDeployment)
	} else {
		slog.Warn("missing AI credentials, classification disabled")
	}

	svc := classifier.New(completer, table, opts...)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Routes(svc, config.Mode),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("AI tariff agent listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		slog.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

// loadRegulations reads optional table overrides from Postgres. Any failure
// leaves the built-in table in place.
func loadRegulations(ctx context.Context, cfg *config.Config) map[string]model.Regulation {
	if cfg.DatabaseURL == "" {
		return nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Warn("Postgres indisponível, usando tabela embutida", "error", err)
		return nil
	}
	defer pool.Close()

	repo := &repository.RegulationRepository{DB: pool}
	overrides, err := repo.LoadAll(ctx)
	if err != nil {
		slog.Warn("failed to load regulations, using built-in table", "error", err)
		return nil
	}
	return overrides
}
