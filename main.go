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

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/seoulmate/seoul-travel-api/app/db"
	"github.com/seoulmate/seoul-travel-api/app/observability/metrics"
	"github.com/seoulmate/seoul-travel-api/app/tracer"
	"github.com/seoulmate/seoul-travel-api/config"
	"github.com/seoulmate/seoul-travel-api/internal/container"
	"github.com/seoulmate/seoul-travel-api/internal/router"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg, err := config.InitConfig()
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var handler slog.Handler
	if cfg.Mode == "development" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	dbConfig, err := db.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to build database config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !db.WaitForDB(ctx, pool, logger) {
		logger.Error("Database did not become ready in time")
		os.Exit(1)
	}

	c, err := container.NewContainer(ctx, &cfg, logger, pool)
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      router.NewRouter(c),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	go func() {
		logger.Info("Server listening", slog.String("port", cfg.Server.HTTPPort), slog.String("mode", cfg.Mode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.Any("error", err))
	}
}
