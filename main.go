package main

import (
	"context"
	"flag"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"jobboard_server/config"
	"jobboard_server/internal/bootstrap"
	"jobboard_server/pkg/logger"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	envErr := godotenv.Load()

	mode := flag.String("mode", "api", "Run mode: api, worker, migrate, all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.IsDevelopment() {
		level = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   level,
		Service: "jobboard-" + *mode,
		Pretty:  cfg.IsDevelopment(),
	})
	if envErr != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "api":
		runAPI(ctx, cfg)
	case "worker":
		runWorker(ctx, cfg)
	case "migrate":
		migrate(cfg)
	case "all":
		migrate(cfg)

		var wg sync.WaitGroup
		if cfg.RedisURL != "" {
			wg.Add(1)
			go func() {
				defer wg.Done()
				runWorker(ctx, cfg)
			}()
		} else {
			logger.Warn("REDIS_URL not set, audit worker disabled")
		}
		runAPI(ctx, cfg)
		stop()
		wg.Wait()
	default:
		logger.Fatal("Unknown mode: %s", *mode)
	}
}

func migrate(cfg *config.Config) {
	logger.Info("Running schema migration")
	if err := bootstrap.Migrate(cfg); err != nil {
		logger.Fatal("Migration failed: %v", err)
	}
	logger.Info("Schema migration complete")
}

// runAPI serves until ctx is cancelled, then drains in-flight requests.
func runAPI(ctx context.Context, cfg *config.Config) {
	app, cleanup, err := bootstrap.NewAPI(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize API: %v", err)
	}
	defer cleanup()

	listenErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("Starting API server on %s", addr)
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			logger.Fatal("Failed to start server: %v", err)
		}
		return
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server (timeout: %v)...", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Error shutting down: %v", err)
		return
	}
	logger.Info("API server shut down gracefully")
}

func runWorker(ctx context.Context, cfg *config.Config) {
	worker, cleanup, err := bootstrap.NewWorker(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize worker: %v", err)
	}
	defer cleanup()

	worker.Start()
	<-ctx.Done()
	logger.Info("Shutting down audit worker...")
	worker.Stop()
}
