package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tomycgitntnx/Automation/internal/api"
	"github.com/tomycgitntnx/Automation/internal/config"
	"github.com/tomycgitntnx/Automation/internal/runner"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Starting alert report server",
		zap.String("version", "0.1.0"),
		zap.Int("targets", len(cfg.Endpoints.Targets)),
		zap.Duration("poll_interval", cfg.Server.PollInterval),
	)

	reportRunner, err := runner.New(cfg, logger, runner.Options{})
	if err != nil {
		logger.Fatal("Failed to create runner", zap.Error(err))
	}

	// Setup HTTP server
	handler := api.NewHandler(reportRunner, cfg, logger)
	router := api.SetupRoutes(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server listening", zap.String("address", addr))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := router.Run(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go schedule(ctx, reportRunner, cfg.Server.PollInterval, logger)

	<-quit
	logger.Info("Shutting down server...")
	cancel()
	logger.Info("Server stopped")
}

// schedule generates one report immediately and then on every tick. A run
// still in flight when the tick fires is skipped, not queued.
func schedule(ctx context.Context, r *runner.Runner, interval time.Duration, logger *zap.Logger) {
	runOnce := func() {
		if _, err := r.Run(ctx); err != nil {
			if errors.Is(err, runner.ErrRunInProgress) {
				logger.Info("skipping scheduled run, another run is in progress")
				return
			}
			logger.Error("scheduled report run failed", zap.Error(err))
		}
	}

	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
