package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DaniellaNwagu/credit-risk/internal/config"
	"github.com/DaniellaNwagu/credit-risk/internal/db"
	"github.com/DaniellaNwagu/credit-risk/internal/events"
	"github.com/DaniellaNwagu/credit-risk/internal/jobs"
	"github.com/DaniellaNwagu/credit-risk/internal/observability"
	postgresrepo "github.com/DaniellaNwagu/credit-risk/internal/repository/postgres"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env).With("component", "outbox-worker")

	if cfg.UseMemoryStore() {
		logger.Error("outbox worker requires STORE_DRIVER=postgres")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect postgres", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	publisher, err := events.NewPublisherFromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to build event publisher", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("close publisher", "err", err)
		}
	}()

	worker := jobs.NewWorker(
		postgresrepo.NewOutboxRepository(pool),
		publisher,
		cfg.KafkaTopicLoanAssessed,
	)

	interval := cfg.WorkerPollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started",
		"interval", interval.String(),
		"batch_size", cfg.WorkerBatchSize,
		"publisher", cfg.EventPublisher,
		"topic", cfg.KafkaTopicLoanAssessed,
	)
	for {
		select {
		case <-sigCtx.Done():
			logger.Info("worker stopped")
			return
		case <-ticker.C:
			runCtx, runCancel := context.WithTimeout(sigCtx, 30*time.Second)
			err := worker.RunOnce(runCtx, cfg.WorkerBatchSize)
			runCancel()
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker run failed", "err", err)
			}
		}
	}
}
