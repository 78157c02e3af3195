// Command audit-worker drains the audit queue filled by easybudget sessions
// and appends every event to the SQLite audit_events table.
package main

import (
	"context"
	"errors"
	"os"

	"easybudget/internal/amqp"
	"easybudget/internal/cli"
	"easybudget/internal/config"
	"easybudget/internal/log"
	"easybudget/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker, os.Stderr)
	logger.Info("Starting audit-worker")

	if err := errors.Join(cfg.Validate(), cfg.ValidateAuditWorker()); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		_ = repo.Close()
		os.Exit(1)
	}

	parent, stop := context.WithCancel(context.Background())
	ctx, done := cli.GracefulShutdown(parent, logger, cfg.ShutdownTimeout, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
		if err := repo.Close(); err != nil {
			logger.Warn("Failed to close SQLite repository", log.FieldError, err)
		}
	})

	w := worker.NewAuditWorker(amqpClient, repo)
	runErr := w.Run(ctx)
	if runErr != nil {
		logger.Error("Audit worker failed", log.FieldError, runErr)
	}

	// Run returns early only on a consumer failure.
	stop()
	cli.WaitForShutdown(ctx, done)
	if runErr != nil {
		os.Exit(1)
	}
}
