package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"controlpanel/internal/cli"
	"controlpanel/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(slog.Default())
	logger := cli.SetupLogger(cfg.SlogLevel())
	logger.Info("Starting audit worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	amqpClient, err := cli.ConnectAMQP(logger.Logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	audit := worker.NewAuditWorker(logger.Logger)

	ctx, done := cli.GracefulShutdown(logger.Logger, 10*time.Second, nil)

	if err := amqpClient.ConsumeCustomerUpdated(ctx, audit.HandleCustomerUpdated); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Audit worker stopped")
}
