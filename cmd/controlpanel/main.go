package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"controlpanel/internal/backend"
	"controlpanel/internal/cli"
	apphttp "controlpanel/internal/http"
	applog "controlpanel/internal/log"
	"controlpanel/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(slog.Default())
	logger := cli.SetupLogger(cfg.SlogLevel())

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	store, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	// The panel keeps working without the broker; edits are then not audited.
	amqpClient, err := cli.ConnectAMQP(logger.Logger, cfg)
	if err != nil {
		logger.Warn("AMQP unavailable, customer events disabled", "error", err)
	}
	var events services.CustomerEventPublisher
	if amqpClient != nil {
		events = amqpClient
		defer amqpClient.Close()
	}

	stats, err := services.GetStatsSources(cfg.StatsSource)
	if err != nil {
		logger.Error("Invalid stats source", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Customers: services.NewCustomerService(store.Store, store.Store, events).
			WithStats(stats).
			WithClock(cfg.StatsClock()),
		Transactions:       services.NewTransactionService(store.Store, store.Store),
		Dashboard:          services.NewDashboardService(store.Store, store.Store),
		Probe:              store.Store,
		Logger:             logger,
		BackendName:        store.Name,
		Version:            cfg.AppVersion,
		CacheTTL:           cfg.CacheTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting control panel",
		"port", cfg.Port,
		applog.FieldBackend, store.Name,
		"version", cfg.AppVersion,
		"stats_source", cfg.StatsSource,
		"events", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
