/**
 * @description
 * Entry point for the transaction exporter. This is a non-HTTP, long-running
 * process that periodically reads recent Monzo transactions and publishes
 * them to a RabbitMQ topic exchange.
 */
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/transfa/monzo-bridge/internal/app"
	"github.com/transfa/monzo-bridge/internal/config"
	"github.com/transfa/monzo-bridge/internal/telemetry"
	"github.com/transfa/monzo-bridge/pkg/monzo"
	"github.com/transfa/monzo-bridge/pkg/rabbitmq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadExporterConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracing, err := telemetry.Setup(cfg.OTelEnabled)
	if err != nil {
		logger.Error("failed to configure tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing()

	producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL, cfg.TransactionExchange)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer producer.Close()
	logger.Info("rabbitmq producer connected", "exchange", cfg.TransactionExchange)

	monzoOpts := []monzo.Option{
		monzo.WithBaseURL(cfg.APIBaseURL),
		monzo.WithHTTPClient(telemetry.HTTPClient(cfg.OTelEnabled, 30*time.Second)),
		monzo.WithLogger(logger),
	}
	newClient := func(accessToken string) app.MonzoAPI {
		return monzo.NewClient(accessToken, monzoOpts...)
	}
	authClient := monzo.NewAuthorizationClient(cfg.ClientID, cfg.ClientSecret, monzoOpts...)

	jobs := app.NewJobs(newClient, authClient, producer, logger, *cfg)
	scheduler := app.NewScheduler(jobs, logger, *cfg)

	if err := scheduler.Start(); err != nil {
		os.Exit(1)
	}
	logger.Info("scheduler started")

	// Run once at startup rather than waiting for the first tick.
	go jobs.ExportTransactions()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping scheduler")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped gracefully")
}
