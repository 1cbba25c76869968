/**
 * @description
 * Entry point for the Monzo OAuth login helper. It serves a small HTTP API
 * that sends a user through the authorization code flow and returns the
 * resulting access and refresh tokens.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: Router.
 * - github.com/joho/godotenv: For loading .env files during local development.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/transfa/monzo-bridge/internal/api"
	"github.com/transfa/monzo-bridge/internal/config"
	"github.com/transfa/monzo-bridge/internal/oauthstate"
	"github.com/transfa/monzo-bridge/internal/telemetry"
	"github.com/transfa/monzo-bridge/pkg/monzo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadAuthServerConfig()
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

	monzoOpts := []monzo.Option{
		monzo.WithBaseURL(cfg.APIBaseURL),
		monzo.WithAuthURL(cfg.AuthBaseURL),
		monzo.WithHTTPClient(telemetry.HTTPClient(cfg.OTelEnabled, 30*time.Second)),
		monzo.WithLogger(logger),
	}

	authClient := monzo.NewAuthorizationClient(cfg.ClientID, cfg.ClientSecret, monzoOpts...)
	identify := func(accessToken string) api.Identifier {
		return monzo.NewClient(accessToken, monzoOpts...)
	}
	signer := oauthstate.NewSigner(cfg.StateSecret, time.Duration(cfg.StateTTLMinutes)*time.Minute)

	handler := api.NewHandler(authClient, identify, signer, cfg.RedirectURI, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: telemetry.Handler(cfg.OTelEnabled, router, "monzo-auth-server"),
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("could not start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}

	logger.Info("server gracefully stopped")
}
