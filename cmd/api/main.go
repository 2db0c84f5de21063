package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promptworks/site-backend/internal/api"
	"github.com/promptworks/site-backend/internal/assets"
	"github.com/promptworks/site-backend/internal/config"
	"github.com/promptworks/site-backend/internal/email"
	"github.com/promptworks/site-backend/internal/notify"
	"github.com/promptworks/site-backend/internal/sequence"
	stripeinternal "github.com/promptworks/site-backend/internal/stripe"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// ── Assets ────────────────────────────────────────────────────────────────
	// Templates and attachments are read from disk exactly once, here. Request
	// handling never touches storage.
	store, err := assets.Load(cfg.AssetsDir)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	logger.Info("assets loaded", "dir", cfg.AssetsDir)

	// ── Stripe ────────────────────────────────────────────────────────────────
	stripeClient := stripeinternal.NewClient(cfg.StripeSecretKey)

	// ── Email ─────────────────────────────────────────────────────────────────
	var mailer email.Sender
	switch cfg.EmailProvider {
	case config.ProviderSMTP:
		mailer = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser,
			cfg.SMTPPass, cfg.EmailFromAddr, cfg.EmailFromName)
		logger.Info("email: using SMTP", "host", cfg.SMTPHost)
	default:
		mailer = email.NewResendClient(cfg.ResendAPIKey, cfg.EmailFromAddr, cfg.EmailFromName)
		logger.Info("email: using Resend")
	}

	// ── Notification pipeline ─────────────────────────────────────────────────
	dispatcher := notify.NewDispatcher(store, mailer, logger)

	seq, err := sequence.NewService(store, mailer, logger)
	if err != nil {
		return fmt.Errorf("sequence: %w", err)
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		stripeClient,
		dispatcher,
		seq,
		api.Config{
			StripeWebhookSecret: cfg.StripeWebhookSecret,
			Env:                 cfg.Env,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // email provider calls happen in-request
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight HTTP requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
