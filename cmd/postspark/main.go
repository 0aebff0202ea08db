package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/postsparkhq/postspark/internal/ai"
	"github.com/postsparkhq/postspark/internal/auth"
	"github.com/postsparkhq/postspark/internal/billing"
	"github.com/postsparkhq/postspark/internal/config"
	"github.com/postsparkhq/postspark/internal/database"
	"github.com/postsparkhq/postspark/internal/email"
	"github.com/postsparkhq/postspark/internal/logging"
	"github.com/postsparkhq/postspark/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	generator, err := ai.NewClient(ai.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})
	if err != nil {
		logger.Error("failed to init Gemini client", "error", err)
		os.Exit(1)
	}

	stripeClient := billing.NewStripeClient(billing.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.BaseURL + "/checkout/success",
		CancelURL:     cfg.BaseURL + "/checkout/cancel",
	})
	catalog := billing.NewCatalog(cfg.Stripe.BasicPriceID, cfg.Stripe.ProPriceID)

	emailClient := email.NewClient(cfg.Postmark.ServerToken, cfg.Postmark.AccountToken, cfg.Postmark.FromEmail)
	if !emailClient.Configured() {
		logger.Warn("postmark not configured; welcome emails disabled")
	}

	// Without a Clerk issuer the API routes stay up but reject every token.
	var verifier auth.TokenVerifier
	if cfg.Clerk.Issuer != "" {
		v, err := auth.NewVerifier(cfg.Clerk.Issuer, cfg.Clerk.JWKSURL)
		if err != nil {
			logger.Error("failed to init Clerk verifier", "error", err)
			os.Exit(1)
		}
		verifier = v
	} else {
		logger.Warn("CLERK_ISSUER not set; API authentication disabled")
	}

	srv, err := server.New(db, stripeClient, catalog, generator, emailClient, verifier, server.Config{
		ClerkWebhookSecret: cfg.Clerk.WebhookSecret,
		GenerationCost:     cfg.GenerationCost,
		SignupGrant:        cfg.SignupGrant,
	}, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second, // generation calls can run long
		IdleTimeout:  120 * time.Second,
	}

	// Rate limiter windows are short; an hourly sweep keeps the map small.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	go func() {
		logger.Info("postspark listening", "addr", httpServer.Addr, "base_url", cfg.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	close(cleanupDone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
