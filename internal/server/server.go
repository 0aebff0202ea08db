// Package server wires stores, clients and handlers into the HTTP API.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/postsparkhq/postspark/internal/auth"
	"github.com/postsparkhq/postspark/internal/billing"
	"github.com/postsparkhq/postspark/internal/handler"
	"github.com/postsparkhq/postspark/internal/middleware"
	"github.com/postsparkhq/postspark/internal/store"
)

// Config carries everything Server needs beyond the live clients.
type Config struct {
	ClerkWebhookSecret string
	GenerationCost     int
	SignupGrant        int
}

type Server struct {
	db          *sql.DB
	stripeH     *handler.StripeWebhookHandler
	clerkH      *handler.ClerkWebhookHandler
	generateH   *handler.GenerateHandler
	checkoutH   *handler.CheckoutHandler
	verifier    auth.TokenVerifier
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New builds the server. verifier may be nil when Clerk is not configured;
// protected routes then answer 401 instead of panicking.
func New(
	db *sql.DB,
	stripeClient *billing.StripeClient,
	catalog *billing.Catalog,
	generator handler.Generator,
	welcome handler.WelcomeSender,
	verifier auth.TokenVerifier,
	cfg Config,
	logger *slog.Logger,
) (*Server, error) {
	users := store.NewUserStore(db)
	subscriptions := store.NewSubscriptionStore(db)
	contents := store.NewContentStore(db)

	clerkH, err := handler.NewClerkWebhookHandler(
		cfg.ClerkWebhookSecret, users, welcome, cfg.SignupGrant,
		logger.With("component", "clerk_webhook"),
	)
	if err != nil {
		return nil, err
	}

	return &Server{
		db: db,
		stripeH: handler.NewStripeWebhookHandler(
			stripeClient, catalog, users, subscriptions,
			logger.With("component", "stripe_webhook"),
		),
		clerkH: clerkH,
		generateH: handler.NewGenerateHandler(
			generator, users, contents, cfg.GenerationCost,
			logger.With("component", "generate"),
		),
		checkoutH:   handler.NewCheckoutHandler(stripeClient, catalog),
		verifier:    verifier,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}, nil
}

// RateLimiter returns the limiter so main can run periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes: health and the two webhook receivers, which carry their
	// own signature verification.
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("POST /webhooks/stripe", s.stripeH.HandleWebhook)
	mux.HandleFunc("POST /webhooks/clerk", s.clerkH.HandleWebhook)

	// Protected API routes behind bearer token verification.
	apiMux := http.NewServeMux()
	apiMux.Handle("POST /api/generate", s.generateLimit()(http.HandlerFunc(s.generateH.Generate)))
	apiMux.HandleFunc("GET /api/points", s.generateH.Points)
	apiMux.HandleFunc("GET /api/history", s.generateH.History)
	apiMux.HandleFunc("POST /api/checkout", s.checkoutH.CreateCheckoutSession)

	requireAuth := auth.Require(s.verifier, s.logger.With("component", "auth"))
	mux.Handle("/api/", requireAuth(apiMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// generateLimit caps model calls per user on top of the points gate. Ten per
// minute is far below what the balance allows in steady state but stops
// scripted bursts.
func (s *Server) generateLimit() func(http.Handler) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.KeyByUser, 10, time.Minute)
}
