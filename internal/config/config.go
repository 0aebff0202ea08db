// Package config loads service configuration from the environment. A .env
// file in the working directory is applied first when present.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath   string `env:"DATABASE_PATH" envDefault:"postspark.db"`

	Stripe   StripeConfig
	Clerk    ClerkConfig
	Gemini   GeminiConfig
	Postmark PostmarkConfig

	// GenerationCost is debited from a user's balance per generation.
	GenerationCost int `env:"GENERATION_COST" envDefault:"5"`
	// SignupGrant is the balance a newly created user starts with.
	SignupGrant int `env:"SIGNUP_GRANT" envDefault:"50"`
}

type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	BasicPriceID  string `env:"STRIPE_BASIC_PRICE_ID"`
	ProPriceID    string `env:"STRIPE_PRO_PRICE_ID"`
}

type ClerkConfig struct {
	WebhookSecret string `env:"CLERK_WEBHOOK_SECRET"`
	// Issuer is the Clerk frontend API origin, e.g. https://example.clerk.accounts.dev.
	Issuer string `env:"CLERK_ISSUER"`
	// JWKSURL overrides the default <issuer>/.well-known/jwks.json.
	JWKSURL string `env:"CLERK_JWKS_URL"`
}

type GeminiConfig struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-pro"`
}

type PostmarkConfig struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	FromEmail    string `env:"POSTMARK_FROM_EMAIL"`
}

// Load reads the .env file if one exists, then parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
