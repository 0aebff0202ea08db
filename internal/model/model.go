package model

import "time"

// User is keyed by the Clerk user id for webhook and API lookups, and by
// email as the reconciliation fallback.
type User struct {
	ID          int64     `json:"id"`
	ClerkUserID string    `json:"clerk_user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Subscription mirrors one Stripe subscription. Rows are upserted by
// StripeSubscriptionID and never deleted.
type Subscription struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	StripeSubscriptionID string     `json:"stripe_subscription_id"`
	Plan                 string     `json:"plan"`
	Status               string     `json:"status"`
	CurrentPeriodStart   *time.Time `json:"current_period_start"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// GeneratedContent is one append-only history entry per generation.
type GeneratedContent struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Content     string    `json:"content"`
	Prompt      string    `json:"prompt"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
