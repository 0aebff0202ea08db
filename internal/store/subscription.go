package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/postsparkhq/postspark/internal/model"
)

type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.Subscription, error) {
	var sub model.Subscription
	var periodStart, periodEnd sql.NullTime
	err := scanner.Scan(
		&sub.ID, &sub.UserID, &sub.StripeSubscriptionID, &sub.Plan, &sub.Status,
		&periodStart, &periodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if periodStart.Valid {
		sub.CurrentPeriodStart = &periodStart.Time
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = &periodEnd.Time
	}
	return &sub, nil
}

const subscriptionCols = `id, user_id, stripe_subscription_id, plan, status, current_period_start, current_period_end, created_at, updated_at`

// Upsert inserts the subscription or, if a row with the same Stripe
// subscription id exists, refreshes plan, status and period bounds. A single
// statement keeps redelivered webhooks idempotent for this row.
func (s *SubscriptionStore) Upsert(userID int64, stripeSubID, plan, status string, periodStart, periodEnd time.Time) (*model.Subscription, error) {
	_, err := s.db.Exec(
		`INSERT INTO subscriptions (user_id, stripe_subscription_id, plan, status, current_period_start, current_period_end)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(stripe_subscription_id) DO UPDATE SET
		   plan = excluded.plan,
		   status = excluded.status,
		   current_period_start = excluded.current_period_start,
		   current_period_end = excluded.current_period_end,
		   updated_at = CURRENT_TIMESTAMP`,
		userID, stripeSubID, plan, status, periodStart, periodEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}
	return s.GetByStripeID(stripeSubID)
}

func (s *SubscriptionStore) GetByStripeID(stripeSubID string) (*model.Subscription, error) {
	row := s.db.QueryRow(
		`SELECT `+subscriptionCols+` FROM subscriptions WHERE stripe_subscription_id = ?`,
		stripeSubID,
	)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription by stripe id: %w", err)
	}
	return sub, nil
}

func (s *SubscriptionStore) GetByUserID(userID int64) (*model.Subscription, error) {
	row := s.db.QueryRow(
		`SELECT `+subscriptionCols+` FROM subscriptions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID,
	)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription by user: %w", err)
	}
	return sub, nil
}
