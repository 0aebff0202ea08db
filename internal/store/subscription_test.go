package store

import (
	"testing"
	"time"
)

func TestSubscriptionUpsertInsert(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)
	s := NewSubscriptionStore(db)

	u, _ := users.Create("user_abc", "alice@example.com", "Alice", 50)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	sub, err := s.Upsert(u.ID, "sub_123", "Basic", "active", start, end)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if sub.Plan != "Basic" || sub.Status != "active" {
		t.Errorf("plan/status = %q/%q, want Basic/active", sub.Plan, sub.Status)
	}
	if sub.CurrentPeriodEnd == nil || !sub.CurrentPeriodEnd.Equal(end) {
		t.Errorf("current_period_end = %v, want %v", sub.CurrentPeriodEnd, end)
	}
}

func TestSubscriptionUpsertUpdate(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)
	s := NewSubscriptionStore(db)

	u, _ := users.Create("user_abc", "alice@example.com", "Alice", 50)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := s.Upsert(u.ID, "sub_123", "Basic", "active", start, start.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	newEnd := start.AddDate(0, 2, 0)
	second, err := s.Upsert(u.ID, "sub_123", "Pro", "active", start, newEnd)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second upsert created a new row: id %d != %d", second.ID, first.ID)
	}
	if second.Plan != "Pro" {
		t.Errorf("plan = %q, want Pro", second.Plan)
	}
	if second.CurrentPeriodEnd == nil || !second.CurrentPeriodEnd.Equal(newEnd) {
		t.Errorf("current_period_end = %v, want %v", second.CurrentPeriodEnd, newEnd)
	}
}

func TestSubscriptionGetByStripeIDNotFound(t *testing.T) {
	s := NewSubscriptionStore(setupTestDB(t))

	sub, err := s.GetByStripeID("sub_missing")
	if err != nil {
		t.Fatalf("get by stripe id: %v", err)
	}
	if sub != nil {
		t.Error("expected nil for nonexistent subscription")
	}
}

func TestSubscriptionGetByUserID(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)
	s := NewSubscriptionStore(db)

	u, _ := users.Create("user_abc", "alice@example.com", "Alice", 50)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Upsert(u.ID, "sub_1", "Basic", "active", start, start.AddDate(0, 1, 0))
	s.Upsert(u.ID, "sub_2", "Pro", "active", start, start.AddDate(0, 1, 0))

	sub, err := s.GetByUserID(u.ID)
	if err != nil {
		t.Fatalf("get by user id: %v", err)
	}
	if sub == nil {
		t.Fatal("expected subscription, got nil")
	}
	if sub.StripeSubscriptionID != "sub_2" {
		t.Errorf("stripe_subscription_id = %q, want most recent sub_2", sub.StripeSubscriptionID)
	}
}
