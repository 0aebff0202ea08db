package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/postsparkhq/postspark/internal/store"
)

// WelcomeSender sends the first-contact email; the Postmark client
// implements it.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, toEmail, name string) error
}

type ClerkWebhookHandler struct {
	webhook     *svix.Webhook
	users       *store.UserStore
	email       WelcomeSender
	signupGrant int
	logger      *slog.Logger
}

func NewClerkWebhookHandler(
	webhookSecret string,
	users *store.UserStore,
	email WelcomeSender,
	signupGrant int,
	logger *slog.Logger,
) (*ClerkWebhookHandler, error) {
	wh, err := svix.NewWebhook(webhookSecret)
	if err != nil {
		return nil, err
	}
	return &ClerkWebhookHandler{
		webhook:     wh,
		users:       users,
		email:       email,
		signupGrant: signupGrant,
		logger:      logger,
	}, nil
}

type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// HandleWebhook syncs Clerk user events into the local users table. Only
// user.created and user.updated are handled; other types are acknowledged.
// Error responses are plain text, matching what Clerk surfaces in its
// delivery log.
func (h *ClerkWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("svix-id") == "" ||
		r.Header.Get("svix-timestamp") == "" ||
		r.Header.Get("svix-signature") == "" {
		http.Error(w, "Missing Svix headers", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.webhook.Verify(body, r.Header); err != nil {
		h.logger.Warn("clerk webhook verification failed", "error", err)
		http.Error(w, "Webhook verification failed", http.StatusBadRequest)
		return
	}

	var event clerkEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	if event.Type == "user.created" || event.Type == "user.updated" {
		if err := h.syncUser(r.Context(), event); err != nil {
			h.logger.Error("sync user failed", "clerk_user_id", event.Data.ID, "error", err)
			http.Error(w, "Error processing user data", http.StatusInternalServerError)
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Webhook processed successfully"})
}

// syncUser reconciles the event against the users table: match by Clerk id,
// fall back to email, otherwise create. The welcome email goes out the first
// time a record is created or claimed by this identity.
func (h *ClerkWebhookHandler) syncUser(ctx context.Context, event clerkEvent) error {
	email := ""
	if len(event.Data.EmailAddresses) > 0 {
		email = event.Data.EmailAddresses[0].EmailAddress
	}
	if email == "" {
		// Nothing to key the record on; acknowledged as a no-op.
		return nil
	}
	name := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)

	user, match, err := h.users.Lookup(event.Data.ID, email)
	if err != nil {
		return err
	}

	sendWelcome := false
	switch match {
	case store.MatchClerkID:
		err = h.users.UpdateProfile(user.ID, email, name)
	case store.MatchEmail:
		err = h.users.AttachClerkID(user.ID, event.Data.ID, name)
		sendWelcome = true
	case store.MatchNone:
		_, err = h.users.Create(event.Data.ID, email, name, h.signupGrant)
		sendWelcome = true
	}
	if err != nil {
		return err
	}

	if sendWelcome && h.email != nil {
		if err := h.email.SendWelcome(ctx, email, name); err != nil {
			// Mail failures never fail the webhook.
			h.logger.Warn("welcome email failed", "email", email, "error", err)
		}
	}

	h.logger.Info("user synced", "clerk_user_id", event.Data.ID, "match", match, "event", event.Type)
	return nil
}
