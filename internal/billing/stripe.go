// Package billing wraps the Stripe SDK and maps price ids to plans.
package billing

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	checksession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type StripeClient struct {
	cfg StripeConfig
}

func NewStripeClient(cfg StripeConfig) *StripeClient {
	stripe.Key = cfg.SecretKey
	return &StripeClient{cfg: cfg}
}

// ConstructWebhookEvent verifies the signature header and returns the parsed
// event. API version drift between Stripe and the SDK is tolerated; the
// handler only touches stable fields.
func (c *StripeClient) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, c.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// GetSubscription retrieves the full subscription from Stripe. Checkout
// events only carry the subscription id, so the price and period bounds need
// this second call.
func (c *StripeClient) GetSubscription(id string) (*stripe.Subscription, error) {
	sub, err := subscription.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve subscription %s: %w", id, err)
	}
	return sub, nil
}

// CreateCheckoutSession starts a subscription checkout for the given price.
// The Clerk user id rides along as client_reference_id so the webhook can
// attribute the purchase.
func (c *StripeClient) CreateCheckoutSession(clerkUserID, priceID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		ClientReferenceID: stripe.String(clerkUserID),
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.cfg.SuccessURL),
		CancelURL:  stripe.String(c.cfg.CancelURL),
	}
	sess, err := checksession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}
