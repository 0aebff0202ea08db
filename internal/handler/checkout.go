package handler

import (
	"encoding/json"
	"net/http"

	"github.com/postsparkhq/postspark/internal/auth"
	"github.com/postsparkhq/postspark/internal/billing"
)

// CheckoutStarter creates a Stripe Checkout session; the Stripe client
// implements it.
type CheckoutStarter interface {
	CreateCheckoutSession(clerkUserID, priceID string) (string, error)
}

type CheckoutHandler struct {
	stripe  CheckoutStarter
	catalog *billing.Catalog
}

func NewCheckoutHandler(stripe CheckoutStarter, catalog *billing.Catalog) *CheckoutHandler {
	return &CheckoutHandler{stripe: stripe, catalog: catalog}
}

// CreateCheckoutSession starts a subscription checkout for a named plan and
// returns the hosted payment URL. The authenticated Clerk user id becomes
// the session's client_reference_id, which the billing webhook uses to
// attribute the purchase.
func (h *CheckoutHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	priceID, ok := h.catalog.PriceIDForPlan(req.Plan)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown plan")
		return
	}

	url, err := h.stripe.CreateCheckoutSession(claims.Subject, priceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
