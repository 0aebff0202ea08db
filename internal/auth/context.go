package auth

import "context"

type ctxKey int

const claimsKey ctxKey = iota

// Claims are the verified Clerk session token details the API needs.
// Subject is the Clerk user id.
type Claims struct {
	Subject string
	Issuer  string
	Raw     map[string]any
}

// WithClaims stores claims in a context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns claims from a context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}
