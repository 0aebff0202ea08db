package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Require enforces bearer-token auth and injects claims into the request
// context. A nil verifier rejects everything, so the API stays closed when
// Clerk is not configured.
func Require(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				respondUnauthorized(w, "auth not configured")
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				respondUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("token rejected", "path", r.URL.Path, "error", err)
				respondUnauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
