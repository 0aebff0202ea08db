package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *Claims
	err    error
}

func (s *stubVerifier) Verify(string) (*Claims, error) {
	return s.claims, s.err
}

func protected(v TokenVerifier) (http.Handler, *Claims) {
	var seen Claims
	h := Require(v, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			seen = *claims
		}
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestRequireValidToken(t *testing.T) {
	h, seen := protected(&stubVerifier{claims: &Claims{Subject: "user_abc"}})

	req := httptest.NewRequest("GET", "/api/points", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_abc", seen.Subject)
}

func TestRequireMissingHeader(t *testing.T) {
	h, _ := protected(&stubVerifier{claims: &Claims{Subject: "user_abc"}})

	req := httptest.NewRequest("GET", "/api/points", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())
}

func TestRequireMalformedHeader(t *testing.T) {
	h, _ := protected(&stubVerifier{claims: &Claims{Subject: "user_abc"}})

	for _, header := range []string{"some-token", "Basic abc", "Bearer "} {
		req := httptest.NewRequest("GET", "/api/points", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRequireInvalidToken(t *testing.T) {
	h, _ := protected(&stubVerifier{err: errors.New("expired")})

	req := httptest.NewRequest("GET", "/api/points", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireNilVerifier(t *testing.T) {
	h, _ := protected(nil)

	req := httptest.NewRequest("GET", "/api/points", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
