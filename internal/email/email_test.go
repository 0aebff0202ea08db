package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfiguredClientIsNoOp(t *testing.T) {
	c := NewClient("", "", "hello@postspark.app")
	assert.False(t, c.Configured())
	assert.NoError(t, c.SendWelcome(context.Background(), "alice@example.com", "Alice"))
}

func TestSendWelcome(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"ErrorCode": 0, "Message": "OK"})
	}))
	defer srv.Close()

	c := NewClient("server-token", "account-token", "hello@postspark.app")
	require.True(t, c.Configured())
	c.PostmarkClient().BaseURL = srv.URL

	err := c.SendWelcome(context.Background(), "alice@example.com", "Alice Smith")
	require.NoError(t, err)

	assert.Equal(t, "hello@postspark.app", got["From"])
	assert.Equal(t, "alice@example.com", got["To"])
	assert.Equal(t, "Welcome to PostSpark", got["Subject"])
	assert.Contains(t, got["TextBody"], "Alice Smith")
	assert.Contains(t, got["TextBody"], "50 points")
}

func TestSendWelcomePostmarkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ErrorCode": 300, "Message": "Invalid email request"})
	}))
	defer srv.Close()

	c := NewClient("server-token", "account-token", "hello@postspark.app")
	c.PostmarkClient().BaseURL = srv.URL

	err := c.SendWelcome(context.Background(), "alice@example.com", "Alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email request")
}
