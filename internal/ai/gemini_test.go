package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotReq struct {
		Contents []struct {
			Parts []Part `json:"parts"`
		} `json:"contents"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{
					{"text": "Hello "},
					{"text": "world"},
				}}},
			},
		})
	})

	text, err := client.GenerateContent(context.Background(), []Part{
		{Text: "say hello"},
		{InlineData: &InlineData{MIMEType: "image/png", Data: "aGVsbG8="}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, "/models/gemini-test:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 2)
	assert.Equal(t, "say hello", gotReq.Contents[0].Parts[0].Text)
	require.NotNil(t, gotReq.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", gotReq.Contents[0].Parts[1].InlineData.MIMEType)
}

func TestGenerateContentAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    429,
				"message": "Resource has been exhausted",
				"status":  "RESOURCE_EXHAUSTED",
			},
		})
	})

	_, err := client.GenerateContent(context.Background(), []Part{{Text: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resource has been exhausted")
	assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED")
}

func TestGenerateContentNoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})

	_, err := client.GenerateContent(context.Background(), []Part{{Text: "hi"}})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
