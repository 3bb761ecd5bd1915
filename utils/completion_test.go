package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req completionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat["type"])
		assert.Len(t, req.Messages, 1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"message\":\"hi\",\"actions\":[]}"}}]}`))
	}))
	defer srv.Close()

	client := NewCompletionClient(CompletionOptions{BaseURL: srv.URL + "/v1/", APIKey: "key", Model: "test-model"})
	out, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, `{"message":"hi","actions":[]}`, out)
}

func TestCompletionClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	client := NewCompletionClient(CompletionOptions{BaseURL: srv.URL, APIKey: "nope"})
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hello"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestCompletionClientOpensBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewCompletionClient(CompletionOptions{BaseURL: srv.URL, APIKey: "key"})
	for i := 0; i < 4; i++ {
		_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hello"}})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCompletionUnavailable)
	}
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hello"}})
	assert.ErrorIs(t, err, ErrCompletionUnavailable)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}
