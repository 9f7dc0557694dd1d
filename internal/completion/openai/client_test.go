package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noilens/internal/completion"
	"noilens/internal/config"
)

func testConfig() *config.CompletionConfig {
	return &config.CompletionConfig{
		APIKey:      "test-key",
		Model:       "gpt-4",
		TimeoutSecs: 5,
	}
}

func chatResponse(content, finishReason string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": finishReason,
			},
		},
	})
	return string(body)
}

func TestCompleteSuccess(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatResponse(`{"financial_data": {}}`, "stop")))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	out, err := client.Complete(context.Background(), completion.Request{
		Prompt:      "Extract the metrics",
		Temperature: 0.1,
		MaxTokens:   2000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"financial_data": {}}`, out)

	assert.Equal(t, "gpt-4", captured["model"])
	assert.InDelta(t, 0.1, captured["temperature"], 0.001)
	assert.EqualValues(t, 2000, captured["max_tokens"])
	messages, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]interface{})
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "Extract the metrics", msg["content"])
}

func TestCompleteRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Complete(context.Background(), completion.Request{Prompt: "hi"})
	require.Error(t, err)

	var rateErr *completion.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "openai", rateErr.Provider)
	assert.Equal(t, 30*time.Second, rateErr.RetryAfter)
	assert.True(t, completion.IsTransport(err))
}

func TestCompleteRateLimitedWithoutHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Complete(context.Background(), completion.Request{Prompt: "hi"})

	var rateErr *completion.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 60*time.Second, rateErr.RetryAfter)
}

func TestCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Complete(context.Background(), completion.Request{Prompt: "hi"})
	require.Error(t, err)

	var transportErr *completion.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	assert.True(t, completion.IsTransport(err))
}

func TestCompleteClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Complete(context.Background(), completion.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.False(t, completion.IsTransport(err))
	assert.Contains(t, err.Error(), "status 401")
}

func TestCompleteConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Complete(context.Background(), completion.Request{Prompt: "hi"})
	require.Error(t, err)

	var transportErr *completion.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestCompleteTruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse(`{"financial_data"`, "length")))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Complete(context.Background(), completion.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finish_reason: length")
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Complete(context.Background(), completion.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestCompleteContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClientWithEndpoint(testConfig(), server.URL)
	_, err := client.Complete(ctx, completion.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(&config.CompletionConfig{APIKey: "k"})
	assert.Equal(t, "gpt-4", client.model)
	assert.Equal(t, apiURL, client.endpoint)
	assert.Equal(t, 120*time.Second, client.client.Timeout)
}
