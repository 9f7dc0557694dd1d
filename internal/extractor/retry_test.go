package extractor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noilens/internal/completion"
	"noilens/internal/domain"
)

// scriptedClient returns canned responses per attempt and records prompts.
type scriptedClient struct {
	responses []func() (string, error)
	prompts   []string
}

func (s *scriptedClient) Complete(_ context.Context, req completion.Request) (string, error) {
	s.prompts = append(s.prompts, req.Prompt)
	i := len(s.prompts) - 1
	if i >= len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", i+1)
	}
	return s.responses[i]()
}

func alwaysTransportError() (string, error) {
	return "", &completion.TransportError{Provider: "test", Err: errors.New("connection refused")}
}

func newTestOrchestrator(client completion.Client) (*RetryOrchestrator, *[]time.Duration) {
	r := NewRetryOrchestrator(client, NewPromptBuilder(0), 3, time.Second)
	var delays []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return r, &delays
}

func TestRetryExhaustsAfterThreeAttempts(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		alwaysTransportError, alwaysTransportError, alwaysTransportError,
	}}
	r, delays := newTestOrchestrator(client)

	_, _, attempts, err := r.Extract(context.Background(), "text", domain.DocTypeCurrentMonthActuals)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtractionFailed))
	assert.Equal(t, 3, attempts)
	assert.Len(t, client.prompts, 3)

	// Exponential backoff: each wait strictly longer than the previous.
	require.Len(t, *delays, 2)
	assert.Equal(t, time.Second, (*delays)[0])
	assert.Equal(t, 2*time.Second, (*delays)[1])
}

func TestRetryUsesIntensifiedPromptAfterFirstFailure(t *testing.T) {
	ok := func() (string, error) {
		return `{"financial_data": {"net_operating_income": 64200}, "confidence_scores": {}}`, nil
	}
	client := &scriptedClient{responses: []func() (string, error){
		func() (string, error) { return "not json at all", nil },
		ok,
	}}
	r, _ := newTestOrchestrator(client)

	fields, _, attempts, err := r.Extract(context.Background(), "text", domain.DocTypeCurrentMonthActuals)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 64200.0, fields["net_operating_income"])

	require.Len(t, client.prompts, 2)
	assert.NotContains(t, client.prompts[0], "this is a retry")
	assert.Contains(t, client.prompts[1], "this is a retry")
}

func TestRetryStopsAtFirstSuccess(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		func() (string, error) {
			return `{"financial_data": {"gross_potential_rent": 1000}, "confidence_scores": {"gross_potential_rent": 0.9}}`, nil
		},
	}}
	r, delays := newTestOrchestrator(client)

	_, confidence, attempts, err := r.Extract(context.Background(), "text", domain.DocTypeBudget)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *delays)
	assert.Equal(t, 0.9, confidence["gross_potential_rent"])
}

func TestRetryHonorsRateLimitDelay(t *testing.T) {
	rateLimited := func() (string, error) {
		return "", completion.NewRateLimitError("test", errors.New("429"), 30)
	}
	client := &scriptedClient{responses: []func() (string, error){
		rateLimited, alwaysTransportError, alwaysTransportError,
	}}
	r, delays := newTestOrchestrator(client)

	_, _, _, err := r.Extract(context.Background(), "text", domain.DocTypeCurrentMonthActuals)
	require.Error(t, err)
	require.Len(t, *delays, 2)
	// Retry-After exceeds the exponential delay and wins.
	assert.Equal(t, 30*time.Second, (*delays)[0])
}

func TestRetryAbortsOnContextCancellation(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		alwaysTransportError, alwaysTransportError, alwaysTransportError,
	}}
	r := NewRetryOrchestrator(client, NewPromptBuilder(0), 3, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := r.Extract(ctx, "text", domain.DocTypeCurrentMonthActuals)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, client.prompts, 1)
}
