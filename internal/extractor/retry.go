package extractor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"noilens/internal/completion"
	"noilens/internal/domain"
)

// RetryOrchestrator wraps completion calls with bounded retries, exponential
// backoff, and progressively stricter prompts.
type RetryOrchestrator struct {
	client      completion.Client
	prompts     *PromptBuilder
	maxAttempts int
	baseDelay   time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryOrchestrator returns an orchestrator making up to maxAttempts
// completion calls per document.
func NewRetryOrchestrator(client completion.Client, prompts *PromptBuilder, maxAttempts int, baseDelay time.Duration) *RetryOrchestrator {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &RetryOrchestrator{
		client:      client,
		prompts:     prompts,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       sleepCtx,
	}
}

// Extract runs the completion loop for one document's normalized text. The
// first attempt uses the standard prompt; later attempts use the intensified
// variant. Returns the parsed field map, per-field confidence, and the number
// of attempts consumed.
func (r *RetryOrchestrator) Extract(ctx context.Context, text string, docType domain.DocumentType) (map[string]interface{}, domain.ConfidenceMap, int, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		prompt := r.prompts.Build(text, docType, attempt > 1)

		raw, err := r.client.Complete(ctx, completion.Request{
			Prompt:      prompt,
			Temperature: 0.1,
			MaxTokens:   2000,
		})
		if err == nil {
			fields, confidence, perr := ParseContract(raw)
			if perr == nil {
				return fields, confidence, attempt, nil
			}
			err = perr
		}

		lastErr = err
		log.Printf("extractor: attempt %d/%d failed: %v", attempt, r.maxAttempts, err)

		if attempt == r.maxAttempts {
			break
		}
		if serr := r.sleep(ctx, r.backoff(attempt, err)); serr != nil {
			return nil, nil, attempt, serr
		}
	}
	return nil, nil, r.maxAttempts, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, lastErr)
}

// backoff doubles the delay each attempt. A rate-limited provider's own
// Retry-After wins when it asks for a longer wait.
func (r *RetryOrchestrator) backoff(attempt int, err error) time.Duration {
	delay := r.baseDelay << (attempt - 1)
	var rle *completion.RateLimitError
	if errors.As(err, &rle) && rle.RetryAfter > delay {
		delay = rle.RetryAfter
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
