package llm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Retrier handles retry logic for LLM operations
type Retrier struct {
	config RetryConfig
	rand   *rand.Rand
}

// NewRetrier creates a new retrier with the given configuration
func NewRetrier(config RetryConfig) *Retrier {
	return &Retrier{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RetryOperation represents an operation that can be retried
type RetryOperation[T any] func(ctx context.Context, attempt int) (T, error)

// Execute executes an operation with retry logic. Only errors classified as
// retryable by the LLM error taxonomy are retried; everything else fails fast.
func Execute[T any](r *Retrier, ctx context.Context, operation RetryOperation[T]) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := operation(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !r.shouldRetry(err, attempt) {
			if attempt >= r.config.MaxRetries {
				return zero, fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxRetries+1, err)
			}
			return zero, err
		}

		delay := r.calculateDelay(attempt, err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

func (r *Retrier) shouldRetry(err error, attempt int) bool {
	if attempt >= r.config.MaxRetries {
		return false
	}
	return IsRetryableError(err)
}

// calculateDelay returns the wait before the next attempt: the provider's
// retry-after when given, otherwise exponential backoff with jitter.
func (r *Retrier) calculateDelay(attempt int, err error) time.Duration {
	if llmErr, ok := IsLLMError(err); ok && llmErr.RetryAfter > 0 {
		return time.Duration(llmErr.RetryAfter) * time.Second
	}

	base := float64(r.config.InitialDelay)
	delay := base * math.Pow(r.config.BackoffFactor, float64(attempt))

	// Jitter of +/-25%
	jitter := 0.25 * delay * (r.rand.Float64()*2 - 1)
	delay += jitter

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	if delay < float64(r.config.InitialDelay) {
		delay = float64(r.config.InitialDelay)
	}

	return time.Duration(delay)
}
