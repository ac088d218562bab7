package alpaca

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yarno/alpacabot/internal/domain"
)

// RetryPolicy controls how upstream calls are retried: a bounded number of
// attempts with a fixed delay in between (no backoff, no jitter), plus a
// classifier deciding which errors are worth retrying at all.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// DefaultRetryPolicy mirrors the historical behaviour: five attempts, five
// seconds apart, retrying transport errors and 5xx responses.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Delay:       5 * time.Second,
		Retryable:   IsTransient,
	}
}

// permanentError marks an upstream failure that retrying cannot fix, such as
// a 4xx API rejection.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so IsTransient reports false for it.
func Permanent(err error) error {
	return &permanentError{err: err}
}

// IsTransient reports whether err may succeed on retry. Everything is
// considered transient unless explicitly marked permanent.
func IsTransient(err error) bool {
	var pe *permanentError
	return !errors.As(err, &pe)
}

// Do runs op up to MaxAttempts times, sleeping Delay between attempts. A
// non-retryable error aborts immediately. When all attempts fail, the last
// error is escalated wrapped in domain.ErrUpstreamRequest.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", domain.ErrUpstreamRequest, attempts, lastErr)
}
