package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Harxhith/BatVault/internal/service"
)

var (
	// ErrRateLimit indicates the LLM provider refused the call for quota
	// reasons; retries wait the full backoff ceiling.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates every attempt failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError marks an error as worth (or not worth) retrying. A
// non-retryable error stops WithRetry immediately.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

// WithRetry runs operation until it succeeds, a non-retryable error comes
// back, the attempts are spent, or the context ends. Backoff grows by
// opts.Multiplier per attempt up to opts.MaxDelay; zero-valued options fall
// back to 3 attempts starting at 100ms, capped at 30s, doubling.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = withRetryDefaults(opts)

	delay := opts.InitialDelay
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		var retryableErr *RetryableError
		if errors.As(err, &retryableErr) && !retryableErr.Retryable {
			return err
		}

		if errors.Is(err, ErrRateLimit) {
			delay = opts.MaxDelay
		}

		if attempt == opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, opts.MaxAttempts, err)
		}

		slog.Warn("operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = nextDelay(delay, opts)
		}
	}

	return ErrMaxRetries
}

func withRetryDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	return opts
}

func nextDelay(current time.Duration, opts service.RetryOptions) time.Duration {
	next := time.Duration(float64(current) * opts.Multiplier)
	if next > opts.MaxDelay {
		return opts.MaxDelay
	}
	return next
}
