package store

import (
	"context"
	"errors"
	"time"
)

// retryableError marks a failure worth another attempt.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// retry runs fn up to attempts times, doubling delay after each failure.
// Only errors wrapped with retryable are retried.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*retryableError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// connectAttempts and connectDelay bound the startup ping of network backends.
var (
	connectAttempts = 3
	connectDelay    = 500 * time.Millisecond
)

// ping checks a freshly opened backend, retrying transient failures.
func ping(ctx context.Context, fn func(context.Context) error) error {
	return retry(ctx, connectAttempts, connectDelay, func() error {
		return retryable(fn(ctx))
	})
}
