package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by cache backends and the asset fetch path.
var (
	// ErrNotFound marks a reference that does not exist upstream (a 404
	// from an asset URL). It is never worth retrying.
	ErrNotFound = errors.New("not found")

	// ErrNetwork marks transient transport failures: timeouts, connection
	// resets, 5xx responses from an asset host.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is returned by helpers that treat a miss as an error.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks an error as transient so RetryWithBackoff will
// try the operation again.
type RetryableError struct{ Err error }

// Retryable wraps err as retryable. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap exposes the wrapped error to errors.Is/As.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere in
// its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to 3 times, doubling the delay between
// attempts starting at one second. Only retryable errors are retried;
// anything else returns immediately. Waiting respects ctx cancellation.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3

	var lastErr error
	delay := time.Second
	for i := 0; i < attempts; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
