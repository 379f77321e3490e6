package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared by cache backends and remote sources.
var (
	// ErrNetwork marks transient backend failures (timeouts, refused connections).
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is returned by [Load] when the key is absent.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryDelay is the first backoff delay of RetryWithBackoff.
var RetryDelay = time.Second

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff retries fn up to 3 times with exponential backoff starting
// at RetryDelay. Only errors wrapped with Retryable trigger retries.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := RetryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
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

// Load reads key and decodes it with decode. It returns ErrCacheMiss when the
// key is absent; a value that fails to decode is deleted and reported as a miss.
func Load(ctx context.Context, c Cache, key string, decode func([]byte) error) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if !ok {
		return ErrCacheMiss
	}
	if err := decode(data); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}
