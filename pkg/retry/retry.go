// Package retry provides simple exponential backoff retry logic for
// transient failures at the document loader boundary.
//
// The package is intentionally minimal: exponential backoff with optional
// jitter, context cancellation, and an escape hatch for non-retryable
// errors. Error classification is the caller's responsibility.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	// Thread-safe random source for jitter
	randMu     sync.Mutex
	randSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Config defines retry behavior.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the delay before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration
	// Multiplier is the backoff growth factor.
	Multiplier float64
	// AddJitter randomizes each delay by ±25% to avoid thundering herds.
	AddJitter bool
}

// DefaultConfig returns the standard loader retry configuration:
// 3 attempts, 100ms-5s delay.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// None returns a configuration that performs a single attempt.
func None() Config {
	return Config{MaxAttempts: 1}
}

// NonRetryableError wraps errors that should not be retried.
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable marks an error as terminal for retry purposes.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// Do executes fn with retries per cfg. It returns nil on the first
// success, the unwrapped error for non-retryable failures, and the last
// error when attempts are exhausted. Context cancellation stops retrying
// immediately, including during backoff delays.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes fn with retries per cfg, returning its result.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		var nonRetryable *NonRetryableError
		if errors.As(err, &nonRetryable) {
			return zero, nonRetryable.Err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-time.After(cfg.delay(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}

// delay computes the backoff delay for the given zero-based attempt.
func (cfg Config) delay(attempt int) time.Duration {
	d := cfg.InitialDelay
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && d > cfg.MaxDelay {
			d = cfg.MaxDelay
			break
		}
	}
	if cfg.AddJitter && d > 0 {
		randMu.Lock()
		factor := 0.75 + randSource.Float64()*0.5
		randMu.Unlock()
		d = time.Duration(float64(d) * factor)
	}
	return d
}
