// Package retry provides a fixed-interval retry policy for calls to flaky upstream services.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultAttempts is the total number of tries, including the first one.
	DefaultAttempts = 5
	// DefaultInterval is the constant pause between two tries.
	DefaultInterval = 2 * time.Second
)

// Policy retries an operation at a constant interval, without jitter or growth,
// as long as Retryable accepts the returned error.
type Policy struct {
	Attempts  int
	Interval  time.Duration
	Retryable func(error) bool
	// Notify, when set, is called before each wait with the failed attempt number (1-based).
	Notify func(err error, attempt int, wait time.Duration)
}

// Default returns the 5 attempts / 2 seconds policy for the given error class.
func Default(retryable func(error) bool) Policy {
	return Policy{
		Attempts:  DefaultAttempts,
		Interval:  DefaultInterval,
		Retryable: retryable,
	}
}

// Do runs op until it succeeds, fails with a non-retryable error, or the attempts are exhausted.
// Non-retryable errors are returned unmodified. After the last attempt the final error is returned.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(p.Interval)
	b = backoff.WithMaxRetries(b, uint64(attempts-1))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	operation := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		if p.Notify != nil {
			p.Notify(err, attempt, wait)
		}
	}
	return backoff.RetryNotify(operation, b, notify)
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	var v T
	err := p.Do(ctx, func() error {
		var err error
		v, err = op()
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
