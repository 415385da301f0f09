package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a Redis or MongoDB backend.
var ErrNetwork = errors.New("cache backend unreachable")

// Backoff is the retry policy used while connecting to network backends.
type Backoff struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// Delay is the first pause. It doubles after every failed attempt.
	Delay time.Duration
}

// DefaultBackoff is the policy of [RetryWithBackoff].
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// Do calls fn until it succeeds, fails with an error not marked with
// [Retryable], or runs out of attempts. The last error is returned.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// RetryWithBackoff runs fn under [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
