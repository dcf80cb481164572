package httputil

import (
	"context"
	"errors"
	"time"
)

// Backoff is a retry policy. The wait starts at Delay and doubles after each
// failed attempt, never exceeding MaxDelay when MaxDelay is positive.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultBackoff is the locations client's policy.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 8 * time.Second}

// RetryableError marks a failed request worth repeating: a refused
// connection, a timeout, a 429 or a 5xx from the locations API.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err for [Retry]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Retry calls fn until it succeeds, fails with an error not marked by
// [Retryable], or has been called b.Attempts times (at least once). The error
// returned is fn's last one with the retry mark removed, or ctx.Err() when
// ctx ends during a wait.
func Retry(ctx context.Context, b Backoff, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		err = re.Err
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = b.next(delay)
	}
	return err
}

func (b Backoff) next(d time.Duration) time.Duration {
	d *= 2
	if b.MaxDelay > 0 && d > b.MaxDelay {
		return b.MaxDelay
	}
	return d
}
