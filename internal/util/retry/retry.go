package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type settings struct {
	attempts   int
	delay      time.Duration
	maxDelay   time.Duration
	multiplier float64
}

// Option adjusts the retry behavior.
type Option func(*settings)

// Do runs op until it succeeds, the attempt budget is spent, or the
// context is canceled. Delays between attempts grow exponentially up to
// the configured cap. Errors wrapped with Permanent are never retried.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	s := settings{
		attempts:   5,
		delay:      time.Second,
		maxDelay:   30 * time.Second,
		multiplier: 2.0,
	}
	for _, opt := range opts {
		opt(&s)
	}

	delay := s.delay
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			return fmt.Errorf("not retryable: %w", err)
		}

		if attempt < s.attempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("canceled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * s.multiplier)
				if delay > s.maxDelay {
					delay = s.maxDelay
				}
			}
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", s.attempts, lastErr)
}

// Attempts sets the total number of attempts, including the first.
func Attempts(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// Delay sets the delay before the first retry.
func Delay(d time.Duration) Option {
	return func(s *settings) { s.delay = d }
}

// MaxDelay caps the delay between retries.
func MaxDelay(d time.Duration) Option {
	return func(s *settings) { s.maxDelay = d }
}

// Multiplier sets the backoff growth factor.
func Multiplier(m float64) Option {
	return func(s *settings) {
		if m >= 1 {
			s.multiplier = m
		}
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as not retryable. Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err carries the Permanent marker.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
