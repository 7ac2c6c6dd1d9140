package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultRetryDelay is the first pause used by [RetryWithBackoff].
	DefaultRetryDelay = 500 * time.Millisecond

	// MaxRetryDelay caps any single pause, including server-requested ones.
	MaxRetryDelay = 30 * time.Second
)

// RetryableError marks a transient failure. After, when positive, is the
// minimum pause the server asked for before the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// RetryAfter marks err as transient with a server-requested pause.
// An err that is already retryable keeps its cause and gets the new pause.
func RetryAfter(err error, after time.Duration) error {
	if err == nil {
		return nil
	}
	var re *RetryableError
	if errors.As(err, &re) {
		err = re.Err
	}
	return &RetryableError{Err: err, After: after}
}

// IsRetryable reports whether err is marked transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// ParseRetryAfter reads a Retry-After header value, either delta-seconds or
// an HTTP date. It returns 0 for empty, malformed or past values.
func ParseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}

// Retry calls fn until it succeeds, returns a non-retryable error, or
// attempts calls have been made. Pauses start at delay and double; a
// [RetryableError.After] longer than the current pause replaces it. Every
// pause is capped at [MaxRetryDelay].
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || attempt == attempts {
			return err
		}

		pause := min(max(delay, re.After), MaxRetryDelay)
		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// RetryWithBackoff is [Retry] starting at [DefaultRetryDelay].
func RetryWithBackoff(ctx context.Context, attempts int, fn func() error) error {
	return Retry(ctx, attempts, DefaultRetryDelay, fn)
}
