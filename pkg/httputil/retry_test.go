package httputil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetryableMarks(t *testing.T) {
	if Retryable(nil) != nil || RetryAfter(nil, time.Second) != nil {
		t.Error("nil errors must stay nil")
	}
	if IsRetryable(errTransient) {
		t.Error("plain errors are not retryable")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) || !errors.Is(err, errTransient) {
		t.Errorf("Retryable(%v) should be retryable and unwrap to its cause", errTransient)
	}
	if err.Error() != "transient" {
		t.Errorf("Error() = %q", err.Error())
	}

	again := RetryAfter(err, 2*time.Second)
	var re *RetryableError
	if !errors.As(again, &re) {
		t.Fatal("RetryAfter should produce a RetryableError")
	}
	if re.After != 2*time.Second {
		t.Errorf("After = %v", re.After)
	}
	if re.Err != errTransient {
		t.Errorf("RetryAfter should not nest retryable errors, got cause %v", re.Err)
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		attempts  int
		results   []error
		wantCalls int
		wantErr   error
	}{
		{"first try", 3, []error{nil}, 1, nil},
		{"recovers", 3, []error{Retryable(errTransient), Retryable(errTransient), nil}, 3, nil},
		{"gives up", 2, []error{Retryable(errTransient), Retryable(errTransient), nil}, 2, errTransient},
		{"permanent stops", 3, []error{permanent, nil}, 1, permanent},
		{"single attempt", 1, []error{Retryable(errTransient), nil}, 1, errTransient},
		{"zero means one", 0, []error{Retryable(errTransient), nil}, 1, errTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				err := tt.results[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("Retry() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Retry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryHonoursAfter(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		if calls == 1 {
			return RetryAfter(errTransient, 50*time.Millisecond)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Retry paused %v, want at least the requested 50ms", elapsed)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 3, time.Hour, func() error {
		calls++
		cancel()
		return Retryable(errTransient)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"7", 7 * time.Second},
		{" 2 ", 2 * time.Second},
		{"-3", 0},
		{now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := ParseRetryAfter(tt.in, now); got != tt.want {
			t.Errorf("ParseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
