package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func testPolicy(retryable func(error) bool) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Retryable:   retryable,
	}
}

func TestDoSucceedsAfterRetry(t *testing.T) {
	p := testPolicy(func(error) bool { return true })

	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	p := testPolicy(func(err error) bool { return errors.Is(err, errTransient) })

	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("Do() = %v, want wrapped fatal", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	p := testPolicy(func(error) bool { return true })

	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		return errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("Do() = %v, want wrapped transient", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoHonorsContextCancel(t *testing.T) {
	p := RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Minute,
		MaxDelay:    time.Minute,
		Retryable:   func(error) bool { return true },
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := p.Do(ctx, "op", func() error {
		calls++
		return errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
