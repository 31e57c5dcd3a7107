package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWaitReadyImmediateSuccess(t *testing.T) {
	calls := 0
	err := WaitReady(context.Background(), time.Hour, time.Hour, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	if calls != 1 {
		t.Errorf("probe ran %d times, want 1", calls)
	}
}

func TestWaitReadyRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := WaitReady(context.Background(), 5*time.Millisecond, time.Second, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("still starting")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	if calls != 3 {
		t.Errorf("probe ran %d times, want 3", calls)
	}
}

func TestWaitReadyTimeoutWrapsLastError(t *testing.T) {
	probeErr := errors.New("connection refused")
	err := WaitReady(context.Background(), 5*time.Millisecond, 30*time.Millisecond, func(context.Context) error {
		return probeErr
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, probeErr) {
		t.Errorf("err %v does not wrap the probe error", err)
	}
	if !strings.Contains(err.Error(), "not ready after") {
		t.Errorf("err %v does not report the timeout", err)
	}
}

func TestWaitReadyContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := WaitReady(ctx, 5*time.Millisecond, time.Hour, func(context.Context) error {
		return errors.New("never ready")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
