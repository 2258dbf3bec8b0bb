package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/ymport/internal/shared"
)

func newTestRetrier(maxAttempts int) (*Retrier, *[]time.Duration) {
	slept := []time.Duration{}
	r := NewRetrier(maxAttempts, time.Second)
	r.sleep = func(d time.Duration) {
		slept = append(slept, d)
	}
	return r, &slept
}

func TestRetrierDo(t *testing.T) {
	conflict := fmt.Errorf("%w: add refused", shared.ErrConflict)

	t.Run("returns immediately on success", func(t *testing.T) {
		r, slept := newTestRetrier(3)
		calls := 0
		err := r.Do(context.Background(), func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
		if len(*slept) != 0 {
			t.Errorf("expected no sleeps, got %d", len(*slept))
		}
	})

	t.Run("does not retry non-conflict errors", func(t *testing.T) {
		r, slept := newTestRetrier(3)
		permErr := fmt.Errorf("%w: forbidden", shared.ErrPermissionDenied)
		calls := 0
		err := r.Do(context.Background(), func() error {
			calls++
			return permErr
		})
		if !errors.Is(err, shared.ErrPermissionDenied) {
			t.Fatalf("expected permission error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
		if len(*slept) != 0 {
			t.Errorf("expected no sleeps, got %d", len(*slept))
		}
	})

	t.Run("succeeds after transient conflicts", func(t *testing.T) {
		r, slept := newTestRetrier(4)
		calls := 0
		err := r.Do(context.Background(), func() error {
			calls++
			if calls <= 2 {
				return conflict
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
		want := []time.Duration{time.Second, 2 * time.Second}
		if len(*slept) != len(want) {
			t.Fatalf("expected %d sleeps, got %d", len(want), len(*slept))
		}
		for i, d := range want {
			if (*slept)[i] != d {
				t.Errorf("sleep %d: expected %v, got %v", i, d, (*slept)[i])
			}
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		r, slept := newTestRetrier(3)
		calls := 0
		err := r.Do(context.Background(), func() error {
			calls++
			return conflict
		})
		if !errors.Is(err, shared.ErrConflict) {
			t.Fatalf("expected conflict error, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected exactly 3 calls, got %d", calls)
		}
		// No sleep after the final attempt.
		if len(*slept) != 2 {
			t.Errorf("expected 2 sleeps, got %d", len(*slept))
		}
	})

	t.Run("backoff doubles each retry", func(t *testing.T) {
		r, slept := newTestRetrier(5)
		_ = r.Do(context.Background(), func() error { return conflict })
		want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
		if len(*slept) != len(want) {
			t.Fatalf("expected %d sleeps, got %d", len(want), len(*slept))
		}
		for i, d := range want {
			if (*slept)[i] != d {
				t.Errorf("sleep %d: expected %v, got %v", i, d, (*slept)[i])
			}
		}
	})

	t.Run("clamps max attempts to one", func(t *testing.T) {
		r, _ := newTestRetrier(0)
		calls := 0
		err := r.Do(context.Background(), func() error {
			calls++
			return conflict
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		r, _ := newTestRetrier(3)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := r.Do(ctx, func() error {
			calls++
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if calls != 0 {
			t.Errorf("expected no calls, got %d", calls)
		}
	})

	t.Run("stops retrying after cancellation mid-run", func(t *testing.T) {
		r, _ := newTestRetrier(5)
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := r.Do(ctx, func() error {
			calls++
			cancel()
			return conflict
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})
}
