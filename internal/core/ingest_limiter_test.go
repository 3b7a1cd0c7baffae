package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestIngestLimiter_AcquireRelease(t *testing.T) {
	limiter := NewIngestLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Available(); got != 2 {
		t.Fatalf("initial Available = %d, want 2", got)
	}

	for i := 0; i < 2; i++ {
		if err := limiter.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
	}
	if got := limiter.Active(); got != 2 {
		t.Errorf("Active = %d, want 2", got)
	}
	if got := limiter.Available(); got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	limiter.Release()
	limiter.Release()

	if got := limiter.Active(); got != 0 {
		t.Errorf("Active after release = %d, want 0", got)
	}
}

func TestIngestLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewIngestLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(ctx)
	if !errors.Is(err, ErrTooManyIngests) {
		t.Fatalf("err = %v, want ErrTooManyIngests", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("returned after %v, before the wait time", elapsed)
	}
}

func TestIngestLimiter_ContextCancellation(t *testing.T) {
	limiter := NewIngestLimiter(1, 5*time.Second)

	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- limiter.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancel")
	}
}

func TestIngestLimiter_NeverExceedsMax(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewIngestLimiter(maxConcurrent, time.Second)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		highest int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer limiter.Release()

			mu.Lock()
			highest = max(highest, limiter.Active())
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if highest > maxConcurrent {
		t.Errorf("observed %d active, max %d", highest, maxConcurrent)
	}
	if got := limiter.Active(); got != 0 {
		t.Errorf("final Active = %d, want 0", got)
	}
}

func TestIngestLimiter_WaitForDrain(t *testing.T) {
	limiter := NewIngestLimiter(2, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while an ingest was active")
	case <-time.After(80 * time.Millisecond):
	}

	limiter.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after release")
	}
}

func TestIngestLimiter_WaitForDrainCancelled(t *testing.T) {
	limiter := NewIngestLimiter(1, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := limiter.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestIngestLimiter_StatusAndDefaults(t *testing.T) {
	limiter := NewIngestLimiter(0, 0)
	if got := limiter.MaxConcurrent(); got != DefaultMaxConcurrentIngests {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentIngests)
	}

	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer limiter.Release()

	want := LimiterStatus{Active: 1, Available: DefaultMaxConcurrentIngests - 1, MaxConcurrent: DefaultMaxConcurrentIngests}
	if got := limiter.Status(); got != want {
		t.Errorf("Status = %+v, want %+v", got, want)
	}
}
