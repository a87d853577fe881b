package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSplitLimiter_AcquireRelease(t *testing.T) {
	limiter := NewSplitLimiter(2, time.Second)
	ctx := context.Background()

	release1, err := limiter.Acquire(ctx)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	release2, err := limiter.Acquire(ctx)
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
	if got := limiter.Status().Available; got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	release1()
	release1() // second call must not free another slot

	if got := limiter.ActiveCount(); got != 1 {
		t.Errorf("after release, ActiveCount = %d, want 1", got)
	}

	release2()
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after all released, ActiveCount = %d, want 0", got)
	}
}

func TestSplitLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewSplitLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	release, err := limiter.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer release()

	start := time.Now()
	_, err = limiter.Acquire(ctx)
	if !errors.Is(err, ErrTooManySplits) {
		t.Errorf("expected ErrTooManySplits, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("gave up too early: %v", elapsed)
	}
}

func TestSplitLimiter_ContextCancellation(t *testing.T) {
	limiter := NewSplitLimiter(1, 5*time.Second)

	release, err := limiter.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := limiter.Acquire(ctx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Acquire did not return after context cancellation")
	}
}

func TestSplitLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewSplitLimiter(maxConcurrent, time.Second)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		maxObserved int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := limiter.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer release()

			mu.Lock()
			maxObserved = max(maxObserved, limiter.ActiveCount())
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if maxObserved > maxConcurrent {
		t.Errorf("observed %d concurrent splits, max %d", maxObserved, maxConcurrent)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestSplitLimiter_WaitForDrain(t *testing.T) {
	limiter := NewSplitLimiter(2, time.Second)
	release, _ := limiter.Acquire(context.Background())

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while a split was active")
	case <-time.After(80 * time.Millisecond):
	}

	release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain error = %v", err)
		}
	case <-time.After(time.Second):
		t.Error("WaitForDrain did not return after release")
	}
}

func TestSplitLimiter_Defaults(t *testing.T) {
	limiter := NewSplitLimiter(0, 0)
	if got := limiter.MaxConcurrent(); got != DefaultMaxConcurrentSplits {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentSplits)
	}
}
