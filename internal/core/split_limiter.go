package core

// split_limiter.go bounds how many files are decoded and re-encoded at once.
//
// A split holds the whole source table plus every encoded part in memory,
// so the limiter is the only thing keeping a burst of large uploads from
// exhausting the process. When every slot is taken, callers wait up to
// maxWait and then get ErrTooManySplits.

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTooManySplits is returned when no split slot frees up within the wait time.
var ErrTooManySplits = errors.New("too many splits in progress, please try again later")

// DefaultMaxConcurrentSplits is the slot count used when none is configured.
const DefaultMaxConcurrentSplits = 4

// DefaultMaxWaitTime is how long Acquire waits for a slot by default.
const DefaultMaxWaitTime = 30 * time.Second

// SplitLimiter is a counting semaphore with a bounded wait.
type SplitLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewSplitLimiter allows at most maxConcurrent splits at a time.
func NewSplitLimiter(maxConcurrent int, maxWait time.Duration) *SplitLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentSplits
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &SplitLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most the configured time. The returned
// release func must be called once the split finishes; extra calls are no-ops.
func (l *SplitLimiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTooManySplits
	}

	l.active.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			l.active.Add(-1)
			<-l.slots
		})
	}, nil
}

// ActiveCount returns the number of splits holding a slot.
func (l *SplitLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *SplitLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// WaitForDrain blocks until no split holds a slot or ctx is done.
// Used during shutdown.
func (l *SplitLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// LimiterStatus is a point-in-time view of the limiter.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *SplitLimiter) Status() LimiterStatus {
	active := l.ActiveCount()
	return LimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
