package core

// ingest_limiter.go bounds how many documents are decoded at once. Decoding
// holds the whole file and the decoded grid in memory, so parallel ingests
// are capped and excess callers wait up to maxWait for a slot.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyIngests is returned when no ingest slot frees up within the
// wait time. Callers should retry after a short delay.
var ErrTooManyIngests = errors.New("too many concurrent ingests, please try again later")

// Limiter defaults.
const (
	DefaultMaxConcurrentIngests = 5
	DefaultMaxIngestWait        = 30 * time.Second
)

// drainPollInterval is how often WaitForDrain checks for idle.
const drainPollInterval = 50 * time.Millisecond

// IngestLimiter is a counting semaphore over ingest slots.
type IngestLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewIngestLimiter allows at most maxConcurrent ingests at once. Callers
// that cannot get a slot within maxWait receive ErrTooManyIngests.
// Non-positive arguments take the defaults.
func NewIngestLimiter(maxConcurrent int, maxWait time.Duration) *IngestLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentIngests
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxIngestWait
	}
	return &IngestLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire blocks until a slot is free, maxWait elapses or ctx is done.
// A successful Acquire must be paired with exactly one Release.
func (l *IngestLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyIngests
	}
}

// Release returns a slot taken by Acquire.
func (l *IngestLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Active returns the number of ingests holding a slot.
func (l *IngestLimiter) Active() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *IngestLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *IngestLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no ingest holds a slot or ctx is done. It is
// used during shutdown.
func (l *IngestLimiter) WaitForDrain(ctx context.Context) error {
	if l.Active() == 0 {
		return nil
	}
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.Active() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a snapshot of an IngestLimiter.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status reports current slot usage.
func (l *IngestLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.Active(),
		Available:     l.Available(),
		MaxConcurrent: l.MaxConcurrent(),
	}
}
