package core

// load_limiter.go bounds how many source loads run at once.
//
// Opening or refreshing a table can hit PostgreSQL with a full-table read.
// Loads take one unit of a weighted semaphore. When none is free a load
// waits up to maxWait and then fails with ErrTooManyLoads.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyLoads is returned when all load slots stay occupied for the
// whole wait. Clients should retry after a short delay.
var ErrTooManyLoads = errors.New("too many concurrent loads, please try again later")

const (
	// DefaultMaxConcurrentLoads is the default limit for parallel source loads.
	DefaultMaxConcurrentLoads = 4

	// DefaultMaxLoadWait is how long a load waits for a slot.
	DefaultMaxLoadWait = 15 * time.Second
)

// LoadLimiter caps concurrent source loads.
type LoadLimiter struct {
	sem     *semaphore.Weighted
	size    int64
	maxWait time.Duration
	active  atomic.Int64
}

// NewLoadLimiter allows at most maxConcurrent simultaneous loads.
// Non-positive arguments select the defaults.
func NewLoadLimiter(maxConcurrent int, maxWait time.Duration) *LoadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentLoads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxLoadWait
	}
	return &LoadLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		size:    int64(maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a load slot. It returns ErrTooManyLoads when maxWait
// passes first, or ctx's error when ctx ends first. Every nil return must
// be paired with Release.
func (l *LoadLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyLoads
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot only if one is free right now.
func (l *LoadLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release gives back a slot taken by Acquire or TryAcquire.
func (l *LoadLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// ActiveCount returns the number of loads in progress.
func (l *LoadLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *LoadLimiter) MaxConcurrent() int {
	return int(l.size)
}

// WaitForDrain blocks until every in-flight load has released its slot, or
// ctx ends. It claims the whole semaphore to do so, which also holds back
// loads that arrive while it waits; it hands the slots back on return.
func (l *LoadLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, l.size); err != nil {
		return err
	}
	l.sem.Release(l.size)
	return nil
}

// LoadLimiterStatus is a snapshot of the limiter for health output.
type LoadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *LoadLimiter) Status() LoadLimiterStatus {
	active := l.ActiveCount()
	return LoadLimiterStatus{
		Active:        active,
		Available:     int(l.size) - active,
		MaxConcurrent: int(l.size),
	}
}
