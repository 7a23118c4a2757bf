// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package xsync implements some extra synchronization tools.
package xsync

import (
	"context"
	"slices"
	"sync"
)

// Semaphore limits the number of simultaneous acquisitions, and it can be resized while in use.
//
// Waiting acquisitions are served in FIFO order, also across resizes, and they can be abandoned by
// cancelling their context.
type Semaphore struct {
	mu                sync.Mutex
	capacity, current int
	waiters           []chan struct{}
}

// NewSemaphore returns a Semaphore that allows at most capacity simultaneous acquisitions.
// If capacity <= 0, there is no limit on acquisitions.
func NewSemaphore(capacity int) *Semaphore {
	return &Semaphore{capacity: capacity}
}

// lockedAvailable returns whether one more acquisition fits. It must be called with mu locked.
func (s *Semaphore) lockedAvailable() bool {
	return s.capacity <= 0 || s.current < s.capacity
}

// lockedGrant hands the available capacity to the waiters, in order. It must be called with mu locked.
func (s *Semaphore) lockedGrant() {
	for len(s.waiters) > 0 && s.lockedAvailable() {
		s.current++
		close(s.waiters[0])
		s.waiters = s.waiters[1:]
	}
}

// Acquire blocks until the semaphore has capacity. It must be matched by exactly one call to
// Semaphore.Release.
func (s *Semaphore) Acquire() {
	_ = s.AcquireContext(context.Background())
}

// AcquireContext is like Acquire, but it fails with the context error if ctx is done before or while
// waiting. On error nothing was acquired, and Release must not be called.
func (s *Semaphore) AcquireContext(ctx context.Context) error {
	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	if len(s.waiters) == 0 && s.lockedAvailable() {
		s.current++
		s.mu.Unlock()
		return nil
	}
	granted := make(chan struct{})
	s.waiters = append(s.waiters, granted)
	s.mu.Unlock()

	select {
	case <-granted:
		if ctx.Err() == nil {
			return nil
		}
	case <-ctx.Done():
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-granted:
		// Granted after the cancellation: pass it on.
		s.current--
		s.lockedGrant()
	default:
		s.waiters = slices.DeleteFunc(s.waiters, func(c chan struct{}) bool { return c == granted })
	}
	return ctx.Err()
}

// TryAcquire acquires the semaphore only if it can be done without waiting.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.waiters) > 0 || !s.lockedAvailable() {
		return false
	}
	s.current++
	return true
}

// Release an acquisition.
func (s *Semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current <= 0 {
		panic("xsync.Semaphore.Release called without a matching Acquire")
	}
	s.current--
	s.lockedGrant()
}

// InUse returns the number of current acquisitions.
func (s *Semaphore) InUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Waiting returns the number of blocked acquisitions.
func (s *Semaphore) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiters)
}

// Resize the capacity of the Semaphore: 0 or less for no limit.
//
// Growing it may immediately grant pending acquisitions. Shrinking it doesn't affect current acquisitions,
// it only delays the following ones.
func (s *Semaphore) Resize(newCapacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capacity = newCapacity
	s.lockedGrant()
}
