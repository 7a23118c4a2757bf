// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool implements a soft-limited pool of goroutines, used to process the partitions of a
// distributed-dataset buffer in parallel.
package workerspool

import (
	"runtime"
	"sync"

	"github.com/gomlx/matinst/types/xsync"
)

// Pool limits the number of goroutines running partition tasks.
type Pool struct {
	mu             sync.Mutex
	maxParallelism int
	slots          *xsync.Semaphore
}

// New returns a new Pool of workers with the default parallelism (runtime.NumCPU()).
func New() *Pool {
	n := runtime.NumCPU()
	return &Pool{maxParallelism: n, slots: xsync.NewSemaphore(n)}
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (w *Pool) IsEnabled() bool {
	return w.MaxParallelism() != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0)
func (w *Pool) IsUnlimited() bool {
	return w.MaxParallelism() < 0
}

// MaxParallelism is the limit of tasks running in their own goroutines.
// If 0 parallelism is disabled, and if -1 it is unlimited.
func (w *Pool) MaxParallelism() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.maxParallelism
}

// SetMaxParallelism changes the limit of parallel tasks. Tasks already running are not affected.
func (w *Pool) SetMaxParallelism(maxParallelism int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.maxParallelism = maxParallelism
	if maxParallelism < 0 {
		w.slots.Resize(0)
	} else if maxParallelism > 0 {
		w.slots.Resize(maxParallelism)
	}
}

// spawn runs task in a goroutine that holds one slot.
func (w *Pool) spawn(task func()) {
	go func() {
		defer w.slots.Release()
		task()
	}()
}

// WaitToStart waits until there is a worker available to run the task.
//
// If parallelism is disabled (maxParallelism is 0), it runs the task inline and returns when it is finished.
func (w *Pool) WaitToStart(task func()) {
	if !w.IsEnabled() {
		task()
		return
	}
	w.slots.Acquire()
	w.spawn(task)
}

// StartIfAvailable runs the task in a separate goroutine, if there are enough workers left.
// It returns true if it found workers to run the function, false otherwise.
//
// It's up to the client to synchronize the end of the function execution.
func (w *Pool) StartIfAvailable(task func()) bool {
	if !w.IsEnabled() || !w.slots.TryAcquire() {
		return false
	}
	w.spawn(task)
	return true
}

// Run executes task(i) for i in [0, numTasks) and returns when all of them finished.
//
// Tasks that don't find a free worker are run inline by the caller, so Run never deadlocks when
// called from within another task of the same pool.
func (w *Pool) Run(numTasks int, task func(i int)) {
	if numTasks <= 0 {
		return
	}
	var wg sync.WaitGroup
	for i := range numTasks - 1 {
		wg.Add(1)
		started := w.StartIfAvailable(func() {
			defer wg.Done()
			task(i)
		})
		if !started {
			task(i)
			wg.Done()
		}
	}
	task(numTasks - 1)
	wg.Wait()
}
