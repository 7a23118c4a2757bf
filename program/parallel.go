// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package program

import (
	"context"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/matinst/types/xsync"
	"github.com/pkg/errors"
)

// Task is one unit of work of RunParallel, typically a Program.Run call.
type Task func(ctx context.Context) error

// RunParallel runs the tasks with at most parallelism of them at the same time (no limit if parallelism <= 0).
//
// It returns one error per task, nil for the tasks that succeeded. A failing (or panicking) task doesn't stop
// its siblings. Tasks not yet started when ctx is done are not run, and their error is the context error.
func RunParallel(ctx context.Context, parallelism int, tasks ...Task) []error {
	errs := make([]error, len(tasks))
	semaphore := xsync.NewSemaphore(parallelism)
	var wg sync.WaitGroup
	for ii, task := range tasks {
		if err := semaphore.AcquireContext(ctx); err != nil {
			errs[ii] = errors.Wrapf(err, "task #%d not started", ii)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer semaphore.Release()
			exception := exceptions.Try(func() { errs[ii] = task(ctx) })
			if exception == nil {
				return
			}
			if err, ok := exception.(error); ok {
				errs[ii] = errors.Wrapf(err, "task #%d panicked", ii)
			} else {
				errs[ii] = errors.Errorf("task #%d panicked: %v", ii, exception)
			}
		}()
	}
	wg.Wait()
	return errs
}

// FirstError returns the first non-nil error of errs, annotated with its task index.
func FirstError(errs []error) error {
	for ii, err := range errs {
		if err != nil {
			return errors.WithMessagef(err, "task #%d", ii)
		}
	}
	return nil
}
