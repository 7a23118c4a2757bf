// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package stats aggregates execution statistics of instruction programs: executed and compiled instruction
// counters per device class, heavy hitters (time and count per opcode), accelerator memory transfers and
// compile/run timers.
//
// An Aggregator implements both instructions.StatsSink and resources.TransferRecorder, and it is safe for
// concurrent use. There are no package-level globals: create one Aggregator per process (or per test).
package stats

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/resources"
)

const (
	numDevices       = int(instructions.DeviceDistributedDataset) + 1
	numTransferKinds = int(resources.TransferEvict) + 1
)

// Key returns the heavy-hitter key of opcode executed on device: the plain opcode for the CPU, and the
// opcode prefixed with "GPU_" or "SP_" for the accelerator and the distributed dataset respectively.
func Key(device instructions.DeviceClass, opcode string) string {
	switch device {
	case instructions.DeviceAccelerator:
		return "GPU_" + opcode
	case instructions.DeviceDistributedDataset:
		return "SP_" + opcode
	default:
		return opcode
	}
}

// HeavyHitter is the accumulated time and count of one heavy-hitter key.
type HeavyHitter struct {
	Key   string
	Time  time.Duration
	Count int64
}

// TransferStats holds the accumulated accelerator memory events of one TransferKind.
type TransferStats struct {
	Count int64
	Bytes int64
	Time  time.Duration
}

// Aggregator collects statistics. The zero value is not usable, create it with New.
type Aggregator struct {
	executed, compiled [numDevices]atomic.Int64

	transferCount, transferBytes, transferNanos [numTransferKinds]atomic.Int64

	compileNanos, runNanos atomic.Int64

	mu      sync.Mutex
	hitters map[string]*HeavyHitter
}

var (
	_ instructions.StatsSink     = (*Aggregator)(nil)
	_ resources.TransferRecorder = (*Aggregator)(nil)
)

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{hitters: make(map[string]*HeavyHitter)}
}

// IncrementExecuted implements instructions.StatsSink.
func (a *Aggregator) IncrementExecuted(device instructions.DeviceClass) {
	if !device.IsADeviceClass() {
		return
	}
	a.executed[device].Add(1)
}

// IncrementCompiled counts one instruction resolved (compiled) for the device.
func (a *Aggregator) IncrementCompiled(device instructions.DeviceClass) {
	if !device.IsADeviceClass() {
		return
	}
	a.compiled[device].Add(1)
}

// Executed returns the number of instructions successfully executed on the device.
func (a *Aggregator) Executed(device instructions.DeviceClass) int64 {
	if !device.IsADeviceClass() {
		return 0
	}
	return a.executed[device].Load()
}

// Compiled returns the number of instructions compiled for the device.
func (a *Aggregator) Compiled(device instructions.DeviceClass) int64 {
	if !device.IsADeviceClass() {
		return 0
	}
	return a.compiled[device].Load()
}

// RecordOpcodeTime implements instructions.StatsSink. The opcode is used as the heavy-hitter key as is.
func (a *Aggregator) RecordOpcodeTime(opcode string, nanos int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	h, found := a.hitters[opcode]
	if !found {
		h = &HeavyHitter{Key: opcode}
		a.hitters[opcode] = h
	}
	h.Time += time.Duration(nanos)
	h.Count++
}

// RecordInstructionTime accumulates the time of opcode executed on device, under its Key.
func (a *Aggregator) RecordInstructionTime(device instructions.DeviceClass, opcode string, elapsed time.Duration) {
	a.RecordOpcodeTime(Key(device, opcode), int64(elapsed))
}

// HeavyHitters returns the k keys with the largest accumulated time, in decreasing order of time.
// Ties are broken by key. If k <= 0 all keys are returned.
func (a *Aggregator) HeavyHitters(k int) []HeavyHitter {
	a.mu.Lock()
	hitters := make([]HeavyHitter, 0, len(a.hitters))
	for _, h := range a.hitters {
		hitters = append(hitters, *h)
	}
	a.mu.Unlock()

	slices.SortFunc(hitters, func(x, y HeavyHitter) int {
		return cmp.Or(cmp.Compare(y.Time, x.Time), cmp.Compare(x.Key, y.Key))
	})
	if k > 0 && len(hitters) > k {
		hitters = hitters[:k]
	}
	return hitters
}

// RecordTransfer implements resources.TransferRecorder.
func (a *Aggregator) RecordTransfer(kind resources.TransferKind, bytes int64, elapsed time.Duration) {
	if kind < 0 || int(kind) >= numTransferKinds {
		return
	}
	a.transferCount[kind].Add(1)
	a.transferBytes[kind].Add(bytes)
	a.transferNanos[kind].Add(int64(elapsed))
}

// Transfers returns the accumulated accelerator memory events of the given kind.
func (a *Aggregator) Transfers(kind resources.TransferKind) TransferStats {
	if kind < 0 || int(kind) >= numTransferKinds {
		return TransferStats{}
	}
	return TransferStats{
		Count: a.transferCount[kind].Load(),
		Bytes: a.transferBytes[kind].Load(),
		Time:  time.Duration(a.transferNanos[kind].Load()),
	}
}

// StartCompileTimer marks the start of a program compilation (load and resolution). Calling the returned
// function accumulates the time elapsed since; only its first call counts. Timers can overlap.
func (a *Aggregator) StartCompileTimer() (stop func()) {
	return startTimer(&a.compileNanos)
}

// StartRunTimer marks the start of a program execution, like StartCompileTimer. Concurrent runs each
// accumulate their own elapsed time.
func (a *Aggregator) StartRunTimer() (stop func()) {
	return startTimer(&a.runNanos)
}

func startTimer(nanos *atomic.Int64) func() {
	start := time.Now()
	var once sync.Once
	return func() {
		once.Do(func() { nanos.Add(int64(time.Since(start))) })
	}
}

// CompileTime returns the accumulated compilation time.
func (a *Aggregator) CompileTime() time.Duration { return time.Duration(a.compileNanos.Load()) }

// RunTime returns the accumulated execution time.
func (a *Aggregator) RunTime() time.Duration { return time.Duration(a.runNanos.Load()) }

// Reset zeroes all statistics.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for ii := range numDevices {
		a.executed[ii].Store(0)
		a.compiled[ii].Store(0)
	}
	for ii := range numTransferKinds {
		a.transferCount[ii].Store(0)
		a.transferBytes[ii].Store(0)
		a.transferNanos[ii].Store(0)
	}
	a.compileNanos.Store(0)
	a.runNanos.Store(0)
	clear(a.hitters)
}
