// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package resources implements the instructions.ResourceContext: a namespace of named host matrices and
// scalars, with a cache of accelerator copies managed within a memory budget.
//
// Host data is float64, row-major, and versioned: committing a write always installs a new slice, so handles
// acquired earlier keep reading the values they started with, and an instruction can write one of its own
// inputs (A = A + B). The last committed write of a name wins.
//
// All acquire and release calls are serialized by one lock, including the transfers and evictions they may
// trigger.
package resources

import (
	"slices"
	"sync"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/types/shapes"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Options configure a Pool.
type Options struct {
	// MemoryBudget is the accelerator memory in bytes. 0 means unlimited.
	MemoryBudget int64

	// DeviceDType is the dtype of accelerator copies, one of DeviceDTypes. Defaults to dtypes.Float32.
	DeviceDType dtypes.DType

	// Recorder receives accelerator transfer events. Optional.
	Recorder TransferRecorder
}

// entry is one committed host value. Its data is never modified after commit.
type entry struct {
	shape   shapes.Shape
	data    []float64
	version uint64
}

// Pool is the namespace of named buffers shared by all tasks of a program.
type Pool struct {
	mu          sync.Mutex
	entries     map[string]*entry
	open        map[uuid.UUID]*handle
	lastVersion uint64
	cache       *deviceCache
}

// New creates an empty Pool.
func New(opts Options) (*Pool, error) {
	if opts.DeviceDType == dtypes.InvalidDType {
		opts.DeviceDType = dtypes.Float32
	}
	if !slices.Contains(DeviceDTypes, opts.DeviceDType) {
		return nil, errors.Errorf("resources: accelerator dtype %s not supported, valid values are %v",
			opts.DeviceDType, DeviceDTypes)
	}
	if opts.MemoryBudget < 0 {
		return nil, errors.Errorf("resources: negative accelerator memory budget %d", opts.MemoryBudget)
	}
	if opts.Recorder == nil {
		opts.Recorder = noRecorder{}
	}
	return &Pool{
		entries: make(map[string]*entry),
		open:    make(map[uuid.UUID]*handle),
		cache:   newDeviceCache(opts.DeviceDType, opts.MemoryBudget, opts.Recorder),
	}, nil
}

// DeviceDType returns the dtype of accelerator copies.
func (p *Pool) DeviceDType() dtypes.DType { return p.cache.dtype }

// lockedCommit installs a new version of name. It must be called with Pool.mu acquired.
func (p *Pool) lockedCommit(name string, shape shapes.Shape, data []float64) uint64 {
	p.lastVersion++
	p.entries[name] = &entry{shape: shape, data: data, version: p.lastVersion}
	return p.lastVersion
}

// SetMatrix sets name to a rows×cols matrix with a copy of the row-major values.
func (p *Pool) SetMatrix(name string, rows, cols int, values []float64) error {
	if rows < 0 || cols < 0 {
		return errors.Errorf("resources: invalid dimensions %dx%d for %q", rows, cols, name)
	}
	if len(values) != rows*cols {
		return errors.Errorf("resources: %d values given for %dx%d matrix %q", len(values), rows, cols, name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.invalidate(name)
	p.lockedCommit(name, shapes.Matrix(dtypes.Float64, rows, cols), slices.Clone(values))
	return nil
}

// SetScalar sets name to a scalar value.
func (p *Pool) SetScalar(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.invalidate(name)
	p.lockedCommit(name, shapes.Scalar(dtypes.Float64), []float64{value})
}

// Delete removes name from the namespace. Open handles keep their data.
func (p *Pool) Delete(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.invalidate(name)
	delete(p.entries, name)
}

// Shape of name, and whether it exists.
func (p *Pool) Shape(name string) (shapes.Shape, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, found := p.entries[name]
	if !found {
		return shapes.Invalid(), false
	}
	return e.shape.Clone(), true
}

// Version of name: it changes on every committed write. 0 if name doesn't exist.
func (p *Pool) Version(name string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, found := p.entries[name]; found {
		return e.version
	}
	return 0
}

// Matrix returns the shape and a copy of the values of a matrix.
func (p *Pool) Matrix(name string) (shapes.Shape, []float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, found := p.entries[name]
	if !found {
		return shapes.Invalid(), nil, errors.Errorf("resources: unknown buffer %q", name)
	}
	if !e.shape.IsMatrix() {
		return shapes.Invalid(), nil, errors.Errorf("resources: %q is not a matrix, it has shape %s", name, e.shape)
	}
	return e.shape.Clone(), slices.Clone(e.data), nil
}

// Scalar returns the value of a scalar.
func (p *Pool) Scalar(name string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, found := p.entries[name]
	if !found {
		return 0, errors.Errorf("resources: unknown buffer %q", name)
	}
	if !e.shape.IsScalar() {
		return 0, errors.Errorf("resources: %q is not a scalar, it has shape %s", name, e.shape)
	}
	return e.data[0], nil
}

// Names returns the names in the namespace, sorted.
func (p *Pool) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// OpenHandles returns the number of acquired handles not yet released.
func (p *Pool) OpenHandles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.open)
}

// DeviceMemoryInUse returns the bytes of accelerator memory currently allocated.
func (p *Pool) DeviceMemoryInUse() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.used
}

// Context returns a new instructions.ResourceContext view of the Pool for the device class.
//
// Output shapes declared with SetOutputShape are private to the returned view, so concurrent tasks must
// each use their own.
func (p *Pool) Context(device instructions.DeviceClass) *Context {
	return &Context{pool: p, device: device, outputShapes: make(map[string][2]int)}
}

// ResourceContext is Context as an instructions.ResourceContext, so a Pool can serve as a
// program.ContextProvider.
func (p *Pool) ResourceContext(device instructions.DeviceClass) instructions.ResourceContext {
	return p.Context(device)
}
