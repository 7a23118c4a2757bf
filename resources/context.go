// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package resources

import (
	"sync/atomic"
	"time"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/types/shapes"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Context is the view of a Pool for one device class.
//
// Handles of the accelerator view hold device copies of matrices, with Flat() of the Pool's DeviceDType Go
// type (e.g. []float32). The CPU and distributed-dataset views, and scalars on every view, use the host
// []float64 data.
type Context struct {
	pool   *Pool
	device instructions.DeviceClass

	// outputShapes pending for AcquireWrite, guarded by pool.mu.
	outputShapes map[string][2]int
}

var _ instructions.ResourceContext = (*Context)(nil)

// Device class of the view.
func (c *Context) Device() instructions.DeviceClass { return c.device }

// Pool of the view.
func (c *Context) Pool() *Pool { return c.pool }

// handle implements instructions.WriteHandle.
type handle struct {
	id      uuid.UUID
	name    string
	shape   shapes.Shape
	flat    any
	write   bool
	written atomic.Bool

	// copy is set for accelerator buffers.
	copy *deviceCopy
}

var (
	_ instructions.WriteHandle  = (*handle)(nil)
	_ instructions.ScalarHandle = (*handle)(nil)
)

// ID uniquely identifies the acquisition.
func (h *handle) ID() uuid.UUID { return h.id }

func (h *handle) Name() string        { return h.name }
func (h *handle) Shape() shapes.Shape { return h.shape }
func (h *handle) Flat() any           { return h.flat }
func (h *handle) MarkWritten()        { h.written.Store(true) }

// Value implements instructions.ScalarHandle.
func (h *handle) Value() (float64, error) {
	flat, ok := h.flat.([]float64)
	if !ok || !h.shape.IsScalar() || len(flat) != 1 {
		return 0, errors.Errorf("resources: %q is not a host scalar, it has shape %s", h.name, h.shape)
	}
	return flat[0], nil
}

func (c *Context) lockedOpen(h *handle) *handle {
	h.id = uuid.New()
	c.pool.open[h.id] = h
	return h
}

// AcquireRead implements instructions.ResourceContext.
func (c *Context) AcquireRead(name string) (instructions.Handle, error) {
	p := c.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	e, found := p.entries[name]
	if !found {
		return nil, errors.Errorf("resources: unknown buffer %q", name)
	}
	if c.device != instructions.DeviceAccelerator || !e.shape.IsMatrix() {
		return c.lockedOpen(&handle{name: name, shape: e.shape, flat: e.data}), nil
	}
	dc, err := p.cache.acquire(name, e)
	if err != nil {
		return nil, errors.WithMessagef(err, "resources: transferring %q to the accelerator", name)
	}
	return c.lockedOpen(&handle{name: name, shape: e.shape.WithDType(p.cache.dtype), flat: dc.flat, copy: dc}), nil
}

// SetOutputShape implements instructions.ResourceContext.
func (c *Context) SetOutputShape(name string, rows, cols int) error {
	if rows < 0 || cols < 0 {
		return errors.Errorf("resources: invalid output shape %dx%d for %q", rows, cols, name)
	}
	p := c.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	c.outputShapes[name] = [2]int{rows, cols}
	return nil
}

// AcquireWrite implements instructions.ResourceContext. The shape must be a matrix of the dimensions given
// to SetOutputShape. Matching the view, its dtype must be Float64, or the DeviceDType for the accelerator.
func (c *Context) AcquireWrite(name string, shape shapes.Shape) (instructions.WriteHandle, error) {
	p := c.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	if !shape.IsMatrix() {
		return nil, errors.Errorf("resources: output %q must be a matrix, got shape %s", name, shape)
	}
	dims, found := c.outputShapes[name]
	if !found {
		return nil, errors.Errorf("resources: output shape of %q was not set", name)
	}
	if dims != [2]int{shape.Rows(), shape.Cols()} {
		return nil, errors.Errorf("resources: shape %s of %q doesn't match its output shape %dx%d",
			shape, name, dims[0], dims[1])
	}
	if c.device != instructions.DeviceAccelerator {
		if shape.DType != dtypes.Float64 {
			return nil, errors.Errorf("resources: host output %q must be Float64, got %s", name, shape.DType)
		}
		return c.lockedOpen(&handle{name: name, shape: shape.Clone(), flat: make([]float64, shape.Size()), write: true}), nil
	}
	if shape.DType != p.cache.dtype {
		return nil, errors.Errorf("resources: accelerator output %q must be %s, got %s", name, p.cache.dtype, shape.DType)
	}
	dc, err := p.cache.allocate(name, shape.Size())
	if err != nil {
		return nil, errors.WithMessagef(err, "resources: allocating %q on the accelerator", name)
	}
	return c.lockedOpen(&handle{name: name, shape: shape.Clone(), flat: dc.flat, write: true, copy: dc}), nil
}

// Release implements instructions.ResourceContext. Write handles marked as written are committed as the new
// value of their name. Releasing a handle twice, or one not acquired from this Pool, is an error.
func (c *Context) Release(h instructions.Handle) error {
	hh, ok := h.(*handle)
	if !ok || hh == nil {
		return errors.Errorf("resources: handle %T not acquired from a resources.Pool", h)
	}
	p := c.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open[hh.id] != hh {
		return errors.Errorf("resources: handle %s of %q is not open, released twice?", hh.id, hh.name)
	}
	delete(p.open, hh.id)

	if !hh.write {
		if hh.copy != nil {
			p.cache.unpin(hh.copy)
		}
		return nil
	}
	if !hh.written.Load() {
		if hh.copy != nil {
			p.cache.unpin(hh.copy)
		}
		return nil
	}
	hostShape := shapes.Matrix(dtypes.Float64, hh.shape.Rows(), hh.shape.Cols())
	if hh.copy == nil {
		p.cache.invalidate(hh.name)
		p.lockedCommit(hh.name, hostShape, hh.flat.([]float64))
		return nil
	}
	start := time.Now()
	data := make([]float64, hostShape.Size())
	deviceToHost(data, hh.copy.flat)
	p.cache.recorder.RecordTransfer(TransferFromDevice, hh.copy.bytes, time.Since(start))
	version := p.lockedCommit(hh.name, hostShape, data)
	p.cache.install(hh.name, hh.copy, version)
	return nil
}
