// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"sync"
	"sync/atomic"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/matinst/types/shapes"
	"github.com/pkg/errors"
)

var errInjected = errors.New("injected failure")

// fakeHandle is a handle of fakeContext, backed by a []float64.
type fakeHandle struct {
	name    string
	shape   shapes.Shape
	data    []float64
	write   bool
	written bool
}

func (h *fakeHandle) Name() string        { return h.name }
func (h *fakeHandle) Shape() shapes.Shape { return h.shape }
func (h *fakeHandle) Flat() any           { return h.data }
func (h *fakeHandle) MarkWritten()        { h.written = true }

type fakeBuffer struct {
	shape shapes.Shape
	data  []float64
}

// fakeContext is a ResourceContext over a map of buffers, counting calls and optionally failing the
// failAt-th acquisition call (AcquireRead, SetOutputShape or AcquireWrite, 1-based).
type fakeContext struct {
	mu          sync.Mutex
	buffers     map[string]fakeBuffer
	pending     map[string][2]int
	open        map[*fakeHandle]bool
	calls       int
	failAt      int
	failRelease bool

	acquired, released int
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		buffers: make(map[string]fakeBuffer),
		pending: make(map[string][2]int),
		open:    make(map[*fakeHandle]bool),
	}
}

func (c *fakeContext) setMatrix(name string, rows, cols int, values ...float64) {
	if len(values) == 0 {
		values = make([]float64, rows*cols)
		for i := range values {
			values[i] = float64(i + 1)
		}
	}
	c.buffers[name] = fakeBuffer{shape: shapes.Matrix(dtypes.Float64, rows, cols), data: values}
}

func (c *fakeContext) setScalar(name string, v float64) {
	c.buffers[name] = fakeBuffer{shape: shapes.Scalar(dtypes.Float64), data: []float64{v}}
}

func (c *fakeContext) get(name string) fakeBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffers[name]
}

func (c *fakeContext) injected() bool {
	c.calls++
	return c.calls == c.failAt
}

func (c *fakeContext) AcquireRead(name string) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.injected() {
		return nil, errInjected
	}
	b, found := c.buffers[name]
	if !found {
		return nil, errors.Errorf("unknown buffer %q", name)
	}
	h := &fakeHandle{name: name, shape: b.shape, data: b.data}
	c.open[h] = true
	c.acquired++
	return h, nil
}

func (c *fakeContext) SetOutputShape(name string, rows, cols int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.injected() {
		return errInjected
	}
	c.pending[name] = [2]int{rows, cols}
	return nil
}

func (c *fakeContext) AcquireWrite(name string, shape shapes.Shape) (WriteHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.injected() {
		return nil, errInjected
	}
	if p := c.pending[name]; p != [2]int{shape.Rows(), shape.Cols()} {
		return nil, errors.Errorf("shape %s of %q doesn't match output shape %v", shape, name, p)
	}
	h := &fakeHandle{name: name, shape: shape, data: make([]float64, shape.Size()), write: true}
	c.open[h] = true
	c.acquired++
	return h, nil
}

func (c *fakeContext) Release(h Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fh := h.(*fakeHandle)
	if !c.open[fh] {
		return errors.Errorf("handle %q released twice or never acquired", h.Name())
	}
	delete(c.open, fh)
	c.released++
	if fh.write && fh.written {
		c.buffers[fh.name] = fakeBuffer{shape: fh.shape, data: fh.data}
	}
	if c.failRelease {
		return errInjected
	}
	return nil
}

func (c *fakeContext) numOpen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.open)
}

// fakeKernels are float64 kernels over fakeHandle, with optional injected failures.
type fakeKernels struct {
	fail, panics bool
	calls        atomic.Int32
}

var _ Kernels = (*fakeKernels)(nil)

func (k *fakeKernels) check() error {
	k.calls.Add(1)
	if k.panics {
		panic("kernel exploded")
	}
	if k.fail {
		return errInjected
	}
	return nil
}

func (k *fakeKernels) CellwiseAddSub(in1, in2 Handle, out WriteHandle, isAdd bool) error {
	if err := k.check(); err != nil {
		return err
	}
	a, b, o := in1.Flat().([]float64), in2.Flat().([]float64), out.Flat().([]float64)
	for i := range o {
		if isAdd {
			o[i] = a[i] + b[i]
		} else {
			o[i] = a[i] - b[i]
		}
	}
	return nil
}

func (k *fakeKernels) ScalarMultDiv(matrix Handle, scalar float64, scalarOnLeft bool, out WriteHandle, op OpTag) error {
	if err := k.check(); err != nil {
		return err
	}
	m, o := matrix.Flat().([]float64), out.Flat().([]float64)
	for i := range o {
		switch {
		case op != OpDivide:
			o[i] = m[i] * scalar
		case scalarOnLeft:
			o[i] = scalar / m[i]
		default:
			o[i] = m[i] / scalar
		}
	}
	return nil
}

func (k *fakeKernels) TransposeSelfMatMult(in Handle, out WriteHandle, side TSMMSide) error {
	if err := k.check(); err != nil {
		return err
	}
	x, o := in.Flat().([]float64), out.Flat().([]float64)
	rows, cols := in.Shape().Rows(), in.Shape().Cols()
	n := side.OutputDim(rows, cols)
	for i := range n {
		for j := range n {
			var sum float64
			if side == TSMMLeft {
				for r := range rows {
					sum += x[r*cols+i] * x[r*cols+j]
				}
			} else {
				for c := range cols {
					sum += x[i*cols+c] * x[j*cols+c]
				}
			}
			o[i*n+j] = sum
		}
	}
	return nil
}

// countingSink is a StatsSink counting executions per device.
type countingSink struct {
	executed [3]atomic.Int64
}

func (s *countingSink) IncrementExecuted(device DeviceClass) { s.executed[device].Add(1) }
func (s *countingSink) RecordOpcodeTime(string, int64)       {}

// Shortcuts used by tests.
func matrixOp(name string) Operand { return NewOperand(name, ValueKindDouble, DataKindMatrix) }
func scalarOp(name string) Operand { return NewOperand(name, ValueKindDouble, DataKindScalar) }
