// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"github.com/gomlx/matinst/types/shapes"
	"github.com/pkg/errors"
)

// Handle is an acquired reference to a named buffer of a ResourceContext.
type Handle interface {
	// Name of the buffer in the ResourceContext namespace.
	Name() string

	// Shape of the buffer. Scalars have rank 0, matrices rank 2.
	Shape() shapes.Shape

	// Flat returns the backing storage, in row-major order. Its concrete type depends on the ResourceContext and
	// device: a []float64 for host buffers, a []float32 for float32 accelerator buffers, etc.
	// Kernels are paired with the ResourceContext that produces the handles they receive.
	Flat() any
}

// WriteHandle is a Handle acquired for writing.
type WriteHandle interface {
	Handle

	// MarkWritten indicates the contents were fully computed. The ResourceContext only commits the output when
	// the handle is released after being marked.
	MarkWritten()
}

// ScalarHandle is optionally implemented by handles of scalar buffers to provide the value directly.
type ScalarHandle interface {
	Handle
	Value() (float64, error)
}

// ResourceContext owns the named buffers instructions read and write.
//
// All methods may fail, e.g. if memory can't be allocated even after eviction, and they may block while data
// is transferred. Implementations must make calls linearizable per name. Release must be called exactly once
// per acquired handle.
type ResourceContext interface {
	// AcquireRead returns a read-only handle to the named buffer.
	AcquireRead(name string) (Handle, error)

	// AcquireWrite returns a handle to a buffer of the given shape to be written, bound to name only after
	// it is marked written and released. The shape must agree with a previous SetOutputShape on the same name.
	AcquireWrite(name string, shape shapes.Shape) (WriteHandle, error)

	// SetOutputShape registers the shape metadata of a to-be-written output.
	SetOutputShape(name string, rows, cols int) error

	// Release the handle.
	Release(h Handle) error
}

// StatsSink receives execution statistics. Implementations must be safe for concurrent use and must not
// block meaningfully.
type StatsSink interface {
	// IncrementExecuted counts one successfully executed instruction on the device.
	IncrementExecuted(device DeviceClass)

	// RecordOpcodeTime accumulates the time spent executing opcode.
	RecordOpcodeTime(opcode string, nanos int64)
}

// Kernels are the numeric operations of one device class. The handles passed are the ones acquired from the
// ResourceContext, and output shapes have already been validated.
type Kernels interface {
	// CellwiseAddSub computes out = in1 + in2 if isAdd, otherwise out = in1 - in2.
	CellwiseAddSub(in1, in2 Handle, out WriteHandle, isAdd bool) error

	// ScalarMultDiv computes out = matrix ⊙ scalar or out = scalar ⊙ matrix (if scalarOnLeft), where ⊙ is
	// the multiplication for OpMultiply and OpMultiply2 and the division for OpDivide.
	ScalarMultDiv(matrix Handle, scalar float64, scalarOnLeft bool, out WriteHandle, op OpTag) error

	// TransposeSelfMatMult computes out = Xᵀ·X for TSMMLeft or out = X·Xᵀ for TSMMRight.
	TransposeSelfMatMult(in Handle, out WriteHandle, side TSMMSide) error
}

// NoStats is a StatsSink that discards everything.
var NoStats StatsSink = noStats{}

type noStats struct{}

func (noStats) IncrementExecuted(DeviceClass)   {}
func (noStats) RecordOpcodeTime(string, int64) {}

// ScalarValue reads the value of a scalar handle.
func ScalarValue(h Handle) (float64, error) {
	if sh, ok := h.(ScalarHandle); ok {
		return sh.Value()
	}
	var v float64
	switch flat := h.Flat().(type) {
	case float64:
		return flat, nil
	case []float64:
		if len(flat) != 1 {
			return 0, errors.Errorf("scalar %q holds %d values", h.Name(), len(flat))
		}
		v = flat[0]
	case []float32:
		if len(flat) != 1 {
			return 0, errors.Errorf("scalar %q holds %d values", h.Name(), len(flat))
		}
		v = float64(flat[0])
	case []int64:
		if len(flat) != 1 {
			return 0, errors.Errorf("scalar %q holds %d values", h.Name(), len(flat))
		}
		v = float64(flat[0])
	case []bool:
		if len(flat) != 1 {
			return 0, errors.Errorf("scalar %q holds %d values", h.Name(), len(flat))
		}
		if flat[0] {
			v = 1
		}
	default:
		return 0, errors.Errorf("scalar %q has unsupported storage %T", h.Name(), flat)
	}
	return v, nil
}
