// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package cpu implements the host instructions.Kernels on gonum dense matrices.
//
// Handles must hold row-major []float64 data, as the CPU view of resources.Pool provides.
// The matrices are viewed in place, without copies.
package cpu

import (
	"github.com/gomlx/matinst/instructions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Kernels implements instructions.Kernels for the CPU.
type Kernels struct{}

var _ instructions.Kernels = (*Kernels)(nil)

// New returns the CPU kernels.
func New() *Kernels { return &Kernels{} }

// View returns a gonum view of the handle's data. It returns nil for empty matrices, which gonum doesn't
// support.
func View(h instructions.Handle) (*mat.Dense, error) {
	flat, ok := h.Flat().([]float64)
	if !ok {
		return nil, errors.Errorf("cpu kernels require []float64 data, %q has %T", h.Name(), h.Flat())
	}
	shape := h.Shape()
	if !shape.IsMatrix() {
		return nil, errors.Errorf("cpu kernels require a matrix, %q has shape %s", h.Name(), shape)
	}
	if len(flat) != shape.Size() {
		return nil, errors.Errorf("%q has %d values for shape %s", h.Name(), len(flat), shape)
	}
	return DenseView(flat, shape.Rows(), shape.Cols()), nil
}

// DenseView returns a rows×cols gonum matrix backed by flat, or nil if the matrix is empty.
func DenseView(flat []float64, rows, cols int) *mat.Dense {
	if rows == 0 || cols == 0 {
		return nil
	}
	return mat.NewDense(rows, cols, flat[:rows*cols])
}

func views(handles ...instructions.Handle) ([]*mat.Dense, bool, error) {
	dense := make([]*mat.Dense, len(handles))
	empty := false
	for i, h := range handles {
		var err error
		dense[i], err = View(h)
		if err != nil {
			return nil, false, err
		}
		empty = empty || dense[i] == nil
	}
	return dense, empty, nil
}

// CellwiseAddSub implements instructions.Kernels.
func (k *Kernels) CellwiseAddSub(in1, in2 instructions.Handle, out instructions.WriteHandle, isAdd bool) error {
	m, empty, err := views(in1, in2, out)
	if err != nil || empty {
		return err
	}
	AddSub(m[2], m[0], m[1], isAdd)
	return nil
}

// ScalarMultDiv implements instructions.Kernels.
func (k *Kernels) ScalarMultDiv(matrix instructions.Handle, scalar float64, scalarOnLeft bool,
	out instructions.WriteHandle, op instructions.OpTag) error {
	m, empty, err := views(matrix, out)
	if err != nil || empty {
		return err
	}
	return MultDiv(m[1], m[0], scalar, scalarOnLeft, op)
}

// TransposeSelfMatMult implements instructions.Kernels.
func (k *Kernels) TransposeSelfMatMult(in instructions.Handle, out instructions.WriteHandle, side instructions.TSMMSide) error {
	x, err := View(in)
	if err != nil {
		return err
	}
	o, err := View(out)
	if err != nil {
		return err
	}
	if x == nil || o == nil {
		// Output is all zeros (or empty).
		return nil
	}
	TransposeSelfProduct(o, x, side)
	return nil
}

// AddSub sets out = a + b if isAdd, or out = a - b otherwise.
func AddSub(out, a, b *mat.Dense, isAdd bool) {
	if isAdd {
		out.Add(a, b)
	} else {
		out.Sub(a, b)
	}
}

// MultDiv sets out = m*s for multiplications. For divisions it sets out = m/s, or out = s/m (cellwise) if
// scalarOnLeft.
func MultDiv(out, m *mat.Dense, s float64, scalarOnLeft bool, op instructions.OpTag) error {
	switch op {
	case instructions.OpMultiply, instructions.OpMultiply2:
		out.Scale(s, m)
	case instructions.OpDivide:
		if scalarOnLeft {
			out.Apply(func(_, _ int, v float64) float64 { return s / v }, m)
		} else {
			out.Apply(func(_, _ int, v float64) float64 { return v / s }, m)
		}
	default:
		return errors.Errorf("operator %s is not a matrix-scalar operator", op)
	}
	return nil
}

// TransposeSelfProduct sets out = xᵀ·x for TSMMLeft, or out = x·xᵀ for TSMMRight, using a symmetric rank-k
// update.
func TransposeSelfProduct(out, x *mat.Dense, side instructions.TSMMSide) {
	var sym mat.SymDense
	if side == instructions.TSMMLeft {
		sym.SymOuterK(1, x.T())
	} else {
		sym.SymOuterK(1, x)
	}
	out.Copy(&sym)
}
