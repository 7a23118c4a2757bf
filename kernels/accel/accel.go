// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package accel implements the instructions.Kernels for accelerator buffers.
//
// The kernels compute directly on the device flat slices of the handles, dispatching on their dtype: float32
// and float64 natively, float16 and bfloat16 through float32.
package accel

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/matinst/instructions"
	"github.com/pkg/errors"
)

// Kernels implements instructions.Kernels for the accelerator view of resources.Pool.
type Kernels struct{}

var _ instructions.Kernels = (*Kernels)(nil)

// New returns the accelerator kernels.
func New() *Kernels { return &Kernels{} }

var (
	cellwiseTable = newFloatTable("CellwiseAddSub", cellwiseGeneric[float32], cellwiseGeneric[float64], 3)
	scalarTable   = newFloatTable("ScalarMultDiv", scalarGeneric[float32], scalarGeneric[float64], 2)
	tsmmTable     = newFloatTable("TransposeSelfMatMult", tsmmGeneric[float32], tsmmGeneric[float64], 2)
)

// sameDType checks all handles share one dtype supported by the table, and returns it.
func sameDType(t *KernelTable, handles ...instructions.Handle) (dtypes.DType, error) {
	dtype := handles[0].Shape().DType
	for _, h := range handles[1:] {
		if h.Shape().DType != dtype {
			return dtypes.InvalidDType, errors.Errorf("%s: %q is %s, but %q is %s", t.Op(),
				handles[0].Name(), dtype, h.Name(), h.Shape().DType)
		}
	}
	if !t.Supports(dtype) {
		return dtypes.InvalidDType, errors.Errorf("%s: dtype %s not supported on the accelerator", t.Op(), dtype)
	}
	return dtype, nil
}

// CellwiseAddSub implements instructions.Kernels.
func (k *Kernels) CellwiseAddSub(in1, in2 instructions.Handle, out instructions.WriteHandle, isAdd bool) error {
	dtype, err := sameDType(cellwiseTable, in1, in2, out)
	if err != nil {
		return err
	}
	return cellwiseTable.Call(dtype, out.Flat(), in1.Flat(), in2.Flat(), isAdd)
}

func cellwiseGeneric[T nativeFloat](params ...any) {
	out, lhs, rhs := params[0].([]T), params[1].([]T), params[2].([]T)
	if params[3].(bool) {
		for i := range out {
			out[i] = lhs[i] + rhs[i]
		}
		return
	}
	for i := range out {
		out[i] = lhs[i] - rhs[i]
	}
}

// ScalarMultDiv implements instructions.Kernels.
func (k *Kernels) ScalarMultDiv(matrix instructions.Handle, scalar float64, scalarOnLeft bool,
	out instructions.WriteHandle, op instructions.OpTag) error {
	if !instructions.ScalarOps.Has(op) {
		return errors.Errorf("operator %s is not a matrix-scalar operator", op)
	}
	dtype, err := sameDType(scalarTable, matrix, out)
	if err != nil {
		return err
	}
	return scalarTable.Call(dtype, out.Flat(), matrix.Flat(), scalar, scalarOnLeft, op)
}

func scalarGeneric[T nativeFloat](params ...any) {
	out, m := params[0].([]T), params[1].([]T)
	s := T(params[2].(float64))
	scalarOnLeft, op := params[3].(bool), params[4].(instructions.OpTag)
	switch {
	case op != instructions.OpDivide:
		for i, v := range m {
			out[i] = v * s
		}
	case scalarOnLeft:
		for i, v := range m {
			out[i] = s / v
		}
	default:
		for i, v := range m {
			out[i] = v / s
		}
	}
}

// TransposeSelfMatMult implements instructions.Kernels.
func (k *Kernels) TransposeSelfMatMult(in instructions.Handle, out instructions.WriteHandle, side instructions.TSMMSide) error {
	dtype, err := sameDType(tsmmTable, in, out)
	if err != nil {
		return err
	}
	shape := in.Shape()
	return tsmmTable.Call(dtype, out.Flat(), in.Flat(), shape.Rows(), shape.Cols(), side)
}

// tsmmGeneric computes the upper triangle of the symmetric product and mirrors it.
func tsmmGeneric[T nativeFloat](params ...any) {
	out, x := params[0].([]T), params[1].([]T)
	rows, cols, side := params[2].(int), params[3].(int), params[4].(instructions.TSMMSide)
	n := side.OutputDim(rows, cols)
	for i := range n {
		for j := i; j < n; j++ {
			var sum T
			if side == instructions.TSMMLeft {
				for r := range rows {
					sum += x[r*cols+i] * x[r*cols+j]
				}
			} else {
				rowI, rowJ := x[i*cols:(i+1)*cols], x[j*cols:(j+1)*cols]
				for c := range cols {
					sum += rowI[c] * rowJ[c]
				}
			}
			out[i*n+j] = sum
			out[j*n+i] = sum
		}
	}
}
