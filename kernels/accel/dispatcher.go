// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package accel

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Kernel computes an operation on flat slices: the output first, then the inputs, then any extra arguments.
type Kernel func(args ...any)

// nativeFloat are the Go types the kernels are written for.
type nativeFloat interface {
	float32 | float64
}

// KernelTable holds the Kernel of one operation for each dtype.
//
// A dtype is either native, with its own Kernel, or promoted: its flat slices are converted to float32 and
// computed with the float32 Kernel registered at the time of the call. A native Kernel always takes
// precedence over a promotion.
//
// KernelTable is not safe for concurrent registration, it is meant to be filled during initialization.
type KernelTable struct {
	op       string
	native   map[dtypes.DType]Kernel
	promoted map[dtypes.DType]int // number of leading flat arguments to convert.
}

// NewKernelTable creates an empty table for the named operation.
func NewKernelTable(op string) *KernelTable {
	return &KernelTable{op: op, native: make(map[dtypes.DType]Kernel), promoted: make(map[dtypes.DType]int)}
}

// Op is the name of the operation.
func (t *KernelTable) Op() string { return t.op }

// Set registers the native kernel for dtype, replacing any previous kernel or promotion.
func (t *KernelTable) Set(dtype dtypes.DType, kernel Kernel) {
	t.native[dtype] = kernel
	delete(t.promoted, dtype)
}

// PromoteToFloat32 computes dtype (Float16 or BFloat16) through the float32 kernel, converting the first
// numFlat arguments and then converting the output back. It is a no-op if dtype already has a native kernel.
func (t *KernelTable) PromoteToFloat32(dtype dtypes.DType, numFlat int) error {
	if dtype != dtypes.Float16 && dtype != dtypes.BFloat16 {
		return errors.Errorf("%s: %s can't be promoted to float32", t.op, dtype)
	}
	if _, found := t.native[dtype]; found {
		return nil
	}
	t.promoted[dtype] = numFlat
	return nil
}

// IsNative returns whether dtype has its own kernel.
func (t *KernelTable) IsNative(dtype dtypes.DType) bool {
	_, found := t.native[dtype]
	return found
}

// Supports returns whether Call can compute dtype.
func (t *KernelTable) Supports(dtype dtypes.DType) bool {
	if t.IsNative(dtype) {
		return true
	}
	_, promoted := t.promoted[dtype]
	return promoted && t.IsNative(dtypes.Float32)
}

// DTypes returns the supported dtypes, sorted.
func (t *KernelTable) DTypes() []dtypes.DType {
	var supported []dtypes.DType
	for dtype := range t.native {
		supported = append(supported, dtype)
	}
	for dtype := range t.promoted {
		if t.Supports(dtype) {
			supported = append(supported, dtype)
		}
	}
	slices.Sort(supported)
	return supported
}

// Call computes the operation for dtype.
func (t *KernelTable) Call(dtype dtypes.DType, args ...any) error {
	if kernel, found := t.native[dtype]; found {
		kernel(args...)
		return nil
	}
	numFlat, promoted := t.promoted[dtype]
	kernel32, found := t.native[dtypes.Float32]
	if !promoted || !found {
		return errors.Errorf("%s: dtype %s not supported on the accelerator", t.op, dtype)
	}
	converted := slices.Clone(args)
	for i := range numFlat {
		flat, err := toFloat32(args[i])
		if err != nil {
			return errors.WithMessagef(err, "%s: argument #%d", t.op, i)
		}
		converted[i] = flat
	}
	kernel32(converted...)
	return fromFloat32(args[0], converted[0].([]float32))
}

func toFloat32(flat any) ([]float32, error) {
	switch f := flat.(type) {
	case []float16.Float16:
		return convert(f, float16.Float16.Float32), nil
	case []bfloat16.BFloat16:
		return convert(f, bfloat16.BFloat16.Float32), nil
	}
	return nil, errors.Errorf("no float32 conversion for %T", flat)
}

func fromFloat32(dst any, src []float32) error {
	switch d := dst.(type) {
	case []float16.Float16:
		for i, v := range src {
			d[i] = float16.Fromfloat32(v)
		}
	case []bfloat16.BFloat16:
		for i, v := range src {
			d[i] = bfloat16.FromFloat32(v)
		}
	default:
		return errors.Errorf("no float32 conversion for output %T", dst)
	}
	return nil
}

func convert[From, To any](src []From, fn func(From) To) []To {
	dst := make([]To, len(src))
	for i, v := range src {
		dst[i] = fn(v)
	}
	return dst
}

// newFloatTable creates the table of an operation written generically for the native floats, with the
// half-precision dtypes promoted.
func newFloatTable(op string, kernel32, kernel64 Kernel, numFlat int) *KernelTable {
	t := NewKernelTable(op)
	t.Set(dtypes.Float32, kernel32)
	t.Set(dtypes.Float64, kernel64)
	for _, dtype := range []dtypes.DType{dtypes.Float16, dtypes.BFloat16} {
		_ = t.PromoteToFloat32(dtype, numFlat)
	}
	return t
}
