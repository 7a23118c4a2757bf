// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"maps"
	"slices"

	"github.com/gomlx/exceptions"
)

// RegisterStandardOps registers the standard operators for the device, executed with kernels:
//
//   - "+", "-": (MATRIX, MATRIX, MATRIX) as MatrixMatrixArithmetic.
//   - "*", "*2", "/": (MATRIX, SCALAR, MATRIX) and (SCALAR, MATRIX, MATRIX) as MatrixScalarArithmetic.
//   - "tsmm": (MATRIX, MATRIX) with a LEFT or RIGHT flag, as TransposeSelfMatMult.
func RegisterStandardOps(r *Registry, device DeviceClass, kernels Kernels) {
	if kernels == nil {
		exceptions.Panicf("instructions.RegisterStandardOps(%s): nil kernels", device)
	}
	const M, S = DataKindMatrix, DataKindScalar
	cellwise := func(req Request) (Instruction, error) { return newMatrixMatrixArithmetic(req, kernels) }
	for _, opcode := range []string{"+", "-"} {
		r.Register(opcode, device, Signature{M, M, M}, cellwise)
	}
	scalar := func(req Request) (Instruction, error) { return newMatrixScalarArithmetic(req, kernels) }
	for _, opcode := range []string{"*", "*2", "/"} {
		r.Register(opcode, device, Signature{M, S, M}, scalar)
		r.Register(opcode, device, Signature{S, M, M}, scalar)
	}
	r.Register("tsmm", device, Signature{M, M}, func(req Request) (Instruction, error) {
		return newTransposeSelfMatMult(req, kernels)
	})
}

// NewStandardRegistry returns a Registry with the standard operators registered for each device class with
// its kernels.
func NewStandardRegistry(kernelsPerDevice map[DeviceClass]Kernels) *Registry {
	r := NewRegistry()
	for _, device := range slices.Sorted(maps.Keys(kernelsPerDevice)) {
		RegisterStandardOps(r, device, kernelsPerDevice[device])
	}
	return r
}
