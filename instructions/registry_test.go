// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	M = DataKindMatrix
	S = DataKindScalar
	U = DataKindUnknown
)

func newTestRegistry() *Registry {
	return NewStandardRegistry(map[DeviceClass]Kernels{
		DeviceCPU:                &fakeKernels{},
		DeviceAccelerator:        &fakeKernels{},
		DeviceDistributedDataset: &fakeKernels{},
	})
}

func TestSignature(t *testing.T) {
	assert.Equal(t, "(MATRIX, SCALAR, MATRIX)", Signature{M, S, M}.String())
	assert.True(t, Signature{M, S, M}.Matches(Signature{M, S, M}))
	assert.False(t, Signature{M, S, M}.Matches(Signature{S, M, M}))
	assert.False(t, Signature{M, M}.Matches(Signature{M, M, M}))
	assert.True(t, Signature{M, U, M}.Matches(Signature{M, S, M}))
	assert.True(t, Signature{M, U, M}.Matches(Signature{M, U, M}))
	assert.False(t, Signature{M, S, M}.Matches(Signature{M, U, M}), "observed unknown only matches a wildcard")

	assert.True(t, Signature{M, U, M}.Overlaps(Signature{M, S, M}))
	assert.False(t, Signature{M, S, M}.Overlaps(Signature{S, M, M}))
	assert.False(t, Signature{M, M}.Overlaps(Signature{M, M, M}))
}

// TestDispatchUniqueness checks that the registered signatures of every (opcode, device) pair are pairwise
// non-overlapping and that every observed signature resolves to at most one variant.
func TestDispatchUniqueness(t *testing.T) {
	r := newTestRegistry()
	for _, opcode := range Opcodes() {
		for _, device := range DeviceClassValues() {
			sigs := r.Signatures(opcode, device)
			require.NotEmpty(t, sigs, "opcode %q on %s", opcode, device)
			for i := range sigs {
				for j := range sigs {
					if i != j {
						assert.False(t, sigs[i].Overlaps(sigs[j]), "%q on %s: %s overlaps %s", opcode, device, sigs[i], sigs[j])
					}
				}
			}
		}
	}
	// 6 opcodes: 2 cellwise (1 signature each), 3 scalar (2 each), tsmm (1) => 9 per device.
	assert.Len(t, r.Entries(), 9*3)
}

func TestRegisterPanics(t *testing.T) {
	factory := func(req Request) (Instruction, error) { return nil, nil }
	r := NewRegistry()
	r.Register("+", DeviceCPU, Signature{M, M, M}, factory)

	// Duplicate triple.
	require.Panics(t, func() { r.Register("+", DeviceCPU, Signature{M, M, M}, factory) })
	// Overlapping wildcard.
	require.Panics(t, func() { r.Register("+", DeviceCPU, Signature{M, U, M}, factory) })
	// Unknown opcode, wrong length, nil factory, invalid device.
	require.Panics(t, func() { r.Register("r'", DeviceCPU, Signature{M, M}, factory) })
	require.Panics(t, func() { r.Register("-", DeviceCPU, Signature{M, M}, factory) })
	require.Panics(t, func() { r.Register("-", DeviceCPU, Signature{M, M, M}, nil) })
	require.Panics(t, func() { r.Register("-", DeviceClass(17), Signature{M, M, M}, factory) })

	// Same signature on a different device, or a disjoint one, is fine.
	require.NotPanics(t, func() { r.Register("+", DeviceAccelerator, Signature{M, M, M}, factory) })
	require.NotPanics(t, func() { r.Register("+", DeviceCPU, Signature{S, S, S}, factory) })
	require.Panics(t, func() { RegisterStandardOps(NewRegistry(), DeviceCPU, nil) })
}

func TestResolve(t *testing.T) {
	r := newTestRegistry()

	inst, err := r.Resolve(DeviceCPU, "+", []Operand{matrixOp("A"), matrixOp("B"), matrixOp("C")})
	require.NoError(t, err)
	require.IsType(t, &MatrixMatrixArithmetic{}, inst)
	assert.Equal(t, OpPlus, inst.Op())
	assert.Equal(t, DeviceCPU, inst.Device())
	assert.Equal(t, "C", inst.Output().Name())

	inst, err = r.Resolve(DeviceAccelerator, "-", []Operand{matrixOp("A"), matrixOp("B"), matrixOp("C")})
	require.NoError(t, err)
	assert.Equal(t, OpMinus, inst.Op())
	assert.Equal(t, DeviceAccelerator, inst.Device())

	// Scalar-position independence: both orders resolve to the matrix-scalar variant.
	for _, opcode := range []string{"*", "*2", "/"} {
		left, err := r.Resolve(DeviceCPU, opcode, []Operand{scalarOp("s"), matrixOp("A"), matrixOp("C")})
		require.NoError(t, err)
		right, err := r.Resolve(DeviceCPU, opcode, []Operand{matrixOp("A"), scalarOp("s"), matrixOp("C")})
		require.NoError(t, err)
		require.IsType(t, &MatrixScalarArithmetic{}, left)
		require.IsType(t, &MatrixScalarArithmetic{}, right)
		assert.Equal(t, left.Op(), right.Op())
		assert.True(t, left.(*MatrixScalarArithmetic).ScalarOnLeft())
		assert.False(t, right.(*MatrixScalarArithmetic).ScalarOnLeft())
		assert.Equal(t, "A", left.(*MatrixScalarArithmetic).MatrixOperand().Name())
		assert.Equal(t, "s", right.(*MatrixScalarArithmetic).ScalarOperand().Name())
	}

	inst, err = r.Resolve(DeviceDistributedDataset, "tsmm", []Operand{matrixOp("X"), matrixOp("Y")}, "LEFT")
	require.NoError(t, err)
	require.IsType(t, &TransposeSelfMatMult{}, inst)
	assert.Equal(t, TSMMLeft, inst.(*TransposeSelfMatMult).Side())
	assert.Equal(t, []string{"LEFT"}, inst.Flags())
}

func TestResolveErrors(t *testing.T) {
	r := newTestRegistry()

	// "+" of two scalars is not in the matrix-oriented table.
	_, err := r.Resolve(DeviceCPU, "+", []Operand{scalarOp("a"), scalarOp("b"), scalarOp("c")})
	require.ErrorIs(t, err, ErrUnsupportedSignature)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "+", e.Opcode)
	assert.Equal(t, DeviceCPU, e.Device)
	assert.Equal(t, Signature{S, S, S}, e.Signature)
	assert.Contains(t, err.Error(), "(SCALAR, SCALAR, SCALAR)")

	// Matrix-scalar signature for a cellwise opcode, and vice versa.
	_, err = r.Resolve(DeviceCPU, "+", []Operand{matrixOp("A"), scalarOp("s"), matrixOp("C")})
	require.ErrorIs(t, err, ErrUnsupportedSignature)
	_, err = r.Resolve(DeviceCPU, "*", []Operand{matrixOp("A"), matrixOp("B"), matrixOp("C")})
	require.ErrorIs(t, err, ErrUnsupportedSignature)
	_, err = r.Resolve(DeviceCPU, "/", []Operand{scalarOp("a"), scalarOp("b"), matrixOp("C")})
	require.ErrorIs(t, err, ErrUnsupportedSignature)

	// Unknown data kinds don't match concrete signatures.
	_, err = r.Resolve(DeviceCPU, "+", []Operand{
		NewOperand("A", ValueKindUnknown, DataKindUnknown), matrixOp("B"), matrixOp("C")})
	require.ErrorIs(t, err, ErrUnsupportedSignature)

	// Unknown opcode.
	_, err = r.Resolve(DeviceCPU, "r'", []Operand{matrixOp("A"), matrixOp("B")})
	require.ErrorIs(t, err, ErrUnsupportedSignature)
	assert.Equal(t, KindUnsupportedSignature, KindOf(err))

	// No kernels for the device.
	cpuOnly := NewStandardRegistry(map[DeviceClass]Kernels{DeviceCPU: &fakeKernels{}})
	_, err = cpuOnly.Resolve(DeviceAccelerator, "+", []Operand{matrixOp("A"), matrixOp("B"), matrixOp("C")})
	require.ErrorIs(t, err, ErrUnsupportedSignature)

	// Bad tsmm flags.
	_, err = r.Resolve(DeviceCPU, "tsmm", []Operand{matrixOp("X"), matrixOp("Y")}, "UP")
	require.ErrorIs(t, err, ErrMalformedInstruction)
	_, err = r.Resolve(DeviceCPU, "tsmm", []Operand{matrixOp("X"), matrixOp("Y")})
	require.ErrorIs(t, err, ErrMalformedInstruction)

	// Bad literal.
	_, err = r.Resolve(DeviceCPU, "*", []Operand{matrixOp("A"), NewLiteral("two", ValueKindInt), matrixOp("C")})
	require.ErrorIs(t, err, ErrMalformedInstruction)
	assert.Equal(t, KindInvalid, KindOf(nil))
}

func TestResolveLine(t *testing.T) {
	r := newTestRegistry()
	inst, err := r.ResolveLine("GPU°*°A·DOUBLE·MATRIX°2·INT·SCALAR·true°B·DOUBLE·MATRIX", DeviceCPU)
	require.NoError(t, err)
	assert.Equal(t, DeviceAccelerator, inst.Device())
	assert.Equal(t, OpMultiply, inst.Op())

	inst, err = r.ResolveLine("tsmm°X·DOUBLE·MATRIX°Y·DOUBLE·MATRIX°right", DeviceDistributedDataset)
	require.NoError(t, err)
	assert.Equal(t, DeviceDistributedDataset, inst.Device())
	assert.Equal(t, TSMMRight, inst.(*TransposeSelfMatMult).Side())

	line := "+°a·DOUBLE·SCALAR°b·DOUBLE·SCALAR°c·DOUBLE·SCALAR"
	_, err = r.ResolveLine(line, DeviceCPU)
	require.ErrorIs(t, err, ErrUnsupportedSignature)
	assert.Equal(t, line, err.(*Error).Line)

	line = "CP°+°A·DOUBLE·MATRIX°B·DOUBLE·BLOB°C·DOUBLE·MATRIX"
	_, err = r.ResolveLine(line, DeviceCPU)
	require.ErrorIs(t, err, ErrMalformedInstruction)
	assert.Equal(t, "+", err.(*Error).Opcode)
	assert.Contains(t, err.(*Error).Line, "B·DOUBLE·BLOB")
}
