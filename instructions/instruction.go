// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"slices"
)

// Instruction is a resolved, executable instruction. The set of implementations is closed:
// *MatrixMatrixArithmetic, *MatrixScalarArithmetic and *TransposeSelfMatMult, and they are only built by a
// Registry.
//
// Instructions are immutable: Execute can be called any number of times, concurrently.
type Instruction interface {
	Opcode() string
	Op() OpTag
	Device() DeviceClass

	// Operands returns a copy of the operands, inputs first and the output last.
	Operands() []Operand

	// Output operand.
	Output() Operand

	// Flags returns a copy of the trailing operator-specific fields.
	Flags() []string

	// Execute runs the instruction against rc, reporting to sink. sink can be nil.
	//
	// Every handle acquired from rc is released exactly once before Execute returns, also on errors.
	// Errors are *Error.
	Execute(rc ResourceContext, sink StatsSink) error

	// String returns the instruction text, prefixed by its exec-type.
	String() string

	base() *instruction
}

// instruction holds the fields common to all Instruction implementations.
type instruction struct {
	opcode   string
	op       OpTag
	device   DeviceClass
	operands []Operand
	flags    []string
}

func newInstruction(req Request) instruction {
	return instruction{
		opcode:   req.Info.Opcode,
		op:       req.Info.Op,
		device:   req.Device,
		operands: slices.Clone(req.Operands),
		flags:    slices.Clone(req.Flags),
	}
}

func (b *instruction) base() *instruction { return b }

// Opcode of the instruction.
func (b *instruction) Opcode() string { return b.opcode }

// Op is the operator tag selected at resolution.
func (b *instruction) Op() OpTag { return b.op }

// Device the instruction was resolved for.
func (b *instruction) Device() DeviceClass { return b.device }

// Operands of the instruction, the output last.
func (b *instruction) Operands() []Operand { return slices.Clone(b.operands) }

// Output operand.
func (b *instruction) Output() Operand { return b.operands[len(b.operands)-1] }

// Flags of the instruction.
func (b *instruction) Flags() []string { return slices.Clone(b.flags) }

// String implements fmt.Stringer.
func (b *instruction) String() string {
	return EncodeWithExecType(b.device, b.opcode, b.operands, b.flags...)
}
