// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"slices"
	"strings"
)

// Family groups opcodes that share a dispatch table and an execution shape.
type Family int

const (
	FamilyInvalid Family = iota
	FamilyArithmetic
	FamilyTransposeSelfProduct

	// FamilyReorg is reserved for reorganization operators (transpose, diagonal extraction, sort). No opcode
	// maps to it yet.
	FamilyReorg
)

// OpTag identifies the operator function an Instruction applies. It is set once at resolution time.
type OpTag int

const (
	OpInvalid OpTag = iota
	OpPlus
	OpMinus
	OpMultiply

	// OpMultiply2 is the multiply-by-two rewrite emitted by the optimizer (x*2). Its scalar operand is still
	// explicit in the instruction.
	OpMultiply2
	OpDivide
	OpTransposeSelfMatMult
)

// OpcodeInfo describes one entry of the opcode table.
type OpcodeInfo struct {
	Opcode string
	Family Family
	Op     OpTag

	// NumOperands includes the output, which is always the last operand.
	NumOperands int

	// NumFlags is the number of trailing operator-specific fields.
	NumFlags int
}

// Arity is the number of fields after the opcode.
func (info OpcodeInfo) Arity() int {
	return info.NumOperands + info.NumFlags
}

var opcodeTable = map[string]OpcodeInfo{
	"+":    {Opcode: "+", Family: FamilyArithmetic, Op: OpPlus, NumOperands: 3},
	"-":    {Opcode: "-", Family: FamilyArithmetic, Op: OpMinus, NumOperands: 3},
	"*":    {Opcode: "*", Family: FamilyArithmetic, Op: OpMultiply, NumOperands: 3},
	"*2":   {Opcode: "*2", Family: FamilyArithmetic, Op: OpMultiply2, NumOperands: 3},
	"/":    {Opcode: "/", Family: FamilyArithmetic, Op: OpDivide, NumOperands: 3},
	"tsmm": {Opcode: "tsmm", Family: FamilyTransposeSelfProduct, Op: OpTransposeSelfMatMult, NumOperands: 2, NumFlags: 1},
}

// OpSet is a set of OpTag values, as a bit mask.
type OpSet uint32

// NewOpSet returns the set with the given ops.
func NewOpSet(ops ...OpTag) OpSet {
	var s OpSet
	for _, op := range ops {
		s |= 1 << uint(op)
	}
	return s
}

// Has returns whether op is in the set.
func (s OpSet) Has(op OpTag) bool {
	return op >= 0 && op < 32 && s&(1<<uint(op)) != 0
}

// Ops returns the members of the set in increasing order.
func (s OpSet) Ops() []OpTag {
	var ops []OpTag
	for _, op := range OpTagValues() {
		if s.Has(op) {
			ops = append(ops, op)
		}
	}
	return ops
}

// String implements fmt.Stringer.
func (s OpSet) String() string {
	names := make([]string, 0, len(OpTagValues()))
	for _, op := range s.Ops() {
		names = append(names, op.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

var (
	// CellwiseOps are applied element by element to two matrices of identical shape.
	CellwiseOps = NewOpSet(OpPlus, OpMinus)

	// ScalarOps combine one matrix with one scalar, in either operand position.
	ScalarOps = NewOpSet(OpMultiply, OpMultiply2, OpDivide)
)

// LookupOpcode returns the opcode table entry for opcode.
func LookupOpcode(opcode string) (OpcodeInfo, bool) {
	info, found := opcodeTable[opcode]
	return info, found
}

// Opcodes returns all known opcodes, sorted.
func Opcodes() []string {
	opcodes := make([]string, 0, len(opcodeTable))
	for opcode := range opcodeTable {
		opcodes = append(opcodes, opcode)
	}
	slices.Sort(opcodes)
	return opcodes
}
