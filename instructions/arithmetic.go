// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"fmt"

	"github.com/gomlx/matinst/types/shapes"
)

// MatrixMatrixArithmetic is a cellwise operation (OpPlus or OpMinus) of two matrices of identical shape.
type MatrixMatrixArithmetic struct {
	instruction
	kernels Kernels
}

var _ Instruction = (*MatrixMatrixArithmetic)(nil)

func newMatrixMatrixArithmetic(req Request, kernels Kernels) (*MatrixMatrixArithmetic, error) {
	if !CellwiseOps.Has(req.Info.Op) {
		return nil, &Error{
			Kind:      KindUnsupportedSignature,
			Opcode:    req.Info.Opcode,
			Device:    req.Device,
			Signature: dataKindsOf(req.Operands),
			Reason:    fmt.Sprintf("operator %s is not a cellwise matrix-matrix operator", req.Info.Op),
		}
	}
	return &MatrixMatrixArithmetic{instruction: newInstruction(req), kernels: kernels}, nil
}

// Execute implements Instruction.
func (inst *MatrixMatrixArithmetic) Execute(rc ResourceContext, sink StatsSink) error {
	return inst.run(rc, sink, func(s *scope) error {
		in1, err := s.readMatrix(inst.operands[0])
		if err != nil {
			return err
		}
		in2, err := s.readMatrix(inst.operands[1])
		if err != nil {
			return err
		}
		shape1, shape2 := in1.Shape(), in2.Shape()
		if !shape1.EqualDimensions(shape2) {
			return s.shapeMismatchf([]shapes.Shape{shape1, shape2},
				"cellwise %s requires inputs of identical dimensions", inst.op)
		}
		out, err := s.write(inst.Output(), shapes.Matrix(shape1.DType, shape1.Rows(), shape1.Cols()))
		if err != nil {
			return err
		}
		return s.compute(func() error {
			return inst.kernels.CellwiseAddSub(in1, in2, out, inst.op == OpPlus)
		})
	})
}

// MatrixScalarArithmetic multiplies or divides (OpMultiply, OpMultiply2 or OpDivide) a matrix by a scalar.
// The scalar can be either operand: with the scalar on the left, OpDivide computes scalar/matrix cellwise.
type MatrixScalarArithmetic struct {
	instruction
	kernels Kernels

	// matrixPos is the operand index (0 or 1) of the matrix; the scalar is the other one.
	matrixPos int

	// literal holds the parsed value of a literal scalar operand.
	literal float64
}

var _ Instruction = (*MatrixScalarArithmetic)(nil)

func newMatrixScalarArithmetic(req Request, kernels Kernels) (*MatrixScalarArithmetic, error) {
	if !ScalarOps.Has(req.Info.Op) {
		return nil, &Error{
			Kind:      KindUnsupportedSignature,
			Opcode:    req.Info.Opcode,
			Device:    req.Device,
			Signature: dataKindsOf(req.Operands),
			Reason:    fmt.Sprintf("operator %s is not a matrix-scalar operator", req.Info.Op),
		}
	}
	inst := &MatrixScalarArithmetic{instruction: newInstruction(req), kernels: kernels}
	if !inst.operands[0].IsMatrix() {
		inst.matrixPos = 1
	}
	if scalar := inst.ScalarOperand(); scalar.IsLiteral() {
		v, err := scalar.LiteralValue()
		if err != nil {
			return nil, &Error{
				Kind:     KindMalformedInstruction,
				Opcode:   req.Info.Opcode,
				Operands: namesOf(req.Operands),
				Reason:   "invalid scalar literal",
				cause:    err,
			}
		}
		inst.literal = v
	}
	return inst, nil
}

// MatrixOperand returns the matrix input.
func (inst *MatrixScalarArithmetic) MatrixOperand() Operand { return inst.operands[inst.matrixPos] }

// ScalarOperand returns the scalar input.
func (inst *MatrixScalarArithmetic) ScalarOperand() Operand { return inst.operands[1-inst.matrixPos] }

// ScalarOnLeft returns whether the scalar is the first operand.
func (inst *MatrixScalarArithmetic) ScalarOnLeft() bool { return inst.matrixPos == 1 }

// Execute implements Instruction.
func (inst *MatrixScalarArithmetic) Execute(rc ResourceContext, sink StatsSink) error {
	return inst.run(rc, sink, func(s *scope) error {
		var (
			matrix Handle
			scalar float64
			err    error
		)
		for pos, operand := range inst.operands[:2] {
			switch {
			case pos == inst.matrixPos:
				matrix, err = s.readMatrix(operand)
			case operand.IsLiteral():
				scalar = inst.literal
			default:
				scalar, err = s.readScalar(operand)
			}
			if err != nil {
				return err
			}
		}
		shape := matrix.Shape()
		out, err := s.write(inst.Output(), shapes.Matrix(shape.DType, shape.Rows(), shape.Cols()))
		if err != nil {
			return err
		}
		return s.compute(func() error {
			return inst.kernels.ScalarMultDiv(matrix, scalar, inst.ScalarOnLeft(), out, inst.op)
		})
	})
}
