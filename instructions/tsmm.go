// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"fmt"

	"github.com/gomlx/matinst/types/shapes"
)

// TSMMSide selects which side of the product is transposed in a transpose-self matrix multiplication.
type TSMMSide int

const (
	// TSMMLeft computes Xᵀ·X: the output is cols×cols.
	TSMMLeft TSMMSide = iota

	// TSMMRight computes X·Xᵀ: the output is rows×rows.
	TSMMRight
)

// OutputDim returns the dimension of the square output, for an input of the given rows and columns.
func (side TSMMSide) OutputDim(rows, cols int) int {
	if side == TSMMLeft {
		return cols
	}
	return rows
}

// TransposeSelfMatMult multiplies a matrix by its own transpose.
type TransposeSelfMatMult struct {
	instruction
	kernels Kernels
	side    TSMMSide
}

var _ Instruction = (*TransposeSelfMatMult)(nil)

func newTransposeSelfMatMult(req Request, kernels Kernels) (*TransposeSelfMatMult, error) {
	side, err := TSMMSideString(req.Flags[0])
	if err != nil {
		return nil, &Error{
			Kind:     KindMalformedInstruction,
			Opcode:   req.Info.Opcode,
			Operands: namesOf(req.Operands),
			Reason:   fmt.Sprintf("invalid tsmm side %q, valid values are %q", req.Flags[0], TSMMSideStrings()),
		}
	}
	return &TransposeSelfMatMult{instruction: newInstruction(req), kernels: kernels, side: side}, nil
}

// Side of the transposition.
func (inst *TransposeSelfMatMult) Side() TSMMSide { return inst.side }

// Execute implements Instruction.
func (inst *TransposeSelfMatMult) Execute(rc ResourceContext, sink StatsSink) error {
	return inst.run(rc, sink, func(s *scope) error {
		in, err := s.readMatrix(inst.operands[0])
		if err != nil {
			return err
		}
		shape := in.Shape()
		dim := inst.side.OutputDim(shape.Rows(), shape.Cols())
		out, err := s.write(inst.Output(), shapes.Matrix(shape.DType, dim, dim))
		if err != nil {
			return err
		}
		return s.compute(func() error {
			return inst.kernels.TransposeSelfMatMult(in, out, inst.side)
		})
	})
}
