// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/matinst/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// scope tracks the handles acquired during one Execute call, so they can all be released on exit.
type scope struct {
	inst   *instruction
	rc     ResourceContext
	inputs []Handle
	output WriteHandle
}

// run executes body within a new scope: on success the sink is notified, and in every case the handles
// acquired by body are released, inputs first and then the output.
func (b *instruction) run(rc ResourceContext, sink StatsSink, body func(s *scope) error) (err error) {
	if sink == nil {
		sink = NoStats
	}
	s := &scope{inst: b, rc: rc}
	defer func() {
		err = s.release(err)
	}()
	if err = body(s); err != nil {
		return err
	}
	sink.IncrementExecuted(b.device)
	if klog.V(2).Enabled() {
		klog.Infof("executed %s", b)
	}
	return nil
}

// newError returns an *Error of the given kind with the instruction's context filled in.
func (s *scope) newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Opcode:    s.inst.opcode,
		Device:    s.inst.device,
		Signature: dataKindsOf(s.inst.operands),
		Operands:  namesOf(s.inst.operands),
		Reason:    fmt.Sprintf(format, args...),
		cause:     cause,
	}
}

// shapeMismatchf returns a KindShapeMismatch error reporting the offending shapes.
func (s *scope) shapeMismatchf(offending []shapes.Shape, format string, args ...any) *Error {
	e := s.newError(KindShapeMismatch, nil, format, args...)
	e.Shapes = offending
	return e
}

// read acquires a read handle for the operand.
func (s *scope) read(o Operand) (Handle, error) {
	h, err := s.rc.AcquireRead(o.Name())
	if err != nil {
		return nil, s.newError(KindResourceAcquisitionFailure, err, "failed to acquire %q for reading", o.Name())
	}
	if h == nil {
		return nil, s.newError(KindResourceAcquisitionFailure, nil, "nil handle acquired for %q", o.Name())
	}
	s.inputs = append(s.inputs, h)
	return h, nil
}

// readMatrix acquires a read handle for a matrix operand and checks it holds a matrix.
func (s *scope) readMatrix(o Operand) (Handle, error) {
	h, err := s.read(o)
	if err != nil {
		return nil, err
	}
	if !h.Shape().IsMatrix() {
		return nil, s.shapeMismatchf([]shapes.Shape{h.Shape()}, "operand %q must hold a matrix", o.Name())
	}
	return h, nil
}

// readScalar returns the value of a scalar operand: literals are parsed, variables are acquired and read.
func (s *scope) readScalar(o Operand) (float64, error) {
	if o.IsLiteral() {
		v, err := o.LiteralValue()
		if err != nil {
			return 0, s.newError(KindMalformedInstruction, err, "invalid literal operand")
		}
		return v, nil
	}
	h, err := s.read(o)
	if err != nil {
		return 0, err
	}
	if !h.Shape().IsScalar() {
		return 0, s.shapeMismatchf([]shapes.Shape{h.Shape()}, "operand %q must hold a scalar", o.Name())
	}
	v, err := ScalarValue(h)
	if err != nil {
		return 0, s.newError(KindResourceAcquisitionFailure, err, "failed to read scalar %q", o.Name())
	}
	return v, nil
}

// write registers the output shape and acquires its write handle.
func (s *scope) write(o Operand, shape shapes.Shape) (WriteHandle, error) {
	if err := s.rc.SetOutputShape(o.Name(), shape.Rows(), shape.Cols()); err != nil {
		return nil, s.newError(KindResourceAcquisitionFailure, err, "failed to set output shape %s of %q", shape, o.Name())
	}
	h, err := s.rc.AcquireWrite(o.Name(), shape)
	if err != nil {
		return nil, s.newError(KindResourceAcquisitionFailure, err, "failed to acquire %q for writing", o.Name())
	}
	if h == nil {
		return nil, s.newError(KindResourceAcquisitionFailure, nil, "nil write handle acquired for %q", o.Name())
	}
	s.output = h
	return h, nil
}

// compute runs the kernel and marks the output written if it succeeds.
// Kernel errors and panics become KindComputationFailure.
func (s *scope) compute(kernel func() error) error {
	var kernelErr error
	if exception := exceptions.Try(func() { kernelErr = kernel() }); exception != nil {
		if e, ok := exception.(error); ok {
			kernelErr = errors.Wrap(e, "kernel panicked")
		} else {
			kernelErr = errors.Errorf("kernel panicked: %v", exception)
		}
	}
	if kernelErr != nil {
		return s.newError(KindComputationFailure, kernelErr, "kernel failed")
	}
	s.output.MarkWritten()
	return nil
}

// release every acquired handle. If err is nil the first release failure is returned, otherwise release
// failures are only logged and err is returned.
func (s *scope) release(err error) error {
	var releaseErr error
	releaseOne := func(h Handle) {
		rErr := s.rc.Release(h)
		if rErr == nil {
			return
		}
		if err == nil && releaseErr == nil {
			releaseErr = s.newError(KindResourceAcquisitionFailure, rErr, "failed to release %q", h.Name())
			return
		}
		klog.Warningf("%s: failed to release %q: %v", s.inst, h.Name(), rErr)
	}
	for _, h := range s.inputs {
		releaseOne(h)
	}
	if s.output != nil {
		releaseOne(s.output)
	}
	s.inputs, s.output = nil, nil
	if err != nil {
		return err
	}
	return releaseErr
}
