// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"fmt"
	"strings"

	"github.com/gomlx/matinst/types/shapes"
	"github.com/pkg/errors"
)

// ErrorKind classifies failures of loading, resolving or executing an instruction.
type ErrorKind int

const (
	KindInvalid ErrorKind = iota

	// KindMalformedInstruction is a syntax or arity error in the instruction text.
	KindMalformedInstruction

	// KindUnsupportedSignature is an unknown opcode, or an operand signature with no implementation for the
	// device class.
	KindUnsupportedSignature

	// KindShapeMismatch means the input shapes violate the operator's shape rule.
	KindShapeMismatch

	// KindResourceAcquisitionFailure means the ResourceContext failed to provide, or to release, a handle.
	KindResourceAcquisitionFailure

	// KindComputationFailure means the numeric kernel returned an error or panicked.
	KindComputationFailure
)

// Sentinels to be used with errors.Is: they match any *Error of the same kind.
var (
	ErrMalformedInstruction       = &Error{Kind: KindMalformedInstruction}
	ErrUnsupportedSignature       = &Error{Kind: KindUnsupportedSignature}
	ErrShapeMismatch              = &Error{Kind: KindShapeMismatch}
	ErrResourceAcquisitionFailure = &Error{Kind: KindResourceAcquisitionFailure}
	ErrComputationFailure         = &Error{Kind: KindComputationFailure}
)

// Error is the structured error returned by every function of this package.
//
// Contextual fields are filled when known. Device is only meaningful if Kind is not KindMalformedInstruction.
type Error struct {
	Kind      ErrorKind
	Opcode    string
	Line      string
	Device    DeviceClass
	Signature Signature
	Operands  []string
	Shapes    []shapes.Shape
	Reason    string

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Opcode != "" {
		_, _ = fmt.Fprintf(&sb, " for opcode %q", e.Opcode)
	}
	if e.Kind != KindMalformedInstruction {
		_, _ = fmt.Fprintf(&sb, " on %s", e.Device)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Signature != nil {
		_, _ = fmt.Fprintf(&sb, "; signature %s", e.Signature)
	}
	if len(e.Operands) > 0 {
		_, _ = fmt.Fprintf(&sb, "; operands %q", e.Operands)
	}
	if len(e.Shapes) > 0 {
		_, _ = fmt.Fprintf(&sb, "; shapes %v", e.Shapes)
	}
	if e.Line != "" {
		_, _ = fmt.Fprintf(&sb, "; line %q", e.Line)
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the ErrorKind of err, or KindInvalid if err doesn't wrap an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInvalid
}

// withLocation fills the Line and Opcode of err, if it is an *Error that doesn't have them yet.
func withLocation(err error, line, opcode string) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Line == "" {
			e.Line = line
		}
		if e.Opcode == "" {
			e.Opcode = opcode
		}
	}
	return err
}

func malformedf(line, opcode, format string, args ...any) *Error {
	return &Error{
		Kind:   KindMalformedInstruction,
		Opcode: opcode,
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
	}
}
