// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Operand describes one argument of an instruction: a reference into the ResourceContext namespace, or an
// inline scalar constant (a literal), in which case the name holds the value.
//
// Operand is immutable and comparable.
type Operand struct {
	name      string
	dataKind  DataKind
	valueKind ValueKind
	literal   bool
}

// NewOperand creates a named (non-literal) operand.
//
// It panics if the name is not encodable, see ValidateName.
func NewOperand(name string, valueKind ValueKind, dataKind DataKind) Operand {
	if err := ValidateName(name); err != nil {
		exceptions.Panicf("instructions.NewOperand: %v", err)
	}
	return Operand{name: name, dataKind: dataKind, valueKind: valueKind}
}

// NewLiteral creates an inline scalar constant, e.g. NewLiteral("2", ValueKindInt).
//
// It panics if the value is not encodable, see ValidateName.
func NewLiteral(value string, valueKind ValueKind) Operand {
	if err := ValidateName(value); err != nil {
		exceptions.Panicf("instructions.NewLiteral: %v", err)
	}
	return Operand{name: value, dataKind: DataKindScalar, valueKind: valueKind, literal: true}
}

// ValidateName returns an error if name can't be used as an operand name or literal value: it must be
// non-empty, have no surrounding whitespace and contain neither FieldSeparator nor OperandSeparator.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("empty operand name")
	case strings.TrimSpace(name) != name:
		return errors.Errorf("operand name %q has surrounding whitespace", name)
	case strings.Contains(name, FieldSeparator), strings.Contains(name, OperandSeparator):
		return errors.Errorf("operand name %q contains a separator (%q or %q)", name, FieldSeparator, OperandSeparator)
	}
	return nil
}

// Name of the operand, or its textual value if it is a literal.
func (o Operand) Name() string { return o.name }

// DataKind of the operand.
func (o Operand) DataKind() DataKind { return o.dataKind }

// ValueKind of the operand.
func (o Operand) ValueKind() ValueKind { return o.valueKind }

// IsLiteral returns whether the operand is an inline constant.
func (o Operand) IsLiteral() bool { return o.literal }

// IsScalar returns whether the operand is a scalar.
func (o Operand) IsScalar() bool { return o.dataKind == DataKindScalar }

// IsMatrix returns whether the operand is a matrix.
func (o Operand) IsMatrix() bool { return o.dataKind == DataKindMatrix }

// LiteralValue parses the value of a numeric or boolean literal as a float64. Booleans map to 0 and 1.
func (o Operand) LiteralValue() (float64, error) {
	if !o.literal {
		return 0, errors.Errorf("operand %q is not a literal", o.name)
	}
	switch o.valueKind {
	case ValueKindBoolean:
		b, err := strconv.ParseBool(o.name)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid boolean literal %q", o.name)
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case ValueKindStr:
		return 0, errors.Errorf("string literal %q has no numeric value", o.name)
	case ValueKindInt:
		i, err := strconv.ParseInt(o.name, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid integer literal %q", o.name)
		}
		return float64(i), nil
	default:
		f, err := strconv.ParseFloat(o.name, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid numeric literal %q", o.name)
		}
		return f, nil
	}
}

// Encode returns the wire encoding of the operand: name·VALUEKIND·DATAKIND, with a trailing ·true for literals.
func (o Operand) Encode() string {
	parts := []string{o.name, o.valueKind.String(), o.dataKind.String()}
	if o.literal {
		parts = append(parts, "true")
	}
	return strings.Join(parts, OperandSeparator)
}

// String implements fmt.Stringer.
func (o Operand) String() string {
	if o.literal {
		return fmt.Sprintf("%s(literal %s)", o.name, o.valueKind)
	}
	return fmt.Sprintf("%s(%s %s)", o.name, o.valueKind, o.dataKind)
}

// dataKindsOf returns the signature of the given operands.
func dataKindsOf(operands []Operand) Signature {
	sig := make(Signature, len(operands))
	for i, o := range operands {
		sig[i] = o.dataKind
	}
	return sig
}

func namesOf(operands []Operand) []string {
	names := make([]string, len(operands))
	for i, o := range operands {
		names[i] = o.name
	}
	return names
}
