// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"strings"
)

const (
	// FieldSeparator separates the opcode, the operands and the flags of an instruction.
	FieldSeparator = "°"

	// OperandSeparator separates the sub-fields of one operand.
	OperandSeparator = "·"
)

// RawInstruction is one decoded instruction line: the opcode and the remaining fields, still encoded.
type RawInstruction struct {
	Opcode string
	Fields []string

	// Line is the text the instruction was decoded from (after the exec-type was stripped), used in errors.
	Line string
}

// SplitExecType strips an optional leading exec-type token ("CP", "GPU" or "SPARK") from line.
// It returns found=false and the line unchanged if there is none.
func SplitExecType(line string) (device DeviceClass, rest string, found bool) {
	line = strings.TrimSpace(line)
	token, rest, hasSep := strings.Cut(line, FieldSeparator)
	if !hasSep {
		return DeviceCPU, line, false
	}
	device, found = ParseExecType(token)
	if !found {
		return DeviceCPU, line, false
	}
	return device, rest, true
}

// Decode splits an instruction line into its opcode and fields.
//
// The number of fields of known opcodes must match their arity exactly. Unknown opcodes are passed through, so
// Registry.Resolve reports them as an unsupported signature.
func Decode(line string) (RawInstruction, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return RawInstruction{}, malformedf(line, "", "empty instruction")
	}
	parts := strings.Split(line, FieldSeparator)
	raw := RawInstruction{Opcode: strings.TrimSpace(parts[0]), Fields: parts[1:], Line: line}
	if raw.Opcode == "" {
		return RawInstruction{}, malformedf(line, "", "empty opcode")
	}
	if info, found := LookupOpcode(raw.Opcode); found && len(raw.Fields) != info.Arity() {
		return RawInstruction{}, malformedf(line, raw.Opcode,
			"opcode %q requires %d fields (%d operands and %d flags), got %d",
			raw.Opcode, info.Arity(), info.NumOperands, info.NumFlags, len(raw.Fields))
	}
	return raw, nil
}

// Split parses the operand fields of the instruction and returns them with the trailing flag fields.
// For unknown opcodes every field is taken as an operand.
func (raw RawInstruction) Split() (operands []Operand, flags []string, err error) {
	numOperands := len(raw.Fields)
	if info, found := LookupOpcode(raw.Opcode); found {
		numOperands = info.NumOperands
		if len(raw.Fields) != info.Arity() {
			return nil, nil, malformedf(raw.Line, raw.Opcode, "opcode %q requires %d fields, got %d",
				raw.Opcode, info.Arity(), len(raw.Fields))
		}
	}
	operands = make([]Operand, numOperands)
	for i, field := range raw.Fields[:numOperands] {
		operands[i], err = ParseOperand(field)
		if err != nil {
			return nil, nil, withLocation(err, raw.Line, raw.Opcode)
		}
	}
	for _, flag := range raw.Fields[numOperands:] {
		flags = append(flags, strings.TrimSpace(flag))
	}
	return operands, flags, nil
}

// ParseOperand parses one operand field: name·VALUEKIND·DATAKIND, with an optional fourth literal marker
// (true or false). Kind tokens are case-insensitive. Only scalars can be literals.
func ParseOperand(field string) (Operand, error) {
	parts := strings.Split(strings.TrimSpace(field), OperandSeparator)
	if len(parts) != 3 && len(parts) != 4 {
		return Operand{}, malformedf("", "", "operand %q must have 3 or 4 sub-fields separated by %q, got %d",
			field, OperandSeparator, len(parts))
	}
	name := parts[0]
	if name == "" {
		return Operand{}, malformedf("", "", "operand %q has an empty name", field)
	}
	valueKind, err := ValueKindString(parts[1])
	if err != nil {
		return Operand{}, malformedf("", "", "operand %q has unknown value kind %q", field, parts[1])
	}
	dataKind, err := DataKindString(parts[2])
	if err != nil {
		return Operand{}, malformedf("", "", "operand %q has unknown data kind %q", field, parts[2])
	}
	var literal bool
	if len(parts) == 4 {
		switch strings.ToLower(parts[3]) {
		case "true":
			literal = true
		case "false":
		default:
			return Operand{}, malformedf("", "", "operand %q has invalid literal marker %q", field, parts[3])
		}
	}
	if literal && dataKind != DataKindScalar {
		return Operand{}, malformedf("", "", "operand %q: only scalars can be literals, got %s", field, dataKind)
	}
	return Operand{name: name, dataKind: dataKind, valueKind: valueKind, literal: literal}, nil
}

// Encode returns the canonical text of an instruction, without exec-type.
// Decode followed by Split returns the same opcode, operands and flags.
func Encode(opcode string, operands []Operand, flags ...string) string {
	fields := make([]string, 0, 1+len(operands)+len(flags))
	fields = append(fields, opcode)
	for _, o := range operands {
		fields = append(fields, o.Encode())
	}
	fields = append(fields, flags...)
	return strings.Join(fields, FieldSeparator)
}

// EncodeWithExecType prefixes the canonical encoding with the device exec-type token.
func EncodeWithExecType(device DeviceClass, opcode string, operands []Operand, flags ...string) string {
	return device.ExecType() + FieldSeparator + Encode(opcode, operands, flags...)
}
