// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
)

// Signature is the ordered tuple of operand data kinds, inputs first and output last, used as dispatch key.
// In a registered Signature, DataKindUnknown matches any data kind.
type Signature []DataKind

// String implements fmt.Stringer, e.g. "(MATRIX, SCALAR, MATRIX)".
func (s Signature) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Matches returns whether the registered signature s accepts the observed signature.
// An observed DataKindUnknown is only accepted by a wildcard.
func (s Signature) Matches(observed Signature) bool {
	if len(s) != len(observed) {
		return false
	}
	for i, k := range s {
		if k != DataKindUnknown && k != observed[i] {
			return false
		}
	}
	return true
}

// Overlaps returns whether some observed signature would be matched by both s and other.
func (s Signature) Overlaps(other Signature) bool {
	if len(s) != len(other) {
		return false
	}
	for i, k := range s {
		if k != DataKindUnknown && other[i] != DataKindUnknown && k != other[i] {
			return false
		}
	}
	return true
}

// specificity is the number of non-wildcard positions.
func (s Signature) specificity() int {
	var n int
	for _, k := range s {
		if k != DataKindUnknown {
			n++
		}
	}
	return n
}

// Request is what a Factory receives to build an Instruction: the operands match the registered signature.
type Request struct {
	Info     OpcodeInfo
	Device   DeviceClass
	Operands []Operand
	Flags    []string
}

// Factory builds the Instruction for a resolved Request. It may fail with KindMalformedInstruction if the
// flags or literal operands are invalid.
type Factory func(req Request) (Instruction, error)

// Entry describes one registered implementation.
type Entry struct {
	Opcode    string
	Device    DeviceClass
	Signature Signature
}

type dispatchKey struct {
	opcode string
	device DeviceClass
}

type registration struct {
	signature Signature
	factory   Factory
}

// Registry is the dispatch table from (opcode, device, signature) to the Factory of an Instruction.
//
// It is populated at startup with Register (not concurrently) and is immutable afterward: Resolve can be
// called concurrently.
type Registry struct {
	families map[Family]map[dispatchKey][]registration
}

// NewRegistry returns an empty Registry. See NewStandardRegistry for one populated with the standard operators.
func NewRegistry() *Registry {
	return &Registry{families: make(map[Family]map[dispatchKey][]registration)}
}

// Register the factory for the opcode and device, when operands match signature.
//
// It panics if the opcode is unknown, if the signature length doesn't match the number of operands of the
// opcode, or if the signature overlaps with one already registered for the same opcode and device.
func (r *Registry) Register(opcode string, device DeviceClass, signature Signature, factory Factory) {
	info, found := LookupOpcode(opcode)
	if !found {
		exceptions.Panicf("instructions.Register: unknown opcode %q, known opcodes are %q", opcode, Opcodes())
	}
	if !device.IsADeviceClass() {
		exceptions.Panicf("instructions.Register(%q): invalid device class %s", opcode, device)
	}
	if len(signature) != info.NumOperands {
		exceptions.Panicf("instructions.Register(%q, %s): signature %s has %d data kinds, opcode takes %d operands",
			opcode, device, signature, len(signature), info.NumOperands)
	}
	if factory == nil {
		exceptions.Panicf("instructions.Register(%q, %s, %s): nil factory", opcode, device, signature)
	}
	table, found := r.families[info.Family]
	if !found {
		table = make(map[dispatchKey][]registration)
		r.families[info.Family] = table
	}
	key := dispatchKey{opcode, device}
	for _, existing := range table[key] {
		if slices.Equal(existing.signature, signature) {
			exceptions.Panicf("instructions.Register(%q, %s): signature %s registered twice", opcode, device, signature)
		}
		if existing.signature.Overlaps(signature) {
			exceptions.Panicf("instructions.Register(%q, %s): signature %s overlaps with registered signature %s",
				opcode, device, signature, existing.signature)
		}
	}
	table[key] = append(table[key], registration{signature: slices.Clone(signature), factory: factory})
}

// Resolve selects and builds the Instruction for the opcode on the device, given its operands and flags.
//
// Dispatch is by opcode family first, then by the operands' signature. The most specific matching signature
// wins, although since registered signatures never overlap there is at most one match.
// Unknown opcodes and signatures without a registered implementation return a KindUnsupportedSignature error.
//
// Resolve is pure: it doesn't access any resources.
func (r *Registry) Resolve(device DeviceClass, opcode string, operands []Operand, flags ...string) (Instruction, error) {
	observed := dataKindsOf(operands)
	unsupported := func(reason string) error {
		return &Error{
			Kind:      KindUnsupportedSignature,
			Opcode:    opcode,
			Device:    device,
			Signature: observed,
			Operands:  namesOf(operands),
			Reason:    reason,
		}
	}
	info, found := LookupOpcode(opcode)
	if !found {
		return nil, unsupported("unknown opcode")
	}
	if len(flags) != info.NumFlags {
		return nil, &Error{
			Kind:     KindMalformedInstruction,
			Opcode:   opcode,
			Operands: namesOf(operands),
			Reason:   fmt.Sprintf("opcode %q takes %d flags, got %d", opcode, info.NumFlags, len(flags)),
		}
	}
	var best *registration
	regs := r.families[info.Family][dispatchKey{opcode, device}]
	for i := range regs {
		reg := &regs[i]
		if reg.signature.Matches(observed) && (best == nil || reg.signature.specificity() > best.signature.specificity()) {
			best = reg
		}
	}
	if best == nil {
		return nil, unsupported("no implementation registered for this signature")
	}
	inst, err := best.factory(Request{
		Info:     info,
		Device:   device,
		Operands: slices.Clone(operands),
		Flags:    slices.Clone(flags),
	})
	if err != nil {
		return nil, withLocation(err, "", opcode)
	}
	return inst, nil
}

// ResolveLine decodes and resolves one instruction line. Lines without an exec-type prefix run on
// defaultDevice. Errors carry the offending line.
func (r *Registry) ResolveLine(line string, defaultDevice DeviceClass) (Instruction, error) {
	device, rest, found := SplitExecType(line)
	if !found {
		device = defaultDevice
	}
	raw, err := Decode(rest)
	if err != nil {
		return nil, withLocation(err, line, "")
	}
	operands, flags, err := raw.Split()
	if err != nil {
		return nil, err
	}
	inst, err := r.Resolve(device, raw.Opcode, operands, flags...)
	if err != nil {
		return nil, withLocation(err, raw.Line, raw.Opcode)
	}
	return inst, nil
}

// Signatures returns the signatures registered for the opcode and device, in registration order.
func (r *Registry) Signatures(opcode string, device DeviceClass) []Signature {
	info, found := LookupOpcode(opcode)
	if !found {
		return nil
	}
	regs := r.families[info.Family][dispatchKey{opcode, device}]
	sigs := make([]Signature, len(regs))
	for i, reg := range regs {
		sigs[i] = slices.Clone(reg.signature)
	}
	return sigs
}

// Entries returns all registered implementations, sorted by opcode, device and signature.
func (r *Registry) Entries() []Entry {
	var entries []Entry
	for _, table := range r.families {
		for key, regs := range table {
			for _, reg := range regs {
				entries = append(entries, Entry{Opcode: key.opcode, Device: key.device, Signature: slices.Clone(reg.signature)})
			}
		}
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Opcode, b.Opcode),
			cmp.Compare(a.Device, b.Device),
			slices.Compare(a.Signature, b.Signature))
	})
	return entries
}
