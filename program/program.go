// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package program loads text programs, one instruction per line, and runs them against resource contexts.
//
// Blank lines and lines starting with "#" are ignored. Each instruction is resolved when the program is
// loaded, so errors in the program are reported before anything runs.
package program

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/gomlx/matinst/instructions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Step is one resolved instruction of a Program.
type Step struct {
	// LineNumber in the program text, starting at 1.
	LineNumber int

	Instruction instructions.Instruction
}

// Program is a sequence of resolved instructions. It is immutable, and it can be run concurrently against
// different (or the same) resource contexts.
type Program struct {
	Name  string
	Steps []Step
}

// ContextProvider returns the ResourceContext an instruction of the given device reads and writes to.
type ContextProvider interface {
	ResourceContext(device instructions.DeviceClass) instructions.ResourceContext
}

// instructionTimer is implemented by sinks that key timings by device, see stats.Aggregator.
type instructionTimer interface {
	RecordInstructionTime(device instructions.DeviceClass, opcode string, elapsed time.Duration)
}

// Load reads and resolves a program. Instructions without an exec-type prefix are resolved for
// defaultDevice.
//
// Errors carry the line number and wrap the *instructions.Error of the failure.
func Load(r io.Reader, registry *instructions.Registry, defaultDevice instructions.DeviceClass) (*Program, error) {
	p := &Program{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var lineNumber int
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inst, err := registry.ResolveLine(line, defaultDevice)
		if err != nil {
			return nil, errors.WithMessagef(err, "line %d", lineNumber)
		}
		p.Steps = append(p.Steps, Step{LineNumber: lineNumber, Instruction: inst})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read program after line %d", lineNumber)
	}
	klog.V(1).Infof("loaded program with %d instructions", len(p.Steps))
	return p, nil
}

// LoadString is like Load for a program given as text.
func LoadString(text string, registry *instructions.Registry, defaultDevice instructions.DeviceClass) (*Program, error) {
	return Load(strings.NewReader(text), registry, defaultDevice)
}

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.Steps) }

// Devices returns the number of instructions resolved for each device class.
func (p *Program) Devices() map[instructions.DeviceClass]int {
	counts := make(map[instructions.DeviceClass]int)
	for _, step := range p.Steps {
		counts[step.Instruction.Device()]++
	}
	return counts
}

// Outputs returns the names written by the program, in order of first write.
func (p *Program) Outputs() []string {
	var names []string
	seen := make(map[string]bool)
	for _, step := range p.Steps {
		name := step.Instruction.Output().Name()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// String returns the program text, one instruction per line, with explicit exec-types.
func (p *Program) String() string {
	var sb strings.Builder
	for _, step := range p.Steps {
		sb.WriteString(step.Instruction.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Run executes the instructions in order, stopping at the first error. The time of each successful
// instruction is reported to sink, which can be nil.
//
// The context is checked between instructions: a cancelled context stops the program before the next one.
func (p *Program) Run(ctx context.Context, provider ContextProvider, sink instructions.StatsSink) error {
	if sink == nil {
		sink = instructions.NoStats
	}
	timer, _ := sink.(instructionTimer)
	start := time.Now()
	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "program %q interrupted before line %d", p.Name, step.LineNumber)
		}
		inst := step.Instruction
		instStart := time.Now()
		if err := inst.Execute(provider.ResourceContext(inst.Device()), sink); err != nil {
			return errors.WithMessagef(err, "line %d", step.LineNumber)
		}
		elapsed := time.Since(instStart)
		if timer != nil {
			timer.RecordInstructionTime(inst.Device(), inst.Opcode(), elapsed)
		} else {
			sink.RecordOpcodeTime(inst.Opcode(), int64(elapsed))
		}
	}
	if klog.V(1).Enabled() {
		klog.Infof("program %q: %d instructions executed in %s", p.Name, len(p.Steps), time.Since(start))
	}
	return nil
}
