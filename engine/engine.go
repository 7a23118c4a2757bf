// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package engine wires a configuration into a ready to use execution environment: resource pool, kernels
// per device class, instruction registry and statistics aggregator.
package engine

import (
	"context"
	"io"
	"os"

	"github.com/gomlx/matinst/config"
	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/internal/workerspool"
	"github.com/gomlx/matinst/kernels/accel"
	"github.com/gomlx/matinst/kernels/cpu"
	"github.com/gomlx/matinst/kernels/partitioned"
	"github.com/gomlx/matinst/program"
	"github.com/gomlx/matinst/resources"
	"github.com/gomlx/matinst/stats"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Engine holds everything needed to load and run programs.
type Engine struct {
	Config        *config.Config
	DefaultDevice instructions.DeviceClass
	Pool          *resources.Pool
	Registry      *instructions.Registry
	Stats         *stats.Aggregator
}

// New creates an Engine for cfg. A nil cfg uses config.Default().
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	device, err := cfg.Device()
	if err != nil {
		return nil, err
	}
	budget, err := cfg.MemoryBudget()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		Config:        cfg,
		DefaultDevice: device,
		Stats:         stats.New(),
	}
	e.Pool, err = resources.New(resources.Options{
		MemoryBudget: budget,
		DeviceDType:  cfg.DeviceDType(),
		Recorder:     e.Stats,
	})
	if err != nil {
		return nil, err
	}

	workers := workerspool.New()
	if cfg.Distributed.Workers != 0 {
		workers.SetMaxParallelism(cfg.Distributed.Workers)
	}
	numPartitions := cfg.Distributed.Partitions
	if numPartitions == 0 {
		numPartitions = max(workers.MaxParallelism(), 1)
	}
	e.Registry = instructions.NewStandardRegistry(map[instructions.DeviceClass]instructions.Kernels{
		instructions.DeviceCPU:                cpu.New(),
		instructions.DeviceAccelerator:        accel.New(),
		instructions.DeviceDistributedDataset: partitioned.New(numPartitions, workers),
	})
	klog.V(1).Infof("engine: default device %s, accelerator dtype %s (budget %d bytes), %d partitions",
		device, e.Pool.DeviceDType(), budget, numPartitions)
	return e, nil
}

// LoadInputs sets the configured inputs in the pool.
func (e *Engine) LoadInputs() error {
	for _, in := range e.Config.Inputs {
		if in.IsScalar() {
			e.Pool.SetScalar(in.Name, *in.Scalar)
			continue
		}
		if err := e.Pool.SetMatrix(in.Name, in.Rows, in.Cols, in.MatrixValues()); err != nil {
			return errors.WithMessagef(err, "failed to load input %q", in.Name)
		}
	}
	return nil
}

// Compile loads and resolves the program, timed and counted as compilation.
func (e *Engine) Compile(name string, r io.Reader) (*program.Program, error) {
	defer e.Stats.StartCompileTimer()()
	p, err := program.Load(r, e.Registry, e.DefaultDevice)
	if err != nil {
		return nil, errors.WithMessagef(err, "program %q", name)
	}
	p.Name = name
	for _, step := range p.Steps {
		e.Stats.IncrementCompiled(step.Instruction.Device())
	}
	return p, nil
}

// CompileFile is like Compile for a program file.
func (e *Engine) CompileFile(path string) (*program.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open program")
	}
	defer func() { _ = f.Close() }()
	return e.Compile(path, f)
}

// Run executes p once against the pool, timed as execution.
func (e *Engine) Run(ctx context.Context, p *program.Program) error {
	defer e.Stats.StartRunTimer()()
	return p.Run(ctx, e.Pool, e.Stats)
}

// RunTasks executes numTasks copies of p concurrently, with at most the configured parallelism, and returns
// one error per task.
func (e *Engine) RunTasks(ctx context.Context, p *program.Program, numTasks int) []error {
	tasks := make([]program.Task, numTasks)
	for ii := range tasks {
		tasks[ii] = func(ctx context.Context) error { return p.Run(ctx, e.Pool, e.Stats) }
	}
	defer e.Stats.StartRunTimer()()
	return program.RunParallel(ctx, e.Config.Parallelism, tasks...)
}
