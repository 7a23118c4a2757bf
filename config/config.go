// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package config defines the YAML configuration of a matinst engine.
//
// Example:
//
//	default_device: GPU
//	parallelism: 4
//	accelerator:
//	  memory_budget: 256MiB
//	  dtype: float32
//	distributed:
//	  partitions: 8
//	stats:
//	  enabled: true
//	  heavy_hitters: 10
//	inputs:
//	  - name: X
//	    rows: 1000
//	    cols: 20
//	    random: true
//	    seed: 42
//	  - name: alpha
//	    scalar: 0.5
package config

import (
	"bytes"
	"io"
	"math/rand/v2"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/matinst/instructions"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config of an engine.
type Config struct {
	// DefaultDevice is the exec-type token (CP, GPU or SPARK) used by instructions without a prefix.
	DefaultDevice string `yaml:"default_device" validate:"omitempty,oneof=CP GPU SPARK"`

	// Parallelism is the maximum number of program tasks running at the same time. 0 for no limit.
	Parallelism int `yaml:"parallelism" validate:"gte=0"`

	Accelerator Accelerator `yaml:"accelerator"`
	Distributed Distributed `yaml:"distributed"`
	Stats       Stats       `yaml:"stats"`

	Inputs []Input `yaml:"inputs" validate:"dive"`
}

// Accelerator configures the accelerator view of the resource pool.
type Accelerator struct {
	// MemoryBudget in human-readable bytes (e.g. "64MiB", "1GB"). Empty or "0" for no limit.
	MemoryBudget string `yaml:"memory_budget"`

	// DType of the device buffers.
	DType string `yaml:"dtype" validate:"omitempty,oneof=float64 float32 float16 bfloat16"`
}

// Distributed configures the distributed-dataset kernels.
type Distributed struct {
	// Partitions is the number of row partitions of each buffer. 0 for the default (the number of CPUs).
	Partitions int `yaml:"partitions" validate:"gte=0"`

	// Workers limits the goroutines processing partitions: 0 for the default (the number of CPUs), -1 for
	// no limit.
	Workers int `yaml:"workers" validate:"gte=-1"`
}

// Stats configures the statistics collection.
type Stats struct {
	Enabled      bool `yaml:"enabled"`
	HeavyHitters int  `yaml:"heavy_hitters" validate:"gte=0"`
}

// Input is a named buffer loaded in the resource pool before running a program: either a scalar or a
// matrix, given by its values, a constant fill or random values.
type Input struct {
	Name string `yaml:"name" validate:"required"`

	Scalar *float64 `yaml:"scalar"`

	Rows   int       `yaml:"rows" validate:"gte=0"`
	Cols   int       `yaml:"cols" validate:"gte=0"`
	Values []float64 `yaml:"values"`
	Fill   float64   `yaml:"fill"`
	Random bool      `yaml:"random"`
	Seed   uint64    `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DefaultDevice: "CP",
		Accelerator:   Accelerator{DType: "float32"},
		Stats:         Stats{HeavyHitters: 10},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open configuration")
	}
	defer func() { _ = f.Close() }()
	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "configuration %q", path)
	}
	return cfg, nil
}

// Parse reads a YAML configuration on top of Default, and validates it. Unknown fields are an error.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "failed to parse YAML configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseBytes is like Parse, for a configuration in memory.
func ParseBytes(data []byte) (*Config, error) {
	return Parse(bytes.NewReader(data))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateInput, Input{})
	return v
}

// validateInput checks that an input is either a scalar or a matrix with consistent values.
func validateInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)
	isMatrix := in.Rows > 0 || in.Cols > 0 || len(in.Values) > 0 || in.Random || in.Fill != 0
	if in.Scalar != nil {
		if isMatrix {
			sl.ReportError(in.Scalar, "scalar", "Scalar", "scalar_xor_matrix", "")
		}
		return
	}
	if in.Random && len(in.Values) > 0 {
		sl.ReportError(in.Values, "values", "Values", "values_xor_random", "")
	}
	if len(in.Values) > 0 && len(in.Values) != in.Rows*in.Cols {
		sl.ReportError(in.Values, "values", "Values", "len_rows_cols", "")
	}
}

// Validate the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrapf(err, "invalid configuration")
	}
	if _, err := c.MemoryBudget(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Inputs))
	for _, in := range c.Inputs {
		if seen[in.Name] {
			return errors.Errorf("invalid configuration: input %q defined more than once", in.Name)
		}
		seen[in.Name] = true
	}
	return nil
}

// Device returns the default device class.
func (c *Config) Device() (instructions.DeviceClass, error) {
	if c.DefaultDevice == "" {
		return instructions.DeviceCPU, nil
	}
	return instructions.ParseDeviceClass(c.DefaultDevice)
}

// MemoryBudget returns the accelerator memory budget in bytes, 0 for no limit.
func (c *Config) MemoryBudget() (int64, error) {
	if c.Accelerator.MemoryBudget == "" {
		return 0, nil
	}
	budget, err := humanize.ParseBytes(c.Accelerator.MemoryBudget)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid accelerator memory_budget %q", c.Accelerator.MemoryBudget)
	}
	return int64(budget), nil
}

// DeviceDType returns the dtype of accelerator buffers.
func (c *Config) DeviceDType() dtypes.DType {
	switch c.Accelerator.DType {
	case "float64":
		return dtypes.Float64
	case "float16":
		return dtypes.Float16
	case "bfloat16":
		return dtypes.BFloat16
	default:
		return dtypes.Float32
	}
}

// IsScalar returns whether the input is a scalar.
func (in *Input) IsScalar() bool { return in.Scalar != nil }

// MatrixValues returns the row-major values of a matrix input. Random values are uniform in [0, 1), and
// reproducible for a given seed.
func (in *Input) MatrixValues() []float64 {
	if len(in.Values) > 0 {
		return in.Values
	}
	values := make([]float64, in.Rows*in.Cols)
	switch {
	case in.Random:
		rng := rand.New(rand.NewPCG(in.Seed, 0x6d6174696e7374))
		for ii := range values {
			values[ii] = rng.Float64()
		}
	case in.Fill != 0:
		for ii := range values {
			values[ii] = in.Fill
		}
	}
	return values
}
