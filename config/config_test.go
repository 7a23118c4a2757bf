// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/matinst/instructions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
default_device: GPU
parallelism: 4
accelerator:
  memory_budget: 64KiB
  dtype: float16
distributed:
  partitions: 8
stats:
  enabled: true
  heavy_hitters: 5
inputs:
  - name: X
    rows: 3
    cols: 2
    random: true
    seed: 7
  - name: ones
    rows: 2
    cols: 2
    fill: 1
  - name: W
    rows: 1
    cols: 2
    values: [1.5, -2]
  - name: alpha
    scalar: 0.5
`

func TestParse(t *testing.T) {
	cfg, err := ParseBytes([]byte(sample))
	require.NoError(t, err)

	device, err := cfg.Device()
	require.NoError(t, err)
	assert.Equal(t, instructions.DeviceAccelerator, device)
	assert.Equal(t, 4, cfg.Parallelism)
	budget, err := cfg.MemoryBudget()
	require.NoError(t, err)
	assert.Equal(t, int64(64*1024), budget)
	assert.Equal(t, dtypes.Float16, cfg.DeviceDType())
	assert.Equal(t, 8, cfg.Distributed.Partitions)
	assert.True(t, cfg.Stats.Enabled)
	assert.Equal(t, 5, cfg.Stats.HeavyHitters)

	require.Len(t, cfg.Inputs, 4)
	x := cfg.Inputs[0]
	assert.False(t, x.IsScalar())
	values := x.MatrixValues()
	require.Len(t, values, 6)
	assert.Equal(t, values, x.MatrixValues(), "random inputs must be reproducible")
	for _, v := range values {
		assert.True(t, v >= 0 && v < 1)
	}
	assert.Equal(t, []float64{1, 1, 1, 1}, cfg.Inputs[1].MatrixValues())
	assert.Equal(t, []float64{1.5, -2}, cfg.Inputs[2].MatrixValues())
	require.True(t, cfg.Inputs[3].IsScalar())
	assert.Equal(t, 0.5, *cfg.Inputs[3].Scalar)
}

func TestDefaults(t *testing.T) {
	cfg, err := ParseBytes(nil)
	require.NoError(t, err)
	device, err := cfg.Device()
	require.NoError(t, err)
	assert.Equal(t, instructions.DeviceCPU, device)
	assert.Equal(t, dtypes.Float32, cfg.DeviceDType())
	budget, err := cfg.MemoryBudget()
	require.NoError(t, err)
	assert.Zero(t, budget)
	assert.Equal(t, 10, cfg.Stats.HeavyHitters)
}

func TestInvalid(t *testing.T) {
	for name, yamlText := range map[string]string{
		"unknown field":    "foo: 1\n",
		"bad device":       "default_device: TPU\n",
		"bad dtype":        "accelerator:\n  dtype: int8\n",
		"bad budget":       "accelerator:\n  memory_budget: lots\n",
		"negative":         "parallelism: -2\n",
		"missing name":     "inputs:\n  - scalar: 1\n",
		"scalar and rows":  "inputs:\n  - name: a\n    scalar: 1\n    rows: 2\n",
		"values length":    "inputs:\n  - name: a\n    rows: 2\n    cols: 2\n    values: [1, 2, 3]\n",
		"values and rand":  "inputs:\n  - name: a\n    rows: 1\n    cols: 1\n    values: [1]\n    random: true\n",
		"duplicate inputs": "inputs:\n  - name: a\n    scalar: 1\n  - name: a\n    scalar: 2\n",
		"not yaml":         "inputs: [\n",
	} {
		_, err := ParseBytes([]byte(yamlText))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matinst.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Inputs, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.NoError(t, os.WriteFile(path, []byte("parallelism: -1\n"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, path)
}
