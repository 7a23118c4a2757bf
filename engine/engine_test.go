// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/matinst/config"
	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/resources"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
default_device: GPU
parallelism: 2
accelerator:
  memory_budget: 1MiB
  dtype: float64
distributed:
  partitions: 3
  workers: 2
inputs:
  - name: X
    rows: 4
    cols: 3
    random: true
    seed: 1
  - name: two
    scalar: 2
`

const testProgram = `
*°X·DOUBLE·MATRIX°two·DOUBLE·SCALAR°X2·DOUBLE·MATRIX
SPARK°tsmm°X2·DOUBLE·MATRIX°G·DOUBLE·MATRIX°RIGHT
CP°-°X2·DOUBLE·MATRIX°X·DOUBLE·MATRIX°D·DOUBLE·MATRIX
`

func newTestEngine(t *testing.T) *Engine {
	cfg, err := config.ParseBytes([]byte(testConfig))
	require.NoError(t, err)
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.LoadInputs())
	return e
}

func TestNew(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, instructions.DeviceAccelerator, e.DefaultDevice)
	assert.Equal(t, dtypes.Float64, e.Pool.DeviceDType())
	assert.Equal(t, []string{"X", "two"}, e.Pool.Names())
	assert.Len(t, e.Registry.Entries(), 27)

	// Defaults.
	e, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, instructions.DeviceCPU, e.DefaultDevice)
	assert.Equal(t, dtypes.Float32, e.Pool.DeviceDType())

	// Invalid configurations are rejected.
	_, err = New(&config.Config{Parallelism: -1})
	require.Error(t, err)
}

func TestCompileAndRun(t *testing.T) {
	e := newTestEngine(t)
	p, err := e.Compile("test", strings.NewReader(testProgram))
	require.NoError(t, err)
	assert.Equal(t, "test", p.Name)
	assert.Equal(t, int64(1), e.Stats.Compiled(instructions.DeviceAccelerator))
	assert.Equal(t, int64(1), e.Stats.Compiled(instructions.DeviceDistributedDataset))
	assert.Equal(t, int64(1), e.Stats.Compiled(instructions.DeviceCPU))

	require.NoError(t, e.Run(context.Background(), p))
	_, x, err := e.Pool.Matrix("X")
	require.NoError(t, err)
	_, d, err := e.Pool.Matrix("D")
	require.NoError(t, err)
	assert.InDeltaSlice(t, x, d, 1e-12, "2X - X == X")

	shape, g, err := e.Pool.Matrix("G")
	require.NoError(t, err)
	require.Equal(t, 4, shape.Rows())
	require.Equal(t, 4, shape.Cols())
	for i := range 4 {
		for j := range 4 {
			var want float64
			for k := range 3 {
				want += 4 * x[i*3+k] * x[j*3+k]
			}
			assert.InDelta(t, want, g[i*4+j], 1e-9, "G[%d, %d]", i, j)
		}
	}
	assert.Equal(t, int64(1), e.Stats.Executed(instructions.DeviceAccelerator))
	assert.Positive(t, e.Stats.Transfers(resources.TransferToDevice).Count)
	assert.Positive(t, e.Stats.RunTime())
	assert.Zero(t, e.Pool.OpenHandles())
}

func TestRunTasks(t *testing.T) {
	e := newTestEngine(t)
	p := must.M1(e.Compile("tasks", strings.NewReader(testProgram)))
	errs := e.RunTasks(context.Background(), p, 5)
	require.Len(t, errs, 5)
	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(5), e.Stats.Executed(instructions.DeviceCPU))
	assert.Equal(t, int64(5), e.Stats.Executed(instructions.DeviceDistributedDataset))
}

func TestCompileFile(t *testing.T) {
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, os.WriteFile(path, []byte("+°X·DOUBLE·MATRIX°X·DOUBLE·SCALAR°Y·DOUBLE·MATRIX\n"), 0o600))
	_, err := e.CompileFile(path)
	require.ErrorIs(t, err, instructions.ErrUnsupportedSignature)
	require.ErrorContains(t, err, "line 1")

	_, err = e.CompileFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
