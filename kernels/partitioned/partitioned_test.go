// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package partitioned

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/internal/workerspool"
	"github.com/gomlx/matinst/kernels/cpu"
	"github.com/gomlx/matinst/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitions(t *testing.T) {
	assert.Equal(t, []Partition{{0, 4}, {4, 7}, {7, 10}}, Partitions(10, 3))
	assert.Equal(t, []Partition{{0, 1}, {1, 2}}, Partitions(2, 8))
	assert.Nil(t, Partitions(0, 4))
	total := 0
	for _, p := range Partitions(1001, 7) {
		total += p.Rows()
	}
	assert.Equal(t, 1001, total)
}

// TestMatchesCPU compares the partitioned kernels with the cpu ones, for various numbers of partitions.
func TestMatchesCPU(t *testing.T) {
	const rows, cols = 13, 5
	rng := rand.New(rand.NewSource(42))
	x, y := make([]float64, rows*cols), make([]float64, rows*cols)
	for i := range x {
		x[i], y[i] = rng.Float64(), rng.Float64()+0.5
	}
	lines := []string{
		"+°X·DOUBLE·MATRIX°Y·DOUBLE·MATRIX°Z·DOUBLE·MATRIX",
		"-°X·DOUBLE·MATRIX°Y·DOUBLE·MATRIX°Z·DOUBLE·MATRIX",
		"*°X·DOUBLE·MATRIX°3·DOUBLE·SCALAR·true°Z·DOUBLE·MATRIX",
		"/°2·DOUBLE·SCALAR·true°Y·DOUBLE·MATRIX°Z·DOUBLE·MATRIX",
		"tsmm°X·DOUBLE·MATRIX°Z·DOUBLE·MATRIX°LEFT",
		"tsmm°X·DOUBLE·MATRIX°Z·DOUBLE·MATRIX°RIGHT",
	}
	workers := workerspool.New()
	workers.SetMaxParallelism(3)
	for _, numPartitions := range []int{1, 2, 4, 13, 20} {
		t.Run(fmt.Sprintf("partitions=%d", numPartitions), func(t *testing.T) {
			registry := instructions.NewStandardRegistry(map[instructions.DeviceClass]instructions.Kernels{
				instructions.DeviceCPU:                cpu.New(),
				instructions.DeviceDistributedDataset: New(numPartitions, workers),
			})
			pool, err := resources.New(resources.Options{})
			require.NoError(t, err)
			require.NoError(t, pool.SetMatrix("X", rows, cols, x))
			require.NoError(t, pool.SetMatrix("Y", rows, cols, y))
			for _, line := range lines {
				results := make(map[instructions.DeviceClass][]float64)
				for _, device := range []instructions.DeviceClass{instructions.DeviceCPU, instructions.DeviceDistributedDataset} {
					inst, err := registry.ResolveLine(line, device)
					require.NoError(t, err)
					require.NoError(t, inst.Execute(pool.Context(device), nil))
					_, results[device], err = pool.Matrix("Z")
					require.NoError(t, err)
				}
				assert.InDeltaSlice(t, results[instructions.DeviceCPU], results[instructions.DeviceDistributedDataset],
					1e-9, "line %q", line)
			}
			assert.Zero(t, pool.OpenHandles())
		})
	}
}

func TestEmpty(t *testing.T) {
	k := New(0, nil)
	assert.Equal(t, 1, k.NumPartitions())
	pool, err := resources.New(resources.Options{})
	require.NoError(t, err)
	require.NoError(t, pool.SetMatrix("E", 0, 4, nil))
	registry := instructions.NewStandardRegistry(map[instructions.DeviceClass]instructions.Kernels{
		instructions.DeviceDistributedDataset: k,
	})
	inst, err := registry.ResolveLine("SPARK°tsmm°E·DOUBLE·MATRIX°Z·DOUBLE·MATRIX°LEFT", instructions.DeviceCPU)
	require.NoError(t, err)
	require.NoError(t, inst.Execute(pool.Context(instructions.DeviceDistributedDataset), nil))
	_, values, err := pool.Matrix("Z")
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 16), values)
}
