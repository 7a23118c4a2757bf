// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package accel_test

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/kernels/accel"
	"github.com/gomlx/matinst/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestKernels(t *testing.T) {
	registry := instructions.NewStandardRegistry(map[instructions.DeviceClass]instructions.Kernels{
		instructions.DeviceAccelerator: accel.New(),
	})
	testCases := []struct {
		line string
		want []float64
	}{
		{"+°X·DOUBLE·MATRIX°Y·DOUBLE·MATRIX°Z·DOUBLE·MATRIX", []float64{7, 7, 7, 7, 7, 7}},
		{"-°X·DOUBLE·MATRIX°Y·DOUBLE·MATRIX°Z·DOUBLE·MATRIX", []float64{-5, -3, -1, 1, 3, 5}},
		{"*°X·DOUBLE·MATRIX°s·DOUBLE·SCALAR°Z·DOUBLE·MATRIX", []float64{4, 8, 12, 16, 20, 24}},
		{"*2°2·INT·SCALAR·true°X·DOUBLE·MATRIX°Z·DOUBLE·MATRIX", []float64{2, 4, 6, 8, 10, 12}},
		{"/°X·DOUBLE·MATRIX°s·DOUBLE·SCALAR°Z·DOUBLE·MATRIX", []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5}},
		{"/°s·DOUBLE·SCALAR°Y·DOUBLE·MATRIX°Z·DOUBLE·MATRIX", []float64{4.0 / 6, 0.8, 1, 4.0 / 3, 2, 4}},
		{"tsmm°X·DOUBLE·MATRIX°Z·DOUBLE·MATRIX°LEFT", []float64{17, 22, 27, 22, 29, 36, 27, 36, 45}},
		{"tsmm°X·DOUBLE·MATRIX°Z·DOUBLE·MATRIX°RIGHT", []float64{14, 32, 32, 77}},
	}
	for _, dtype := range resources.DeviceDTypes {
		t.Run(dtype.String(), func(t *testing.T) {
			pool, err := resources.New(resources.Options{DeviceDType: dtype})
			require.NoError(t, err)
			require.NoError(t, pool.SetMatrix("X", 2, 3, []float64{1, 2, 3, 4, 5, 6}))
			require.NoError(t, pool.SetMatrix("Y", 2, 3, []float64{6, 5, 4, 3, 2, 1}))
			pool.SetScalar("s", 4)
			rc := pool.Context(instructions.DeviceAccelerator)
			// Half precision keeps ~3 significant digits.
			delta := 1e-6
			if dtype == dtypes.Float16 || dtype == dtypes.BFloat16 {
				delta = 0.05
			}
			for _, tc := range testCases {
				inst, err := registry.ResolveLine(tc.line, instructions.DeviceAccelerator)
				require.NoError(t, err)
				require.NoError(t, inst.Execute(rc, nil), "line %q", tc.line)
				_, got, err := pool.Matrix("Z")
				require.NoError(t, err)
				assert.InDeltaSlice(t, tc.want, got, delta, "line %q", tc.line)
			}
			assert.Zero(t, pool.OpenHandles())
		})
	}
}

func TestKernelTable(t *testing.T) {
	table := accel.NewKernelTable("test")
	var called []string
	table.Set(dtypes.Float32, func(args ...any) {
		out := args[0].([]float32)
		for i, v := range args[1].([]float32) {
			out[i] = 2 * v
		}
		called = append(called, "float32")
	})
	require.NoError(t, table.PromoteToFloat32(dtypes.Float16, 2))
	require.NoError(t, table.PromoteToFloat32(dtypes.BFloat16, 2))
	require.Error(t, table.PromoteToFloat32(dtypes.Int8, 1))
	assert.Equal(t, []dtypes.DType{dtypes.Float16, dtypes.Float32, dtypes.BFloat16}, table.DTypes())
	assert.False(t, table.IsNative(dtypes.Float16))

	// Promoted: computed by the float32 kernel.
	in := []float16.Float16{float16.Fromfloat32(1.5), float16.Fromfloat32(-2)}
	out := make([]float16.Float16, 2)
	require.NoError(t, table.Call(dtypes.Float16, out, in))
	assert.Equal(t, float32(3), out[0].Float32())
	assert.Equal(t, float32(-4), out[1].Float32())
	assert.Equal(t, []string{"float32"}, called)

	// A native kernel replaces the promotion, and a later promotion doesn't override it.
	table.Set(dtypes.Float16, func(args ...any) { called = append(called, "float16") })
	require.NoError(t, table.PromoteToFloat32(dtypes.Float16, 2))
	assert.True(t, table.IsNative(dtypes.Float16))
	require.NoError(t, table.Call(dtypes.Float16, out, in))
	assert.Equal(t, []string{"float32", "float16"}, called)

	require.False(t, table.Supports(dtypes.Int8))
	require.Error(t, table.Call(dtypes.Int8))
	require.Error(t, table.Call(dtypes.BFloat16, make([]float64, 2), in), "output isn't half-precision")
}

func TestMixedDTypes(t *testing.T) {
	k := accel.New()
	pool, err := resources.New(resources.Options{})
	require.NoError(t, err)
	require.NoError(t, pool.SetMatrix("X", 1, 1, []float64{1}))
	pool.SetScalar("s", 1)
	rc := pool.Context(instructions.DeviceAccelerator)
	x, err := rc.AcquireRead("X")
	require.NoError(t, err)
	s, err := rc.AcquireRead("s")
	require.NoError(t, err)
	// Scalars stay on the host as Float64, so they can't be combined cellwise with a Float32 matrix.
	require.Error(t, k.CellwiseAddSub(x, s, nil, true))
	require.NoError(t, rc.Release(x))
	require.NoError(t, rc.Release(s))
}
