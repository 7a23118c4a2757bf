// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceClass(t *testing.T) {
	for _, device := range DeviceClassValues() {
		got, found := ParseExecType(device.ExecType())
		require.True(t, found)
		assert.Equal(t, device, got)
	}
	d, err := ParseDeviceClass("gpu")
	require.NoError(t, err)
	assert.Equal(t, DeviceAccelerator, d)
	d, err = ParseDeviceClass("DistributedDataset")
	require.NoError(t, err)
	assert.Equal(t, DeviceDistributedDataset, d)
	_, err = ParseDeviceClass("tpu")
	require.Error(t, err)
	assert.Equal(t, "SPARK", DeviceDistributedDataset.ExecType())
}

func TestValueKindDType(t *testing.T) {
	assert.Equal(t, dtypes.Float64, ValueKindDouble.DType())
	assert.Equal(t, dtypes.Int64, ValueKindInt.DType())
	assert.Equal(t, dtypes.Bool, ValueKindBoolean.DType())
	assert.Equal(t, dtypes.InvalidDType, ValueKindStr.DType())
	assert.Equal(t, dtypes.InvalidDType, ValueKindUnknown.DType())
}

func TestError(t *testing.T) {
	cause := errors.New("out of memory")
	err := error(&Error{
		Kind:     KindResourceAcquisitionFailure,
		Opcode:   "+",
		Device:   DeviceAccelerator,
		Operands: []string{"A", "B", "C"},
		Reason:   `failed to acquire "A" for reading`,
		cause:    cause,
	})
	assert.ErrorIs(t, err, ErrResourceAcquisitionFailure)
	assert.NotErrorIs(t, err, ErrComputationFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindResourceAcquisitionFailure, KindOf(errors.Wrap(err, "task 3")))
	msg := err.Error()
	assert.Contains(t, msg, "ResourceAcquisitionFailure")
	assert.Contains(t, msg, `opcode "+"`)
	assert.Contains(t, msg, "on Accelerator")
	assert.Contains(t, msg, "out of memory")
}

func TestOpSet(t *testing.T) {
	assert.True(t, CellwiseOps.Has(OpPlus))
	assert.False(t, CellwiseOps.Has(OpDivide))
	assert.False(t, ScalarOps.Has(OpTag(-1)))
	assert.False(t, ScalarOps.Has(OpTag(40)))
	assert.Equal(t, []OpTag{OpMultiply, OpMultiply2, OpDivide}, ScalarOps.Ops())
	assert.Equal(t, "{Plus, Minus}", CellwiseOps.String())
	assert.Equal(t, "{}", NewOpSet().String())
}

func TestValueKindTokens(t *testing.T) {
	assert.Equal(t, "STRING", ValueKindStr.String())
	for _, vk := range ValueKindValues() {
		got, err := ValueKindString(vk.String())
		require.NoError(t, err)
		assert.Equal(t, vk, got)
	}
	got, err := ValueKindString("string")
	require.NoError(t, err)
	assert.Equal(t, ValueKindStr, got)
	assert.Equal(t, []string{"UNKNOWN", "DOUBLE", "INT", "BOOLEAN", "STRING"}, ValueKindStrings())
}
