// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package instructions

import (
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// DataKind is the structural kind of an operand.
type DataKind int

const (
	// DataKindUnknown is used when the compiler couldn't infer the kind. In a registered signature it matches
	// any kind.
	DataKindUnknown DataKind = iota
	DataKindScalar
	DataKindMatrix
)

// ValueKind is the element type of an operand.
type ValueKind int

const (
	ValueKindUnknown ValueKind = iota // UNKNOWN
	ValueKindDouble                   // DOUBLE
	ValueKindInt                      // INT
	ValueKindBoolean                  // BOOLEAN
	ValueKindStr                      // STRING
)

// DType returns the dtype used to hold values of this kind. ValueKindStr and ValueKindUnknown have no
// numeric representation and return dtypes.InvalidDType.
func (vk ValueKind) DType() dtypes.DType {
	switch vk {
	case ValueKindDouble:
		return dtypes.Float64
	case ValueKindInt:
		return dtypes.Int64
	case ValueKindBoolean:
		return dtypes.Bool
	default:
		return dtypes.InvalidDType
	}
}

// DeviceClass selects the execution backend an instruction targets.
type DeviceClass int

const (
	// DeviceCPU is the host, general-purpose CPU.
	DeviceCPU DeviceClass = iota

	// DeviceAccelerator is a device with its own memory (e.g. a GPU): data is transferred to it before use.
	DeviceAccelerator

	// DeviceDistributedDataset holds matrices as row-partitioned distributed datasets.
	DeviceDistributedDataset
)

// execTypeTokens are the wire tokens prefixing an instruction line with its device class.
var execTypeTokens = [...]string{
	DeviceCPU:                "CP",
	DeviceAccelerator:        "GPU",
	DeviceDistributedDataset: "SPARK",
}

// ExecType returns the wire token for the device class ("CP", "GPU" or "SPARK").
func (d DeviceClass) ExecType() string {
	if !d.IsADeviceClass() {
		return d.String()
	}
	return execTypeTokens[d]
}

// ParseExecType parses an exec-type token ("CP", "GPU" or "SPARK", case-insensitive).
func ParseExecType(token string) (DeviceClass, bool) {
	for d, t := range execTypeTokens {
		if strings.EqualFold(t, token) {
			return DeviceClass(d), true
		}
	}
	return 0, false
}

// ParseDeviceClass accepts either an exec-type token ("CP", "GPU", "SPARK") or a DeviceClass name ("cpu",
// "accelerator", "distributeddataset"), case-insensitive.
func ParseDeviceClass(s string) (DeviceClass, error) {
	if d, ok := ParseExecType(s); ok {
		return d, nil
	}
	d, err := DeviceClassString(s)
	if err != nil {
		return 0, errors.Errorf("unknown device class %q, valid values are %q or %q", s,
			execTypeTokens[:], DeviceClassStrings())
	}
	return d, nil
}
