// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package resources

import "time"

//go:generate go tool enumer -type=TransferKind -trimprefix=Transfer -output=gen_transferkind_enumer.go transfers.go

// TransferKind enumerates the accelerator memory events reported to a TransferRecorder.
type TransferKind int

const (
	// TransferAlloc is the allocation of a device buffer.
	TransferAlloc TransferKind = iota

	// TransferDealloc is the release of a device buffer no longer in use.
	TransferDealloc

	// TransferToDevice is a host to device copy.
	TransferToDevice

	// TransferFromDevice is a device to host copy.
	TransferFromDevice

	// TransferEvict is the eviction of a cached device copy, to make room for another buffer.
	TransferEvict
)

// TransferRecorder receives the accelerator memory events of a Pool.
// It is called with the Pool lock held, so it must not block or call back into the Pool.
type TransferRecorder interface {
	RecordTransfer(kind TransferKind, bytes int64, elapsed time.Duration)
}

type noRecorder struct{}

func (noRecorder) RecordTransfer(TransferKind, int64, time.Duration) {}
