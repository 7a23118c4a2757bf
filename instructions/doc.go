// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package instructions turns text-encoded instructions of a compiled linear-algebra program into typed,
// executable operations.
//
// The flow for one program line is:
//
//	line --Decode--> RawInstruction --Split--> []Operand + flags --Registry.Resolve--> Instruction
//
// An Instruction is immutable once resolved and may be executed many times, concurrently, against any
// ResourceContext. Every Execute follows the same protocol: inputs are acquired left-to-right, the output shape
// is computed and registered, the output is acquired for writing, the kernel runs, and every acquired handle is
// released exactly once, whatever the outcome. The output is only marked as written if the kernel finished
// successfully, so a failed instruction never commits partial results.
//
// Data access, numeric kernels and statistics are external collaborators, consumed through the ResourceContext,
// Kernels and StatsSink interfaces. Reference implementations live in the resources, kernels/... and stats
// packages.
//
// Errors are always an *Error, classified by ErrorKind. Use errors.Is with the Err* sentinels, or KindOf, to
// branch on the kind.
package instructions

//go:generate go tool enumer -type=DataKind -trimprefix=DataKind -transform=upper -output=gen_datakind_enumer.go kinds.go
//go:generate go tool enumer -type=ValueKind -linecomment -output=gen_valuekind_enumer.go kinds.go
//go:generate go tool enumer -type=DeviceClass -trimprefix=Device -output=gen_deviceclass_enumer.go kinds.go
//go:generate go tool enumer -type=OpTag -trimprefix=Op -output=gen_optag_enumer.go opcodes.go
//go:generate go tool enumer -type=Family -trimprefix=Family -output=gen_family_enumer.go opcodes.go
//go:generate go tool enumer -type=TSMMSide -trimprefix=TSMM -transform=upper -output=gen_tsmmside_enumer.go tsmm.go
//go:generate go tool enumer -type=ErrorKind -trimprefix=Kind -output=gen_errorkind_enumer.go errors.go
