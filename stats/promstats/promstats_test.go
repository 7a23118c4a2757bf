// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package promstats

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/resources"
	"github.com/gomlx/matinst/stats"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator() *stats.Aggregator {
	a := stats.New()
	a.IncrementExecuted(instructions.DeviceAccelerator)
	a.IncrementExecuted(instructions.DeviceAccelerator)
	a.IncrementExecuted(instructions.DeviceCPU)
	a.IncrementCompiled(instructions.DeviceCPU)
	a.RecordInstructionTime(instructions.DeviceAccelerator, "tsmm", 2*time.Second)
	a.RecordInstructionTime(instructions.DeviceCPU, "+", 500*time.Millisecond)
	a.RecordTransfer(resources.TransferToDevice, 1024, 0)
	return a
}

func TestCollector(t *testing.T) {
	c := NewCollector(newAggregator(), "", 0)
	const expected = `
# HELP matinst_instructions_executed Number of instructions successfully executed, per device class.
# TYPE matinst_instructions_executed gauge
matinst_instructions_executed{device="Accelerator"} 2
matinst_instructions_executed{device="CPU"} 1
matinst_instructions_executed{device="DistributedDataset"} 0
# HELP matinst_instruction_seconds Accumulated execution time per heavy-hitter key.
# TYPE matinst_instruction_seconds gauge
matinst_instruction_seconds{key="+"} 0.5
matinst_instruction_seconds{key="GPU_tsmm"} 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"matinst_instructions_executed", "matinst_instruction_seconds"))

	// 3 devices x 2 + 2 keys x 2 + 5 transfer kinds x 3 + 2 timers.
	assert.Equal(t, 6+4+15+2, testutil.CollectAndCount(c))

	// Only the top heavy hitter.
	top := NewCollector(newAggregator(), "", 1)
	assert.Equal(t, 1, testutil.CollectAndCount(top, "matinst_instruction_count"))
}

func TestHandler(t *testing.T) {
	handler, err := Handler(newAggregator(), 10)
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `matinst_accelerator_transfer_bytes{kind="ToDevice"} 1024`)
	assert.Contains(t, string(body), `matinst_instructions_compiled{device="CPU"} 1`)
}

func TestCollectorAfterReset(t *testing.T) {
	a := newAggregator()
	c := NewCollector(a, "test", 0)
	assert.Equal(t, 2, testutil.CollectAndCount(c, "test_instruction_seconds"))
	a.Reset()
	const expected = `
# HELP test_instructions_executed Number of instructions successfully executed, per device class.
# TYPE test_instructions_executed gauge
test_instructions_executed{device="Accelerator"} 0
test_instructions_executed{device="CPU"} 0
test_instructions_executed{device="DistributedDataset"} 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "test_instructions_executed"))
	assert.Zero(t, testutil.CollectAndCount(c, "test_instruction_seconds"))
}
