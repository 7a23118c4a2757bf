// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package resources

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// deviceCopy is an accelerator buffer: either the cached copy of a host matrix (at a given version), or the
// output of an instruction being written.
type deviceCopy struct {
	name    string
	version uint64
	flat    any
	bytes   int64
	pins    int
	lastUse uint64

	// detached copies are not (or no longer) in deviceCache.copies: they are freed when unpinned.
	detached bool
}

// deviceCache manages the accelerator memory within a budget, evicting the least recently used unpinned
// copies when it runs out.
//
// It is not safe for concurrent use: the Pool serializes access to it.
type deviceCache struct {
	dtype    dtypes.DType
	budget   int64 // 0 for unlimited.
	used     int64
	clock    uint64
	copies   map[string]*deviceCopy
	buffers  *bufferPools
	recorder TransferRecorder
}

func newDeviceCache(dtype dtypes.DType, budget int64, recorder TransferRecorder) *deviceCache {
	return &deviceCache{
		dtype:    dtype,
		budget:   budget,
		copies:   make(map[string]*deviceCopy),
		buffers:  &bufferPools{},
		recorder: recorder,
	}
}

// acquire returns the pinned device copy of the host entry, transferring it if needed.
func (c *deviceCache) acquire(name string, e *entry) (*deviceCopy, error) {
	c.clock++
	if dc, found := c.copies[name]; found {
		if dc.version == e.version {
			dc.pins++
			dc.lastUse = c.clock
			return dc, nil
		}
		c.invalidate(name)
	}
	dc, err := c.allocate(name, e.shape.Size())
	if err != nil {
		return nil, err
	}
	start := time.Now()
	hostToDevice(dc.flat, e.data)
	c.recorder.RecordTransfer(TransferToDevice, dc.bytes, time.Since(start))
	dc.version = e.version
	dc.detached = false
	c.copies[name] = dc
	return dc, nil
}

// allocate a detached, pinned device buffer of the given number of elements.
func (c *deviceCache) allocate(name string, size int) (*deviceCopy, error) {
	bytes := int64(size) * int64(c.dtype.Memory())
	if err := c.reserve(name, bytes); err != nil {
		return nil, err
	}
	c.recorder.RecordTransfer(TransferAlloc, bytes, 0)
	return &deviceCopy{
		name:     name,
		flat:     c.buffers.get(c.dtype, size),
		bytes:    bytes,
		pins:     1,
		lastUse:  c.clock,
		detached: true,
	}, nil
}

// reserve bytes of the budget, evicting unpinned copies as needed.
func (c *deviceCache) reserve(name string, bytes int64) error {
	if c.budget > 0 && bytes > c.budget {
		return errors.Errorf("buffer %q needs %s, more than the accelerator memory budget of %s",
			name, humanize.IBytes(uint64(bytes)), humanize.IBytes(uint64(c.budget)))
	}
	for c.budget > 0 && c.used+bytes > c.budget {
		victim := c.lruVictim()
		if victim == nil {
			return errors.Errorf("accelerator memory budget of %s exhausted: buffer %q needs %s and %s are "+
				"pinned by in-flight instructions", humanize.IBytes(uint64(c.budget)), name,
				humanize.IBytes(uint64(bytes)), humanize.IBytes(uint64(c.used)))
		}
		c.evict(victim)
	}
	c.used += bytes
	return nil
}

// lruVictim returns the least recently used unpinned cached copy, or nil if all are pinned.
func (c *deviceCache) lruVictim() *deviceCopy {
	var victim *deviceCopy
	for _, dc := range c.copies {
		if dc.pins > 0 {
			continue
		}
		if victim == nil || dc.lastUse < victim.lastUse {
			victim = dc
		}
	}
	return victim
}

func (c *deviceCache) evict(dc *deviceCopy) {
	if klog.V(2).Enabled() {
		klog.Infof("resources: evicting device copy of %q (version %d, %s)", dc.name, dc.version,
			humanize.IBytes(uint64(dc.bytes)))
	}
	delete(c.copies, dc.name)
	c.recycle(dc)
	c.recorder.RecordTransfer(TransferEvict, dc.bytes, 0)
}

// free a copy that is no longer needed.
func (c *deviceCache) free(dc *deviceCopy) {
	c.recycle(dc)
	c.recorder.RecordTransfer(TransferDealloc, dc.bytes, 0)
}

func (c *deviceCache) recycle(dc *deviceCopy) {
	c.used -= dc.bytes
	c.buffers.put(c.dtype, dc.flat)
	dc.flat = nil
}

// unpin a copy acquired with acquire or allocate.
func (c *deviceCache) unpin(dc *deviceCopy) {
	dc.pins--
	if dc.pins == 0 && dc.detached {
		c.free(dc)
	}
}

// invalidate the cached copy of name, if any: it is freed immediately if unpinned, or when its last pin
// is released.
func (c *deviceCache) invalidate(name string) {
	dc, found := c.copies[name]
	if !found {
		return
	}
	delete(c.copies, name)
	dc.detached = true
	if dc.pins == 0 {
		c.free(dc)
	}
}

// install a written (pinned, detached) output buffer as the cached copy of name at version, and unpins it.
func (c *deviceCache) install(name string, dc *deviceCopy, version uint64) {
	c.invalidate(name)
	c.clock++
	dc.version = version
	dc.detached = false
	dc.lastUse = c.clock
	dc.pins--
	c.copies[name] = dc
}
