// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package partitioned implements the instructions.Kernels of the distributed-dataset device class.
//
// Matrices are split into row partitions, processed in parallel on a workerspool.Pool. Each partition is
// computed with the host kernels of package cpu: cellwise and matrix-scalar operations map each partition
// independently, tsmm LEFT sums the per-partition products Xₚᵀ·Xₚ, and tsmm RIGHT computes the output
// blocks Xᵢ·Xⱼᵀ of every pair of partitions.
package partitioned

import (
	"sync"

	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/internal/workerspool"
	"github.com/gomlx/matinst/kernels/cpu"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Kernels implements instructions.Kernels over row partitions.
type Kernels struct {
	numPartitions int
	workers       *workerspool.Pool
}

var _ instructions.Kernels = (*Kernels)(nil)

// New returns partitioned kernels splitting matrices in numPartitions row ranges (at most one per row),
// and processing them on workers. If workers is nil, a pool with the default parallelism is used.
func New(numPartitions int, workers *workerspool.Pool) *Kernels {
	if numPartitions < 1 {
		numPartitions = 1
	}
	if workers == nil {
		workers = workerspool.New()
	}
	return &Kernels{numPartitions: numPartitions, workers: workers}
}

// NumPartitions returns the configured number of partitions.
func (k *Kernels) NumPartitions() int { return k.numPartitions }

// Partition is a range of rows [Start, End).
type Partition struct {
	Start, End int
}

// Rows in the partition.
func (p Partition) Rows() int { return p.End - p.Start }

// Partitions splits rows in at most numPartitions contiguous ranges of near equal sizes.
func Partitions(rows, numPartitions int) []Partition {
	numPartitions = min(numPartitions, rows)
	if numPartitions <= 0 {
		return nil
	}
	parts := make([]Partition, numPartitions)
	base, extra := rows/numPartitions, rows%numPartitions
	start := 0
	for i := range parts {
		size := base
		if i < extra {
			size++
		}
		parts[i] = Partition{Start: start, End: start + size}
		start += size
	}
	return parts
}

// rowsView is the gonum view of the rows of the partition.
func rowsView(flat []float64, cols int, p Partition) *mat.Dense {
	return cpu.DenseView(flat[p.Start*cols:p.End*cols], p.Rows(), cols)
}

func hostFlat(h instructions.Handle) ([]float64, int, int, error) {
	flat, ok := h.Flat().([]float64)
	if !ok {
		return nil, 0, 0, errors.Errorf("partitioned kernels require []float64 data, %q has %T", h.Name(), h.Flat())
	}
	shape := h.Shape()
	if !shape.IsMatrix() || len(flat) != shape.Size() {
		return nil, 0, 0, errors.Errorf("partitioned kernels require a matrix, %q has shape %s and %d values",
			h.Name(), shape, len(flat))
	}
	return flat, shape.Rows(), shape.Cols(), nil
}

// mapPartitions runs fn on each row partition of a rows×cols matrix, in parallel.
func (k *Kernels) mapPartitions(rows, cols int, fn func(p Partition) error) error {
	if rows == 0 || cols == 0 {
		return nil
	}
	parts := Partitions(rows, k.numPartitions)
	errs := make([]error, len(parts))
	k.workers.Run(len(parts), func(i int) {
		errs[i] = fn(parts[i])
	})
	return errors.WithStack(firstError(errs))
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// CellwiseAddSub implements instructions.Kernels.
func (k *Kernels) CellwiseAddSub(in1, in2 instructions.Handle, out instructions.WriteHandle, isAdd bool) error {
	a, rows, cols, err := hostFlat(in1)
	if err != nil {
		return err
	}
	b, _, _, err := hostFlat(in2)
	if err != nil {
		return err
	}
	o, _, _, err := hostFlat(out)
	if err != nil {
		return err
	}
	return k.mapPartitions(rows, cols, func(p Partition) error {
		cpu.AddSub(rowsView(o, cols, p), rowsView(a, cols, p), rowsView(b, cols, p), isAdd)
		return nil
	})
}

// ScalarMultDiv implements instructions.Kernels.
func (k *Kernels) ScalarMultDiv(matrix instructions.Handle, scalar float64, scalarOnLeft bool,
	out instructions.WriteHandle, op instructions.OpTag) error {
	m, rows, cols, err := hostFlat(matrix)
	if err != nil {
		return err
	}
	o, _, _, err := hostFlat(out)
	if err != nil {
		return err
	}
	return k.mapPartitions(rows, cols, func(p Partition) error {
		return cpu.MultDiv(rowsView(o, cols, p), rowsView(m, cols, p), scalar, scalarOnLeft, op)
	})
}

// TransposeSelfMatMult implements instructions.Kernels.
func (k *Kernels) TransposeSelfMatMult(in instructions.Handle, out instructions.WriteHandle, side instructions.TSMMSide) error {
	x, rows, cols, err := hostFlat(in)
	if err != nil {
		return err
	}
	o, _, _, err := hostFlat(out)
	if err != nil {
		return err
	}
	if rows == 0 || cols == 0 {
		return nil
	}
	parts := Partitions(rows, k.numPartitions)
	if side == instructions.TSMMLeft {
		k.tsmmLeft(x, o, cols, parts)
	} else {
		k.tsmmRight(x, o, rows, cols, parts)
	}
	return nil
}

// tsmmLeft sums the cols×cols partial products of each partition.
func (k *Kernels) tsmmLeft(x, o []float64, cols int, parts []Partition) {
	result := cpu.DenseView(o, cols, cols)
	var mu sync.Mutex
	k.workers.Run(len(parts), func(i int) {
		partial := mat.NewDense(cols, cols, nil)
		cpu.TransposeSelfProduct(partial, rowsView(x, cols, parts[i]), instructions.TSMMLeft)
		mu.Lock()
		result.Add(result, partial)
		mu.Unlock()
	})
}

// tsmmRight computes each block (i, j) of the rows×rows output as Xᵢ·Xⱼᵀ.
func (k *Kernels) tsmmRight(x, o []float64, rows, cols int, parts []Partition) {
	result := cpu.DenseView(o, rows, rows)
	numParts := len(parts)
	k.workers.Run(numParts*numParts, func(task int) {
		pi, pj := parts[task/numParts], parts[task%numParts]
		block := result.Slice(pi.Start, pi.End, pj.Start, pj.End).(*mat.Dense)
		if pi == pj {
			cpu.TransposeSelfProduct(block, rowsView(x, cols, pi), instructions.TSMMRight)
			return
		}
		block.Mul(rowsView(x, cols, pi), rowsView(x, cols, pj).T())
	})
}
