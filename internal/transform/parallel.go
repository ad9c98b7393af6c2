package transform

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/index"
	"github.com/scipp/scipp-sub009/internal/parallel"
)

// canPartition decides whether an operation may be split across workers:
// the outermost iteration dimension is partitioned into disjoint ranges,
// so it must exist, be materialized in the destination (non-broadcast, so
// partitions never overlap in write positions), and the operation must be
// fully dense. Reductions never reach this path: accumulation runs serial
// because partitioning the reduced dimension would need a merge step.
func canPartition(cfg parallel.Config, iter dims.Dimensions, out prepared, preps []prepared) bool {
	if !cfg.Enabled || iter.NDim() == 0 || iter.Size(0) < 2 {
		return false
	}
	if out.binned || out.op.Strides.At(0) == 0 {
		return false
	}
	for _, p := range preps {
		if p.binned {
			return false
		}
	}
	return true
}

// runPartitioned splits the outermost iteration dimension into disjoint
// ranges and drives one independent MultiIndex per range; iterator state is
// never shared across goroutines. The bound kernel closure is shared; it
// only reads from and writes to storage at the offsets each MultiIndex
// produces.
func runPartitioned(cfg parallel.Config, iter dims.Dimensions, ops []index.Operand, apply applier) error {
	label := iter.Label(0)
	return parallel.Ranges(iter.Size(0), func(start, end int) error {
		chunk := iter.Resize(label, end-start)
		chunkOps := make([]index.Operand, len(ops))
		for i, op := range ops {
			op.Offset += start * op.Strides.At(0)
			chunkOps[i] = op
		}
		run(chunk, chunkOps, apply)
		return nil
	}, cfg)
}
