package index

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
)

// ValidateBinSizes checks that all bucketed operands agree on the bin size
// at every outer position of iter. The check runs as a dedicated pre-pass
// over the outer positions only, before any element is processed; MultiIndex
// iteration itself assumes the sizes match.
func ValidateBinSizes(iter dims.Dimensions, operands ...Operand) error {
	nBucketed := 0
	for _, op := range operands {
		if op.Bucket != nil {
			nBucketed++
		}
	}
	if nBucketed < 2 {
		return nil
	}
	// Walk outer positions densely: bucket params are stripped so Get
	// yields offsets into the index-pair arrays.
	outer := make([]Operand, len(operands))
	for i, op := range operands {
		outer[i] = Operand{Dims: op.Dims, Strides: op.Strides, Offset: op.Offset}
	}
	m := NewMultiIndex(iter, outer...)
	var offs [MaxOperands]int
	for !m.AtEnd() {
		m.Get(&offs)
		ref := -1
		var refSize int64
		for i, op := range operands {
			if op.Bucket == nil {
				continue
			}
			pair := op.Bucket.Indices[offs[i]]
			size := pair.End - pair.Begin
			if ref < 0 {
				ref, refSize = i, size
				continue
			}
			if size != refSize {
				return except.Bucketf("mismatched bin sizes at position %d: %d vs %d", m.index, refSize, size)
			}
		}
		m.Increment()
	}
	return nil
}
