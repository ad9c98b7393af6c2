// Package index implements the iteration machinery of the array engine:
// stride alignment against a common iteration shape, the single-operand
// folded ViewIndex, and the coordinated multi-operand MultiIndex that
// drives every elementwise operation.
package index

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
)

// AlignStrides maps an operand's strides onto a common iteration shape.
// The result has one stride per iteration dimension: the operand's own
// stride where the label matches, 0 where the operand lacks the dimension
// (a broadcast axis). Alignment fails with a dimension error when the
// operand has a dimension absent from iter, when a shared label has a
// conflicting extent, or when broadcasting would be required but was not
// requested.
func AlignStrides(iter, opDims dims.Dimensions, opStrides dims.Strides, allowBroadcast bool) (dims.Strides, error) {
	if !iter.ContainsAll(opDims) {
		return dims.Strides{}, except.Dimensionf("operand dims %s not embeddable in iteration dims %s", opDims, iter)
	}
	var out dims.Strides
	values := make([]int, 0, dims.NDimMax)
	for i := 0; i < iter.NDim(); i++ {
		j := opDims.Index(iter.Label(i))
		if j < 0 {
			if !allowBroadcast && iter.Size(i) > 1 {
				return out, except.Dimensionf("dimension %s of size %d missing from operand %s",
					iter.Label(i), iter.Size(i), opDims)
			}
			values = append(values, 0)
			continue
		}
		values = append(values, opStrides.At(j))
	}
	return dims.StridesFrom(values...), nil
}
