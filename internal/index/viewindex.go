package index

import "github.com/scipp/scipp-sub009/internal/dims"

// ViewIndex iterates a single operand over a target shape with minimal
// per-step work. At construction adjacent dimensions whose strides describe
// one contiguous run are folded together, so a fully contiguous array
// iterates as a single counter regardless of rank. Folded state is stored
// innermost first; a dimension that cannot be folded (non-contiguous or
// broadcast stride 0) keeps a rewind delta applied when its inner
// neighbour's counter wraps.
type ViewIndex struct {
	extent [dims.NDimMax]int
	stride [dims.NDimMax]int
	delta  [dims.NDimMax]int
	coord  [dims.NDimMax]int
	ndim   int
	offset int
	index  int
	size   int
}

// NewViewIndex builds a ViewIndex over target where strides holds the
// operand's memory stride for each target dimension (see AlignStrides for
// producing such a vector from an operand's own shape).
func NewViewIndex(target dims.Dimensions, strides dims.Strides) *ViewIndex {
	v := &ViewIndex{size: target.Volume()}
	// Walk from the innermost dimension outward, folding contiguous runs.
	for j := target.NDim() - 1; j >= 0; j-- {
		n := target.Size(j)
		s := strides.At(j)
		if n == 1 {
			// A singleton contributes nothing to iteration order.
			continue
		}
		if v.ndim > 0 && s == v.stride[v.ndim-1]*v.extent[v.ndim-1] {
			v.extent[v.ndim-1] *= n
			continue
		}
		v.extent[v.ndim] = n
		v.stride[v.ndim] = s
		v.ndim++
	}
	for d := 0; d < v.ndim; d++ {
		v.delta[d] = v.stride[d]
		if d > 0 {
			v.delta[d] -= v.extent[d-1] * v.stride[d-1]
		}
	}
	return v
}

// Offset returns the flat memory offset of the current logical position.
func (v *ViewIndex) Offset() int { return v.offset }

// Index returns the flat logical position in row-major order.
func (v *ViewIndex) Index() int { return v.index }

// AtEnd reports whether iteration is complete.
func (v *ViewIndex) AtEnd() bool { return v.index >= v.size }

// Increment advances to the next logical element. No allocation; all state
// lives in fixed-size arrays.
func (v *ViewIndex) Increment() {
	v.index++
	if v.ndim == 0 {
		return
	}
	v.coord[0]++
	v.offset += v.delta[0]
	for d := 0; d+1 < v.ndim && v.coord[d] == v.extent[d]; d++ {
		v.coord[d] = 0
		v.coord[d+1]++
		v.offset += v.delta[d+1]
	}
}
