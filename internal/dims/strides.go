package dims

// Strides holds one element stride per dimension, aligned with a Dimensions
// (outermost first). Stride 0 marks a broadcast axis: the dimension has
// extent > 1 in the logical shape but is not materialized in memory.
type Strides struct {
	stride [NDimMax]int
	ndim   int
}

// ContiguousStrides computes row-major strides for d: the innermost
// dimension has stride 1 and each outer stride is the product of all faster
// dimensions' extents.
func ContiguousStrides(d Dimensions) Strides {
	var s Strides
	s.ndim = d.NDim()
	mul := 1
	for i := s.ndim - 1; i >= 0; i-- {
		s.stride[i] = mul
		mul *= d.Size(i)
	}
	return s
}

// StridesFrom builds a Strides from explicit values, outermost first.
func StridesFrom(values ...int) Strides {
	if len(values) > NDimMax {
		panic("dims: too many strides")
	}
	var s Strides
	s.ndim = len(values)
	copy(s.stride[:], values)
	return s
}

// NDim returns the number of strides.
func (s Strides) NDim() int { return s.ndim }

// At returns the stride at position i.
func (s Strides) At(i int) int { return s.stride[i] }

// Values returns the strides as a slice, outermost first.
func (s Strides) Values() []int { return s.stride[:s.ndim] }

// Set replaces the stride at position i.
func (s *Strides) Set(i, value int) { s.stride[i] = value }

// Erase removes the stride at position i, shifting inner strides outward.
func (s Strides) Erase(i int) Strides {
	copy(s.stride[i:], s.stride[i+1:s.ndim])
	s.ndim--
	s.stride[s.ndim] = 0
	return s
}

// Insert adds value at position i, shifting inner strides inward.
func (s Strides) Insert(i, value int) Strides {
	if s.ndim >= NDimMax {
		panic("dims: too many strides")
	}
	copy(s.stride[i+1:s.ndim+1], s.stride[i:s.ndim])
	s.stride[i] = value
	s.ndim++
	return s
}

// Transpose reorders the strides of src (aligned with from) to match the
// label order of to. Both shapes must hold the same labels.
func (s Strides) Transpose(from, to Dimensions) Strides {
	var out Strides
	out.ndim = to.NDim()
	for i := 0; i < to.NDim(); i++ {
		out.stride[i] = s.stride[from.Index(to.Label(i))]
	}
	return out
}

// Equal reports whether two stride vectors are identical.
func (s Strides) Equal(other Strides) bool {
	if s.ndim != other.ndim {
		return false
	}
	for i := 0; i < s.ndim; i++ {
		if s.stride[i] != other.stride[i] {
			return false
		}
	}
	return true
}

// IsContiguous reports whether s is exactly the row-major contiguous layout
// for d.
func (s Strides) IsContiguous(d Dimensions) bool {
	return s.Equal(ContiguousStrides(d))
}
