package variable

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/index"
)

// Slice returns a zero-copy view of the half-open range [begin, end) along
// d. The dimension is kept with its reduced extent. Writes through the view
// reach the original storage.
func (v *Variable) Slice(d dims.Dim, begin, end int) (*Variable, error) {
	return v.SliceStep(d, begin, end, 1)
}

// SliceStep is Slice with a stride: every step-th element of [begin, end).
func (v *Variable) SliceStep(d dims.Dim, begin, end, step int) (*Variable, error) {
	i := v.dims.Index(d)
	if i < 0 {
		return nil, except.Dimensionf("slice dimension %s not in %s", d, v.dims)
	}
	if step < 1 {
		return nil, except.Dimensionf("slice step %d must be positive", step)
	}
	if begin < 0 || end < begin || end > v.dims.Size(i) {
		return nil, except.Dimensionf("slice [%d:%d) out of bounds for %s", begin, end, v.dims)
	}
	v.beginView()
	out := *v
	out.view = true
	out.readonly = v.readonly
	n := (end - begin + step - 1) / step
	out.offset = v.offset + begin*v.strides.At(i)
	out.dims = v.dims.Slice(d, begin, begin+n)
	out.strides.Set(i, v.strides.At(i)*step)
	return &out, nil
}

// SlicePoint returns a view of the single position i along d, with the
// dimension removed from the result's shape.
func (v *Variable) SlicePoint(d dims.Dim, i int) (*Variable, error) {
	j := v.dims.Index(d)
	if j < 0 {
		return nil, except.Dimensionf("slice dimension %s not in %s", d, v.dims)
	}
	if i < 0 || i >= v.dims.Size(j) {
		return nil, except.Dimensionf("position %d out of bounds for %s", i, v.dims)
	}
	v.beginView()
	out := *v
	out.view = true
	out.readonly = v.readonly
	out.offset = v.offset + i*v.strides.At(j)
	out.dims = v.dims.Slice(d, i, -1)
	out.strides = v.strides.Erase(j)
	return &out, nil
}

// Transpose returns a view with dimensions reordered to order, which must
// be a permutation of v's labels.
func (v *Variable) Transpose(order []dims.Dim) (*Variable, error) {
	for _, d := range order {
		if !v.dims.Contains(d) {
			return nil, except.Dimensionf("transpose label %s not in %s", d, v.dims)
		}
	}
	if len(order) != v.dims.NDim() {
		return nil, except.Dimensionf("transpose order has %d labels for rank %d", len(order), v.dims.NDim())
	}
	v.beginView()
	out := *v
	out.view = true
	out.strides = v.strides.Transpose(v.dims, v.dims.Transpose(order))
	out.dims = v.dims.Transpose(order)
	return &out, nil
}

// Broadcast returns a view pretending the shape target: dimensions absent
// from v get stride 0 and repeat the same storage. target must contain all
// of v's dimensions with matching extents.
func (v *Variable) Broadcast(target dims.Dimensions) (*Variable, error) {
	strides, err := index.AlignStrides(target, v.dims, v.strides, true)
	if err != nil {
		return nil, err
	}
	out := *v
	out.view = true
	out.readonly = true // writing through overlapping stride-0 positions is never safe
	out.dims = target
	out.strides = strides
	return &out, nil
}

// Equal reports whether two variables have identical shape, unit, dtype,
// variance presence, and elementwise content. Views compare by logical
// position. NaN does not equal NaN; see EqualNaN.
func (v *Variable) Equal(other *Variable) bool { return v.equal(other, false) }

// EqualNaN is Equal with NaN comparing equal to NaN.
func (v *Variable) EqualNaN(other *Variable) bool { return v.equal(other, true) }

func (v *Variable) equal(other *Variable, nanEqual bool) bool {
	if !v.dims.Equal(other.dims) || v.DType() != other.DType() ||
		!v.unit.Equal(other.unit) || v.HasVariances() != other.HasVariances() {
		return false
	}
	if v.IsBinned() != other.IsBinned() {
		return false
	}
	if v.IsBinned() && (v.binDim != other.binDim || !v.binBuffer.equal(other.binBuffer, nanEqual)) {
		return false
	}
	a := index.NewViewIndex(v.dims, v.strides)
	b := index.NewViewIndex(other.dims, other.strides)
	for !a.AtEnd() {
		if !v.data.arr.EqualIndex(v.offset+a.Offset(), other.data.arr, other.offset+b.Offset(), nanEqual) {
			return false
		}
		a.Increment()
		b.Increment()
	}
	return true
}
