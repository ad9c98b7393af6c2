package variable

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/index"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/units"
)

// New creates a default-initialized dense variable for the registered
// element type T.
func New[T comparable](d dims.Dimensions) *Variable {
	dt := storage.DTypeOf[T]()
	if dt == storage.InvalidType {
		panic("variable: element type not registered")
	}
	return newDense(dt, d, false)
}

// NewOfType creates a default-initialized dense variable for a runtime
// dtype tag, optionally with a variance array.
func NewOfType(dt storage.DType, d dims.Dimensions, variances bool) *Variable {
	return newDense(dt, d, variances)
}

// FromSlice creates a dense variable holding a copy of values.
func FromSlice[T comparable](d dims.Dimensions, values []T) (*Variable, error) {
	return FromSliceWithVariances(d, values, nil)
}

// FromSliceWithVariances creates a dense variable holding copies of values
// and variances. variances may be nil.
func FromSliceWithVariances[T comparable](d dims.Dimensions, values, variances []T) (*Variable, error) {
	if len(values) != d.Volume() {
		return nil, except.Dimensionf("shape %s holds %d elements, got %d values", d, d.Volume(), len(values))
	}
	if variances != nil && len(variances) != len(values) {
		return nil, except.Variancef("%d variances for %d values", len(variances), len(values))
	}
	return &Variable{
		data:    newBuffer(storage.FromSlice(values, variances)),
		dims:    d,
		strides: dims.ContiguousStrides(d),
		binDim:  dims.Invalid,
	}, nil
}

// Scalar creates a rank-0 variable holding a single value.
func Scalar[T comparable](value T) *Variable {
	v, err := FromSlice(dims.Dimensions{}, []T{value})
	if err != nil {
		panic(err) // rank-0 shape always has volume 1
	}
	return v
}

// ScalarWithUnit creates a rank-0 variable with a unit.
func ScalarWithUnit[T comparable](value T, u units.Unit) *Variable {
	return Scalar(value).WithUnit(u)
}

// NewBinned assembles a bucketed variable from per-position index ranges,
// the buffer dimension they slice, and the shared buffer. Range validation
// is the caller's responsibility (the bucket package provides the checked
// and the trusted construction paths).
func NewBinned(d dims.Dimensions, indices []storage.IndexPair, binDim dims.Dim, buf *Variable) (*Variable, error) {
	if len(indices) != d.Volume() {
		return nil, except.Bucketf("shape %s holds %d bins, got %d index ranges", d, d.Volume(), len(indices))
	}
	if !buf.Dims().Contains(binDim) {
		return nil, except.Bucketf("buffer %s lacks the sliced dimension %s", buf.Dims(), binDim)
	}
	return &Variable{
		data:      newBuffer(storage.FromSlice(indices, nil)),
		dims:      d,
		strides:   dims.ContiguousStrides(d),
		binDim:    binDim,
		binBuffer: buf,
	}, nil
}

// SetVariances adds default-initialized variances or drops them.
func (v *Variable) SetVariances(on bool) {
	v.ensureWritable()
	v.data.arr.SetVariances(on)
}

// Values returns the typed value slice of v's backing storage. The slice
// spans the whole allocation; Offset and Strides apply. Panics on dtype
// mismatch.
func Values[T comparable](v *Variable) []T {
	return storage.Values[T](v.data.arr)
}

// ValuesMut is Values with clone-on-write detaching applied first.
func ValuesMut[T comparable](v *Variable) []T {
	v.ensureWritable()
	return storage.Values[T](v.data.arr)
}

// Variances returns the typed variance slice, or nil when absent.
func Variances[T comparable](v *Variable) []T {
	return storage.Variances[T](v.data.arr)
}

// VariancesMut is Variances with clone-on-write detaching applied first.
func VariancesMut[T comparable](v *Variable) []T {
	v.ensureWritable()
	return storage.Variances[T](v.data.arr)
}

// BinRanges returns a dense row-major copy of a binned variable's index
// ranges.
func BinRanges(v *Variable) []storage.IndexPair {
	all := storage.Values[storage.IndexPair](v.data.arr)
	out := make([]storage.IndexPair, 0, v.dims.Volume())
	it := index.NewViewIndex(v.dims, v.strides)
	for ; !it.AtEnd(); it.Increment() {
		out = append(out, all[v.offset+it.Offset()])
	}
	return out
}

// At returns the element at the given logical coordinates, outermost first.
func At[T comparable](v *Variable, coords ...int) T {
	return Values[T](v)[v.flatOffset(coords)]
}

// SetAt assigns the element at the given logical coordinates.
func SetAt[T comparable](v *Variable, value T, coords ...int) {
	ValuesMut[T](v)[v.flatOffset(coords)] = value
}

func (v *Variable) flatOffset(coords []int) int {
	if len(coords) != v.dims.NDim() {
		panic(except.Dimensionf("%d coordinates for rank-%d variable", len(coords), v.dims.NDim()))
	}
	off := v.offset
	for i, c := range coords {
		if c < 0 || c >= v.dims.Size(i) {
			panic(except.Dimensionf("coordinate %d out of bounds for %s", c, v.dims))
		}
		off += c * v.strides.At(i)
	}
	return off
}
