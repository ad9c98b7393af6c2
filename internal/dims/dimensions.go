package dims

import (
	"fmt"
	"strings"

	"github.com/scipp/scipp-sub009/internal/except"
)

// NDimMax is the maximum rank of an array. All index state is held in
// fixed-size arrays of this capacity so iteration never allocates.
const NDimMax = 6

// Dimensions is an ordered set of (label, extent) pairs describing the
// logical shape of an array, slowest-varying dimension first. Labels are
// unique within one Dimensions and extents are non-negative.
type Dimensions struct {
	labels [NDimMax]Dim
	sizes  [NDimMax]int
	ndim   int
}

// New builds a Dimensions from label/size pairs, outermost first.
// Panics on duplicate labels, negative sizes, or rank above NDimMax;
// malformed shapes are programmer errors, not runtime conditions.
func New(labels []Dim, sizes []int) Dimensions {
	if len(labels) != len(sizes) {
		panic(fmt.Sprintf("dims: %d labels but %d sizes", len(labels), len(sizes)))
	}
	var d Dimensions
	for i, l := range labels {
		d = d.AddInner(l, sizes[i])
	}
	return d
}

// Of is a convenience constructor for literal shapes:
//
//	d := dims.Of(dims.X, 2, dims.Y, 3)
func Of(pairs ...any) Dimensions {
	if len(pairs)%2 != 0 {
		panic("dims: Of requires label/size pairs")
	}
	var d Dimensions
	for i := 0; i < len(pairs); i += 2 {
		d = d.AddInner(pairs[i].(Dim), pairs[i+1].(int))
	}
	return d
}

// NDim returns the rank.
func (d Dimensions) NDim() int { return d.ndim }

// Labels returns the ordered labels, outermost first.
func (d Dimensions) Labels() []Dim { return d.labels[:d.ndim] }

// Sizes returns the ordered extents, outermost first.
func (d Dimensions) Sizes() []int { return d.sizes[:d.ndim] }

// Label returns the label at position i.
func (d Dimensions) Label(i int) Dim { return d.labels[i] }

// Size returns the extent at position i.
func (d Dimensions) Size(i int) int { return d.sizes[i] }

// Volume returns the total number of logical elements. A rank-0 shape has
// volume 1 (a scalar).
func (d Dimensions) Volume() int {
	v := 1
	for i := 0; i < d.ndim; i++ {
		v *= d.sizes[i]
	}
	return v
}

// Contains reports whether dim is one of the labels.
func (d Dimensions) Contains(dim Dim) bool { return d.Index(dim) >= 0 }

// Index returns the position of dim, or -1 if absent.
func (d Dimensions) Index(dim Dim) int {
	for i := 0; i < d.ndim; i++ {
		if d.labels[i] == dim {
			return i
		}
	}
	return -1
}

// SizeOf returns the extent of dim. Panics if dim is absent.
func (d Dimensions) SizeOf(dim Dim) int {
	i := d.Index(dim)
	if i < 0 {
		panicMissing(dim, d)
	}
	return d.sizes[i]
}

func panicMissing(dim Dim, d Dimensions) {
	panic(fmt.Sprintf("dims: %s not in %s", dim, d))
}

// ContainsAll reports whether every (label, size) of other is present in d
// with matching extent. This is the embeddability test used by index
// construction: other can iterate within d without broadcasting.
func (d Dimensions) ContainsAll(other Dimensions) bool {
	for i := 0; i < other.ndim; i++ {
		j := d.Index(other.labels[i])
		if j < 0 || d.sizes[j] != other.sizes[i] {
			return false
		}
	}
	return true
}

// AddInner returns a copy with (dim, size) appended as the new innermost
// dimension. Panics on duplicates, negative size, or rank overflow.
func (d Dimensions) AddInner(dim Dim, size int) Dimensions {
	d.validateNew(dim, size)
	d.labels[d.ndim] = dim
	d.sizes[d.ndim] = size
	d.ndim++
	return d
}

// AddOuter returns a copy with (dim, size) prepended as the new outermost
// dimension.
func (d Dimensions) AddOuter(dim Dim, size int) Dimensions {
	d.validateNew(dim, size)
	copy(d.labels[1:d.ndim+1], d.labels[:d.ndim])
	copy(d.sizes[1:d.ndim+1], d.sizes[:d.ndim])
	d.labels[0] = dim
	d.sizes[0] = size
	d.ndim++
	return d
}

func (d Dimensions) validateNew(dim Dim, size int) {
	if d.ndim >= NDimMax {
		panic(fmt.Sprintf("dims: rank above NDimMax=%d", NDimMax))
	}
	if size < 0 {
		panic(fmt.Sprintf("dims: negative size %d for %s", size, dim))
	}
	if d.Contains(dim) {
		panic(fmt.Sprintf("dims: duplicate label %s", dim))
	}
}

// Erase returns a copy with dim removed. Panics if dim is absent.
func (d Dimensions) Erase(dim Dim) Dimensions {
	i := d.Index(dim)
	if i < 0 {
		panicMissing(dim, d)
	}
	copy(d.labels[i:], d.labels[i+1:d.ndim])
	copy(d.sizes[i:], d.sizes[i+1:d.ndim])
	d.ndim--
	// Zero the vacated slot so shapes compare equal as values.
	d.labels[d.ndim] = 0
	d.sizes[d.ndim] = 0
	return d
}

// Resize returns a copy with dim's extent replaced by size.
func (d Dimensions) Resize(dim Dim, size int) Dimensions {
	i := d.Index(dim)
	if i < 0 {
		panicMissing(dim, d)
	}
	if size < 0 {
		panic(fmt.Sprintf("dims: negative size %d for %s", size, dim))
	}
	d.sizes[i] = size
	return d
}

// Slice returns the shape after slicing dim to the half-open range
// [begin, end). A point slice (end < 0 by convention of the caller) removes
// the dimension; a range slice shrinks it.
func (d Dimensions) Slice(dim Dim, begin, end int) Dimensions {
	if end < 0 {
		return d.Erase(dim)
	}
	return d.Resize(dim, end-begin)
}

// Transpose returns the shape with labels reordered to order, which must be
// a permutation of the current labels.
func (d Dimensions) Transpose(order []Dim) Dimensions {
	if len(order) != d.ndim {
		panic(fmt.Sprintf("dims: transpose order has %d labels, shape has rank %d", len(order), d.ndim))
	}
	var out Dimensions
	for _, dim := range order {
		out = out.AddInner(dim, d.SizeOf(dim))
	}
	return out
}

// Merge returns the union of a and b: a's dimensions in order, followed by
// b's dimensions not present in a, as inner dimensions in b's order. A shared
// label with conflicting extents is a dimension error.
func Merge(a, b Dimensions) (Dimensions, error) {
	out := a
	for i := 0; i < b.ndim; i++ {
		j := a.Index(b.labels[i])
		if j < 0 {
			if out.ndim >= NDimMax {
				return Dimensions{}, except.Dimensionf("merge of %s and %s exceeds NDimMax=%d", a, b, NDimMax)
			}
			out = out.AddInner(b.labels[i], b.sizes[i])
		} else if a.sizes[j] != b.sizes[i] {
			return Dimensions{}, except.Dimensionf("conflicting extent for %s: %d vs %d", b.labels[i], a.sizes[j], b.sizes[i])
		}
	}
	return out, nil
}

// Equal reports whether two shapes have identical labels, order, and extents.
func (d Dimensions) Equal(other Dimensions) bool {
	if d.ndim != other.ndim {
		return false
	}
	for i := 0; i < d.ndim; i++ {
		if d.labels[i] != other.labels[i] || d.sizes[i] != other.sizes[i] {
			return false
		}
	}
	return true
}

// String renders the shape as {x: 2, y: 3}.
func (d Dimensions) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < d.ndim; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %d", d.labels[i], d.sizes[i])
	}
	b.WriteByte('}')
	return b.String()
}
