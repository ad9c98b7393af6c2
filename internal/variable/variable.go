// Package variable provides the array container of the engine: a dtype
// tag, a physical unit, a labeled shape with strides, and a shared handle
// to type-erased element storage with optional variances. Slicing yields
// zero-copy views; value copies share storage until the first mutating
// access (clone on write).
package variable

import (
	"fmt"
	"sync/atomic"

	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/index"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/units"
)

// buffer is a reference-counted storage handle. owners counts the owning
// Variables sharing it via Clone; views share the handle without counting,
// so writes through a view always reach the buffer they were sliced from.
// A buffer with mutable views is never shared between owners: taking a
// mutable view detaches a shared buffer first, and cloning a viewed
// variable copies eagerly.
type buffer struct {
	arr    storage.ElementArray
	owners atomic.Int32
}

func newBuffer(arr storage.ElementArray) *buffer {
	b := &buffer{arr: arr}
	b.owners.Store(1)
	return b
}

// Variable is the unit-aware multi-dimensional array.
type Variable struct {
	data     *buffer
	dims     dims.Dimensions
	strides  dims.Strides
	offset   int
	unit     units.Unit
	readonly bool
	view     bool
	viewed   bool

	// Bucketed variables additionally reference a shared buffer variable;
	// their own storage holds the per-position index ranges.
	binDim    dims.Dim
	binBuffer *Variable
}

// Dims returns the logical shape.
func (v *Variable) Dims() dims.Dimensions { return v.dims }

// Strides returns the per-dimension element strides.
func (v *Variable) Strides() dims.Strides { return v.strides }

// Offset returns the element offset of the first logical element within the
// backing storage.
func (v *Variable) Offset() int { return v.offset }

// DType returns the runtime element type tag.
func (v *Variable) DType() storage.DType { return v.data.arr.DType() }

// Unit returns the physical unit.
func (v *Variable) Unit() units.Unit { return v.unit }

// SetUnit sets the physical unit in place.
func (v *Variable) SetUnit(u units.Unit) { v.unit = u }

// WithUnit returns v itself after setting the unit, for chaining at
// construction sites.
func (v *Variable) WithUnit(u units.Unit) *Variable {
	v.unit = u
	return v
}

// HasVariances reports whether per-element uncertainties are tracked.
func (v *Variable) HasVariances() bool { return v.data.arr.HasVariances() }

// IsReadonly reports whether mutating access is forbidden.
func (v *Variable) IsReadonly() bool { return v.readonly }

// SetReadonly marks the variable readonly and returns it.
func (v *Variable) SetReadonly() *Variable {
	v.readonly = true
	return v
}

// IsView reports whether v was produced by slicing and aliases another
// variable's storage.
func (v *Variable) IsView() bool { return v.view }

// IsBinned reports whether v is a bucketed (ragged) variable.
func (v *Variable) IsBinned() bool { return v.binBuffer != nil }

// BinDim returns the buffer dimension sliced by the bins. Only meaningful
// for binned variables.
func (v *Variable) BinDim() dims.Dim { return v.binDim }

// BinBuffer returns the shared buffer variable holding the bin contents,
// or nil for dense variables.
func (v *Variable) BinBuffer() *Variable { return v.binBuffer }

// Data exposes the backing element storage for read access. The storage
// covers the whole allocation; Offset and Strides locate this variable's
// elements within it.
func (v *Variable) Data() storage.ElementArray { return v.data.arr }

// DataMut exposes the backing element storage for writing, detaching from
// storage shared with other owning variables first. The deep copy happens
// at most once: subsequent mutating access finds an unshared buffer.
func (v *Variable) DataMut() storage.ElementArray {
	v.ensureWritable()
	return v.data.arr
}

func (v *Variable) ensureWritable() {
	if v.readonly {
		panic("variable: write to readonly variable")
	}
	if v.view {
		// Views write through to the storage they were sliced from.
		return
	}
	v.detachIfShared()
}

func (v *Variable) detachIfShared() {
	if v.data.owners.Load() > 1 {
		detached := newBuffer(v.data.arr.Clone())
		v.data.owners.Add(-1)
		v.data = detached
	}
}

// beginView prepares v for handing out a mutable view: the buffer must not
// be shared with another owner, and v is marked so later clones copy
// eagerly instead of sharing.
func (v *Variable) beginView() {
	if v.readonly {
		return
	}
	v.detachIfShared()
	v.viewed = true
}

// Clone returns an owning copy with value semantics. Storage is shared
// until either side mutates (clone on write); the bin buffer of a bucketed
// variable is cloned the same way. A variable with outstanding mutable
// views, or a view itself, is copied eagerly, since its buffer may be
// written through an alias at any time.
func (v *Variable) Clone() *Variable {
	out := *v
	out.readonly = false
	out.view = false
	out.viewed = false
	if v.view || v.viewed {
		out.data = newBuffer(v.data.arr.Clone())
	} else {
		v.data.owners.Add(1)
	}
	if v.binBuffer != nil {
		out.binBuffer = v.binBuffer.Clone()
	}
	return &out
}

// Copy returns a dense, contiguous, owning copy: strided or broadcast views
// are materialized element by element.
func (v *Variable) Copy() *Variable {
	out := newDense(v.DType(), v.dims, v.HasVariances())
	out.unit = v.unit
	if v.binBuffer != nil {
		out.binDim = v.binDim
		out.binBuffer = v.binBuffer.Copy()
	}
	src := index.NewViewIndex(v.dims, v.strides)
	for dst := 0; !src.AtEnd(); src.Increment() {
		out.data.arr.CopyIndex(dst, v.data.arr, v.offset+src.Offset())
		dst++
	}
	return out
}

// String renders a short header: dtype, dims, unit.
func (v *Variable) String() string {
	kind := ""
	if v.IsBinned() {
		kind = fmt.Sprintf(", binned along %s", v.binDim)
	}
	return fmt.Sprintf("Variable[%s]%s (unit %s%s)", v.DType(), v.dims, v.unit, kind)
}

func newDense(dt storage.DType, d dims.Dimensions, variances bool) *Variable {
	return &Variable{
		data:    newBuffer(storage.Make(dt, d.Volume(), variances)),
		dims:    d,
		strides: dims.ContiguousStrides(d),
		binDim:  dims.Invalid,
	}
}
