// Package variable provides the public API for the unit-aware array
// container of the engine.
//
// A Variable combines a runtime dtype, a physical unit, a labeled shape,
// and type-erased element storage with optional variances:
//
//	v, err := variable.FromSlice(dims.Of(dims.X, 2, dims.Y, 2), []float64{1, 2, 3, 4})
//	s, err := v.Slice(dims.X, 0, 1) // zero-copy view
package variable

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/units"
	"github.com/scipp/scipp-sub009/internal/variable"
)

// Variable is the array container: shape, unit, element storage, optional
// variances.
type Variable = variable.Variable

// DType is the runtime tag identifying an array's element type.
type DType = storage.DType

// Builtin dtype tags, resolved from the storage registry.
var (
	DTypeFloat64    = storage.Float64
	DTypeFloat32    = storage.Float32
	DTypeFloat16    = storage.Float16
	DTypeInt64      = storage.Int64
	DTypeInt32      = storage.Int32
	DTypeBool       = storage.Bool
	DTypeString     = storage.String
	DTypeVector3    = storage.Vector3D
	DTypeMatrix3    = storage.Matrix3D
	DTypeIndexPairs = storage.IndexPairs
)

// Vector3 is the fixed 3-component structured element type.
type Vector3 = storage.Vector3

// Matrix3 is the fixed 3x3 structured element type, row-major.
type Matrix3 = storage.Matrix3

// IndexPair is the [Begin, End) bin range element of bucketed variables.
type IndexPair = storage.IndexPair

// RegisterDType adds a storage model and dtype tag for a new element type
// without modifying engine code. eq overrides element equality and may be
// nil for types where == is exact.
func RegisterDType[T comparable](name string, eq func(a, b T, nanEqual bool) bool) DType {
	return storage.Register(name, eq)
}

// New creates a default-initialized dense variable for element type T.
func New[T comparable](d dims.Dimensions) *Variable { return variable.New[T](d) }

// NewOfType creates a default-initialized dense variable for a runtime
// dtype, optionally with variances.
func NewOfType(dt DType, d dims.Dimensions, variances bool) *Variable {
	return variable.NewOfType(dt, d, variances)
}

// FromSlice creates a dense variable holding a copy of values.
func FromSlice[T comparable](d dims.Dimensions, values []T) (*Variable, error) {
	return variable.FromSlice(d, values)
}

// FromSliceWithVariances creates a dense variable with values and
// variances.
func FromSliceWithVariances[T comparable](d dims.Dimensions, values, variances []T) (*Variable, error) {
	return variable.FromSliceWithVariances(d, values, variances)
}

// Scalar creates a rank-0 variable holding a single value.
func Scalar[T comparable](value T) *Variable { return variable.Scalar(value) }

// ScalarWithUnit creates a rank-0 variable with a unit.
func ScalarWithUnit[T comparable](value T, u units.Unit) *Variable {
	return variable.ScalarWithUnit(value, u)
}

// Values returns the typed value slice of v's backing storage; Offset and
// Strides locate v's elements within it.
func Values[T comparable](v *Variable) []T { return variable.Values[T](v) }

// ValuesMut is Values with clone-on-write detaching applied first.
func ValuesMut[T comparable](v *Variable) []T { return variable.ValuesMut[T](v) }

// Variances returns the typed variance slice, or nil when absent.
func Variances[T comparable](v *Variable) []T { return variable.Variances[T](v) }

// At returns the element at the given logical coordinates.
func At[T comparable](v *Variable, coords ...int) T { return variable.At[T](v, coords...) }

// SetAt assigns the element at the given logical coordinates.
func SetAt[T comparable](v *Variable, value T, coords ...int) {
	variable.SetAt(v, value, coords...)
}

// CopyInto copies src's elements into dst by logical position.
func CopyInto(dst, src *Variable) error { return variable.CopyInto(dst, src) }
