// Package dims provides the public API for dimension labels, shapes, and
// strides of the array engine.
//
// A Dimensions is an ordered set of (label, extent) pairs, slowest-varying
// dimension first:
//
//	d := dims.Of(dims.X, 2, dims.Y, 3)
//	d.Volume() // 6
package dims

import (
	"github.com/scipp/scipp-sub009/internal/dims"
)

// NDimMax is the maximum rank of an array.
const NDimMax = dims.NDimMax

// Dim is a dimension label.
type Dim = dims.Dim

// Predefined dimension labels.
const (
	Invalid     Dim = dims.Invalid
	X           Dim = dims.X
	Y           Dim = dims.Y
	Z           Dim = dims.Z
	Time        Dim = dims.Time
	Event       Dim = dims.Event
	Row         Dim = dims.Row
	Temperature Dim = dims.Temperature
	Wavelength  Dim = dims.Wavelength
	Energy      Dim = dims.Energy
)

// Label returns the Dim for a custom axis name, registering it on first use.
func Label(name string) Dim { return dims.Label(name) }

// Dimensions is an ordered (label, extent) description of an array's
// logical shape.
type Dimensions = dims.Dimensions

// Strides holds one element stride per dimension; stride 0 marks a
// broadcast axis.
type Strides = dims.Strides

// New builds a Dimensions from parallel label and size slices.
func New(labels []Dim, sizes []int) Dimensions { return dims.New(labels, sizes) }

// Of builds a Dimensions from interleaved label/size pairs.
func Of(pairs ...any) Dimensions { return dims.Of(pairs...) }

// Merge returns the union of two shapes; a shared label with conflicting
// extents is a dimension error.
func Merge(a, b Dimensions) (Dimensions, error) { return dims.Merge(a, b) }

// ContiguousStrides computes row-major strides for d.
func ContiguousStrides(d Dimensions) Strides { return dims.ContiguousStrides(d) }

// StridesFrom builds a Strides from explicit values, outermost first.
func StridesFrom(values ...int) Strides { return dims.StridesFrom(values...) }
