// Package transform provides the public API for the generic elementwise
// operation drivers and the built-in arithmetic operations.
//
// Operations are assembled from typed scalar kernels, one overload per
// dtype combination, and dispatched against operand runtime dtypes:
//
//	out, err := transform.Transform(transform.Multiply, a, b)
//	err = transform.AccumulateInPlace(transform.AddInto, hist, events)
package transform

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/parallel"
	"github.com/scipp/scipp-sub009/internal/transform"
	"github.com/scipp/scipp-sub009/internal/variable"
)

// Op is a dtype-dispatched elementwise operation producing a new output.
type Op = transform.Op

// InPlaceOp is a dtype-dispatched operation writing into an existing
// destination.
type InPlaceOp = transform.InPlaceOp

// OverloadSpec registers one dtype combination on an Op.
type OverloadSpec = transform.OverloadSpec

// InPlaceSpec registers one dtype combination on an InPlaceOp.
type InPlaceSpec = transform.InPlaceSpec

// UnitRule derives the result unit from operand units.
type UnitRule = transform.UnitRule

// Config controls parallel execution of partitioned operations.
type Config = parallel.Config

// DefaultConfig returns parallelism defaults based on CPU count.
func DefaultConfig() Config { return parallel.DefaultConfig() }

// Unit rules shared by the built-in operations.
var (
	SameUnit     UnitRule = transform.SameUnit
	ProductUnit  UnitRule = transform.ProductUnit
	QuotientUnit UnitRule = transform.QuotientUnit
)

// Built-in operations.
var (
	Add        = transform.Add
	Subtract   = transform.Subtract
	Multiply   = transform.Multiply
	Divide     = transform.Divide
	Sqrt       = transform.Sqrt
	AddInto    = transform.AddInto
	MultiplyBy = transform.MultiplyBy
)

// NewOp builds an operation from its overloads.
func NewOp(name string, specs ...OverloadSpec) *Op { return transform.NewOp(name, specs...) }

// NewInPlaceOp builds an in-place operation from its overloads.
func NewInPlaceOp(name string, specs ...InPlaceSpec) *InPlaceOp {
	return transform.NewInPlaceOp(name, specs...)
}

// Unary registers a kernel for input dtype A and output dtype O.
func Unary[A, O comparable](f func(A) O, unit UnitRule) OverloadSpec {
	return transform.Unary(f, unit)
}

// UnaryV is Unary with a variance propagation formula.
func UnaryV[A, O comparable](f func(A) O, fv func(val, variance A) (O, O), unit UnitRule) OverloadSpec {
	return transform.UnaryV(f, fv, unit)
}

// Binary registers a kernel for input dtypes (A, B) and output dtype O.
func Binary[A, B, O comparable](f func(A, B) O, unit UnitRule) OverloadSpec {
	return transform.Binary(f, unit)
}

// BinaryV is Binary with a variance propagation formula.
func BinaryV[A, B, O comparable](f func(A, B) O, fv func(a, aVar A, b, bVar B) (O, O), unit UnitRule) OverloadSpec {
	return transform.BinaryV(f, fv, unit)
}

// UnaryInPlace registers a kernel mutating destination elements of dtype A.
func UnaryInPlace[A comparable](f func(*A), unit UnitRule) InPlaceSpec {
	return transform.UnaryInPlace(f, unit)
}

// BinaryInPlace registers a kernel mutating a destination element of dtype
// A from a source element of dtype B.
func BinaryInPlace[A, B comparable](f func(*A, B), unit UnitRule) InPlaceSpec {
	return transform.BinaryInPlace(f, unit)
}

// BinaryInPlaceV is BinaryInPlace with a variance propagation formula.
func BinaryInPlaceV[A, B comparable](f func(*A, B), fv func(dVal, dVar *A, sVal, sVar B), unit UnitRule) InPlaceSpec {
	return transform.BinaryInPlaceV(f, fv, unit)
}

// Transform applies op elementwise over the broadcast union of the operand
// shapes, producing a new variable.
func Transform(op *Op, operands ...*variable.Variable) (*variable.Variable, error) {
	return transform.Transform(op, operands...)
}

// TransformParallel is Transform with the outermost output dimension
// partitioned across workers.
func TransformParallel(cfg Config, op *Op, operands ...*variable.Variable) (*variable.Variable, error) {
	return transform.TransformParallel(cfg, op, operands...)
}

// TransformInPlace applies op elementwise into dest, whose shape must equal
// the broadcast union of all operand shapes.
func TransformInPlace(op *InPlaceOp, dest *variable.Variable, operands ...*variable.Variable) error {
	return transform.TransformInPlace(op, dest, operands...)
}

// AccumulateInPlace reduces src into dest with op; dest's shape must be a
// reduction of src's.
func AccumulateInPlace(op *InPlaceOp, dest, src *variable.Variable) error {
	return transform.AccumulateInPlace(op, dest, src)
}

// Sum reduces v along dim with +=.
func Sum(v *variable.Variable, dim dims.Dim) (*variable.Variable, error) {
	return transform.Sum(v, dim)
}

// Mean is Sum divided by the reduced extent.
func Mean(v *variable.Variable, dim dims.Dim) (*variable.Variable, error) {
	return transform.Mean(v, dim)
}
