// Package transform implements the generic elementwise-operation drivers:
// Transform, TransformInPlace, and AccumulateInPlace. Operations are built
// from typed scalar kernels registered per dtype combination; dispatch is a
// table lookup against the operands' runtime dtypes, resolved once before
// the iteration loop. Bucketed operands are handled by the MultiIndex, so
// kernels never special-case ragged data.
package transform

import (
	"github.com/scipp/scipp-sub009/internal/index"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/units"
)

// applier runs the bound kernel at one set of operand offsets. Slot 0 is
// the output (or the in-place destination); inputs follow.
type applier func(offs *[index.MaxOperands]int)

// UnitRule derives the result unit from the operand units, or rejects the
// combination with a unit error.
type UnitRule func(operands []units.Unit) (units.Unit, error)

// SameUnit requires every operand to share one unit and propagates it.
func SameUnit(operands []units.Unit) (units.Unit, error) {
	for _, u := range operands[1:] {
		if !u.Equal(operands[0]) {
			return units.Unit{}, unitMismatch(operands)
		}
	}
	return operands[0], nil
}

// ProductUnit multiplies all operand units.
func ProductUnit(operands []units.Unit) (units.Unit, error) {
	u := operands[0]
	for _, v := range operands[1:] {
		u = u.Mul(v)
	}
	return u, nil
}

// QuotientUnit divides the first operand's unit by the remaining ones.
func QuotientUnit(operands []units.Unit) (units.Unit, error) {
	u := operands[0]
	for _, v := range operands[1:] {
		u = u.Div(v)
	}
	return u, nil
}

// overload is one registered dtype-specific kernel of an operation.
type overload struct {
	out storage.DType
	// bind resolves typed slices once, before the loop. withVariances is
	// set when every participating operand carries variances.
	bind func(out storage.ElementArray, args []storage.ElementArray, withVariances bool) applier
	// supportsVariances marks overloads carrying a propagation formula.
	supportsVariances bool
	unit              UnitRule
}

type dtypeKey [index.MaxOperands - 1]storage.DType

// Op is a dtype-dispatched elementwise operation producing a new output.
type Op struct {
	name      string
	overloads map[dtypeKey]*overload
}

// Name returns the operation name used in error messages.
func (op *Op) Name() string { return op.name }

// InPlaceOp is a dtype-dispatched elementwise operation writing into an
// existing destination; it also drives AccumulateInPlace.
type InPlaceOp struct {
	name      string
	overloads map[dtypeKey]*overload
}

// Name returns the operation name used in error messages.
func (op *InPlaceOp) Name() string { return op.name }

// OverloadSpec registers one dtype combination on an Op.
type OverloadSpec func(op *Op)

// InPlaceSpec registers one dtype combination on an InPlaceOp.
type InPlaceSpec func(op *InPlaceOp)

// NewOp builds an operation from its overloads.
func NewOp(name string, specs ...OverloadSpec) *Op {
	op := &Op{name: name, overloads: map[dtypeKey]*overload{}}
	for _, s := range specs {
		s(op)
	}
	return op
}

// NewInPlaceOp builds an in-place operation from its overloads.
func NewInPlaceOp(name string, specs ...InPlaceSpec) *InPlaceOp {
	op := &InPlaceOp{name: name, overloads: map[dtypeKey]*overload{}}
	for _, s := range specs {
		s(op)
	}
	return op
}

// Unary registers f for input dtype A, output dtype O. Variance presence on
// the input is rejected (no propagation formula).
func Unary[A, O comparable](f func(A) O, unit UnitRule) OverloadSpec {
	return func(op *Op) {
		op.overloads[key1[A]()] = &overload{
			out:  storage.DTypeOf[O](),
			unit: unit,
			bind: func(out storage.ElementArray, args []storage.ElementArray, _ bool) applier {
				ov := storage.Values[O](out)
				av := storage.Values[A](args[0])
				return func(offs *[index.MaxOperands]int) {
					ov[offs[0]] = f(av[offs[1]])
				}
			},
		}
	}
}

// UnaryV registers a unary kernel with a variance propagation formula fv
// mapping (value, variance) to (value, variance).
func UnaryV[A, O comparable](f func(A) O, fv func(val, variance A) (O, O), unit UnitRule) OverloadSpec {
	return func(op *Op) {
		op.overloads[key1[A]()] = &overload{
			out:               storage.DTypeOf[O](),
			unit:              unit,
			supportsVariances: true,
			bind: func(out storage.ElementArray, args []storage.ElementArray, withVariances bool) applier {
				ov := storage.Values[O](out)
				av := storage.Values[A](args[0])
				if !withVariances {
					return func(offs *[index.MaxOperands]int) {
						ov[offs[0]] = f(av[offs[1]])
					}
				}
				ovar := storage.Variances[O](out)
				avar := storage.Variances[A](args[0])
				return func(offs *[index.MaxOperands]int) {
					ov[offs[0]], ovar[offs[0]] = fv(av[offs[1]], avar[offs[1]])
				}
			},
		}
	}
}

// Binary registers f for input dtypes (A, B), output dtype O, without a
// variance propagation formula.
func Binary[A, B, O comparable](f func(A, B) O, unit UnitRule) OverloadSpec {
	return func(op *Op) {
		op.overloads[key2[A, B]()] = &overload{
			out:  storage.DTypeOf[O](),
			unit: unit,
			bind: func(out storage.ElementArray, args []storage.ElementArray, _ bool) applier {
				ov := storage.Values[O](out)
				av := storage.Values[A](args[0])
				bv := storage.Values[B](args[1])
				return func(offs *[index.MaxOperands]int) {
					ov[offs[0]] = f(av[offs[1]], bv[offs[2]])
				}
			},
		}
	}
}

// BinaryV registers a binary kernel with a variance propagation formula fv
// over (aVal, aVar, bVal, bVar). An operand without variances contributes
// variance zero (an exact value).
func BinaryV[A, B, O comparable](f func(A, B) O, fv func(a, aVar A, b, bVar B) (O, O), unit UnitRule) OverloadSpec {
	return func(op *Op) {
		op.overloads[key2[A, B]()] = &overload{
			out:               storage.DTypeOf[O](),
			unit:              unit,
			supportsVariances: true,
			bind: func(out storage.ElementArray, args []storage.ElementArray, withVariances bool) applier {
				ov := storage.Values[O](out)
				av := storage.Values[A](args[0])
				bv := storage.Values[B](args[1])
				if !withVariances {
					return func(offs *[index.MaxOperands]int) {
						ov[offs[0]] = f(av[offs[1]], bv[offs[2]])
					}
				}
				ovar := storage.Variances[O](out)
				avar := storage.Variances[A](args[0])
				bvar := storage.Variances[B](args[1])
				return func(offs *[index.MaxOperands]int) {
					ov[offs[0]], ovar[offs[0]] = fv(av[offs[1]], varOrZero(avar, offs[1]), bv[offs[2]], varOrZero(bvar, offs[2]))
				}
			},
		}
	}
}

// UnaryInPlace registers f mutating the destination element for dtype A.
func UnaryInPlace[A comparable](f func(*A), unit UnitRule) InPlaceSpec {
	return func(op *InPlaceOp) {
		op.overloads[key1[A]()] = &overload{
			unit: unit,
			bind: func(out storage.ElementArray, _ []storage.ElementArray, _ bool) applier {
				dv := storage.Values[A](out)
				return func(offs *[index.MaxOperands]int) {
					f(&dv[offs[0]])
				}
			},
		}
	}
}

// BinaryInPlace registers f mutating a destination element of dtype A from
// a source element of dtype B.
func BinaryInPlace[A, B comparable](f func(*A, B), unit UnitRule) InPlaceSpec {
	return func(op *InPlaceOp) {
		op.overloads[key2[A, B]()] = &overload{
			unit: unit,
			bind: func(out storage.ElementArray, args []storage.ElementArray, _ bool) applier {
				dv := storage.Values[A](out)
				sv := storage.Values[B](args[0])
				return func(offs *[index.MaxOperands]int) {
					f(&dv[offs[0]], sv[offs[1]])
				}
			},
		}
	}
}

// BinaryInPlaceV registers an in-place kernel with a variance propagation
// formula mutating (val, var) of the destination.
func BinaryInPlaceV[A, B comparable](f func(*A, B), fv func(dVal, dVar *A, sVal, sVar B), unit UnitRule) InPlaceSpec {
	return func(op *InPlaceOp) {
		op.overloads[key2[A, B]()] = &overload{
			unit:              unit,
			supportsVariances: true,
			bind: func(out storage.ElementArray, args []storage.ElementArray, withVariances bool) applier {
				dv := storage.Values[A](out)
				sv := storage.Values[B](args[0])
				if !withVariances {
					return func(offs *[index.MaxOperands]int) {
						f(&dv[offs[0]], sv[offs[1]])
					}
				}
				dvar := storage.Variances[A](out)
				svar := storage.Variances[B](args[0])
				return func(offs *[index.MaxOperands]int) {
					fv(&dv[offs[0]], &dvar[offs[0]], sv[offs[1]], varOrZero(svar, offs[1]))
				}
			},
		}
	}
}

// varOrZero reads a variance slot, substituting zero for operands that
// carry no variances.
func varOrZero[T comparable](s []T, i int) T {
	if s == nil {
		var zero T
		return zero
	}
	return s[i]
}

func key1[A comparable]() dtypeKey {
	return dtypeKey{storage.DTypeOf[A]()}
}

func key2[A, B comparable]() dtypeKey {
	return dtypeKey{storage.DTypeOf[A](), storage.DTypeOf[B]()}
}
