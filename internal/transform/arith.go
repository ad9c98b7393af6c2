package transform

import (
	"math"

	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/units"
	"github.com/scipp/scipp-sub009/internal/variable"
)

// Built-in elementwise operations. The variance formulas follow the usual
// propagation rules for independent operands; kernels own the formulas,
// operands without variances enter them as exact values.
var (
	Add = NewOp("add",
		BinaryV(func(a, b float64) float64 { return a + b },
			func(a, av, b, bv float64) (float64, float64) { return a + b, av + bv }, SameUnit),
		BinaryV(func(a, b float32) float32 { return a + b },
			func(a, av, b, bv float32) (float32, float32) { return a + b, av + bv }, SameUnit),
		Binary(func(a, b int64) int64 { return a + b }, SameUnit),
		Binary(func(a, b int32) int32 { return a + b }, SameUnit),
	)

	Subtract = NewOp("subtract",
		BinaryV(func(a, b float64) float64 { return a - b },
			func(a, av, b, bv float64) (float64, float64) { return a - b, av + bv }, SameUnit),
		Binary(func(a, b int64) int64 { return a - b }, SameUnit),
	)

	Multiply = NewOp("multiply",
		BinaryV(func(a, b float64) float64 { return a * b },
			func(a, av, b, bv float64) (float64, float64) { return a * b, b*b*av + a*a*bv }, ProductUnit),
		BinaryV(func(a, b float32) float32 { return a * b },
			func(a, av, b, bv float32) (float32, float32) { return a * b, b*b*av + a*a*bv }, ProductUnit),
		Binary(func(a, b int64) int64 { return a * b }, ProductUnit),
	)

	Divide = NewOp("divide",
		BinaryV(func(a, b float64) float64 { return a / b },
			func(a, av, b, bv float64) (float64, float64) {
				q := a / b
				return q, (av + q*q*bv) / (b * b)
			}, QuotientUnit),
	)

	Sqrt = NewOp("sqrt",
		UnaryV(math.Sqrt,
			func(val, variance float64) (float64, float64) {
				r := math.Sqrt(val)
				return r, variance / (4 * val)
			}, sqrtUnit),
	)

	AddInto = NewInPlaceOp("add_into",
		BinaryInPlaceV(func(d *float64, s float64) { *d += s },
			func(d, dv *float64, s, sv float64) { *d += s; *dv += sv }, SameUnit),
		BinaryInPlaceV(func(d *float32, s float32) { *d += s },
			func(d, dv *float32, s, sv float32) { *d += s; *dv += sv }, SameUnit),
		BinaryInPlace(func(d *int64, s int64) { *d += s }, SameUnit),
	)

	MultiplyBy = NewInPlaceOp("multiply_by",
		BinaryInPlaceV(func(d *float64, s float64) { *d *= s },
			func(d, dv *float64, s, sv float64) { *dv = s*s*(*dv) + (*d)*(*d)*sv; *d *= s }, ProductUnit),
		BinaryInPlace(func(d *int64, s int64) { *d *= s }, ProductUnit),
	)
)

func sqrtUnit(operands []units.Unit) (units.Unit, error) {
	return operands[0].Sqrt()
}

// Sum reduces v along dim with +=, returning a dense variable with dim
// removed. Built on AccumulateInPlace; the accumulation order across the
// reduced dimension is unspecified.
func Sum(v *variable.Variable, dim dims.Dim) (*variable.Variable, error) {
	if !v.Dims().Contains(dim) {
		return nil, except.Dimensionf("sum dimension %s not in %s", dim, v.Dims())
	}
	dest := variable.NewOfType(v.DType(), v.Dims().Erase(dim), v.HasVariances()).WithUnit(v.Unit())
	if err := AccumulateInPlace(AddInto, dest, v); err != nil {
		return nil, err
	}
	return dest, nil
}

// Mean is Sum divided by the reduced extent. Restricted to float64 data.
func Mean(v *variable.Variable, dim dims.Dim) (*variable.Variable, error) {
	if v.DType() != storage.Float64 {
		return nil, except.Typef("mean requires float64, got %s", v.DType())
	}
	sum, err := Sum(v, dim)
	if err != nil {
		return nil, err
	}
	n := float64(v.Dims().SizeOf(dim))
	return Transform(Multiply, sum, variable.Scalar(1/n))
}
