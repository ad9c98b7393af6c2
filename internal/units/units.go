// Package units provides the minimal physical-unit type carried by
// variables. The engine treats units as opaque: kernels supply a unit rule
// and any rejection surfaces as a unit error. Only the algebra needed by the
// built-in kernels lives here.
package units

import (
	"strconv"
	"strings"

	"github.com/scipp/scipp-sub009/internal/except"
)

// Unit is a product of base-unit powers. The zero value is dimensionless.
type Unit struct {
	// Exponents for metre, second, kilogram, kelvin, count.
	m, s, kg, k, counts int8
}

// Predefined units.
var (
	Dimensionless = Unit{}
	Metre         = Unit{m: 1}
	Second        = Unit{s: 1}
	Kilogram      = Unit{kg: 1}
	Kelvin        = Unit{k: 1}
	Counts        = Unit{counts: 1}
)

// Mul returns the product unit.
func (u Unit) Mul(v Unit) Unit {
	return Unit{u.m + v.m, u.s + v.s, u.kg + v.kg, u.k + v.k, u.counts + v.counts}
}

// Div returns the quotient unit.
func (u Unit) Div(v Unit) Unit {
	return Unit{u.m - v.m, u.s - v.s, u.kg - v.kg, u.k - v.k, u.counts - v.counts}
}

// Sqrt returns the square root unit, or a unit error if any exponent is odd.
func (u Unit) Sqrt() (Unit, error) {
	for _, e := range [...]int8{u.m, u.s, u.kg, u.k, u.counts} {
		if e%2 != 0 {
			return Unit{}, except.Unitf("sqrt of %s", u)
		}
	}
	return Unit{u.m / 2, u.s / 2, u.kg / 2, u.k / 2, u.counts / 2}, nil
}

// Equal reports whether two units are identical.
func (u Unit) Equal(v Unit) bool { return u == v }

// String renders the unit, e.g. "m*s^-2" or "dimensionless".
func (u Unit) String() string {
	var parts []string
	add := func(sym string, e int8) {
		switch {
		case e == 1:
			parts = append(parts, sym)
		case e != 0:
			parts = append(parts, sym+"^"+strconv.Itoa(int(e)))
		}
	}
	add("m", u.m)
	add("s", u.s)
	add("kg", u.kg)
	add("K", u.k)
	add("counts", u.counts)
	if len(parts) == 0 {
		return "dimensionless"
	}
	return strings.Join(parts, "*")
}
