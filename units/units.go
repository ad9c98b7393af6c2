// Package units provides the public API for the physical-unit type carried
// by variables.
package units

import (
	"github.com/scipp/scipp-sub009/internal/units"
)

// Unit is a product of base-unit powers; the zero value is dimensionless.
type Unit = units.Unit

// Predefined units.
var (
	Dimensionless = units.Dimensionless
	Metre         = units.Metre
	Second        = units.Second
	Kilogram      = units.Kilogram
	Kelvin        = units.Kelvin
	Counts        = units.Counts
)
