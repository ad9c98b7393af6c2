package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scipp/scipp-sub009/internal/except"
)

func TestAlgebra(t *testing.T) {
	speed := Metre.Div(Second)
	assert.Equal(t, "m*s^-1", speed.String())

	accel := speed.Div(Second)
	assert.Equal(t, "m*s^-2", accel.String())

	area := Metre.Mul(Metre)
	assert.Equal(t, "m^2", area.String())
	assert.True(t, Metre.Mul(Metre).Equal(area))

	assert.Equal(t, Dimensionless, Metre.Div(Metre))
	assert.Equal(t, "dimensionless", Dimensionless.String())
}

func TestSqrt(t *testing.T) {
	area := Metre.Mul(Metre)
	root, err := area.Sqrt()
	require.NoError(t, err)
	assert.Equal(t, Metre, root)

	_, err = Metre.Sqrt()
	assert.ErrorIs(t, err, except.ErrUnit)
}

func TestCounts(t *testing.T) {
	density := Counts.Div(Metre)
	assert.Equal(t, "m^-1*counts", density.String())
}
