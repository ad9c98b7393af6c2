package dims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionsBasics(t *testing.T) {
	d := Of(X, 2, Y, 3)

	assert.Equal(t, 2, d.NDim())
	assert.Equal(t, 6, d.Volume())
	assert.Equal(t, []Dim{X, Y}, d.Labels())
	assert.Equal(t, []int{2, 3}, d.Sizes())
	assert.Equal(t, 3, d.SizeOf(Y))
	assert.True(t, d.Contains(X))
	assert.False(t, d.Contains(Z))
	assert.Equal(t, "{x: 2, y: 3}", d.String())
}

func TestDimensionsScalar(t *testing.T) {
	var d Dimensions
	assert.Equal(t, 0, d.NDim())
	assert.Equal(t, 1, d.Volume(), "rank-0 shape is a scalar with one element")
}

func TestDimensionsAddErase(t *testing.T) {
	d := Of(X, 2)
	d = d.AddInner(Y, 3)
	assert.Equal(t, []Dim{X, Y}, d.Labels())

	d = d.AddOuter(Time, 4)
	assert.Equal(t, []Dim{Time, X, Y}, d.Labels())
	assert.Equal(t, []int{4, 2, 3}, d.Sizes())

	d = d.Erase(X)
	assert.Equal(t, []Dim{Time, Y}, d.Labels())
	assert.Equal(t, []int{4, 3}, d.Sizes())
}

func TestDimensionsDuplicatePanics(t *testing.T) {
	d := Of(X, 2)
	assert.Panics(t, func() { d.AddInner(X, 3) })
}

func TestDimensionsNegativeSizePanics(t *testing.T) {
	assert.Panics(t, func() { Of(X, -1) })
}

func TestDimensionsRankOverflowPanics(t *testing.T) {
	d := Of(X, 1, Y, 1, Z, 1, Time, 1, Event, 1, Row, 1)
	require.Equal(t, NDimMax, d.NDim())
	assert.Panics(t, func() { d.AddInner(Temperature, 1) })
}

func TestDimensionsSlice(t *testing.T) {
	d := Of(X, 4, Y, 3)

	ranged := d.Slice(X, 1, 3)
	assert.Equal(t, Of(X, 2, Y, 3), ranged)

	point := d.Slice(Y, 1, -1)
	assert.Equal(t, Of(X, 4), point)
}

func TestDimensionsTranspose(t *testing.T) {
	d := Of(X, 2, Y, 3, Z, 4)
	tr := d.Transpose([]Dim{Z, X, Y})
	assert.Equal(t, Of(Z, 4, X, 2, Y, 3), tr)
}

func TestMerge(t *testing.T) {
	a := Of(X, 2, Y, 3)
	b := Of(Y, 3, Z, 4)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, Of(X, 2, Y, 3, Z, 4), merged)
}

func TestMergeConflict(t *testing.T) {
	a := Of(X, 2)
	b := Of(X, 3)

	_, err := Merge(a, b)
	assert.ErrorContains(t, err, "conflicting extent")
}

func TestCustomLabels(t *testing.T) {
	a := Label("pulse")
	b := Label("pulse")
	assert.Equal(t, a, b, "registration must be idempotent")
	assert.Equal(t, "pulse", a.String())
	assert.Equal(t, "temperature", Label("temperature").String(), "builtin names resolve to builtin labels")
}

func TestContiguousStrides(t *testing.T) {
	d := Of(X, 2, Y, 3, Z, 4)
	s := ContiguousStrides(d)

	assert.Equal(t, []int{12, 4, 1}, s.Values())
	assert.True(t, s.IsContiguous(d))
}

func TestStridesTranspose(t *testing.T) {
	d := Of(X, 2, Y, 3)
	s := ContiguousStrides(d)
	tr := s.Transpose(d, d.Transpose([]Dim{Y, X}))

	assert.Equal(t, []int{1, 3}, tr.Values())
}

func TestContainsAll(t *testing.T) {
	d := Of(X, 2, Y, 3)
	assert.True(t, d.ContainsAll(Of(Y, 3)))
	assert.False(t, d.ContainsAll(Of(Y, 4)), "extent must match")
	assert.False(t, d.ContainsAll(Of(Z, 1)))
}
