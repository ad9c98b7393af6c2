package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scipp/scipp-sub009/internal/dims"
)

func collectOffsets(v *ViewIndex) []int {
	var out []int
	for ; !v.AtEnd(); v.Increment() {
		out = append(out, v.Offset())
	}
	return out
}

func TestViewIndexContiguous(t *testing.T) {
	d := dims.Of(dims.X, 2, dims.Y, 3)
	v := NewViewIndex(d, dims.ContiguousStrides(d))

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, collectOffsets(v))
}

func TestViewIndexFoldsContiguousRun(t *testing.T) {
	// A fully contiguous 3-D layout folds into a single counter.
	d := dims.Of(dims.X, 2, dims.Y, 3, dims.Z, 4)
	v := NewViewIndex(d, dims.ContiguousStrides(d))

	assert.Equal(t, 1, v.ndim)
	assert.Equal(t, 24, v.extent[0])
}

func TestViewIndexStridedSlice(t *testing.T) {
	// Rows of a {X:2, Y:4} buffer, sliced to its first three columns.
	target := dims.Of(dims.X, 2, dims.Y, 3)
	v := NewViewIndex(target, dims.StridesFrom(4, 1))

	assert.Equal(t, []int{0, 1, 2, 4, 5, 6}, collectOffsets(v))
	assert.Equal(t, 2, v.ndim, "non-contiguous outer dimension must stay separate")
}

func TestViewIndexBroadcast(t *testing.T) {
	// Stride-0 outer dimension revisits the same row.
	target := dims.Of(dims.X, 2, dims.Y, 3)
	v := NewViewIndex(target, dims.StridesFrom(0, 1))

	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, collectOffsets(v))
}

func TestViewIndexScalar(t *testing.T) {
	v := NewViewIndex(dims.Dimensions{}, dims.StridesFrom())

	assert.False(t, v.AtEnd())
	assert.Equal(t, 0, v.Offset())
	v.Increment()
	assert.True(t, v.AtEnd())
}

func TestAlignStrides(t *testing.T) {
	iter := dims.Of(dims.X, 2, dims.Y, 3)
	op := dims.Of(dims.Y, 3)

	aligned, err := AlignStrides(iter, op, dims.ContiguousStrides(op), true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, aligned.Values())
}

func TestAlignStridesRejectsUnrequestedBroadcast(t *testing.T) {
	iter := dims.Of(dims.X, 2, dims.Y, 3)
	op := dims.Of(dims.Y, 3)

	_, err := AlignStrides(iter, op, dims.ContiguousStrides(op), false)
	assert.ErrorContains(t, err, "missing from operand")
}

func TestAlignStridesRejectsForeignDim(t *testing.T) {
	iter := dims.Of(dims.X, 2)
	op := dims.Of(dims.X, 2, dims.Y, 3)

	_, err := AlignStrides(iter, op, dims.ContiguousStrides(op), true)
	assert.ErrorContains(t, err, "not embeddable")
}
