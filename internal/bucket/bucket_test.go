package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/units"
	"github.com/scipp/scipp-sub009/internal/variable"
)

func eventBuffer(t *testing.T, values ...float64) *variable.Variable {
	t.Helper()
	buf, err := variable.FromSlice(dims.Of(dims.Event, len(values)), values)
	require.NoError(t, err)
	return buf
}

func indicesVar(t *testing.T, d dims.Dimensions, pairs ...storage.IndexPair) *variable.Variable {
	t.Helper()
	v, err := variable.FromSlice(d, pairs)
	require.NoError(t, err)
	return v
}

func TestMakeBins(t *testing.T) {
	buf := eventBuffer(t, 1, 2, 3, 4, 5)
	indices := indicesVar(t, dims.Of(dims.X, 2),
		storage.IndexPair{Begin: 0, End: 2}, storage.IndexPair{Begin: 2, End: 5})

	v, err := MakeBins(indices, dims.Event, buf)
	require.NoError(t, err)
	assert.True(t, v.IsBinned())
	assert.Equal(t, dims.Event, v.BinDim())
	assert.Same(t, buf, v.BinBuffer())
}

func TestMakeBinsRejectsBadRanges(t *testing.T) {
	buf := eventBuffer(t, 1, 2, 3)

	// begin > end is rejected before any data access.
	bad := indicesVar(t, dims.Of(dims.X, 1), storage.IndexPair{Begin: 2, End: 1})
	_, err := MakeBins(bad, dims.Event, buf)
	assert.ErrorIs(t, err, except.ErrBucket)

	oob := indicesVar(t, dims.Of(dims.X, 1), storage.IndexPair{Begin: 0, End: 4})
	_, err = MakeBins(oob, dims.Event, buf)
	assert.ErrorIs(t, err, except.ErrBucket)

	neg := indicesVar(t, dims.Of(dims.X, 1), storage.IndexPair{Begin: -1, End: 1})
	_, err = MakeBins(neg, dims.Event, buf)
	assert.ErrorIs(t, err, except.ErrBucket)
}

func TestMakeBinsRejectsWrongTypes(t *testing.T) {
	buf := eventBuffer(t, 1, 2, 3)

	notIndices, err := variable.FromSlice(dims.Of(dims.X, 1), []int64{0})
	require.NoError(t, err)
	_, err = MakeBins(notIndices, dims.Event, buf)
	assert.ErrorIs(t, err, except.ErrType)

	indices := indicesVar(t, dims.Of(dims.X, 1), storage.IndexPair{Begin: 0, End: 3})
	_, err = MakeBins(indices, dims.Time, buf)
	assert.ErrorIs(t, err, except.ErrBucket)
}

func TestConstituentsRoundTrip(t *testing.T) {
	buf := eventBuffer(t, 1, 2, 3, 4)
	pairs := []storage.IndexPair{{Begin: 0, End: 1}, {Begin: 1, End: 4}}
	v, err := MakeBins(indicesVar(t, dims.Of(dims.X, 2), pairs...), dims.Event, buf)
	require.NoError(t, err)

	indices, dim, buffer, err := Constituents(v)
	require.NoError(t, err)
	assert.Equal(t, dims.Event, dim)
	assert.Same(t, buf, buffer)
	assert.Equal(t, pairs, variable.Values[storage.IndexPair](indices))

	rebuilt, err := MakeBins(indices, dim, buffer)
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(v))

	_, _, _, err = Constituents(buf)
	assert.ErrorIs(t, err, except.ErrType)
}

func TestSizes(t *testing.T) {
	buf := eventBuffer(t, 1, 2, 3, 4, 5)
	v, err := MakeBins(indicesVar(t, dims.Of(dims.X, 3),
		storage.IndexPair{Begin: 0, End: 2},
		storage.IndexPair{Begin: 2, End: 2},
		storage.IndexPair{Begin: 2, End: 5}), dims.Event, buf)
	require.NoError(t, err)

	sizes, err := Sizes(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0, 3}, variable.Values[int64](sizes))
}

func TestEmptyLike(t *testing.T) {
	buf := eventBuffer(t, 1, 2, 3).WithUnit(units.Metre)
	buf.SetVariances(true)
	proto, err := MakeBins(indicesVar(t, dims.Of(dims.X, 2),
		storage.IndexPair{Begin: 0, End: 1}, storage.IndexPair{Begin: 1, End: 3}), dims.Event, buf)
	require.NoError(t, err)

	out, err := EmptyLike(proto, nil)
	require.NoError(t, err)
	outSizes, err := Sizes(out)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, variable.Values[int64](outSizes))
	assert.Equal(t, units.Metre, out.BinBuffer().Unit())
	assert.True(t, out.BinBuffer().HasVariances())
	assert.Equal(t, 3, out.BinBuffer().Dims().SizeOf(dims.Event))
}

func TestEmptyLikeWithSizes(t *testing.T) {
	buf := eventBuffer(t, 1, 2, 3)
	proto, err := MakeBins(indicesVar(t, dims.Of(dims.X, 3, dims.Y, 2),
		storage.IndexPair{Begin: 0, End: 1}, storage.IndexPair{},
		storage.IndexPair{}, storage.IndexPair{Begin: 1, End: 3},
		storage.IndexPair{}, storage.IndexPair{}), dims.Event, buf)
	require.NoError(t, err)

	sizes, err := variable.FromSlice(dims.Of(dims.X, 3, dims.Y, 2), []int64{1, 2, 5, 6, 3, 4})
	require.NoError(t, err)
	out, err := EmptyLike(proto, sizes)
	require.NoError(t, err)

	assert.Equal(t, 21, out.BinBuffer().Dims().SizeOf(dims.Event))
	outSizes, err := Sizes(out)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 5, 6, 3, 4}, variable.Values[int64](outSizes))
	// Bins are packed contiguously in row-major outer order.
	assert.Equal(t, storage.IndexPair{Begin: 1, End: 3}, variable.BinRanges(out)[1])

	negative, err := variable.FromSlice(dims.Of(dims.X, 3, dims.Y, 2), []int64{1, -2, 5, 6, 3, 4})
	require.NoError(t, err)
	_, err = EmptyLike(proto, negative)
	assert.ErrorIs(t, err, except.ErrBucket)

	badShape, err := variable.FromSlice(dims.Of(dims.X, 2), []int64{1, 2})
	require.NoError(t, err)
	_, err = EmptyLike(proto, badShape)
	assert.ErrorIs(t, err, except.ErrDimension)
}

func TestConcatenate(t *testing.T) {
	abuf := eventBuffer(t, 1, 2, 3)
	a, err := MakeBins(indicesVar(t, dims.Of(dims.X, 2),
		storage.IndexPair{Begin: 0, End: 2}, storage.IndexPair{Begin: 2, End: 3}), dims.Event, abuf)
	require.NoError(t, err)

	bbuf := eventBuffer(t, 10, 20)
	b, err := MakeBins(indicesVar(t, dims.Of(dims.X, 2),
		storage.IndexPair{Begin: 0, End: 1}, storage.IndexPair{Begin: 1, End: 2}), dims.Event, bbuf)
	require.NoError(t, err)

	out, err := Concatenate(a, b)
	require.NoError(t, err)
	outSizes, err := Sizes(out)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2}, variable.Values[int64](outSizes))
	assert.Equal(t, []float64{1, 2, 10, 3, 20}, variable.Values[float64](out.BinBuffer()))
}

func TestConcatenateMismatches(t *testing.T) {
	buf := eventBuffer(t, 1, 2)
	a, err := MakeBins(indicesVar(t, dims.Of(dims.X, 1), storage.IndexPair{Begin: 0, End: 2}), dims.Event, buf)
	require.NoError(t, err)

	_, err = Concatenate(a, buf)
	assert.ErrorIs(t, err, except.ErrType)

	other, err := MakeBins(indicesVar(t, dims.Of(dims.Y, 1), storage.IndexPair{Begin: 0, End: 2}), dims.Event, buf.Clone())
	require.NoError(t, err)
	_, err = Concatenate(a, other)
	assert.ErrorIs(t, err, except.ErrDimension)

	metric := eventBuffer(t, 1, 2).WithUnit(units.Metre)
	withUnit, err := MakeBins(indicesVar(t, dims.Of(dims.X, 1), storage.IndexPair{Begin: 0, End: 2}), dims.Event, metric)
	require.NoError(t, err)
	_, err = Concatenate(a, withUnit)
	assert.ErrorIs(t, err, except.ErrUnit)
}

func TestResizeDefaultInit(t *testing.T) {
	buf := eventBuffer(t, 1, 2, 3)
	v, err := MakeBins(indicesVar(t, dims.Of(dims.X, 2),
		storage.IndexPair{Begin: 0, End: 1}, storage.IndexPair{Begin: 1, End: 3}), dims.Event, buf)
	require.NoError(t, err)

	sizes, err := variable.FromSlice(dims.Of(dims.X, 2), []int64{4, 0})
	require.NoError(t, err)
	out, err := ResizeDefaultInit(v, sizes)
	require.NoError(t, err)
	assert.Equal(t, 4, out.BinBuffer().Dims().SizeOf(dims.Event))

	_, err = ResizeDefaultInit(v, nil)
	assert.ErrorIs(t, err, except.ErrBucket)
}
