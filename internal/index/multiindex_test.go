package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/storage"
)

func TestMultiIndexEnumeratesVolumeOnce(t *testing.T) {
	// A single dense operand over its own shape visits every element exactly
	// once, in row-major order.
	d := dims.Of(dims.X, 3, dims.Y, 4, dims.Z, 2)
	m := NewMultiIndex(d, Operand{Dims: d, Strides: dims.ContiguousStrides(d)})

	var offs [MaxOperands]int
	var seen []int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		seen = append(seen, offs[0])
	}
	require.Len(t, seen, d.Volume())
	for i, off := range seen {
		assert.Equal(t, i, off)
	}
}

func TestMultiIndexBroadcastLockstep(t *testing.T) {
	iter := dims.Of(dims.X, 2, dims.Y, 3)
	full := dims.ContiguousStrides(iter)
	row, err := AlignStrides(iter, dims.Of(dims.Y, 3), dims.StridesFrom(1), true)
	require.NoError(t, err)

	m := NewMultiIndex(iter,
		Operand{Dims: iter, Strides: full},
		Operand{Strides: row},
	)
	var offs [MaxOperands]int
	var dense, bcast []int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		dense = append(dense, offs[0])
		bcast = append(bcast, offs[1])
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, dense)
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, bcast)
}

func TestMultiIndexTransposedOperand(t *testing.T) {
	// Second operand stores {Y, X} but is iterated in {X, Y} order.
	iter := dims.Of(dims.X, 2, dims.Y, 3)
	m := NewMultiIndex(iter,
		Operand{Strides: dims.ContiguousStrides(iter)},
		Operand{Strides: dims.StridesFrom(1, 2)},
	)
	var offs [MaxOperands]int
	var transposed []int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		transposed = append(transposed, offs[1])
	}
	assert.Equal(t, []int{0, 2, 4, 1, 3, 5}, transposed)
}

func TestMultiIndexBucketed(t *testing.T) {
	// Two bins over a 5-element buffer: [0,2) and [2,5).
	outer := dims.Of(dims.X, 2)
	indices := []storage.IndexPair{{Begin: 0, End: 2}, {Begin: 2, End: 5}}
	m := NewMultiIndex(outer, Operand{
		Strides: dims.ContiguousStrides(outer),
		Bucket:  &BucketParams{Indices: indices, BufferStride: 1},
	})

	var offs [MaxOperands]int
	var seen []int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		seen = append(seen, offs[0])
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestMultiIndexSkipsEmptyBins(t *testing.T) {
	outer := dims.Of(dims.X, 4)
	indices := []storage.IndexPair{
		{Begin: 0, End: 0},
		{Begin: 0, End: 2},
		{Begin: 2, End: 2},
		{Begin: 2, End: 3},
	}
	m := NewMultiIndex(outer, Operand{
		Strides: dims.ContiguousStrides(outer),
		Bucket:  &BucketParams{Indices: indices, BufferStride: 1},
	})

	var offs [MaxOperands]int
	var seen []int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		seen = append(seen, offs[0])
	}
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestMultiIndexAllBinsEmpty(t *testing.T) {
	outer := dims.Of(dims.X, 3)
	indices := []storage.IndexPair{{}, {}, {}}
	m := NewMultiIndex(outer, Operand{
		Strides: dims.ContiguousStrides(outer),
		Bucket:  &BucketParams{Indices: indices, BufferStride: 1},
	})
	assert.True(t, m.AtEnd())
}

func TestMultiIndexBucketedWithDense(t *testing.T) {
	// A dense per-bin operand holds its position while the bin's contents
	// stream past it.
	outer := dims.Of(dims.X, 2)
	indices := []storage.IndexPair{{Begin: 0, End: 3}, {Begin: 3, End: 4}}
	m := NewMultiIndex(outer,
		Operand{
			Strides: dims.ContiguousStrides(outer),
			Bucket:  &BucketParams{Indices: indices, BufferStride: 1},
		},
		Operand{Strides: dims.ContiguousStrides(outer)},
	)

	var offs [MaxOperands]int
	var events, scale []int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		events = append(events, offs[0])
		scale = append(scale, offs[1])
	}
	assert.Equal(t, []int{0, 1, 2, 3}, events)
	assert.Equal(t, []int{0, 0, 0, 1}, scale)
}

func TestMultiIndexBufferOffsetAndStride(t *testing.T) {
	// Bins slicing a buffer that is itself a strided view: element offsets
	// scale by the buffer stride and shift by its base offset.
	outer := dims.Of(dims.X, 2)
	indices := []storage.IndexPair{{Begin: 0, End: 2}, {Begin: 2, End: 3}}
	m := NewMultiIndex(outer, Operand{
		Strides: dims.ContiguousStrides(outer),
		Bucket:  &BucketParams{Indices: indices, BufferStride: 2, BufferOffset: 1},
	})

	var offs [MaxOperands]int
	var seen []int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		seen = append(seen, offs[0])
	}
	assert.Equal(t, []int{1, 3, 5}, seen)
}

func TestValidateBinSizes(t *testing.T) {
	outer := dims.Of(dims.X, 2)
	a := Operand{
		Strides: dims.ContiguousStrides(outer),
		Bucket:  &BucketParams{Indices: []storage.IndexPair{{Begin: 0, End: 2}, {Begin: 2, End: 3}}, BufferStride: 1},
	}
	b := Operand{
		Strides: dims.ContiguousStrides(outer),
		Bucket:  &BucketParams{Indices: []storage.IndexPair{{Begin: 5, End: 7}, {Begin: 0, End: 1}}, BufferStride: 1},
	}
	assert.NoError(t, ValidateBinSizes(outer, a, b))

	c := Operand{
		Strides: dims.ContiguousStrides(outer),
		Bucket:  &BucketParams{Indices: []storage.IndexPair{{Begin: 0, End: 1}, {Begin: 1, End: 3}}, BufferStride: 1},
	}
	assert.Error(t, ValidateBinSizes(outer, a, c))
}
