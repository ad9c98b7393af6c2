package bucket

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/variable"
)

// EmptyLike replicates a bucketed variable's outer shape and per-bin sizes
// with a freshly allocated, default-valued buffer of the same dtype, unit,
// and variance presence. When sizes is non-nil it overrides the per-bin
// sizes; it must be a dense int64 variable of the prototype's outer shape.
func EmptyLike(prototype *variable.Variable, sizes *variable.Variable) (*variable.Variable, error) {
	if !prototype.IsBinned() {
		return nil, except.Typef("empty_like prototype must be binned, got dtype %s", prototype.DType())
	}
	var binSizes []int64
	if sizes != nil {
		if !sizes.Dims().Equal(prototype.Dims()) {
			return nil, except.Dimensionf("bin-size shape %s does not match prototype %s", sizes.Dims(), prototype.Dims())
		}
		if sizes.DType() != storage.Int64 {
			return nil, except.Typef("bin sizes must be int64, got %s", sizes.DType())
		}
		dense := sizes.Copy()
		binSizes = variable.Values[int64](dense)
	} else {
		for _, p := range binRanges(prototype) {
			binSizes = append(binSizes, p.End-p.Begin)
		}
	}
	for i, n := range binSizes {
		if n < 0 {
			return nil, except.Bucketf("negative size %d for bin %d", n, i)
		}
	}
	indices, total := cumulative(binSizes)
	buf := prototype.BinBuffer()
	bufDims := buf.Dims().Resize(prototype.BinDim(), int(total))
	newBuf := variable.NewOfType(buf.DType(), bufDims, buf.HasVariances()).WithUnit(buf.Unit())
	return variable.NewBinned(prototype.Dims(), indices, prototype.BinDim(), newBuf)
}

// ResizeDefaultInit returns a bucketed variable with v's outer shape and
// the given new per-bin sizes, backed by a new default-initialized buffer
// of the cumulative length, bins laid out in their existing relative order.
func ResizeDefaultInit(v *variable.Variable, sizes *variable.Variable) (*variable.Variable, error) {
	if sizes == nil {
		return nil, except.Bucketf("resize requires explicit bin sizes")
	}
	return EmptyLike(v, sizes)
}

// Concatenate joins two bucketed variables bin by bin: bin i of the result
// holds a's bin i followed by b's bin i. Outer shapes, buffer dtypes, and
// the sliced dimension must match; buffers are appended into one new
// buffer, left side first, preserving intra-bin element order.
func Concatenate(a, b *variable.Variable) (*variable.Variable, error) {
	if !a.IsBinned() || !b.IsBinned() {
		return nil, except.Typef("concatenate requires binned operands")
	}
	if !a.Dims().Equal(b.Dims()) {
		return nil, except.Dimensionf("outer shapes differ: %s vs %s", a.Dims(), b.Dims())
	}
	if a.BinDim() != b.BinDim() {
		return nil, except.Bucketf("sliced dimensions differ: %s vs %s", a.BinDim(), b.BinDim())
	}
	abuf, bbuf := a.BinBuffer(), b.BinBuffer()
	if abuf.DType() != bbuf.DType() {
		return nil, except.Typef("buffer dtypes differ: %s vs %s", abuf.DType(), bbuf.DType())
	}
	if !abuf.Unit().Equal(bbuf.Unit()) {
		return nil, except.Unitf("buffer units differ: %s vs %s", abuf.Unit(), bbuf.Unit())
	}
	aRanges, bRanges := binRanges(a), binRanges(b)
	sizes := make([]int64, len(aRanges))
	for i := range aRanges {
		sizes[i] = (aRanges[i].End - aRanges[i].Begin) + (bRanges[i].End - bRanges[i].Begin)
	}
	indices, total := cumulative(sizes)
	variances := abuf.HasVariances() && bbuf.HasVariances()
	bufDims := abuf.Dims().Resize(a.BinDim(), int(total))
	newBuf := variable.NewOfType(abuf.DType(), bufDims, variances).WithUnit(abuf.Unit())
	for i := range indices {
		cursor := indices[i].Begin
		cursor, err := copyBin(newBuf, cursor, abuf, a.BinDim(), aRanges[i])
		if err != nil {
			return nil, err
		}
		if _, err := copyBin(newBuf, cursor, bbuf, b.BinDim(), bRanges[i]); err != nil {
			return nil, err
		}
	}
	return variable.NewBinned(a.Dims(), indices, a.BinDim(), newBuf)
}

// copyBin copies the [r.Begin, r.End) slice of src along dim into dst
// starting at position start, returning the cursor after the copied range.
func copyBin(dst *variable.Variable, start int64, src *variable.Variable, dim dims.Dim, r storage.IndexPair) (int64, error) {
	n := int(r.End - r.Begin)
	if n == 0 {
		return start, nil
	}
	dstSlice, err := dst.Slice(dim, int(start), int(start)+n)
	if err != nil {
		return start, err
	}
	srcSlice, err := src.Slice(dim, int(r.Begin), int(r.End))
	if err != nil {
		return start, err
	}
	if err := variable.CopyInto(dstSlice, srcSlice); err != nil {
		return start, err
	}
	return start + int64(n), nil
}

// cumulative lays bins out contiguously: indices[i] = [sum(sizes[:i]),
// sum(sizes[:i+1])).
func cumulative(sizes []int64) ([]storage.IndexPair, int64) {
	indices := make([]storage.IndexPair, len(sizes))
	var total int64
	for i, n := range sizes {
		indices[i] = storage.IndexPair{Begin: total, End: total + n}
		total += n
	}
	return indices, total
}
