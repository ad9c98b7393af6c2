// Package bucket implements the ragged-array model: variables whose
// elements are variable-length sub-arrays ("bins"), represented as
// [begin, end) index ranges into a shared buffer variable. Bucketed
// variables flow through the same iteration and kernel-dispatch machinery
// as dense ones; this package provides construction, validation, and the
// structural operations on bins.
package bucket

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/variable"
)

// MakeBins builds a bucketed variable from an index-range variable, the
// buffer dimension the ranges slice, and the shared buffer. Every range is
// validated before any data access: begin ≤ end, within buffer bounds.
func MakeBins(indices *variable.Variable, dim dims.Dim, buffer *variable.Variable) (*variable.Variable, error) {
	pairs, err := indexPairs(indices)
	if err != nil {
		return nil, err
	}
	if !buffer.Dims().Contains(dim) {
		return nil, except.Bucketf("buffer %s lacks the sliced dimension %s", buffer.Dims(), dim)
	}
	extent := int64(buffer.Dims().SizeOf(dim))
	for i, p := range pairs {
		if p.Begin > p.End {
			return nil, except.Bucketf("bin %d has begin %d > end %d", i, p.Begin, p.End)
		}
		if p.Begin < 0 || p.End > extent {
			return nil, except.Bucketf("bin %d range [%d, %d) outside buffer extent %d", i, p.Begin, p.End, extent)
		}
	}
	return variable.NewBinned(indices.Dims(), pairs, dim, buffer)
}

// MakeBinsNoValidate is the trusted fast path of MakeBins: ranges known
// correct by construction skip the bounds check.
func MakeBinsNoValidate(indices *variable.Variable, dim dims.Dim, buffer *variable.Variable) (*variable.Variable, error) {
	pairs, err := indexPairs(indices)
	if err != nil {
		return nil, err
	}
	return variable.NewBinned(indices.Dims(), pairs, dim, buffer)
}

// Constituents returns the (indices, dim, buffer) triple of a bucketed
// variable, suitable for round-trip reconstruction via MakeBins. The
// indices variable is a fresh dense copy; the buffer is the shared buffer
// itself.
func Constituents(v *variable.Variable) (*variable.Variable, dims.Dim, *variable.Variable, error) {
	if !v.IsBinned() {
		return nil, dims.Invalid, nil, except.Typef("constituents of non-binned variable of dtype %s", v.DType())
	}
	indices, err := variable.FromSlice(v.Dims(), binRanges(v))
	if err != nil {
		return nil, dims.Invalid, nil, err
	}
	return indices, v.BinDim(), v.BinBuffer(), nil
}

// Sizes returns a dense int64 variable holding the size of every bin.
func Sizes(v *variable.Variable) (*variable.Variable, error) {
	if !v.IsBinned() {
		return nil, except.Typef("bin sizes of non-binned variable of dtype %s", v.DType())
	}
	ranges := binRanges(v)
	sizes := make([]int64, len(ranges))
	for i, p := range ranges {
		sizes[i] = p.End - p.Begin
	}
	return variable.FromSlice(v.Dims(), sizes)
}

// indexPairs materializes a dense copy of an index-range variable's
// elements in row-major order.
func indexPairs(indices *variable.Variable) ([]storage.IndexPair, error) {
	if indices.DType() != storage.IndexPairs {
		return nil, except.Typef("bin indices must have dtype %s, got %s", storage.IndexPairs, indices.DType())
	}
	return variable.BinRanges(indices), nil
}

// binRanges reads the ranges of a binned variable in logical order.
func binRanges(v *variable.Variable) []storage.IndexPair {
	return variable.BinRanges(v)
}
