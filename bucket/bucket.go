// Package bucket provides the public API for bucketed (ragged) variables:
// arrays whose elements are variable-length sub-arrays referenced as index
// ranges into a shared buffer.
//
//	binned, err := bucket.MakeBins(indices, dims.Event, buffer)
//	idx, dim, buf, err := bucket.Constituents(binned) // round trip
package bucket

import (
	"github.com/scipp/scipp-sub009/internal/bucket"
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/variable"
)

// MakeBins builds a bucketed variable, validating every [begin, end) range
// against the buffer bounds before any data access.
func MakeBins(indices *variable.Variable, dim dims.Dim, buffer *variable.Variable) (*variable.Variable, error) {
	return bucket.MakeBins(indices, dim, buffer)
}

// MakeBinsNoValidate is the trusted fast path for ranges known correct by
// construction.
func MakeBinsNoValidate(indices *variable.Variable, dim dims.Dim, buffer *variable.Variable) (*variable.Variable, error) {
	return bucket.MakeBinsNoValidate(indices, dim, buffer)
}

// Constituents returns the (indices, dim, buffer) triple of a bucketed
// variable.
func Constituents(v *variable.Variable) (*variable.Variable, dims.Dim, *variable.Variable, error) {
	return bucket.Constituents(v)
}

// Sizes returns a dense int64 variable holding the size of every bin.
func Sizes(v *variable.Variable) (*variable.Variable, error) { return bucket.Sizes(v) }

// EmptyLike replicates a bucketed variable's outer shape and per-bin sizes
// (or an explicitly supplied sizes variable) with a fresh default-valued
// buffer.
func EmptyLike(prototype, sizes *variable.Variable) (*variable.Variable, error) {
	return bucket.EmptyLike(prototype, sizes)
}

// ResizeDefaultInit rebuilds a bucketed variable with new per-bin sizes and
// a default-initialized buffer of the implied cumulative length.
func ResizeDefaultInit(v, sizes *variable.Variable) (*variable.Variable, error) {
	return bucket.ResizeDefaultInit(v, sizes)
}

// Concatenate joins two bucketed variables bin by bin, left side first.
func Concatenate(a, b *variable.Variable) (*variable.Variable, error) {
	return bucket.Concatenate(a, b)
}
