// Package except defines the error taxonomy shared across the array engine.
//
// All validation happens before an operation's hot loop; the sentinels here
// are the categories callers can test with errors.Is. Wrapping adds the
// operation context (operand dims, dtypes, bin layout) at the raise site.
package except

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Failure categories.
var (
	// ErrDimension covers shape/rank mismatches, illegal broadcast into a
	// write destination, and embedding failures during index construction.
	ErrDimension = stderrors.New("dimension mismatch")

	// ErrType is raised when no kernel overload is registered for the
	// runtime dtype combination of an operation's operands.
	ErrType = stderrors.New("unsupported dtype")

	// ErrUnit is raised when a kernel's unit rule rejects the operand units.
	ErrUnit = stderrors.New("unit mismatch")

	// ErrBucket covers malformed bin ranges (begin > end, out of buffer
	// bounds) and mismatched bin sizes between bucketed operands.
	ErrBucket = stderrors.New("invalid bucket")

	// ErrVariance is raised when variances cannot be propagated: an
	// overload without a propagation formula, or an in-place destination
	// with nowhere to store the result's variance.
	ErrVariance = stderrors.New("variance mismatch")
)

// Dimensionf wraps ErrDimension with formatted context.
func Dimensionf(format string, args ...any) error {
	return errors.Wrapf(ErrDimension, format, args...)
}

// Typef wraps ErrType with formatted context.
func Typef(format string, args ...any) error {
	return errors.Wrapf(ErrType, format, args...)
}

// Unitf wraps ErrUnit with formatted context.
func Unitf(format string, args ...any) error {
	return errors.Wrapf(ErrUnit, format, args...)
}

// Bucketf wraps ErrBucket with formatted context.
func Bucketf(format string, args ...any) error {
	return errors.Wrapf(ErrBucket, format, args...)
}

// Variancef wraps ErrVariance with formatted context.
func Variancef(format string, args ...any) error {
	return errors.Wrapf(ErrVariance, format, args...)
}
