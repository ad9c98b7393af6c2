package storage

// ElementArray is the type-erased storage contract. It holds a densely
// packed array of values for one concrete element type and, if requested,
// an equally sized array of variances. Concrete models are produced only by
// the registry; callers never downcast outside this package (use Values and
// Variances for typed access).
type ElementArray interface {
	// DType returns the runtime tag of the concrete element type.
	DType() DType
	// Len returns the number of elements.
	Len() int
	// ElemSize returns the per-element byte size.
	ElemSize() int
	// HasVariances reports whether a parallel variance array is present.
	HasVariances() bool
	// SetVariances adds (default-initialized) or drops the variance array.
	SetVariances(on bool)
	// Clone returns a deep copy, variances included.
	Clone() ElementArray
	// Equal compares all elements (and variances, if either side has them)
	// of two arrays of the same dtype. With nanEqual, NaN compares equal to
	// NaN for floating-point element types.
	Equal(other ElementArray, nanEqual bool) bool
	// EqualIndex compares element i of this array with element j of other,
	// variances included when both sides carry them.
	EqualIndex(i int, other ElementArray, j int, nanEqual bool) bool
	// CopyIndex assigns element src[srcIdx] (and its variance) to dst[dstIdx].
	// Both arrays must share a dtype.
	CopyIndex(dstIdx int, src ElementArray, srcIdx int)
	// CopyRange copies n contiguous elements from src starting at srcOff
	// into this array starting at dstOff. Both arrays must share a dtype.
	CopyRange(dstOff int, src ElementArray, srcOff, n int)
}

// array is the one generic storage model behind every registered dtype.
type array[T comparable] struct {
	dtype     DType
	values    []T
	variances []T
	eq        func(a, b T, nanEqual bool) bool
}

func (a *array[T]) DType() DType       { return a.dtype }
func (a *array[T]) Len() int           { return len(a.values) }
func (a *array[T]) ElemSize() int      { return a.dtype.Size() }
func (a *array[T]) HasVariances() bool { return a.variances != nil }

func (a *array[T]) SetVariances(on bool) {
	switch {
	case on && a.variances == nil:
		a.variances = make([]T, len(a.values))
	case !on:
		a.variances = nil
	}
}

func (a *array[T]) Clone() ElementArray {
	out := &array[T]{dtype: a.dtype, values: append([]T(nil), a.values...), eq: a.eq}
	if a.variances != nil {
		out.variances = append([]T(nil), a.variances...)
	}
	return out
}

func (a *array[T]) Equal(other ElementArray, nanEqual bool) bool {
	b, ok := other.(*array[T])
	if !ok || len(a.values) != len(b.values) {
		return false
	}
	if a.HasVariances() != b.HasVariances() {
		return false
	}
	for i := range a.values {
		if !a.eq(a.values[i], b.values[i], nanEqual) {
			return false
		}
	}
	for i := range a.variances {
		if !a.eq(a.variances[i], b.variances[i], nanEqual) {
			return false
		}
	}
	return true
}

func (a *array[T]) EqualIndex(i int, other ElementArray, j int, nanEqual bool) bool {
	b, ok := other.(*array[T])
	if !ok {
		return false
	}
	if !a.eq(a.values[i], b.values[j], nanEqual) {
		return false
	}
	if a.variances != nil && b.variances != nil {
		return a.eq(a.variances[i], b.variances[j], nanEqual)
	}
	return true
}

func (a *array[T]) CopyIndex(dstIdx int, src ElementArray, srcIdx int) {
	s := src.(*array[T])
	a.values[dstIdx] = s.values[srcIdx]
	if a.variances != nil && s.variances != nil {
		a.variances[dstIdx] = s.variances[srcIdx]
	}
}

func (a *array[T]) CopyRange(dstOff int, src ElementArray, srcOff, n int) {
	s := src.(*array[T])
	copy(a.values[dstOff:dstOff+n], s.values[srcOff:srcOff+n])
	if a.variances != nil && s.variances != nil {
		copy(a.variances[dstOff:dstOff+n], s.variances[srcOff:srcOff+n])
	}
}

// Values returns the typed value slice of a. Panics if a was not built for
// element type T; storage models never reinterpret across types except via
// the structured-type component views.
func Values[T comparable](a ElementArray) []T {
	ta, ok := a.(*array[T])
	if !ok {
		panic("storage: dtype mismatch in typed access: " + a.DType().String())
	}
	return ta.values
}

// Variances returns the typed variance slice of a, or nil if absent.
// Panics if a was not built for element type T.
func Variances[T comparable](a ElementArray) []T {
	ta, ok := a.(*array[T])
	if !ok {
		panic("storage: dtype mismatch in typed access: " + a.DType().String())
	}
	return ta.variances
}

// FromSlice builds storage for the registered dtype of T by copying data.
// Variances may be nil; when present it must match len(data).
func FromSlice[T comparable](data []T, variances []T) ElementArray {
	dt := DTypeOf[T]()
	if dt == InvalidType {
		panic("storage: element type not registered")
	}
	a := Make(dt, len(data), variances != nil).(*array[T])
	copy(a.values, data)
	if variances != nil {
		if len(variances) != len(data) {
			panic("storage: variance length does not match value length")
		}
		copy(a.variances, variances)
	}
	return a
}
