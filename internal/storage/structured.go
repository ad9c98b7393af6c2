package storage

import "unsafe"

// Vector3 is a fixed 3-component vector element.
type Vector3 [3]float64

// Matrix3 is a fixed 3x3 matrix element, row-major.
type Matrix3 [9]float64

// IndexPair is the half-open range [Begin, End) a bucketed array stores per
// outer position, referencing a contiguous sub-range of a shared buffer.
type IndexPair struct {
	Begin, End int64
}

func init() {
	setComponents(Vector3D, 3, structuredComponents[Vector3])
	setComponents(Matrix3D, 9, structuredComponents[Matrix3])
}

func setComponents(dt DType, n int, fn func(ElementArray) ElementArray) {
	registry.Lock()
	defer registry.Unlock()
	e := registry.entries[dt]
	e.components = fn
	e.numComponents = n
}

// NumComponents returns the scalar component count of a structured dtype,
// or 0 for plain element types.
func (dt DType) NumComponents() int { return lookup(dt).numComponents }

// Components reinterprets structured storage as a float64 array aliasing
// the same memory, component index innermost. The result shares memory with
// a: writes through either side are visible in the other. Panics for
// non-structured dtypes.
func Components(a ElementArray) ElementArray {
	e := lookup(a.DType())
	if e.components == nil {
		panic("storage: dtype " + e.name + " has no components")
	}
	return e.components(a)
}

// structuredComponents aliases an array of N-float64 elements as a flat
// float64 array of n*N components, variances included.
func structuredComponents[T interface{ Vector3 | Matrix3 }](ea ElementArray) ElementArray {
	a := ea.(*array[T])
	out := &array[float64]{dtype: Float64, eq: floatEqual[float64]}
	out.values = flatten(a.values)
	if a.variances != nil {
		out.variances = flatten(a.variances)
	}
	return out
}

func flatten[T interface{ Vector3 | Matrix3 }](v []T) []float64 {
	if len(v) == 0 {
		return []float64{}
	}
	var dummy T
	n := int(unsafe.Sizeof(dummy)) / 8
	return unsafe.Slice((*float64)(unsafe.Pointer(&v[0])), len(v)*n)
}
