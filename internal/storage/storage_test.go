package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestRegistryBuiltins(t *testing.T) {
	assert.Equal(t, "float64", Float64.String())
	assert.Equal(t, "int32", Int32.String())
	assert.Equal(t, "vector3", Vector3D.String())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, 2, Float16.Size())
	assert.Equal(t, 72, Matrix3D.Size())
	assert.Equal(t, 16, IndexPairs.Size())
}

func TestRegisterIdempotent(t *testing.T) {
	assert.Equal(t, Float64, Register[float64]("float64", floatEqual[float64]))
	assert.Equal(t, Float64, DTypeOf[float64]())
}

func TestRegisterCustomType(t *testing.T) {
	type rgb struct{ R, G, B uint8 }
	dt := Register[rgb]("rgb", func(a, b rgb, _ bool) bool { return a == b })
	assert.Equal(t, "rgb", dt.String())
	assert.Equal(t, 3, dt.Size())
	assert.Equal(t, dt, DTypeOf[rgb]())

	arr := Make(dt, 2, false)
	Values[rgb](arr)[0] = rgb{R: 255}
	assert.Equal(t, rgb{R: 255}, Values[rgb](arr)[0])
}

func TestMakeAndFromSlice(t *testing.T) {
	arr := Make(Float64, 3, true)
	assert.Equal(t, 3, arr.Len())
	assert.True(t, arr.HasVariances())

	from := FromSlice([]int64{1, 2, 3}, nil)
	assert.Equal(t, Int64, from.DType())
	assert.Equal(t, []int64{1, 2, 3}, Values[int64](from))
	assert.False(t, from.HasVariances())
}

func TestValuesPanicsOnTypeMismatch(t *testing.T) {
	arr := Make(Float64, 2, false)
	assert.Panics(t, func() { Values[int64](arr) })
}

func TestVariancesToggle(t *testing.T) {
	arr := FromSlice([]float64{1, 2}, nil)
	assert.Nil(t, Variances[float64](arr))

	arr.SetVariances(true)
	require.True(t, arr.HasVariances())
	Variances[float64](arr)[1] = 0.5
	assert.Equal(t, []float64{0, 0.5}, Variances[float64](arr))

	arr.SetVariances(false)
	assert.False(t, arr.HasVariances())
}

func TestCloneIsIndependent(t *testing.T) {
	arr := FromSlice([]float64{1, 2, 3}, []float64{4, 5, 6})
	cp := arr.Clone()
	Values[float64](cp)[0] = 99
	Variances[float64](cp)[0] = 99

	assert.Equal(t, 1.0, Values[float64](arr)[0])
	assert.Equal(t, 4.0, Variances[float64](arr)[0])
	assert.True(t, arr.Equal(arr.Clone(), false))
}

func TestEqualNaN(t *testing.T) {
	nan := math.NaN()
	a := FromSlice([]float64{1, nan}, nil)
	b := FromSlice([]float64{1, nan}, nil)

	assert.False(t, a.Equal(b, false))
	assert.True(t, a.Equal(b, true))
	assert.False(t, a.EqualIndex(1, b, 1, false))
	assert.True(t, a.EqualIndex(1, b, 1, true))
}

func TestEqualComparesVariancePresence(t *testing.T) {
	a := FromSlice([]float64{1, 2}, []float64{0, 0})
	b := FromSlice([]float64{1, 2}, nil)
	assert.False(t, a.Equal(b, false))
}

func TestCopyIndexAndRange(t *testing.T) {
	src := FromSlice([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	dst := Make(Float64, 4, true)

	dst.CopyIndex(0, src, 3)
	assert.Equal(t, 4.0, Values[float64](dst)[0])
	assert.Equal(t, 40.0, Variances[float64](dst)[0])

	dst.CopyRange(1, src, 0, 3)
	assert.Equal(t, []float64{4, 1, 2, 3}, Values[float64](dst))
	assert.Equal(t, []float64{40, 10, 20, 30}, Variances[float64](dst))
}

func TestFloat16DType(t *testing.T) {
	arr := FromSlice([]float16.Float16{float16.Fromfloat32(1.5)}, nil)
	assert.Equal(t, Float16, arr.DType())
	assert.Equal(t, float32(1.5), Values[float16.Float16](arr)[0].Float32())

	nan := float16.NaN()
	a := FromSlice([]float16.Float16{nan}, nil)
	b := FromSlice([]float16.Float16{nan}, nil)
	assert.False(t, a.Equal(b, false))
	assert.True(t, a.Equal(b, true))
}

func TestComponents(t *testing.T) {
	vecs := FromSlice([]Vector3{{1, 2, 3}, {4, 5, 6}}, nil)
	flat := Components(vecs)
	require.Equal(t, 6, flat.Len())
	assert.Equal(t, Float64, flat.DType())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, Values[float64](flat))

	// The flat view aliases the structured storage.
	Values[float64](flat)[4] = 50
	assert.Equal(t, Vector3{4, 50, 6}, Values[Vector3](vecs)[1])

	assert.Equal(t, 3, Vector3D.NumComponents())
	assert.Equal(t, 9, Matrix3D.NumComponents())
	assert.Equal(t, 0, Float64.NumComponents())
}
