package variable

import (
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/index"
)

// CopyInto copies src's elements into dst by logical position. Shapes must
// hold the same dimensions (any order) and dtypes must match. dst detaches
// from shared storage first.
func CopyInto(dst, src *Variable) error {
	if !dst.dims.ContainsAll(src.dims) || !src.dims.ContainsAll(dst.dims) {
		return except.Dimensionf("cannot copy %s into %s", src.dims, dst.dims)
	}
	if dst.DType() != src.DType() {
		return except.Typef("cannot copy %s into %s", src.DType(), dst.DType())
	}
	srcStrides, err := index.AlignStrides(dst.dims, src.dims, src.strides, false)
	if err != nil {
		return err
	}
	out := dst.DataMut()
	m := index.NewMultiIndex(dst.dims,
		index.Operand{Dims: dst.dims, Strides: dst.strides, Offset: dst.offset},
		index.Operand{Dims: src.dims, Strides: srcStrides, Offset: src.offset},
	)
	var offs [index.MaxOperands]int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		out.CopyIndex(offs[0], src.data.arr, offs[1])
	}
	return nil
}
