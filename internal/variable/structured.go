package variable

import (
	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/storage"
)

// InternalStructureComponent labels the innermost dimension added by
// Elements.
var InternalStructureComponent = dims.Label("component")

// Elements returns a float64 view of a structured variable (vector3 or
// matrix3 dtype) with an added innermost dimension of extent 3 or 9 walking
// the structure's internal layout. The view aliases v's storage: writing a
// component writes the corresponding slot of the structured element.
func (v *Variable) Elements() (*Variable, error) {
	n := v.DType().NumComponents()
	if n == 0 {
		return nil, except.Typef("dtype %s has no components", v.DType())
	}
	v.beginView()
	out := *v
	out.view = true
	out.data = &buffer{arr: storage.Components(v.data.arr)}
	out.data.owners.Store(1)
	out.dims = v.dims.AddInner(InternalStructureComponent, n)
	out.offset = v.offset * n
	values := make([]int, 0, dims.NDimMax)
	for i := 0; i < v.dims.NDim(); i++ {
		values = append(values, v.strides.At(i)*n)
	}
	values = append(values, 1)
	out.strides = dims.StridesFrom(values...)
	return &out, nil
}

// Element returns a float64 view of one named component of a structured
// variable: the structure dimension is selected at position c and removed.
func (v *Variable) Element(c int) (*Variable, error) {
	n := v.DType().NumComponents()
	if n == 0 {
		return nil, except.Typef("dtype %s has no components", v.DType())
	}
	if c < 0 || c >= n {
		return nil, except.Dimensionf("component %d out of range for %s", c, v.DType())
	}
	elems, err := v.Elements()
	if err != nil {
		return nil, err
	}
	return elems.SlicePoint(InternalStructureComponent, c)
}

var componentNames = map[string]int{"x": 0, "y": 1, "z": 2}

// Component returns the component sub-view selected by name: "x", "y", "z"
// for vector3; "xx" through "zz" (row then column) for matrix3.
func (v *Variable) Component(name string) (*Variable, error) {
	switch v.DType() {
	case storage.Vector3D:
		c, ok := componentNames[name]
		if !ok {
			return nil, except.Dimensionf("no component %q in %s", name, v.DType())
		}
		return v.Element(c)
	case storage.Matrix3D:
		if len(name) == 2 {
			row, okRow := componentNames[name[:1]]
			col, okCol := componentNames[name[1:]]
			if okRow && okCol {
				return v.Element(3*row + col)
			}
		}
		return nil, except.Dimensionf("no component %q in %s", name, v.DType())
	}
	return nil, except.Typef("dtype %s has no components", v.DType())
}
