// Package storage provides runtime dtype tags, the type-erased element
// storage contract, and the registry mapping tags to concrete storage
// models. Everything outside this package sees element data only through
// the ElementArray interface; the registry is the single place where a
// runtime tag is turned back into a concrete type.
package storage

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/x448/float16"
)

// DType is the runtime tag identifying an array's concrete element type.
type DType int32

// InvalidType is the zero tag; no storage model is registered for it.
const InvalidType DType = 0

// Builtin element types, registered at package init.
var (
	Float64    = Register[float64]("float64", floatEqual[float64])
	Float32    = Register[float32]("float32", floatEqual[float32])
	Float16    = Register[float16.Float16]("float16", float16Equal)
	Int64      = Register[int64]("int64", nil)
	Int32      = Register[int32]("int32", nil)
	Bool       = Register[bool]("bool", nil)
	String     = Register[string]("string", nil)
	Vector3D   = Register[Vector3]("vector3", nil)
	Matrix3D   = Register[Matrix3]("matrix3", nil)
	IndexPairs = Register[IndexPair]("index-pair", nil)
)

type registryEntry struct {
	name     string
	elemSize int
	make     func(n int, variances bool) ElementArray
	// components reinterprets a structured array as its scalar parts;
	// nil for non-structured types.
	components    func(ElementArray) ElementArray
	numComponents int
}

var registry = struct {
	sync.RWMutex
	entries map[DType]*registryEntry
	byType  map[reflect.Type]DType
	next    DType
}{
	entries: map[DType]*registryEntry{},
	byType:  map[reflect.Type]DType{},
	next:    1,
}

// Register adds a storage model for element type T under the given name and
// returns its tag. Registration is idempotent per Go type: registering the
// same T again returns the existing tag. eq overrides element equality and
// may be nil for types where == is exact (non-float types).
//
// This is the extension point for adding element types without touching
// engine code: the returned tag participates in dispatch like any builtin.
func Register[T comparable](name string, eq func(a, b T, nanEqual bool) bool) DType {
	rt := reflect.TypeFor[T]()
	registry.Lock()
	defer registry.Unlock()
	if dt, ok := registry.byType[rt]; ok {
		return dt
	}
	dt := registry.next
	registry.next++
	if eq == nil {
		eq = func(a, b T, _ bool) bool { return a == b }
	}
	registry.entries[dt] = &registryEntry{
		name:     name,
		elemSize: int(rt.Size()),
		make: func(n int, variances bool) ElementArray {
			a := &array[T]{dtype: dt, values: make([]T, n), eq: eq}
			if variances {
				a.variances = make([]T, n)
			}
			return a
		},
	}
	registry.byType[rt] = dt
	return dt
}

// DTypeOf returns the tag registered for T, or InvalidType.
func DTypeOf[T comparable]() DType {
	registry.RLock()
	defer registry.RUnlock()
	return registry.byType[reflect.TypeFor[T]()]
}

func lookup(dt DType) *registryEntry {
	registry.RLock()
	defer registry.RUnlock()
	e, ok := registry.entries[dt]
	if !ok {
		panic(fmt.Sprintf("storage: dtype %d not registered", dt))
	}
	return e
}

// Make allocates default-initialized storage for n elements of dt,
// optionally with a parallel variance array.
func Make(dt DType, n int, variances bool) ElementArray {
	return lookup(dt).make(n, variances)
}

// Size returns the per-element byte size of dt.
func (dt DType) Size() int { return lookup(dt).elemSize }

// String returns the registered name of dt.
func (dt DType) String() string {
	if dt == InvalidType {
		return "invalid"
	}
	registry.RLock()
	defer registry.RUnlock()
	if e, ok := registry.entries[dt]; ok {
		return e.name
	}
	return fmt.Sprintf("dtype(%d)", int32(dt))
}

func floatEqual[T ~float32 | ~float64](a, b T, nanEqual bool) bool {
	if nanEqual && a != a && b != b {
		return true
	}
	return a == b
}

func float16Equal(a, b float16.Float16, nanEqual bool) bool {
	if nanEqual && a.IsNaN() && b.IsNaN() {
		return true
	}
	return a == b
}
