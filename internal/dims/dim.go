// Package dims provides dimension labels, the ordered label/extent shape
// description, and the per-dimension stride model used by the array engine.
package dims

import (
	"fmt"
	"sync"
)

// Dim is a dimension label. Labels are interned: two Dims compare equal iff
// they refer to the same logical axis.
type Dim int32

// Predefined dimension labels.
const (
	Invalid Dim = iota - 1
	X
	Y
	Z
	Time
	Event
	Row
	Temperature
	Wavelength
	Energy

	numBuiltin
)

var builtinNames = [...]string{"x", "y", "z", "time", "event", "row", "temperature", "wavelength", "energy"}

var labelRegistry = struct {
	sync.Mutex
	byName map[string]Dim
	names  []string
}{byName: map[string]Dim{}}

// Label returns the Dim for a custom axis name, registering it on first use.
// Registration is idempotent: the same name always yields the same Dim.
func Label(name string) Dim {
	for i, n := range builtinNames {
		if n == name {
			return Dim(i)
		}
	}
	labelRegistry.Lock()
	defer labelRegistry.Unlock()
	if d, ok := labelRegistry.byName[name]; ok {
		return d
	}
	d := numBuiltin + Dim(len(labelRegistry.names))
	labelRegistry.byName[name] = d
	labelRegistry.names = append(labelRegistry.names, name)
	return d
}

// String returns the axis name.
func (d Dim) String() string {
	if d == Invalid {
		return "<invalid>"
	}
	if d < numBuiltin {
		return builtinNames[d]
	}
	labelRegistry.Lock()
	defer labelRegistry.Unlock()
	i := int(d - numBuiltin)
	if i < len(labelRegistry.names) {
		return labelRegistry.names[i]
	}
	return fmt.Sprintf("dim(%d)", int32(d))
}
