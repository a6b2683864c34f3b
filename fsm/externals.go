package fsm

import (
	"fmt"
	"maps"

	"facette.io/natsort"
	"github.com/amp-labs/ringlet/assert"
)

// Cloner is implemented by external cell values that cannot be copied by
// plain assignment.
type Cloner interface {
	CloneValue() any
}

// CellSpec declares one external cell and its initial value.
type CellSpec struct {
	name  string
	value any
}

// Cell declares an untyped external cell. Prefer Variable.Cell.
func Cell(name string, initial any) CellSpec {
	return CellSpec{name: name, value: initial}
}

// Externals holds a machine's named external-variable cells. The set of
// names is fixed at construction; values are read and written by hooks
// through Variable handles and exchanged with the outside world by the
// scheduler through Load and Extract.
//
// Within one ringlet cycle every cell, declared actuator or not, may be
// written at most once; a second write fails the debug assertion. Writes
// outside a cycle are not counted.
type Externals struct {
	cells   map[string]any
	writes  map[string]int
	inCycle bool
}

// NewExternals creates the cells. A later cell with the same name replaces the
// earlier one.
func NewExternals(cells ...CellSpec) *Externals {
	ext := &Externals{
		cells:  make(map[string]any, len(cells)),
		writes: make(map[string]int),
	}

	for _, c := range cells {
		ext.cells[c.name] = c.value
	}

	return ext
}

// Has reports whether the cell is defined.
func (e *Externals) Has(name string) bool {
	_, ok := e.cells[name]

	return ok
}

// Names returns all cell names in natural order.
func (e *Externals) Names() []string {
	names := make([]string, 0, len(e.cells))
	for name := range e.cells {
		names = append(names, name)
	}

	natsort.Sort(names)

	return names
}

// Value returns the raw value of a cell.
func (e *Externals) Value(name string) (any, bool) {
	v, ok := e.cells[name]

	return v, ok
}

// Load overwrites cells from a latched frame. Loading is not a write for the
// purpose of the once-per-cycle actuator rule.
func (e *Externals) Load(frame map[string]any) {
	for name, value := range frame {
		assert.True(e.Has(name), "%v: cannot load %q", ErrUndefinedVariable, name)

		e.cells[name] = value
	}
}

// Extract copies the values of the named cells, typically a state's actuators.
// Undefined names are skipped.
func (e *Externals) Extract(names Names) map[string]any {
	frame := make(map[string]any, names.Len())

	for name := range names.All() {
		if v, ok := e.cells[name]; ok {
			frame[name] = CloneValue(v)
		}
	}

	return frame
}

// Snapshot copies every cell.
func (e *Externals) Snapshot() map[string]any {
	frame := make(map[string]any, len(e.cells))
	for name, v := range e.cells {
		frame[name] = CloneValue(v)
	}

	return frame
}

// Clone returns independent cells holding copies of the current values.
func (e *Externals) Clone() *Externals {
	cloned := &Externals{
		cells:   make(map[string]any, len(e.cells)),
		writes:  maps.Clone(e.writes),
		inCycle: e.inCycle,
	}

	for name, v := range e.cells {
		cloned.cells[name] = CloneValue(v)
	}

	return cloned
}

func (e *Externals) get(name string) (any, error) {
	v, ok := e.cells[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedVariable, name)
	}

	return v, nil
}

func (e *Externals) set(name string, value any) error {
	if !e.Has(name) {
		return fmt.Errorf("%w: %q", ErrUndefinedVariable, name)
	}

	if e.inCycle {
		e.writes[name]++
		assert.True(e.writes[name] <= 1, "external %q written %d times in one cycle", name, e.writes[name])
	}

	e.cells[name] = value

	return nil
}

// beginCycle starts the per-cycle write accounting. Writes made outside a
// cycle, by a test harness or scheduler, are not counted.
func (e *Externals) beginCycle() {
	clear(e.writes)
	e.inCycle = true
}

func (e *Externals) endCycle() {
	e.inCycle = false
}

// CloneValue copies v through Cloner when it implements it and returns v
// unchanged otherwise.
func CloneValue(v any) any {
	if c, ok := v.(Cloner); ok {
		return c.CloneValue()
	}

	return v
}
