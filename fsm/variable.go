package fsm

import "fmt"

// Variable is a typed handle on one external cell.
type Variable[T any] struct {
	name string
}

// NewVariable returns a handle for the named cell.
func NewVariable[T any](name string) Variable[T] {
	return Variable[T]{name: name}
}

// Name returns the cell name.
func (v Variable[T]) Name() string {
	return v.name
}

// Cell declares the cell with an initial value, for NewExternals.
func (v Variable[T]) Cell(initial T) CellSpec {
	return Cell(v.name, initial)
}

// Get reads the cell. Reading an undefined cell or one holding another type
// is a precondition violation and panics with an error wrapping
// ErrUndefinedVariable or ErrWrongType.
func (v Variable[T]) Get(ext *Externals) T { //nolint:ireturn
	raw, err := ext.get(v.name)
	if err != nil {
		panic(err)
	}

	value, ok := raw.(T)
	if !ok {
		panic(fmt.Errorf("%w: external %q holds %T, want %T", ErrWrongType, v.name, raw, value))
	}

	return value
}

// Set writes the cell. Writing an undefined cell panics with an error
// wrapping ErrUndefinedVariable.
func (v Variable[T]) Set(ext *Externals, value T) {
	if err := ext.set(v.name, value); err != nil {
		panic(err)
	}
}
