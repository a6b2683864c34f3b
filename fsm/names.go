package fsm

import (
	"iter"
	"slices"
	"strings"
)

// Names is an optional set of external variable names used for a state's
// snapshot sensors and actuators.
//
// The zero value is undeclared (the state inherits nothing). Declare with no
// arguments yields a declared but empty set. Names is immutable.
type Names struct {
	declared bool
	names    []string
}

// Declare returns a declared set holding the given names, deduplicated.
func Declare(names ...string) Names {
	sorted := slices.Clone(names)
	slices.Sort(sorted)

	return Names{
		declared: true,
		names:    slices.Compact(sorted),
	}
}

// Declared reports whether the set was declared at all.
func (n Names) Declared() bool {
	return n.declared
}

// Contains reports whether name is in the set.
func (n Names) Contains(name string) bool {
	_, found := slices.BinarySearch(n.names, name)

	return found
}

// Len returns the number of names in the set.
func (n Names) Len() int {
	return len(n.names)
}

// Slice returns the names in sorted order. The caller owns the returned slice.
func (n Names) Slice() []string {
	return slices.Clone(n.names)
}

// All iterates over the names in sorted order.
func (n Names) All() iter.Seq[string] {
	return slices.Values(n.names)
}

// Union returns the names present in either set. The result is declared if
// either input is.
func (n Names) Union(other Names) Names {
	if !n.declared && !other.declared {
		return Names{}
	}

	return Declare(append(slices.Clone(n.names), other.names...)...)
}

func (n Names) String() string {
	if !n.declared {
		return "undeclared"
	}

	return "{" + strings.Join(n.names, ", ") + "}"
}
