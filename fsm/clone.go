package fsm

import "fmt"

// GraphCloner deep copies a state graph reachable from several roots. Every
// root passed to the same cloner resolves through one cache keyed by state
// name, so states shared between roots stay shared in the copy, cycles
// terminate, and no copied transition points at a pre-clone state.
//
// The cloner also remembers which original object produced each name. Meeting
// a different object under a name already seen is a name collision and is
// reported as a GraphIntegrityError instead of silently merging the two.
//
// A failed Apply leaves partially wired copies in the cache, so the first
// error sticks: every later Apply on the same cloner returns it.
type GraphCloner[F any] struct {
	cache  map[string]*State[F]
	origin map[string]*State[F]
	order  []*State[F]
	err    error
}

// NewGraphCloner returns a cloner with an empty cache.
func NewGraphCloner[F any]() *GraphCloner[F] {
	return &GraphCloner[F]{
		cache:  make(map[string]*State[F]),
		origin: make(map[string]*State[F]),
	}
}

type cloneFrame[F any] struct {
	original *State[F]
	copied   *State[F]
}

// Apply returns the copy of state, copying everything reachable from it that
// the cloner has not seen yet. A nil state returns nil.
//
// The traversal uses an explicit stack, so arbitrarily long chains do not
// grow the goroutine stack. Each distinct state is copied exactly once.
func (c *GraphCloner[F]) Apply(state *State[F]) (*State[F], error) {
	if c.err != nil {
		return nil, c.err
	}

	if state == nil {
		return nil, nil //nolint:nilnil
	}

	root, err := c.apply(state)
	if err != nil {
		c.err = err

		return nil, err
	}

	return root, nil
}

// Err returns the error that stopped the cloner, if any.
func (c *GraphCloner[F]) Err() error {
	return c.err
}

func (c *GraphCloner[F]) apply(state *State[F]) (*State[F], error) {
	root, pending, err := c.resolve(state)
	if err != nil {
		return nil, err
	}

	var stack []cloneFrame[F]
	if pending {
		stack = append(stack, cloneFrame[F]{original: state, copied: root})
	}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		frame.copied.transitions = make([]Transition[F], 0, len(frame.original.transitions))

		for i, t := range frame.original.transitions {
			if t.Target == nil {
				return nil, integrityError(frame.original.name, i, "target is nil")
			}

			target, fresh, err := c.resolve(t.Target)
			if err != nil {
				return nil, err
			}

			if fresh {
				stack = append(stack, cloneFrame[F]{original: t.Target, copied: target})
			}

			frame.copied.transitions = append(frame.copied.transitions, t.WithTarget(target))
		}
	}

	return root, nil
}

// resolve returns the cached copy for state, or allocates and caches a new
// shallow copy. fresh reports whether the copy still needs its transitions.
func (c *GraphCloner[F]) resolve(state *State[F]) (copied *State[F], fresh bool, err error) {
	if cached, ok := c.cache[state.name]; ok {
		if c.origin[state.name] != state {
			return nil, false, integrityError(state.name, NoTransition,
				fmt.Sprintf("name is shared by two distinct states (%p, %p)", c.origin[state.name], state))
		}

		return cached, false, nil
	}

	copied = state.shallowCopy()
	c.cache[state.name] = copied
	c.origin[state.name] = state
	c.order = append(c.order, copied)

	return copied, true, nil
}

// Len returns the number of distinct states copied so far.
func (c *GraphCloner[F]) Len() int {
	return len(c.order)
}

// States returns the copied states in the order they were first reached.
func (c *GraphCloner[F]) States() []*State[F] {
	out := make([]*State[F], len(c.order))
	copy(out, c.order)

	return out
}
