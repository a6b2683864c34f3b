package fsm

import (
	"errors"
)

type namedRoot[F any] struct {
	role  string
	state *State[F]
}

// graph is the validated state set of a machine.
type graph[F any] struct {
	members map[*State[F]]struct{}
	states  []*State[F]
}

// walkGraph collects every state reachable from the roots. It reports nil
// roots, nil targets and distinct states sharing a name. All violations are
// returned together.
func walkGraph[F any](roots ...namedRoot[F]) (*graph[F], error) {
	g := &graph[F]{
		members: make(map[*State[F]]struct{}),
	}

	var (
		errs   []error
		byName = make(map[string]*State[F])
		stack  []*State[F]
	)

	visit := func(s *State[F]) {
		if _, seen := g.members[s]; seen {
			return
		}

		if other, ok := byName[s.name]; ok && other != s {
			errs = append(errs, integrityError(s.name, NoTransition, "name is shared by two distinct states"))

			return
		}

		byName[s.name] = s
		g.members[s] = struct{}{}
		g.states = append(g.states, s)
		stack = append(stack, s)
	}

	for _, root := range roots {
		if root.state == nil {
			errs = append(errs, integrityError(root.role, NoTransition, root.role+" root is nil"))

			continue
		}

		visit(root.state)
	}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i, t := range s.transitions {
			if t.Target == nil {
				errs = append(errs, integrityError(s.name, i, "target is nil"))

				continue
			}

			visit(t.Target)
		}
	}

	return g, errors.Join(errs...)
}

// checkSnapshots reports every sensor or actuator name the externals do not define.
func checkSnapshots[F any](states []*State[F], ext *Externals) error {
	var errs []error

	for _, s := range states {
		for name := range s.sensors.All() {
			if !ext.Has(name) {
				errs = append(errs, &SnapshotMismatchError{State: s.name, Variable: name, Kind: KindSensor})
			}
		}

		for name := range s.actuators.All() {
			if !ext.Has(name) {
				errs = append(errs, &SnapshotMismatchError{State: s.name, Variable: name, Kind: KindActuator})
			}
		}
	}

	return errors.Join(errs...)
}
