package factory

import (
	"errors"
	"fmt"

	"github.com/amp-labs/ringlet/fsm"
)

// Build constructs a machine from def, resolving predicate and hook names
// through reg. Every state is constructed first and wired afterwards, so
// transitions may reference states declared later and form cycles.
func Build[F any](def *Definition, reg *Registry[F], vars F, opts ...fsm.Option) (*fsm.Machine[F], error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}

	states, err := buildStates(def, reg)
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", def.Name, err)
	}

	if err := wireTransitions(def, reg, states); err != nil {
		return nil, fmt.Errorf("machine %s: %w", def.Name, err)
	}

	externals, err := buildExternals(def)
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", def.Name, err)
	}

	roots := fsm.Roots[F]{
		Initial: states[def.Initial],
		Suspend: states[def.SuspendState()],
		Exit:    states[def.ExitState()],
	}

	return fsm.NewMachine(def.Name, roots, externals, vars, opts...)
}

func buildStates[F any](def *Definition, reg *Registry[F]) (map[string]*fsm.State[F], error) {
	states := make(map[string]*fsm.State[F], len(def.States))

	var errs []error

	for _, sd := range def.States {
		onEntry, entryErr := reg.Hook(sd.OnEntry)
		main, mainErr := reg.Hook(sd.Main)
		onExit, exitErr := reg.Hook(sd.OnExit)

		if err := errors.Join(entryErr, mainErr, exitErr); err != nil {
			errs = append(errs, fmt.Errorf("state %s: %w", sd.Name, err))

			continue
		}

		opts := []fsm.StateOption[F]{
			fsm.WithOnEntry(onEntry),
			fsm.WithMain(main),
			fsm.WithOnExit(onExit),
		}

		if sd.Sensors.Declared {
			opts = append(opts, fsm.WithSensors[F](fsm.Declare(sd.Sensors.Names...)))
		}

		if sd.Actuators.Declared {
			opts = append(opts, fsm.WithActuators[F](fsm.Declare(sd.Actuators.Names...)))
		}

		states[sd.Name] = fsm.NewState(sd.Name, opts...)
	}

	return states, errors.Join(errs...)
}

func wireTransitions[F any](def *Definition, reg *Registry[F], states map[string]*fsm.State[F]) error {
	var errs []error

	for i, td := range def.Transitions {
		guard, err := reg.Guard(td.When)
		if err != nil {
			errs = append(errs, fmt.Errorf("transition %d (%s -> %s): %w", i, td.From, td.To, err))

			continue
		}

		var opts []fsm.TransitionOption
		if td.Label != "" {
			opts = append(opts, fsm.Label(td.Label))
		}

		states[td.From].AddTransition(guard, states[td.To], opts...)
	}

	return errors.Join(errs...)
}

func buildExternals(def *Definition) (*fsm.Externals, error) {
	cells := make([]fsm.CellSpec, 0, len(def.Externals))

	for _, ed := range def.Externals {
		value, err := ed.Value()
		if err != nil {
			return nil, fmt.Errorf("external %s: %w", ed.Name, err)
		}

		cells = append(cells, fsm.Cell(ed.Name, value))
	}

	return fsm.NewExternals(cells...), nil
}
