package fsm

import "slices"

// Hook is a lifecycle callback. Hooks are the only place side effects belong.
type Hook[F any] func(ctx *Context[F])

// State is a named node of a machine's graph holding an ordered list of
// outgoing transitions, the snapshot names it reads and writes, and its three
// lifecycle hooks.
type State[F any] struct {
	name        string
	transitions []Transition[F]
	sensors     Names
	actuators   Names
	onEntry     Hook[F]
	main        Hook[F]
	onExit      Hook[F]
}

// StateOption is a functional option for configuring a State.
type StateOption[F any] func(*State[F])

// WithOnEntry sets the hook run on the first cycle of a stay in the state.
func WithOnEntry[F any](fn Hook[F]) StateOption[F] {
	return func(s *State[F]) {
		s.onEntry = fn
	}
}

// WithMain sets the hook run on every cycle in which no transition fires.
func WithMain[F any](fn Hook[F]) StateOption[F] {
	return func(s *State[F]) {
		s.main = fn
	}
}

// WithOnExit sets the hook run when a transition leaves the state.
func WithOnExit[F any](fn Hook[F]) StateOption[F] {
	return func(s *State[F]) {
		s.onExit = fn
	}
}

// WithSensors declares the external variables the state reads.
func WithSensors[F any](names Names) StateOption[F] {
	return func(s *State[F]) {
		s.sensors = names
	}
}

// WithActuators declares the external variables the state writes.
func WithActuators[F any](names Names) StateOption[F] {
	return func(s *State[F]) {
		s.actuators = names
	}
}

// NewState creates a state with no transitions.
func NewState[F any](name string, opts ...StateOption[F]) *State[F] {
	s := &State[F]{name: name}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// EmptyState creates a state with no hooks, no transitions and undeclared
// snapshot sets.
func EmptyState[F any](name string) *State[F] {
	return &State[F]{name: name}
}

// Name returns the state's name.
func (s *State[F]) Name() string {
	return s.name
}

// Transitions returns a copy of the state's transitions in evaluation order.
func (s *State[F]) Transitions() []Transition[F] {
	return slices.Clone(s.transitions)
}

// Sensors returns the declared snapshot sensors.
func (s *State[F]) Sensors() Names {
	return s.sensors
}

// Actuators returns the declared snapshot actuators.
func (s *State[F]) Actuators() Names {
	return s.actuators
}

// AddTransition appends a transition to target guarded by pred and returns
// the state for chaining. A nil predicate always fires.
func (s *State[F]) AddTransition(pred Predicate[F], target *State[F], opts ...TransitionOption) *State[F] {
	cfg := transitionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.transitions = append(s.transitions, Transition[F]{
		Predicate: pred,
		Target:    target,
		Label:     cfg.label,
	})

	return s
}

func (s *State[F]) String() string {
	return s.name
}

func (s *State[F]) runEntry(ctx *Context[F]) {
	if s.onEntry != nil {
		s.onEntry(ctx)
	}
}

func (s *State[F]) runMain(ctx *Context[F]) {
	if s.main != nil {
		s.main(ctx)
	}
}

func (s *State[F]) runExit(ctx *Context[F]) {
	if s.onExit != nil {
		s.onExit(ctx)
	}
}

// shallowCopy copies everything except the transitions.
func (s *State[F]) shallowCopy() *State[F] {
	return &State[F]{
		name:      s.name,
		sensors:   Names{declared: s.sensors.declared, names: slices.Clone(s.sensors.names)},
		actuators: Names{declared: s.actuators.declared, names: slices.Clone(s.actuators.names)},
		onEntry:   s.onEntry,
		main:      s.main,
		onExit:    s.onExit,
	}
}
