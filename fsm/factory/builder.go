package factory

import "github.com/amp-labs/ringlet/fsm"

// Builder provides a fluent API for assembling a Definition in code.
type Builder[F any] struct {
	def      *Definition
	registry *Registry[F]
}

// NewBuilder creates a builder for the named machine with an empty registry.
func NewBuilder[F any](name string) *Builder[F] {
	return &Builder[F]{
		def:      &Definition{Name: name},
		registry: NewRegistry[F](),
	}
}

// WithRoots sets the initial, suspend and exit states. Empty suspend or exit
// names fall back as described on Definition.
func (b *Builder[F]) WithRoots(initial, suspend, exit string) *Builder[F] {
	b.def.Initial = initial
	b.def.Suspend = suspend
	b.def.Exit = exit

	return b
}

// AddExternal declares an external cell.
func (b *Builder[F]) AddExternal(def ExternalDef) *Builder[F] {
	b.def.Externals = append(b.def.Externals, def)

	return b
}

// AddState declares a state.
func (b *Builder[F]) AddState(def StateDef) *Builder[F] {
	b.def.States = append(b.def.States, def)

	return b
}

// AddTransition appends a transition after those already added for its source.
func (b *Builder[F]) AddTransition(from, to string, when ...string) *Builder[F] {
	b.def.Transitions = append(b.def.Transitions, TransitionDef{From: from, To: to, When: when})

	return b
}

// RegisterPredicate adds a predicate to the builder's registry.
func (b *Builder[F]) RegisterPredicate(name string, pred fsm.Predicate[F]) *Builder[F] {
	b.registry.RegisterPredicate(name, pred)

	return b
}

// RegisterHook adds a hook to the builder's registry.
func (b *Builder[F]) RegisterHook(name string, hook fsm.Hook[F]) *Builder[F] {
	b.registry.RegisterHook(name, hook)

	return b
}

// Definition returns the accumulated definition.
func (b *Builder[F]) Definition() *Definition {
	return b.def
}

// Registry returns the builder's registry.
func (b *Builder[F]) Registry() *Registry[F] {
	return b.registry
}

// Build constructs the machine.
func (b *Builder[F]) Build(vars F, opts ...fsm.Option) (*fsm.Machine[F], error) {
	return Build(b.def, b.registry, vars, opts...)
}
