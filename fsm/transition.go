package fsm

// Predicate decides whether a transition fires. It must be free of side
// effects: evaluation stops at the first predicate that returns true.
type Predicate[F any] func(ctx *Context[F]) bool

// Transition is a guarded edge to a target state.
type Transition[F any] struct {
	Predicate Predicate[F]
	Target    *State[F]
	Label     string
}

// TransitionOption configures a transition added with AddTransition.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	label string
}

// Label attaches a human readable description, used by visualisers.
func Label(label string) TransitionOption {
	return func(c *transitionConfig) {
		c.label = label
	}
}

// Always returns a predicate that always fires.
func Always[F any]() Predicate[F] {
	return func(*Context[F]) bool { return true }
}

// Not negates a predicate.
func Not[F any](pred Predicate[F]) Predicate[F] {
	return func(ctx *Context[F]) bool { return !pred(ctx) }
}

// All returns a predicate that fires when every given predicate fires.
// Evaluation short-circuits left to right.
func All[F any](preds ...Predicate[F]) Predicate[F] {
	return func(ctx *Context[F]) bool {
		for _, p := range preds {
			if !p(ctx) {
				return false
			}
		}

		return true
	}
}

// WithTarget returns a copy of the transition pointing at target.
func (t Transition[F]) WithTarget(target *State[F]) Transition[F] {
	t.Target = target

	return t
}

func (t Transition[F]) fires(ctx *Context[F]) bool {
	if t.Predicate == nil {
		return true
	}

	return t.Predicate(ctx)
}
