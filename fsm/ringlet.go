package fsm

import (
	"github.com/amp-labs/ringlet/assert"
)

// Ringlet executes one cycle of a state machine: a conditional onEntry, the
// transition scan, then either onExit and advance or main and stay. The
// previously executed state is the only history it keeps between cycles.
//
// A Ringlet is not safe for concurrent use.
type Ringlet[F any] struct {
	previous             *State[F]
	shouldExecuteOnEntry bool

	// members is the validated state set. When non-nil, every taken
	// transition must target one of its members.
	members map[*State[F]]struct{}
	inst    instrumentation
}

// NewRinglet returns a ringlet whose previous state is initialPrevious,
// normally a distinguished empty state, so the first cycle always fires
// onEntry. A nil initialPrevious gets a fresh empty state.
func NewRinglet[F any](initialPrevious *State[F]) *Ringlet[F] {
	if initialPrevious == nil {
		initialPrevious = EmptyState[F](InitialPreviousName)
	}

	return &Ringlet[F]{
		previous:             initialPrevious,
		shouldExecuteOnEntry: true,
	}
}

// Previous returns the state executed in the prior cycle.
func (r *Ringlet[F]) Previous() *State[F] {
	return r.previous
}

// ShouldExecuteOnEntry reports whether the state returned by the last
// Execute will run onEntry on its next cycle.
func (r *Ringlet[F]) ShouldExecuteOnEntry() bool {
	return r.shouldExecuteOnEntry
}

// Execute runs exactly one cycle of state and returns the state to execute
// next. Exactly one of a transition or main happens per call. Predicates are
// evaluated in order and evaluation stops at the first that fires.
//
// Panics raised by predicates or hooks propagate to the caller.
func (r *Ringlet[F]) Execute(state *State[F], ctx *Context[F]) *State[F] {
	assert.NotNil(state, "ringlet executed with a nil state")

	if ctx.External != nil {
		ctx.External.beginCycle()
		defer ctx.External.endCycle()
	}

	ctx.State = state

	if state != r.previous {
		state.runEntry(ctx)
		r.inst.entered(state.name)
	}

	r.previous = state

	for i, t := range state.transitions {
		if !t.fires(ctx) {
			continue
		}

		r.checkMember(state, i, t.Target)

		state.runExit(ctx)

		r.shouldExecuteOnEntry = r.previous != t.Target
		r.inst.transitioned(state.name, stateName(t.Target), i)

		return t.Target
	}

	state.runMain(ctx)

	r.shouldExecuteOnEntry = false
	r.inst.mainRan(state.name)

	return state
}

func (r *Ringlet[F]) checkMember(state *State[F], index int, target *State[F]) {
	if !assert.Enabled || r.members == nil {
		return
	}

	if target == nil {
		panic(integrityError(state.name, index, "target is nil"))
	}

	if _, ok := r.members[target]; !ok {
		panic(integrityError(state.name, index,
			"target "+target.name+" is not reachable from any declared root"))
	}
}
