package fsmtest

import (
	"sync"

	"github.com/amp-labs/ringlet/fsm"
	"go.uber.org/atomic"
)

// Recorder builds lifecycle hooks that log "entry:<state>", "main:<state>"
// and "exit:<state>" in invocation order.
type Recorder[F any] struct {
	mu    sync.Mutex
	order []string
}

// NewRecorder creates an empty recorder.
func NewRecorder[F any]() *Recorder[F] {
	return &Recorder[F]{}
}

func (r *Recorder[F]) record(kind string) fsm.Hook[F] {
	return func(ctx *fsm.Context[F]) {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.order = append(r.order, kind+":"+ctx.State.Name())
	}
}

func (r *Recorder[F]) wrap(kind string, fn fsm.Hook[F]) fsm.Hook[F] {
	rec := r.record(kind)

	return func(ctx *fsm.Context[F]) {
		rec(ctx)

		if fn != nil {
			fn(ctx)
		}
	}
}

// OnEntry records the entry hook and then runs fn.
func (r *Recorder[F]) OnEntry(fn fsm.Hook[F]) fsm.StateOption[F] {
	return fsm.WithOnEntry(r.wrap("entry", fn))
}

// Main records the main hook and then runs fn.
func (r *Recorder[F]) Main(fn fsm.Hook[F]) fsm.StateOption[F] {
	return fsm.WithMain(r.wrap("main", fn))
}

// OnExit records the exit hook and then runs fn.
func (r *Recorder[F]) OnExit(fn fsm.Hook[F]) fsm.StateOption[F] {
	return fsm.WithOnExit(r.wrap("exit", fn))
}

// Options returns state options installing all three recording hooks.
func (r *Recorder[F]) Options() []fsm.StateOption[F] {
	return []fsm.StateOption[F]{
		fsm.WithOnEntry(r.record("entry")),
		fsm.WithMain(r.record("main")),
		fsm.WithOnExit(r.record("exit")),
	}
}

// State builds a state with recording hooks followed by opts. A plain
// fsm.WithMain (or entry/exit) in opts replaces the recording hook; use
// Recorder.Main and friends to keep recording while running a hook.
func (r *Recorder[F]) State(name string, opts ...fsm.StateOption[F]) *fsm.State[F] {
	return fsm.NewState(name, append(r.Options(), opts...)...)
}

// Order returns the recorded hook invocations.
func (r *Recorder[F]) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Count returns how often the hook of kind ("entry", "main" or "exit") ran
// for state.
func (r *Recorder[F]) Count(kind, state string) int {
	want := kind + ":" + state
	n := 0

	for _, entry := range r.Order() {
		if entry == want {
			n++
		}
	}

	return n
}

// Reset forgets recorded invocations.
func (r *Recorder[F]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
}

// Counter wraps a predicate and counts its evaluations.
type Counter[F any] struct {
	pred  fsm.Predicate[F]
	calls *atomic.Int64
	hits  *atomic.Int64
}

// Counting wraps pred. A nil pred always fires.
func Counting[F any](pred fsm.Predicate[F]) *Counter[F] {
	if pred == nil {
		pred = fsm.Always[F]()
	}

	return &Counter[F]{
		pred:  pred,
		calls: atomic.NewInt64(0),
		hits:  atomic.NewInt64(0),
	}
}

// Fixed returns a counter around a predicate with a constant result.
func Fixed[F any](result bool) *Counter[F] {
	return Counting[F](func(*fsm.Context[F]) bool { return result })
}

// Predicate returns the counting predicate to install on a transition.
func (c *Counter[F]) Predicate() fsm.Predicate[F] {
	return func(ctx *fsm.Context[F]) bool {
		c.calls.Inc()

		ok := c.pred(ctx)
		if ok {
			c.hits.Inc()
		}

		return ok
	}
}

// Calls returns how many times the predicate was evaluated.
func (c *Counter[F]) Calls() int64 {
	return c.calls.Load()
}

// Hits returns how many evaluations returned true.
func (c *Counter[F]) Hits() int64 {
	return c.hits.Load()
}
