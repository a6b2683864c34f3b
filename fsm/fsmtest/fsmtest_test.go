package fsmtest_test

import (
	"testing"

	"github.com/amp-labs/ringlet/fsm"
	"github.com/amp-labs/ringlet/fsm/fsmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterVars struct {
	Ticks int
}

type ring struct {
	machine *fsm.Machine[counterVars]
	rec     *fsmtest.Recorder[counterVars]
	trace   *fsmtest.Trace
	never   *fsmtest.Counter[counterVars]
	always  *fsmtest.Counter[counterVars]
}

// newRing builds A -> B -> A, where A first checks a predicate that never
// fires.
func newRing(t *testing.T) ring {
	t.Helper()

	rec := fsmtest.NewRecorder[counterVars]()
	trace := fsmtest.NewTrace()
	never := fsmtest.Fixed[counterVars](false)
	always := fsmtest.Counting[counterVars](nil)

	a := rec.State("A")
	b := rec.State("B", rec.Main(func(ctx *fsm.Context[counterVars]) {
		ctx.Vars.Ticks++
	}))

	a.AddTransition(never.Predicate(), b, fsm.Label("never"))
	a.AddTransition(always.Predicate(), b, fsm.Label("always"))
	b.AddTransition(func(ctx *fsm.Context[counterVars]) bool {
		return ctx.Vars.Ticks >= 2
	}, a)

	m, err := fsm.NewMachine("ring",
		fsm.Roots[counterVars]{Initial: a, Suspend: a, Exit: b},
		nil, counterVars{},
		fsm.WithMetrics(false), fsm.WithLogger(trace),
	)
	require.NoError(t, err)

	return ring{machine: m, rec: rec, trace: trace, never: never, always: always}
}

func TestRecorderAndTrace(t *testing.T) {
	t.Parallel()

	r := newRing(t)

	fsmtest.RequireSteps(t, r.machine, "B", "B", "B", "A")

	assert.Equal(t, []string{
		"entry:A", "exit:A",
		"entry:B", "main:B",
		"main:B",
		"exit:B",
	}, r.rec.Order())
	assert.Equal(t, 2, r.rec.Count("main", "B"))
	assert.Equal(t, 1, r.rec.Count("entry", "A"))

	assert.Equal(t, []string{"A", "B"}, r.trace.Entered())
	assert.True(t, r.trace.Took("A", "B"))
	assert.True(t, r.trace.Took("B", "A"))
	assert.False(t, r.trace.Took("A", "A"))
	assert.Equal(t, 2, r.trace.Count(fsmtest.EventMain, "B"))

	events := r.trace.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "ring: entered A", events[0].String())
	assert.Equal(t, "ring: A -[1]-> B", events[1].String())

	r.rec.Reset()
	r.trace.Reset()
	assert.Empty(t, r.rec.Order())
	assert.Empty(t, r.trace.Events())
}

func TestRecorderPlainHookReplacesRecording(t *testing.T) {
	t.Parallel()

	rec := fsmtest.NewRecorder[counterVars]()
	ran := 0

	s := rec.State("S", fsm.WithMain(func(*fsm.Context[counterVars]) { ran++ }))

	m, err := fsm.NewMachine("solo",
		fsm.Roots[counterVars]{Initial: s, Suspend: s, Exit: s},
		nil, counterVars{}, fsm.WithMetrics(false))
	require.NoError(t, err)

	m.Step()
	m.Step()

	assert.Equal(t, 2, ran)
	assert.Equal(t, []string{"entry:S"}, rec.Order())
}

func TestCounters(t *testing.T) {
	t.Parallel()

	r := newRing(t)
	r.machine.Step()

	assert.Equal(t, int64(1), r.never.Calls())
	assert.Equal(t, int64(0), r.never.Hits())
	assert.Equal(t, int64(1), r.always.Calls())
	assert.Equal(t, int64(1), r.always.Hits())

	// B's own transition is evaluated next; A's predicates are not.
	r.machine.Step()
	assert.Equal(t, int64(1), r.never.Calls())
}

func TestMatchers(t *testing.T) {
	t.Parallel()

	r := newRing(t)

	ok, err := fsmtest.EnteredInOrder().Match(r.trace)
	require.ErrorIs(t, err, fsmtest.ErrNoTrace)
	assert.False(t, ok)

	fsmtest.RequireSteps(t, r.machine, "B", "B", "B", "A", "B")

	fsmtest.RequireMatches(t, r.trace,
		fsmtest.StateWasVisited("A"),
		fsmtest.TransitionWasTaken("B", "A"),
		fsmtest.EnteredInOrder("A", "B", "A"),
		fsmtest.All(fsmtest.StateWasVisited("B"), fsmtest.TransitionWasTaken("A", "B")),
		fsmtest.Any(fsmtest.StateWasVisited("Z"), fsmtest.StateWasVisited("A")),
	)

	tests := []struct {
		matcher fsmtest.Matcher
		want    error
	}{
		{fsmtest.StateWasVisited("Z"), fsmtest.ErrStateNotVisited},
		{fsmtest.TransitionWasTaken("A", "A"), fsmtest.ErrTransitionNotTaken},
		{fsmtest.EnteredInOrder("B"), fsmtest.ErrWrongSequence},
		{fsmtest.All(fsmtest.StateWasVisited("A"), fsmtest.StateWasVisited("Z")), fsmtest.ErrStateNotVisited},
		{fsmtest.Any(fsmtest.StateWasVisited("Y"), fsmtest.StateWasVisited("Z")), fsmtest.ErrNoMatchersPassed},
	}

	for _, tt := range tests {
		ok, err := tt.matcher.Match(r.trace)
		assert.False(t, ok, tt.matcher.Description())
		require.ErrorIs(t, err, tt.want)
		assert.NotEmpty(t, tt.matcher.Description())
	}
}

func TestRequireIndependentClone(t *testing.T) {
	t.Parallel()

	r := newRing(t)
	r.machine.Step()

	clone, err := r.machine.Clone()
	require.NoError(t, err)

	fsmtest.RequireIndependentClone(t, r.machine, clone)

	// The logger travels with the clone.
	assert.Equal(t, fsmtest.EventCloned, r.trace.Events()[len(r.trace.Events())-1].Kind)
}
