package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// timerVars are the private variables of the microwave timer used across
// these tests. after stands in for the clock service.
type timerVars struct {
	CurrentTime int
	after       func(seconds int) bool
}

func (v *timerVars) Observe() map[string]any {
	return map[string]any{"currentTime": v.CurrentTime}
}

var (
	doorOpen     = NewVariable[bool]("doorOpen")
	buttonPushed = NewVariable[bool]("buttonPushed")
	timeLeft     = NewVariable[bool]("timeLeft")
)

type timerStates struct {
	check, add, decrement *State[timerVars]
}

func timerGraph() timerStates {
	check := NewState[timerVars]("Check",
		WithSensors[timerVars](Declare("doorOpen", "buttonPushed")),
		WithActuators[timerVars](Declare("timeLeft")),
		WithMain(func(ctx *Context[timerVars]) {
			timeLeft.Set(ctx.External, ctx.Vars.CurrentTime > 0)
		}),
	)
	add := NewState[timerVars]("Add",
		WithSensors[timerVars](Declare("buttonPushed")),
		WithActuators[timerVars](Declare()),
		WithOnEntry(func(ctx *Context[timerVars]) {
			ctx.Vars.CurrentTime++
		}),
	)
	decrement := NewState[timerVars]("Decrement",
		WithOnEntry(func(ctx *Context[timerVars]) {
			ctx.Vars.CurrentTime--
		}),
	)

	check.AddTransition(func(ctx *Context[timerVars]) bool {
		return ctx.Vars.CurrentTime > 0 &&
			!doorOpen.Get(ctx.External) &&
			timeLeft.Get(ctx.External) &&
			ctx.Vars.after(60)
	}, decrement, Label("tick"))
	check.AddTransition(func(ctx *Context[timerVars]) bool {
		return buttonPushed.Get(ctx.External) &&
			!doorOpen.Get(ctx.External) &&
			ctx.Vars.CurrentTime < 15
	}, add, Label("button pushed"))
	decrement.AddTransition(Always[timerVars](), check)
	add.AddTransition(func(ctx *Context[timerVars]) bool {
		return !buttonPushed.Get(ctx.External)
	}, check, Label("button released"))

	return timerStates{check: check, add: add, decrement: decrement}
}

func newTimerExternals() *Externals {
	return NewExternals(
		doorOpen.Cell(false),
		buttonPushed.Cell(false),
		timeLeft.Cell(false),
	)
}

func newTimer(t *testing.T, opts ...Option) (*Machine[timerVars], timerStates) {
	t.Helper()

	states := timerGraph()

	m, err := NewMachine("timer",
		Roots[timerVars]{Initial: states.check, Suspend: states.check, Exit: states.check},
		newTimerExternals(),
		timerVars{after: func(int) bool { return true }},
		append([]Option{WithMetrics(false)}, opts...)...,
	)
	require.NoError(t, err)

	return m, states
}

// recorder counts lifecycle hook invocations per state.
type recorder struct {
	entries map[string]int
	mains   map[string]int
	exits   map[string]int
	order   []string
}

func newRecorder() *recorder {
	return &recorder{
		entries: make(map[string]int),
		mains:   make(map[string]int),
		exits:   make(map[string]int),
	}
}

func recordedState[F any](rec *recorder, name string, opts ...StateOption[F]) *State[F] {
	hooks := []StateOption[F]{
		WithOnEntry(func(*Context[F]) {
			rec.entries[name]++
			rec.order = append(rec.order, "entry:"+name)
		}),
		WithMain(func(*Context[F]) {
			rec.mains[name]++
			rec.order = append(rec.order, "main:"+name)
		}),
		WithOnExit(func(*Context[F]) {
			rec.exits[name]++
			rec.order = append(rec.order, "exit:"+name)
		}),
	}

	return NewState[F](name, append(hooks, opts...)...)
}

type noVars struct{}

func newTestMachine(t *testing.T, initial *State[noVars], opts ...Option) *Machine[noVars] {
	t.Helper()

	m, err := NewMachine("test", Roots[noVars]{Initial: initial, Suspend: initial, Exit: initial},
		NewExternals(), noVars{}, append([]Option{WithMetrics(false)}, opts...)...)
	require.NoError(t, err)

	return m
}
