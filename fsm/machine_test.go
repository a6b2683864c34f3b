package fsm

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerRoundTrip(t *testing.T) {
	t.Parallel()

	m, states := newTimer(t)
	buttonPushed.Set(m.External(), true)

	require.Same(t, states.check, m.Current())

	next := m.Step()
	require.Same(t, states.add, next)

	buttonPushed.Set(m.External(), false)

	next = m.Step()
	require.Same(t, states.check, next)
	assert.Equal(t, 1, m.Vars().CurrentTime)

	// Check now runs main, which publishes timeLeft.
	m.Step()
	assert.True(t, timeLeft.Get(m.External()))

	// With time left and the clock elapsed, the timer counts down.
	require.Same(t, states.decrement, m.Step())
	require.Same(t, states.check, m.Step())
	assert.Equal(t, 0, m.Vars().CurrentTime)
}

func TestNewMachineRequiresName(t *testing.T) {
	t.Parallel()

	s := EmptyState[noVars]("S")
	_, err := NewMachine("", Roots[noVars]{Initial: s, Suspend: s, Exit: s}, nil, noVars{})
	require.ErrorIs(t, err, ErrMachineNameRequired)
}

func TestNewMachineIntegrity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		roots  func() Roots[noVars]
		states []string
	}{
		{
			name: "nil roots",
			roots: func() Roots[noVars] {
				return Roots[noVars]{Initial: EmptyState[noVars]("S")}
			},
			states: []string{"suspend", "exit"},
		},
		{
			name: "nil target",
			roots: func() Roots[noVars] {
				s := EmptyState[noVars]("S")
				s.AddTransition(nil, nil)

				return Roots[noVars]{Initial: s, Suspend: s, Exit: s}
			},
			states: []string{"S"},
		},
		{
			name: "name collision",
			roots: func() Roots[noVars] {
				s := EmptyState[noVars]("S")
				s.AddTransition(nil, EmptyState[noVars]("T"))
				s.AddTransition(nil, EmptyState[noVars]("T"))

				return Roots[noVars]{Initial: s, Suspend: s, Exit: s}
			},
			states: []string{"T"},
		},
		{
			name: "collides with initial previous",
			roots: func() Roots[noVars] {
				s := EmptyState[noVars](InitialPreviousName)

				return Roots[noVars]{Initial: s, Suspend: s, Exit: s}
			},
			states: []string{InitialPreviousName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewMachine("broken", tt.roots(), nil, noVars{})
			require.ErrorIs(t, err, ErrGraphIntegrity)

			for _, state := range tt.states {
				assert.Contains(t, err.Error(), state)
			}
		})
	}
}

func TestNewMachineSnapshotMismatch(t *testing.T) {
	t.Parallel()

	s := NewState[noVars]("S",
		WithSensors[noVars](Declare("known", "missingIn")),
		WithActuators[noVars](Declare("missingOut")),
	)

	_, err := NewMachine("mismatch", Roots[noVars]{Initial: s, Suspend: s, Exit: s},
		NewExternals(Cell("known", 1)), noVars{})
	require.ErrorIs(t, err, ErrSnapshotMismatch)

	var sme *SnapshotMismatchError
	require.ErrorAs(t, err, &sme)
	assert.Equal(t, "S", sme.State)

	assert.Contains(t, err.Error(), `sensor "missingIn"`)
	assert.Contains(t, err.Error(), `actuator "missingOut"`)
	assert.NotContains(t, err.Error(), `"known"`)
}

func TestMachineSuspendResume(t *testing.T) {
	t.Parallel()

	running := EmptyState[noVars]("Running")
	paused := EmptyState[noVars]("Paused")
	done := EmptyState[noVars]("Done")
	running.AddTransition(Not(Always[noVars]()), done)

	m, err := NewMachine("suspendable", Roots[noVars]{Initial: running, Suspend: paused, Exit: done},
		nil, noVars{}, WithMetrics(false))
	require.NoError(t, err)

	m.Step()
	assert.False(t, m.IsSuspended())

	m.Suspend()
	assert.True(t, m.IsSuspended())
	assert.Same(t, paused, m.Current())
	assert.Same(t, running, m.Suspended())

	m.Suspend()
	assert.Same(t, running, m.Suspended())

	m.Resume()
	assert.False(t, m.IsSuspended())
	assert.Same(t, running, m.Current())
	assert.Nil(t, m.Suspended())

	m.Resume()
	assert.Same(t, running, m.Current())
}

func TestMachineRestartAndFinish(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	start := recordedState[noVars](rec, "Start")
	end := recordedState[noVars](rec, "End")
	start.AddTransition(Always[noVars](), end)

	m, err := NewMachine("finite", Roots[noVars]{Initial: start, Suspend: end, Exit: end},
		nil, noVars{}, WithMetrics(false))
	require.NoError(t, err)

	assert.False(t, m.IsFinished())
	m.Step()
	assert.True(t, m.IsFinished())
	assert.True(t, m.HasFinished())

	m.Restart()
	assert.False(t, m.IsFinished())
	assert.Same(t, m.InitialPrevious(), m.Previous())
	assert.True(t, m.Ringlet().ShouldExecuteOnEntry())

	m.Step()
	assert.Equal(t, 2, rec.entries["Start"])
}

func TestMachineSnapshotSetsFollowCurrentState(t *testing.T) {
	t.Parallel()

	m, _ := newTimer(t)

	assert.Equal(t, []string{"buttonPushed", "doorOpen"}, m.SnapshotSensors().Slice())
	assert.Equal(t, []string{"timeLeft"}, m.SnapshotActuators().Slice())

	buttonPushed.Set(m.External(), true)
	m.Step()

	assert.Equal(t, []string{"buttonPushed"}, m.SnapshotSensors().Slice())
	assert.True(t, m.SnapshotActuators().Declared())
	assert.Equal(t, 0, m.SnapshotActuators().Len())

	buttonPushed.Set(m.External(), false)
	m.Step()
	m.Step()
	m.Step()

	require.Equal(t, "Decrement", m.Current().Name())
	assert.False(t, m.SnapshotSensors().Declared())
}

func TestMachineAllStatesNaturalOrder(t *testing.T) {
	t.Parallel()

	s10 := EmptyState[noVars]("step10")
	s2 := EmptyState[noVars]("step2")
	s1 := EmptyState[noVars]("step1")
	s1.AddTransition(nil, s10)
	s10.AddTransition(nil, s2)

	m := newTestMachine(t, s1)

	names := make([]string, 0)
	for _, s := range m.AllStates() {
		names = append(names, s.Name())
	}

	assert.Equal(t, []string{InitialPreviousName, "step1", "step2", "step10"}, names)
}

func TestMachineComputedVars(t *testing.T) {
	t.Parallel()

	m, _ := newTimer(t)
	buttonPushed.Set(m.External(), true)
	m.Step()
	m.Suspend()

	vars := m.ComputedVars()

	assert.Equal(t, map[string]any{
		"externals.doorOpen":     false,
		"externals.buttonPushed": true,
		"externals.timeLeft":     false,
		"fsm.currentTime":        0,
		KeyCurrentState:          "Check",
		KeyPreviousState:         "Check",
		KeySuspendedState:        "Add",
	}, vars)
}

func TestMachineIDs(t *testing.T) {
	t.Parallel()

	m, _ := newTimer(t)

	assert.NotEqual(t, uuid.Nil, m.ID())
	assert.Equal(t, uuid.Nil, m.ParentID())
	assert.Equal(t, "timer", m.Name())

	c := m.MustClone()
	assert.Equal(t, "timer", c.Name())
	assert.Equal(t, m.ID(), c.ParentID())
	assert.Equal(t, c.ID(), c.MustClone().ParentID())
}

func TestMachineValidateAfterRewiring(t *testing.T) {
	t.Parallel()

	s := EmptyState[noVars]("S")
	m := newTestMachine(t, s)
	require.NoError(t, m.Validate())

	s.AddTransition(nil, EmptyState[noVars]("S"))
	require.ErrorIs(t, m.Validate(), ErrGraphIntegrity)

	_, err := m.Clone()
	require.ErrorIs(t, err, ErrGraphIntegrity)
}
