package fsm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIndependence(t *testing.T) {
	t.Parallel()

	m, _ := newTimer(t)
	c, err := m.Clone()
	require.NoError(t, err)

	doorOpen.Set(c.External(), true)
	c.Vars().CurrentTime = 7

	assert.False(t, doorOpen.Get(m.External()))
	assert.Equal(t, 0, m.Vars().CurrentTime)
	assert.True(t, doorOpen.Get(c.External()))
}

func TestCloneSharingPreserved(t *testing.T) {
	t.Parallel()

	running := EmptyState[noVars]("Running")
	stopped := EmptyState[noVars]("Stopped")
	running.AddTransition(Always[noVars](), stopped)

	m, err := NewMachine("shared", Roots[noVars]{Initial: running, Suspend: stopped, Exit: stopped},
		nil, noVars{}, WithMetrics(false))
	require.NoError(t, err)
	require.Same(t, m.SuspendState(), m.Exit())

	c, err := m.Clone()
	require.NoError(t, err)

	assert.Same(t, c.SuspendState(), c.Exit())
	assert.NotSame(t, m.Exit(), c.Exit())
	assert.Same(t, c.Exit(), c.Initial().Transitions()[0].Target)
}

func TestCloneCycleTermination(t *testing.T) {
	t.Parallel()

	a := EmptyState[noVars]("A")
	b := EmptyState[noVars]("B")
	a.AddTransition(Always[noVars](), b)
	b.AddTransition(Always[noVars](), a)

	m := newTestMachine(t, a)
	c, err := m.Clone()
	require.NoError(t, err)

	ca := c.Initial()
	cb := ca.Transitions()[0].Target

	assert.NotSame(t, a, ca)
	assert.NotSame(t, b, cb)
	assert.Equal(t, "B", cb.Name())
	assert.Same(t, ca, cb.Transitions()[0].Target)
}

func TestCloneTwiceNoAliasing(t *testing.T) {
	t.Parallel()

	m, _ := newTimer(t)

	first := m.MustClone()
	second := m.MustClone()

	seen := make(map[*State[timerVars]]string)
	for _, s := range m.AllStates() {
		seen[s] = "original"
	}

	for _, s := range first.AllStates() {
		_, dup := seen[s]
		assert.False(t, dup, "first clone shares %s", s.Name())

		seen[s] = "first"
	}

	for _, s := range second.AllStates() {
		_, dup := seen[s]
		assert.False(t, dup, "second clone shares %s", s.Name())
	}

	assert.Len(t, second.AllStates(), len(m.AllStates()))
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, m.ID(), first.ParentID())
	assert.Equal(t, m.ID(), second.ParentID())
}

func TestCloneNoTransitionReachesOriginal(t *testing.T) {
	t.Parallel()

	m, _ := newTimer(t)
	c := m.MustClone()

	originals := memberSet(m.AllStates())

	for _, s := range c.AllStates() {
		_, leaked := originals[s]
		require.False(t, leaked, "state %s", s.Name())

		for i, tr := range s.Transitions() {
			_, leaked := originals[tr.Target]
			assert.False(t, leaked, "state %s transition %d", s.Name(), i)
		}
	}
}

func TestCloneMidRunCursors(t *testing.T) {
	t.Parallel()

	m, states := newTimer(t)
	buttonPushed.Set(m.External(), true)

	m.Step()
	require.Same(t, states.add, m.Current())
	require.Same(t, states.check, m.Previous())

	c := m.MustClone()

	assert.Equal(t, "Add", c.Current().Name())
	assert.Equal(t, "Check", c.Previous().Name())
	assert.Same(t, c.Initial(), c.Previous())
	assert.Equal(t, m.Ringlet().ShouldExecuteOnEntry(), c.Ringlet().ShouldExecuteOnEntry())

	// The clone continues exactly as the original would.
	buttonPushed.Set(c.External(), false)
	buttonPushed.Set(m.External(), false)

	assert.Equal(t, m.Step().Name(), c.Step().Name())
	assert.Equal(t, m.Vars().CurrentTime, c.Vars().CurrentTime)
}

func TestCloneLeavesOriginalUntouched(t *testing.T) {
	t.Parallel()

	m, states := newTimer(t)
	before := m.AllStates()

	_ = m.MustClone()

	assert.Equal(t, before, m.AllStates())
	assert.Same(t, states.check, m.Current())
	assert.Same(t, states.add, states.check.Transitions()[1].Target)
	assert.Equal(t, InitialPreviousName, m.Previous().Name())
}

func TestCloneEmptyRootIsFresh(t *testing.T) {
	t.Parallel()

	m := newTestMachine(t, EmptyState[noVars]("Only"))
	c := m.MustClone()

	assert.NotSame(t, m.InitialPrevious(), c.InitialPrevious())
	assert.Equal(t, InitialPreviousName, c.InitialPrevious().Name())
	assert.Same(t, c.InitialPrevious(), c.Previous())
}

func TestCloneSuspended(t *testing.T) {
	t.Parallel()

	m, states := newTimer(t)
	c := m.MustClone()
	assert.Nil(t, c.Suspended())

	buttonPushed.Set(m.External(), true)
	m.Step()
	m.Suspend()
	require.Same(t, states.add, m.Suspended())

	c = m.MustClone()
	require.NotNil(t, c.Suspended())
	assert.Equal(t, "Add", c.Suspended().Name())
	assert.NotSame(t, states.add, c.Suspended())
	assert.Same(t, c.Initial().Transitions()[1].Target, c.Suspended())
}

func TestCloneVarsCloner(t *testing.T) {
	t.Parallel()

	s := EmptyState[historyVars]("S")
	m, err := NewMachine("history", Roots[historyVars]{Initial: s, Suspend: s, Exit: s},
		nil, historyVars{Seen: []string{"a"}}, WithMetrics(false))
	require.NoError(t, err)

	c := m.MustClone()
	c.Vars().Seen[0] = "changed"

	assert.Equal(t, []string{"a"}, m.Vars().Seen)
}

type historyVars struct {
	Seen []string
}

func (v historyVars) Clone() historyVars {
	return historyVars{Seen: append([]string(nil), v.Seen...)}
}

func TestGraphClonerNameCollision(t *testing.T) {
	t.Parallel()

	a := EmptyState[noVars]("A")
	impostor := EmptyState[noVars]("B")
	b := EmptyState[noVars]("B")
	a.AddTransition(Always[noVars](), b)
	a.AddTransition(Always[noVars](), impostor)

	_, err := NewGraphCloner[noVars]().Apply(a)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrGraphIntegrity)

	var gie *GraphIntegrityError
	require.ErrorAs(t, err, &gie)
	assert.Equal(t, "B", gie.State)
}

func TestGraphClonerNameCollisionAcrossRoots(t *testing.T) {
	t.Parallel()

	cloner := NewGraphCloner[noVars]()

	_, err := cloner.Apply(EmptyState[noVars]("X"))
	require.NoError(t, err)

	_, err = cloner.Apply(EmptyState[noVars]("X"))
	require.ErrorIs(t, err, ErrGraphIntegrity)
}

func TestGraphClonerStopsAfterError(t *testing.T) {
	t.Parallel()

	a := EmptyState[noVars]("A")
	b := EmptyState[noVars]("B")
	impostor := EmptyState[noVars]("B")
	c := EmptyState[noVars]("C")
	a.AddTransition(nil, b)
	a.AddTransition(nil, impostor)
	b.AddTransition(nil, c)

	cloner := NewGraphCloner[noVars]()

	_, err := cloner.Apply(a)
	require.ErrorIs(t, err, ErrGraphIntegrity)

	copied, again := cloner.Apply(b)
	require.ErrorIs(t, again, ErrGraphIntegrity)
	assert.Nil(t, copied)
	assert.Equal(t, err, cloner.Err())

	copied, again = cloner.Apply(nil)
	require.ErrorIs(t, again, ErrGraphIntegrity)
	assert.Nil(t, copied)
}

func TestGraphClonerNilTarget(t *testing.T) {
	t.Parallel()

	a := EmptyState[noVars]("A")
	a.AddTransition(Always[noVars](), nil)

	_, err := NewGraphCloner[noVars]().Apply(a)

	var gie *GraphIntegrityError
	require.ErrorAs(t, err, &gie)
	assert.Equal(t, "A", gie.State)
	assert.Equal(t, 0, gie.Transition)
}

func TestGraphClonerNil(t *testing.T) {
	t.Parallel()

	cloner := NewGraphCloner[noVars]()
	got, err := cloner.Apply(nil)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, cloner.Len())
}

func TestGraphClonerDeepChain(t *testing.T) {
	t.Parallel()

	const depth = 100_000

	head := EmptyState[noVars]("s0")
	prev := head

	for i := 1; i < depth; i++ {
		next := EmptyState[noVars](fmt.Sprintf("s%d", i))
		prev.AddTransition(Always[noVars](), next)
		prev = next
	}

	prev.AddTransition(Always[noVars](), head)

	cloner := NewGraphCloner[noVars]()
	copied, err := cloner.Apply(head)
	require.NoError(t, err)
	assert.Equal(t, depth, cloner.Len())

	cur := copied
	for range depth {
		require.NotSame(t, head, cur)
		cur = cur.transitions[0].Target
	}

	assert.Same(t, copied, cur)
}

func TestGraphClonerCopiesEachStateOnce(t *testing.T) {
	t.Parallel()

	// Diamond: top -> left, right -> bottom, bottom -> top.
	top := EmptyState[noVars]("top")
	left := EmptyState[noVars]("left")
	right := EmptyState[noVars]("right")
	bottom := EmptyState[noVars]("bottom")
	top.AddTransition(nil, left).AddTransition(nil, right)
	left.AddTransition(nil, bottom)
	right.AddTransition(nil, bottom)
	bottom.AddTransition(nil, top)

	cloner := NewGraphCloner[noVars]()
	ct, err := cloner.Apply(top)
	require.NoError(t, err)

	again, err := cloner.Apply(bottom)
	require.NoError(t, err)

	assert.Equal(t, 4, cloner.Len())
	assert.Same(t, ct.transitions[0].Target.transitions[0].Target, again)
	assert.Same(t, ct.transitions[1].Target.transitions[0].Target, again)
	assert.Same(t, ct, again.transitions[0].Target)
}

func TestGraphClonerPreservesStateData(t *testing.T) {
	t.Parallel()

	entered := false
	s := NewState[noVars]("S",
		WithSensors[noVars](Declare("in")),
		WithActuators[noVars](Declare()),
		WithOnEntry(func(*Context[noVars]) { entered = true }),
	)
	s.AddTransition(nil, s, Label("again"))

	c, err := NewGraphCloner[noVars]().Apply(s)
	require.NoError(t, err)

	assert.Equal(t, s.Sensors(), c.Sensors())
	assert.True(t, c.Actuators().Declared())
	assert.Equal(t, 0, c.Actuators().Len())
	assert.Equal(t, "again", c.Transitions()[0].Label)
	assert.Same(t, c, c.Transitions()[0].Target)

	c.runEntry(&Context[noVars]{})
	assert.True(t, entered)
}
