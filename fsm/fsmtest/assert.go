package fsmtest

import (
	"testing"

	"github.com/amp-labs/ringlet/fsm"
	"github.com/stretchr/testify/require"
)

// RequireSteps runs one cycle per name and requires each to return the named
// state.
func RequireSteps[F any](t *testing.T, m *fsm.Machine[F], names ...string) {
	t.Helper()

	for i, want := range names {
		got := m.Step()
		require.NotNil(t, got, "step %d returned nil", i)
		require.Equal(t, want, got.Name(), "step %d", i)
	}
}

// RequireIndependentClone requires clone to be a structurally equal deep copy
// of original: same state names, same transition shape and cursors, and no
// state, externals or variables shared between the two.
func RequireIndependentClone[F any](t *testing.T, original, clone *fsm.Machine[F]) {
	t.Helper()

	require.NotSame(t, original, clone)
	require.NotEqual(t, original.ID(), clone.ID(), "clone must get a new ID")
	require.Equal(t, original.ID(), clone.ParentID(), "clone must record its parent")
	require.Equal(t, original.Name(), clone.Name())
	require.NotSame(t, original.External(), clone.External(), "externals are shared")
	require.NotSame(t, original.Vars(), clone.Vars(), "vars are shared")
	require.Equal(t, original.External().Snapshot(), clone.External().Snapshot())

	origStates := original.AllStates()
	cloneStates := clone.AllStates()
	require.Len(t, cloneStates, len(origStates))

	owned := make(map[*fsm.State[F]]bool, len(origStates))
	for _, s := range origStates {
		owned[s] = true
	}

	for i, s := range cloneStates {
		require.False(t, owned[s], "clone shares state %q with the original", s.Name())
		require.Equal(t, origStates[i].Name(), s.Name())

		origTransitions := origStates[i].Transitions()
		cloneTransitions := s.Transitions()
		require.Len(t, cloneTransitions, len(origTransitions), "state %q", s.Name())

		for j, tr := range cloneTransitions {
			require.False(t, owned[tr.Target], "transition %d of %q targets the original graph", j, s.Name())
			require.Equal(t, origTransitions[j].Target.Name(), tr.Target.Name())
			require.Equal(t, origTransitions[j].Label, tr.Label)
		}
	}

	require.Equal(t, original.Current().Name(), clone.Current().Name())
	require.Equal(t, original.Previous().Name(), clone.Previous().Name())
	require.Equal(t, original.IsSuspended(), clone.IsSuspended())
	require.Equal(t, original.Ringlet().ShouldExecuteOnEntry(), clone.Ringlet().ShouldExecuteOnEntry())
}

// RequireMatches requires every matcher to pass against trace.
func RequireMatches(t *testing.T, trace *Trace, matchers ...Matcher) {
	t.Helper()

	for _, m := range matchers {
		ok, err := m.Match(trace)
		require.NoError(t, err, m.Description())
		require.True(t, ok, m.Description())
	}
}
