package fsm

import (
	"facette.io/natsort"
)

// Observable is implemented by fsm variable types that expose their fields
// to ComputedVars. Keys are reported under the "fsm." prefix.
type Observable interface {
	Observe() map[string]any
}

// Keys used by ComputedVars for the machine's cursors.
const (
	KeyCurrentState   = "state.current"
	KeyPreviousState  = "state.previous"
	KeySuspendedState = "state.suspended"
)

// SnapshotSensors returns the sensors of the current state. The set follows
// the current state, so it must be read again every cycle.
func (m *Machine[F]) SnapshotSensors() Names {
	return m.current.sensors
}

// SnapshotActuators returns the actuators of the current state.
func (m *Machine[F]) SnapshotActuators() Names {
	return m.current.actuators
}

// AllStates returns every validated state in natural name order.
func (m *Machine[F]) AllStates() []*State[F] {
	byName := make(map[string]*State[F], len(m.states))
	names := make([]string, 0, len(m.states))

	for _, s := range m.states {
		byName[s.name] = s
		names = append(names, s.name)
	}

	natsort.Sort(names)

	out := make([]*State[F], 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}

	return out
}

// ComputedVars flattens the machine's observable state into one map: every
// external cell as "externals.<name>", the fields reported by Observable as
// "fsm.<field>", and the names of the current, previous and suspended states.
func (m *Machine[F]) ComputedVars() map[string]any {
	vars := make(map[string]any)

	for name, value := range m.external.Snapshot() {
		vars["externals."+name] = value
	}

	if obs, ok := any(&m.vars).(Observable); ok {
		for field, value := range obs.Observe() {
			vars["fsm."+field] = value
		}
	} else if obs, ok := any(m.vars).(Observable); ok {
		for field, value := range obs.Observe() {
			vars["fsm."+field] = value
		}
	}

	vars[KeyCurrentState] = stateName(m.current)
	vars[KeyPreviousState] = stateName(m.ringlet.previous)

	if m.suspended != nil {
		vars[KeySuspendedState] = m.suspended.name
	} else {
		vars[KeySuspendedState] = ""
	}

	return vars
}
