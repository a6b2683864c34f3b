package fsm

import (
	"github.com/google/uuid"
)

// instrumentation forwards ringlet and clone events to the optional logger
// and to the Prometheus metrics.
type instrumentation struct {
	machine string
	logger  Logger
	metrics bool
}

func (i instrumentation) entered(state string) {
	if i.logger != nil {
		i.logger.StateEntered(i.machine, state)
	}

	if i.metrics {
		entriesTotal.WithLabelValues(sanitizeMachine(i.machine), state).Inc()
	}
}

func (i instrumentation) mainRan(state string) {
	if i.logger != nil {
		i.logger.MainExecuted(i.machine, state)
	}

	if i.metrics {
		cyclesTotal.WithLabelValues(sanitizeMachine(i.machine), state, outcomeMain).Inc()
	}
}

func (i instrumentation) transitioned(from, to string, index int) {
	if i.logger != nil {
		i.logger.TransitionTaken(i.machine, from, to, index)
	}

	if i.metrics {
		machine := sanitizeMachine(i.machine)
		cyclesTotal.WithLabelValues(machine, from, outcomeTransition).Inc()
		transitionsTotal.WithLabelValues(machine, from, to).Inc()
	}
}

func (i instrumentation) cloned(original, clone uuid.UUID, states int) {
	if i.logger != nil {
		i.logger.MachineCloned(i.machine, original, clone, states)
	}

	if i.metrics {
		machine := sanitizeMachine(i.machine)
		clonesTotal.WithLabelValues(machine).Inc()
		clonedStates.WithLabelValues(machine).Observe(float64(states))
	}
}

func stateName[F any](s *State[F]) string {
	if s == nil {
		return "<nil>"
	}

	return s.name
}
