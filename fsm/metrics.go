package fsm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome constants.
const (
	outcomeTransition = "transition"
	outcomeMain       = "main"
)

// Metric definitions with appropriate labels.
var (
	// cyclesTotal counts ringlet cycles by outcome (transition taken or main run).
	cyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ringlet_cycles_total",
		Help: "Total number of ringlet cycles by machine, state, and outcome (transition or main)",
	}, []string{"machine", "state", "outcome"})

	// entriesTotal counts onEntry invocations.
	entriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ringlet_state_entries_total",
		Help: "Total number of state entries by machine and state",
	}, []string{"machine", "state"})

	// transitionsTotal counts transitions taken.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ringlet_transitions_total",
		Help: "Total number of transitions taken by machine, from_state, and to_state",
	}, []string{"machine", "from_state", "to_state"})

	// clonesTotal counts machine clones.
	clonesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ringlet_clones_total",
		Help: "Total number of machine clones by machine",
	}, []string{"machine"})

	// clonedStates tracks the size of the graph copied per clone.
	clonedStates = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ringlet_cloned_states",
		Help:    "Number of distinct states copied per clone by machine",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
	}, []string{"machine"})
)

func sanitizeMachine(machine string) string {
	if machine == "" {
		return "unknown"
	}

	return machine
}
