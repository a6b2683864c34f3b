// Package fsmtest provides test helpers for fsm machines: an execution trace
// that plugs in as the machine logger, lifecycle hook recorders, counting
// predicates and assertions built on testify.
//
//nolint:varnamelen // short names idiomatic
package fsmtest

import (
	"fmt"
	"sync"

	"github.com/amp-labs/ringlet/fsm"
	"github.com/google/uuid"
)

// EventKind identifies a traced event.
type EventKind string

const (
	EventEntered    EventKind = "entered"
	EventMain       EventKind = "main"
	EventTransition EventKind = "transition"
	EventCloned     EventKind = "cloned"
)

// Event records a single traced event. From is set for transitions only.
type Event struct {
	Kind    EventKind
	Machine string
	State   string
	From    string
	Index   int
}

func (e Event) String() string {
	switch e.Kind {
	case EventTransition:
		return fmt.Sprintf("%s: %s -[%d]-> %s", e.Machine, e.From, e.Index, e.State)
	default:
		return fmt.Sprintf("%s: %s %s", e.Machine, e.Kind, e.State)
	}
}

// Trace records machine activity. Attach it with fsm.WithLogger; clones of
// the machine keep reporting to it.
type Trace struct {
	mu     sync.Mutex
	events []Event
}

var _ fsm.Logger = (*Trace)(nil)

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

func (tr *Trace) add(e Event) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.events = append(tr.events, e)
}

func (tr *Trace) StateEntered(machine, state string) {
	tr.add(Event{Kind: EventEntered, Machine: machine, State: state, Index: -1})
}

func (tr *Trace) MainExecuted(machine, state string) {
	tr.add(Event{Kind: EventMain, Machine: machine, State: state, Index: -1})
}

func (tr *Trace) TransitionTaken(machine, from, to string, index int) {
	tr.add(Event{Kind: EventTransition, Machine: machine, State: to, From: from, Index: index})
}

func (tr *Trace) MachineCloned(machine string, _, _ uuid.UUID, _ int) {
	tr.add(Event{Kind: EventCloned, Machine: machine, Index: -1})
}

// Events returns a copy of the recorded events.
func (tr *Trace) Events() []Event {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	out := make([]Event, len(tr.events))
	copy(out, tr.events)

	return out
}

// Entered lists the states entered, in order.
func (tr *Trace) Entered() []string {
	var out []string

	for _, e := range tr.Events() {
		if e.Kind == EventEntered {
			out = append(out, e.State)
		}
	}

	return out
}

// Visited reports whether state was entered.
func (tr *Trace) Visited(state string) bool {
	for _, e := range tr.Events() {
		if e.Kind == EventEntered && e.State == state {
			return true
		}
	}

	return false
}

// Took reports whether a transition from one state to another fired.
func (tr *Trace) Took(from, to string) bool {
	for _, e := range tr.Events() {
		if e.Kind == EventTransition && e.From == from && e.State == to {
			return true
		}
	}

	return false
}

// Count returns how many events of kind concern state. For transitions the
// target state is matched.
func (tr *Trace) Count(kind EventKind, state string) int {
	n := 0

	for _, e := range tr.Events() {
		if e.Kind == kind && e.State == state {
			n++
		}
	}

	return n
}

// Reset discards every recorded event.
func (tr *Trace) Reset() {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.events = nil
}
