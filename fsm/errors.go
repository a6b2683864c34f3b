package fsm

import (
	"errors"
	"fmt"
)

// Predefined error types.
var (
	// ErrGraphIntegrity indicates a malformed state graph: a nil root or
	// target, a transition leaving the validated graph, or two distinct
	// states sharing a name.
	ErrGraphIntegrity = errors.New("graph integrity violation")
	// ErrSnapshotMismatch indicates a sensor or actuator naming a variable
	// the machine does not define.
	ErrSnapshotMismatch = errors.New("snapshot mismatch")
	// ErrUndefinedVariable indicates access to an external cell that was never declared.
	ErrUndefinedVariable = errors.New("undefined external variable")
	// ErrWrongType indicates an external cell holding a value of an unexpected type.
	ErrWrongType = errors.New("wrong type")
	// ErrMachineNameRequired indicates that a machine name is required.
	ErrMachineNameRequired = errors.New("machine name is required")
)

// NoTransition is the Transition index of a GraphIntegrityError that is not
// about a specific transition.
const NoTransition = -1

// GraphIntegrityError names the state, and where relevant the transition,
// that breaks the graph.
type GraphIntegrityError struct {
	State      string
	Transition int
	Reason     string
}

func (e *GraphIntegrityError) Error() string {
	if e.Transition == NoTransition {
		return fmt.Sprintf("%v: state %q: %s", ErrGraphIntegrity, e.State, e.Reason)
	}

	return fmt.Sprintf("%v: state %q transition %d: %s", ErrGraphIntegrity, e.State, e.Transition, e.Reason)
}

func (e *GraphIntegrityError) Unwrap() error {
	return ErrGraphIntegrity
}

// SnapshotKind tells sensors from actuators.
type SnapshotKind string

// Snapshot kinds.
const (
	KindSensor   SnapshotKind = "sensor"
	KindActuator SnapshotKind = "actuator"
)

// SnapshotMismatchError names the state and the undefined variable.
type SnapshotMismatchError struct {
	State    string
	Variable string
	Kind     SnapshotKind
}

func (e *SnapshotMismatchError) Error() string {
	return fmt.Sprintf("%v: state %q declares %s %q which the machine does not define",
		ErrSnapshotMismatch, e.State, e.Kind, e.Variable)
}

func (e *SnapshotMismatchError) Unwrap() error {
	return ErrSnapshotMismatch
}

func integrityError(state string, transition int, reason string) error {
	return &GraphIntegrityError{
		State:      state,
		Transition: transition,
		Reason:     reason,
	}
}
