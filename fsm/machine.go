package fsm

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// InitialPreviousName is the name of the empty state a fresh ringlet treats
// as the previously executed state.
const InitialPreviousName = "__initial_previous"

// Roots are the static entry points of a machine's graph. Their reachable
// sets may overlap, and Suspend may be the same object as Exit.
type Roots[F any] struct {
	Initial *State[F]
	Suspend *State[F]
	Exit    *State[F]
}

// VarsCloner is implemented by fsm variable types that hold reference values
// and need a deep copy when the machine is cloned. Other types are copied by
// assignment.
type VarsCloner[F any] interface {
	Clone() F
}

// Option configures a Machine.
type Option func(*machineConfig)

type machineConfig struct {
	logger  Logger
	metrics bool
}

// WithLogger sets the logger receiving ringlet and clone events.
func WithLogger(logger Logger) Option {
	return func(c *machineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables or disables Prometheus metrics. Metrics are enabled by default.
func WithMetrics(enabled bool) Option {
	return func(c *machineConfig) {
		c.metrics = enabled
	}
}

// Machine owns one state graph, the ringlet that walks it, the external
// cells its states read and write, and its private variables.
//
// Step mutates the machine and requires exclusive access. Clone only reads it.
type Machine[F any] struct {
	id       uuid.UUID
	parentID uuid.UUID
	name     string

	initial         *State[F]
	suspend         *State[F]
	exit            *State[F]
	initialPrevious *State[F]
	current         *State[F]
	suspended       *State[F]

	ringlet  *Ringlet[F]
	external *Externals
	vars     F

	states []*State[F]
	config machineConfig
}

// NewMachine assembles a machine from its roots. The reachable graph is
// validated eagerly: nil roots or targets, name collisions and snapshot names
// the externals do not define are all reported in one joined error.
func NewMachine[F any](
	name string,
	roots Roots[F],
	externals *Externals,
	vars F,
	opts ...Option,
) (*Machine[F], error) {
	if name == "" {
		return nil, ErrMachineNameRequired
	}

	config := machineConfig{metrics: true}
	for _, opt := range opts {
		opt(&config)
	}

	if externals == nil {
		externals = NewExternals()
	}

	initialPrevious := EmptyState[F](InitialPreviousName)

	m := &Machine[F]{
		id:              uuid.New(),
		name:            name,
		initial:         roots.Initial,
		suspend:         roots.Suspend,
		exit:            roots.Exit,
		initialPrevious: initialPrevious,
		current:         roots.Initial,
		ringlet:         NewRinglet(initialPrevious),
		external:        externals,
		vars:            vars,
		config:          config,
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("machine %s: %w", name, err)
	}

	return m, nil
}

// ID identifies this machine instance. Every clone gets a fresh ID.
func (m *Machine[F]) ID() uuid.UUID {
	return m.id
}

// ParentID is the ID of the machine this one was cloned from, or uuid.Nil.
func (m *Machine[F]) ParentID() uuid.UUID {
	return m.parentID
}

// Name returns the machine name.
func (m *Machine[F]) Name() string {
	return m.name
}

// Initial returns the state the machine starts in.
func (m *Machine[F]) Initial() *State[F] { return m.initial }

// SuspendState returns the state Suspend moves to.
func (m *Machine[F]) SuspendState() *State[F] { return m.suspend }

// Exit returns the final state.
func (m *Machine[F]) Exit() *State[F] { return m.exit }

// InitialPrevious returns the empty state the ringlet starts with as previous.
func (m *Machine[F]) InitialPrevious() *State[F] { return m.initialPrevious }

// Current returns the state the next Step executes.
func (m *Machine[F]) Current() *State[F] { return m.current }

// Previous returns the state the ringlet executed last.
func (m *Machine[F]) Previous() *State[F] { return m.ringlet.previous }

// Suspended returns the state to resume into, or nil when not suspended.
func (m *Machine[F]) Suspended() *State[F] {
	return m.suspended
}

// Ringlet exposes the machine's executor for inspection.
func (m *Machine[F]) Ringlet() *Ringlet[F] {
	return m.ringlet
}

// External returns the machine's external cells.
func (m *Machine[F]) External() *Externals {
	return m.external
}

// Vars returns a pointer to the machine's private variables.
func (m *Machine[F]) Vars() *F {
	return &m.vars
}

// Step runs one ringlet cycle on the current state and returns the new
// current state.
func (m *Machine[F]) Step() *State[F] {
	m.current = m.ringlet.Execute(m.current, m.context())

	return m.current
}

// Suspend parks the current state and moves to the suspend state. Suspending
// a suspended machine does nothing.
func (m *Machine[F]) Suspend() {
	if m.IsSuspended() {
		return
	}

	m.suspended = m.current
	m.current = m.suspend
}

// Resume returns to the state that was current when Suspend was called.
func (m *Machine[F]) Resume() {
	if !m.IsSuspended() {
		return
	}

	m.current = m.suspended
	m.suspended = nil
}

// Restart returns the machine to its initial state with fresh ringlet
// history, so the next cycle fires onEntry. Variables are not reset.
func (m *Machine[F]) Restart() {
	m.current = m.initial
	m.suspended = nil
	m.ringlet.previous = m.initialPrevious
	m.ringlet.shouldExecuteOnEntry = true
}

// IsSuspended reports whether Suspend was called without a matching Resume.
func (m *Machine[F]) IsSuspended() bool {
	return m.suspended != nil
}

// IsFinished reports whether the machine is in its exit state.
func (m *Machine[F]) IsFinished() bool {
	return m.current == m.exit
}

// HasFinished is IsFinished under the name external bookkeeping uses.
func (m *Machine[F]) HasFinished() bool {
	return m.IsFinished()
}

// Validate rechecks the graph reachable from the roots and cursors.
func (m *Machine[F]) Validate() error {
	return m.validate()
}

// Clone returns an independent copy of the machine. The external cells and
// variables are copied by value and every state reference is resolved through
// one GraphCloner, so the copy shares no state object with the original.
// The original is not modified.
func (m *Machine[F]) Clone() (*Machine[F], error) {
	cloner := NewGraphCloner[F]()

	refs := []*State[F]{
		m.initial,
		m.suspend,
		m.exit,
		m.initialPrevious,
		m.current,
		m.ringlet.previous,
		m.suspended,
	}

	copied := make([]*State[F], len(refs))

	for i, ref := range refs {
		c, err := cloner.Apply(ref)
		if err != nil {
			return nil, fmt.Errorf("clone machine %s: %w", m.name, err)
		}

		copied[i] = c
	}

	clone := &Machine[F]{
		id:              uuid.New(),
		parentID:        m.id,
		name:            m.name,
		initial:         copied[0],
		suspend:         copied[1],
		exit:            copied[2],
		initialPrevious: copied[3],
		current:         copied[4],
		suspended:       copied[6],
		external:        m.external.Clone(),
		vars:            cloneVars(m.vars),
		states:          cloner.States(),
		config:          m.config,
	}

	clone.ringlet = &Ringlet[F]{
		previous:             copied[5],
		shouldExecuteOnEntry: m.ringlet.shouldExecuteOnEntry,
		members:              memberSet(clone.states),
		inst:                 clone.instrumentation(),
	}

	clone.ringlet.inst.cloned(m.id, clone.id, cloner.Len())

	return clone, nil
}

// MustClone is like Clone but panics on error.
func (m *Machine[F]) MustClone() *Machine[F] {
	clone, err := m.Clone()
	if err != nil {
		panic(err)
	}

	return clone
}

func (m *Machine[F]) context() *Context[F] {
	return &Context[F]{
		Machine:  m.name,
		External: m.external,
		Vars:     &m.vars,
	}
}

func (m *Machine[F]) validate() error {
	roots := []namedRoot[F]{
		{role: "initial", state: m.initial},
		{role: "suspend", state: m.suspend},
		{role: "exit", state: m.exit},
		{role: "initial previous", state: m.initialPrevious},
		{role: "current", state: m.current},
		{role: "previous", state: m.ringlet.previous},
	}

	if m.suspended != nil {
		roots = append(roots, namedRoot[F]{role: "suspended", state: m.suspended})
	}

	g, err := walkGraph(roots...)
	err = errors.Join(err, checkSnapshots(g.states, m.external))
	if err != nil {
		return err
	}

	m.states = g.states
	m.ringlet.members = g.members
	m.ringlet.inst = m.instrumentation()

	return nil
}

func (m *Machine[F]) instrumentation() instrumentation {
	return instrumentation{
		machine: m.name,
		logger:  m.config.logger,
		metrics: m.config.metrics,
	}
}

func memberSet[F any](states []*State[F]) map[*State[F]]struct{} {
	members := make(map[*State[F]]struct{}, len(states))
	for _, s := range states {
		members[s] = struct{}{}
	}

	return members
}

func cloneVars[F any](vars F) F {
	if c, ok := any(vars).(VarsCloner[F]); ok {
		return c.Clone()
	}

	if c, ok := any(&vars).(VarsCloner[F]); ok {
		return c.Clone()
	}

	return vars
}
