// Package snapshot provides the published side of the snapshot
// sensor/actuator discipline: an explicit store of variable values shared by
// a set of machines, latched into a machine before its time slot and
// published back after it.
//
// A Store is created per run or test and passed to whatever schedules the
// machines. There is no process-wide store.
package snapshot

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"facette.io/natsort"
	"github.com/amp-labs/ringlet/fsm"
	"go.uber.org/atomic"
)

var (
	// ErrAlreadyDefined is returned when defining a variable twice.
	ErrAlreadyDefined = errors.New("variable already defined")
	// ErrUndefined is returned when latching or publishing a variable the store does not hold.
	ErrUndefined = errors.New("variable not defined in store")
)

// Frame is a set of variable values latched from or published to a Store.
type Frame map[string]any

// Names returns the frame's variable names in natural order.
func (f Frame) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}

	natsort.Sort(names)

	return names
}

// Store holds the published value of every shared variable. It is safe for
// concurrent use.
type Store struct {
	mu         sync.RWMutex
	values     map[string]any
	generation *atomic.Uint64 // Incremented once per successful Publish
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		values:     make(map[string]any),
		generation: atomic.NewUint64(0),
	}
}

// Define adds a variable with its initial value.
func (s *Store) Define(name string, initial any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyDefined, name)
	}

	s.values[name] = initial

	return nil
}

// DefineFrom defines every cell of ext the store does not hold yet, using the
// cell's current value. Cells already defined keep their published value.
func (s *Store) DefineFrom(ext *fsm.Externals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range ext.Names() {
		if _, ok := s.values[name]; ok {
			continue
		}

		v, _ := ext.Value(name)
		s.values[name] = fsm.CloneValue(v)
	}
}

// Read returns the published value of one variable.
func (s *Store) Read(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[name]
	if !ok {
		return nil, false
	}

	return fsm.CloneValue(v), true
}

// Names returns every defined variable in natural order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}

	natsort.Sort(names)

	return names
}

// Latch takes one consistent read of the named variables. An undeclared set
// latches nothing.
func (s *Store) Latch(names fsm.Names) (Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame := make(Frame, names.Len())

	var errs []error

	for name := range names.All() {
		v, ok := s.values[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUndefined, name))

			continue
		}

		frame[name] = fsm.CloneValue(v)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return frame, nil
}

// Publish makes every value in frame visible at once. Either all values are
// published or, if any name is undefined, none is.
func (s *Store) Publish(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	for _, name := range frame.Names() {
		if _, ok := s.values[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUndefined, name))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	maps.Copy(s.values, frame)
	s.generation.Inc()

	return nil
}

// Generation counts successful publishes.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// Snapshot copies every published value.
func (s *Store) Snapshot() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame := make(Frame, len(s.values))
	for name, v := range s.values {
		frame[name] = fsm.CloneValue(v)
	}

	return frame
}
