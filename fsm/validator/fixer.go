package validator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/amp-labs/ringlet/fsm/factory"
)

var (
	// ErrTransitionExists is returned when attempting to add a transition that already exists.
	ErrTransitionExists = errors.New("transition already exists")
	// ErrStateNotFound is returned when attempting to remove a state that doesn't exist.
	ErrStateNotFound = errors.New("state not found")
	// ErrTransitionNotFound is returned when a transition to remove is not present.
	ErrTransitionNotFound = errors.New("transition not found")
	// ErrExternalExists is returned when attempting to add an external that already exists.
	ErrExternalExists = errors.New("external already exists")
)

// Fix represents an automatic fix for a validation issue.
type Fix struct {
	Description string
	Apply       func(def *factory.Definition) error
}

// AddMissingTransition creates a fix that adds an unconditional transition.
func AddMissingTransition(from, to string) *Fix {
	return &Fix{
		Description: fmt.Sprintf("Add transition from '%s' to '%s'", from, to),
		Apply: func(def *factory.Definition) error {
			for _, t := range def.Transitions {
				if t.From == from && t.To == to {
					return ErrTransitionExists
				}
			}

			def.Transitions = append(def.Transitions, factory.TransitionDef{From: from, To: to})

			return nil
		},
	}
}

// RemoveUnreachableState creates a fix that removes a state and every
// transition touching it.
func RemoveUnreachableState(name string) *Fix {
	return &Fix{
		Description: fmt.Sprintf("Remove unreachable state '%s'", name),
		Apply: func(def *factory.Definition) error {
			before := len(def.States)

			def.States = slices.DeleteFunc(def.States, func(s factory.StateDef) bool {
				return s.Name == name
			})

			if len(def.States) == before {
				return fmt.Errorf("%w: '%s'", ErrStateNotFound, name)
			}

			def.Transitions = slices.DeleteFunc(def.Transitions, func(t factory.TransitionDef) bool {
				return t.From == name || t.To == name
			})

			return nil
		},
	}
}

// RemoveDuplicateTransition creates a fix that keeps the first occurrence of
// t and drops the rest.
func RemoveDuplicateTransition(t factory.TransitionDef) *Fix {
	key := transitionKey(t)

	return &Fix{
		Description: fmt.Sprintf("Remove duplicate transition from '%s' to '%s'", t.From, t.To),
		Apply: func(def *factory.Definition) error {
			first := true
			removed := false

			def.Transitions = slices.DeleteFunc(def.Transitions, func(other factory.TransitionDef) bool {
				if transitionKey(other) != key {
					return false
				}

				if first {
					first = false

					return false
				}

				removed = true

				return true
			})

			if !removed {
				return ErrTransitionNotFound
			}

			return nil
		},
	}
}

// RemoveShadowedTransition creates a fix that drops occurrences of t listed
// after an unconditional transition from the same state.
func RemoveShadowedTransition(t factory.TransitionDef) *Fix {
	key := transitionKey(t)

	return &Fix{
		Description: fmt.Sprintf("Remove shadowed transition from '%s' to '%s'", t.From, t.To),
		Apply: func(def *factory.Definition) error {
			shadowing := false
			removed := false

			def.Transitions = slices.DeleteFunc(def.Transitions, func(other factory.TransitionDef) bool {
				if other.From != t.From {
					return false
				}

				if shadowing && transitionKey(other) == key {
					removed = true

					return true
				}

				if isUnconditional(other) {
					shadowing = true
				}

				return false
			})

			if !removed {
				return ErrTransitionNotFound
			}

			return nil
		},
	}
}

// AddExternal creates a fix that declares an untyped external.
func AddExternal(name string) *Fix {
	return &Fix{
		Description: fmt.Sprintf("Declare external '%s'", name),
		Apply: func(def *factory.Definition) error {
			for _, e := range def.Externals {
				if e.Name == name {
					return fmt.Errorf("%w: '%s'", ErrExternalExists, name)
				}
			}

			def.Externals = append(def.Externals, factory.ExternalDef{Name: name})

			return nil
		},
	}
}

// ApplyFixes applies a list of fixes to a definition.
func ApplyFixes(def *factory.Definition, fixes []*Fix) error {
	for _, fix := range fixes {
		if fix != nil && fix.Apply != nil {
			if err := fix.Apply(def); err != nil {
				return fmt.Errorf("failed to apply fix '%s': %w", fix.Description, err)
			}
		}
	}

	return nil
}
