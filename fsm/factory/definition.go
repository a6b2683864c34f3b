// Package factory builds fsm machines from declarative definitions. A
// Definition names states, transitions and external cells; a Registry maps the
// predicate and hook names it uses to Go functions.
package factory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// External cell types.
const (
	TypeAny    = ""
	TypeBool   = "bool"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
)

// Definition describes one machine family.
type Definition struct {
	Name        string          `json:"name"                  yaml:"name"`
	Initial     string          `json:"initial"               yaml:"initial"`
	Suspend     string          `json:"suspend,omitempty"     yaml:"suspend,omitempty"`
	Exit        string          `json:"exit,omitempty"        yaml:"exit,omitempty"`
	Externals   []ExternalDef   `json:"externals,omitempty"   yaml:"externals,omitempty"`
	States      []StateDef      `json:"states"                yaml:"states"`
	Transitions []TransitionDef `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// ExternalDef declares one external cell.
type ExternalDef struct {
	Name    string `json:"name"              yaml:"name"`
	Type    string `json:"type,omitempty"    yaml:"type,omitempty"`
	Initial any    `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// StateDef declares one state. Hooks are registry names.
type StateDef struct {
	Name      string  `json:"name"                yaml:"name"`
	Sensors   NameSet `json:"sensors,omitempty"   yaml:"sensors,omitempty"`
	Actuators NameSet `json:"actuators,omitempty" yaml:"actuators,omitempty"`
	OnEntry   string  `json:"onEntry,omitempty"   yaml:"onEntry,omitempty"`
	Main      string  `json:"main,omitempty"      yaml:"main,omitempty"`
	OnExit    string  `json:"onExit,omitempty"    yaml:"onExit,omitempty"`
}

// TransitionDef declares one transition. Transitions leaving the same state
// are evaluated in the order they appear. When lists predicate names that
// must all hold; a leading "!" negates one. An empty When always fires.
type TransitionDef struct {
	From  string   `json:"from"            yaml:"from"`
	To    string   `json:"to"              yaml:"to"`
	When  []string `json:"when,omitempty"  yaml:"when,omitempty"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
}

// NameSet is a snapshot name list that tells an absent key (undeclared) from
// an empty list (declared empty).
type NameSet struct {
	Declared bool
	Names    []string
}

// Names declares a NameSet.
func Names(names ...string) NameSet {
	return NameSet{Declared: true, Names: names}
}

func (n *NameSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}

	n.Declared = true
	n.Names = names

	return nil
}

func (n NameSet) MarshalYAML() (any, error) {
	if n.Names == nil {
		return []string{}, nil
	}

	return n.Names, nil
}

// IsZero reports an undeclared set, so omitempty drops it.
func (n NameSet) IsZero() bool {
	return !n.Declared
}

// LoadDefinition parses and validates a YAML definition.
func LoadDefinition(data []byte) (*Definition, error) {
	var def Definition

	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// LoadDefinitionFile reads a definition from disk.
func LoadDefinitionFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %q: %w", path, err)
	}

	return LoadDefinition(data)
}

// LoadDefinitionFS reads a definition from a filesystem such as embed.FS.
func LoadDefinitionFS(fsys fs.FS, path string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition from FS: %w", err)
	}

	return LoadDefinition(data)
}

// YAML renders the definition.
func (d *Definition) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// SuspendState returns the suspend root, defaulting to the initial state.
func (d *Definition) SuspendState() string {
	if d.Suspend == "" {
		return d.Initial
	}

	return d.Suspend
}

// ExitState returns the exit root, defaulting to the suspend root.
func (d *Definition) ExitState() string {
	if d.Exit == "" {
		return d.SuspendState()
	}

	return d.Exit
}

// State returns the named state definition.
func (d *Definition) State(name string) (StateDef, bool) {
	for _, s := range d.States {
		if s.Name == name {
			return s, true
		}
	}

	return StateDef{}, false
}

// TransitionsFrom returns the transitions leaving state, in evaluation order.
func (d *Definition) TransitionsFrom(state string) []TransitionDef {
	var out []TransitionDef

	for _, t := range d.Transitions {
		if t.From == state {
			out = append(out, t)
		}
	}

	return out
}

// Validate checks the definition's structure. Registry names are checked by
// Build. All problems are reported together.
func (d *Definition) Validate() error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, ErrNameRequired)
	}

	if len(d.States) == 0 {
		errs = append(errs, ErrStateRequired)
	}

	seen := make(map[string]bool, len(d.States))

	for i, s := range d.States {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("state %d: %w", i, ErrStateNameRequired))

			continue
		}

		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateState, s.Name))
		}

		seen[s.Name] = true
	}

	if d.Initial == "" {
		errs = append(errs, ErrInitialRequired)
	}

	for _, root := range []struct{ role, name string }{
		{"initial", d.Initial},
		{"suspend", d.Suspend},
		{"exit", d.Exit},
	} {
		if root.name != "" && !seen[root.name] {
			errs = append(errs, fmt.Errorf("%s: %w: %s", root.role, ErrUnknownState, root.name))
		}
	}

	for i, t := range d.Transitions {
		if !seen[t.From] {
			errs = append(errs, fmt.Errorf("transition %d: from: %w: %q", i, ErrUnknownState, t.From))
		}

		if !seen[t.To] {
			errs = append(errs, fmt.Errorf("transition %d: to: %w: %q", i, ErrUnknownState, t.To))
		}
	}

	externals := make(map[string]bool, len(d.Externals))

	for i, e := range d.Externals {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("external %d: %w", i, ErrExternalNameMissing))

			continue
		}

		if externals[e.Name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateExternal, e.Name))
		}

		externals[e.Name] = true

		if _, err := e.Value(); err != nil {
			errs = append(errs, fmt.Errorf("external %s: %w", e.Name, err))
		}
	}

	return errors.Join(errs...)
}

// Value returns the initial value converted to the declared type. A missing
// initial value yields the type's zero value.
func (e ExternalDef) Value() (any, error) {
	switch e.Type {
	case TypeAny:
		return e.Initial, nil
	case TypeBool:
		if e.Initial == nil {
			return false, nil
		}

		if v, ok := e.Initial.(bool); ok {
			return v, nil
		}
	case TypeInt:
		if e.Initial == nil {
			return 0, nil
		}

		if v, ok := e.Initial.(int); ok {
			return v, nil
		}
	case TypeFloat:
		switch v := e.Initial.(type) {
		case nil:
			return 0.0, nil
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
	case TypeString:
		if e.Initial == nil {
			return "", nil
		}

		if v, ok := e.Initial.(string); ok {
			return v, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}

	return nil, fmt.Errorf("%w: %v is %T, want %s", ErrBadInitialValue, e.Initial, e.Initial, e.Type)
}
