// Package visualizer renders fsm machines and factory definitions as Mermaid
// state diagrams.
//
//nolint:varnamelen // short names idiomatic
package visualizer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/amp-labs/ringlet/fsm"
	"github.com/amp-labs/ringlet/fsm/factory"
)

// Visualizer errors.
var (
	ErrMachineNil     = errors.New("machine cannot be nil")
	ErrDefinitionNil  = errors.New("definition cannot be nil")
	ErrNoInitialState = errors.New("definition must have an initial state")
)

var plainID = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type node struct {
	name      string
	sensors   fsm.Names
	actuators fsm.Names
}

type edge struct {
	from, to string
	index    int
	label    string
}

// diagram is the renderer's view of a state graph, shared by machines and
// definitions.
type diagram struct {
	initial   string
	suspend   string
	exit      string
	current   string
	suspended string
	nodes     []node
	edges     []edge
}

// Machine renders the reachable graph of m with the default options.
func Machine[F any](m *fsm.Machine[F]) (string, error) {
	return MachineWithOptions(m, DefaultOptions())
}

// MachineWithOptions renders the reachable graph of m. States appear in
// natural name order; edges keep their evaluation order.
func MachineWithOptions[F any](m *fsm.Machine[F], opts Options) (string, error) {
	if m == nil {
		return "", ErrMachineNil
	}

	d := diagram{
		initial: m.Initial().Name(),
		suspend: m.SuspendState().Name(),
		exit:    m.Exit().Name(),
		current: m.Current().Name(),
	}

	if s := m.Suspended(); s != nil {
		d.suspended = s.Name()
	}

	for _, s := range m.AllStates() {
		if s == m.InitialPrevious() && !isRoot(m, s) {
			continue
		}

		d.nodes = append(d.nodes, node{name: s.Name(), sensors: s.Sensors(), actuators: s.Actuators()})

		for i, t := range s.Transitions() {
			d.edges = append(d.edges, edge{from: s.Name(), to: t.Target.Name(), index: i, label: t.Label})
		}
	}

	return render(d, opts), nil
}

func isRoot[F any](m *fsm.Machine[F], s *fsm.State[F]) bool {
	return s == m.Initial() || s == m.SuspendState() || s == m.Exit() || s == m.Current()
}

// Definition renders a factory definition with the default options.
func Definition(def *factory.Definition) (string, error) {
	return DefinitionWithOptions(def, DefaultOptions())
}

// DefinitionFromFile loads a definition from a file and renders it.
func DefinitionFromFile(path string) (string, error) {
	def, err := factory.LoadDefinitionFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to load definition: %w", err)
	}

	return Definition(def)
}

// DefinitionWithOptions renders a factory definition in declaration order.
// Unlabelled transitions are labelled with their guard names.
func DefinitionWithOptions(def *factory.Definition, opts Options) (string, error) {
	if def == nil {
		return "", ErrDefinitionNil
	}

	if def.Initial == "" {
		return "", ErrNoInitialState
	}

	d := diagram{
		initial: def.Initial,
		suspend: def.SuspendState(),
		exit:    def.ExitState(),
	}

	for _, s := range def.States {
		d.nodes = append(d.nodes, node{name: s.Name, sensors: names(s.Sensors), actuators: names(s.Actuators)})
	}

	counts := make(map[string]int)

	for _, t := range def.Transitions {
		label := t.Label
		if label == "" {
			label = strings.Join(t.When, " && ")
		}

		d.edges = append(d.edges, edge{from: t.From, to: t.To, index: counts[t.From], label: label})
		counts[t.From]++
	}

	return render(d, opts), nil
}

func names(set factory.NameSet) fsm.Names {
	if !set.Declared {
		return fsm.Names{}
	}

	return fsm.Declare(set.Names...)
}

func render(d diagram, opts Options) string {
	var sb strings.Builder

	ids := assignIDs(d.nodes)
	id := func(name string) string {
		if v, ok := ids[name]; ok {
			return v
		}

		return name
	}

	if opts.Fenced {
		sb.WriteString("```mermaid\n")
	}

	sb.WriteString("stateDiagram-v2\n")

	if opts.Direction != "" {
		fmt.Fprintf(&sb, "    direction %s\n", opts.Direction)
	}

	for _, n := range d.nodes {
		if ids[n.name] != n.name {
			fmt.Fprintf(&sb, "    state %q as %s\n", n.name, ids[n.name])
		}
	}

	fmt.Fprintf(&sb, "    [*] --> %s\n", id(d.initial))

	if opts.ShowSnapshots {
		for _, n := range d.nodes {
			if n.sensors.Declared() {
				fmt.Fprintf(&sb, "    %s : sensors %s\n", id(n.name), describe(n.sensors))
			}

			if n.actuators.Declared() {
				fmt.Fprintf(&sb, "    %s : actuators %s\n", id(n.name), describe(n.actuators))
			}
		}
	}

	for _, e := range d.edges {
		label := ""
		if opts.ShowLabels {
			label = clean(e.label)
		}

		if opts.ShowOrder {
			label = strings.TrimSpace(fmt.Sprintf("#%d %s", e.index, label))
		}

		if label != "" {
			fmt.Fprintf(&sb, "    %s --> %s : %s\n", id(e.from), id(e.to), label)
		} else {
			fmt.Fprintf(&sb, "    %s --> %s\n", id(e.from), id(e.to))
		}
	}

	fmt.Fprintf(&sb, "    %s --> [*]\n", id(d.exit))

	writeClasses(&sb, d, opts, id)

	if opts.Fenced {
		sb.WriteString("```\n")
	}

	return sb.String()
}

func writeClasses(sb *strings.Builder, d diagram, opts Options, id func(string) string) {
	highlighted := make(map[string]bool, len(opts.HighlightPath))
	for _, name := range opts.HighlightPath {
		highlighted[name] = true
	}

	classes := make(map[string][]string)
	order := []string{"highlighted", "current", "suspended", "suspendState", "exitState"}

	for _, n := range d.nodes {
		switch {
		case highlighted[n.name]:
			classes["highlighted"] = append(classes["highlighted"], id(n.name))
		case opts.HighlightCurrent && n.name == d.current:
			classes["current"] = append(classes["current"], id(n.name))
		case opts.HighlightCurrent && n.name == d.suspended:
			classes["suspended"] = append(classes["suspended"], id(n.name))
		case n.name == d.exit:
			classes["exitState"] = append(classes["exitState"], id(n.name))
		case n.name == d.suspend && n.name != d.initial:
			classes["suspendState"] = append(classes["suspendState"], id(n.name))
		}
	}

	if len(classes) == 0 {
		return
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")
	sb.WriteString("    classDef current fill:#e1f5ff,stroke:#01579b,stroke-width:3px\n")
	sb.WriteString("    classDef suspended fill:#eeeeee,stroke:#616161,stroke-dasharray:4\n")
	sb.WriteString("    classDef suspendState fill:#fce4ec,stroke:#880e4f,stroke-width:2px\n")
	sb.WriteString("    classDef exitState fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px\n")

	for _, class := range order {
		if members := classes[class]; len(members) > 0 {
			fmt.Fprintf(sb, "    class %s %s\n", strings.Join(members, ","), class)
		}
	}
}

// assignIDs keeps names that are valid Mermaid identifiers and numbers the rest.
func assignIDs(nodes []node) map[string]string {
	ids := make(map[string]string, len(nodes))

	for i, n := range nodes {
		if plainID.MatchString(n.name) {
			ids[n.name] = n.name
		} else {
			ids[n.name] = fmt.Sprintf("state_%d", i)
		}
	}

	return ids
}

func describe(set fsm.Names) string {
	if set.Len() == 0 {
		return "(none)"
	}

	return strings.Join(set.Slice(), ", ")
}

func clean(label string) string {
	return strings.Join(strings.Fields(label), " ")
}
