//nolint:lll // Long validation messages
package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amp-labs/ringlet/fsm/factory"
)

// Severity defines the severity level of a validation issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// RuleResult contains both errors and warnings from a rule check.
type RuleResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Rule checks a definition for one kind of issue.
type Rule interface {
	Name() string
	Severity() Severity
	Check(def *factory.Definition) RuleResult
}

// Lookup reports which names a registry can resolve. *factory.Registry
// satisfies it for any variable type.
type Lookup interface {
	HasPredicate(name string) bool
	HasHook(name string) bool
}

// DefaultRules returns the standard set of validation rules.
func DefaultRules() []Rule {
	return []Rule{
		&unreachableStateRule{},
		&undeclaredSnapshotRule{},
		&shadowedTransitionRule{},
		&duplicateTransitionRule{},
		&deadEndRule{},
		&unusedExternalRule{},
	}
}

// RulesFor returns the default rules plus a check that every predicate and
// hook name resolves in lookup.
func RulesFor(lookup Lookup) []Rule {
	return append(DefaultRules(), &registryRule{lookup: lookup})
}

// unreachableStateRule flags states no root can reach.
type unreachableStateRule struct{}

func (r *unreachableStateRule) Name() string       { return "UnreachableState" }
func (r *unreachableStateRule) Severity() Severity { return SeverityError }

func (r *unreachableStateRule) Check(def *factory.Definition) RuleResult {
	var errs []ValidationError

	reachable := reachableStates(def)

	for _, state := range def.States {
		if !reachable[state.Name] {
			errs = append(errs, ValidationError{
				Code:     "UNREACHABLE_STATE",
				Message:  fmt.Sprintf("State '%s' cannot be reached from any root state", state.Name),
				Location: stateLocation(state.Name),
				Fix:      RemoveUnreachableState(state.Name),
			})
		}
	}

	return RuleResult{Errors: errs}
}

func reachableStates(def *factory.Definition) map[string]bool {
	reachable := make(map[string]bool)

	var queue []string

	for _, root := range []string{def.Initial, def.SuspendState(), def.ExitState()} {
		if root != "" && !reachable[root] {
			reachable[root] = true
			queue = append(queue, root)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, t := range def.TransitionsFrom(current) {
			if !reachable[t.To] {
				reachable[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}

	return reachable
}

// undeclaredSnapshotRule flags sensors and actuators naming no external.
type undeclaredSnapshotRule struct{}

func (r *undeclaredSnapshotRule) Name() string       { return "UndeclaredSnapshot" }
func (r *undeclaredSnapshotRule) Severity() Severity { return SeverityError }

func (r *undeclaredSnapshotRule) Check(def *factory.Definition) RuleResult {
	var errs []ValidationError

	externals := make(map[string]bool, len(def.Externals))
	for _, e := range def.Externals {
		externals[e.Name] = true
	}

	proposed := make(map[string]bool)

	for _, state := range def.States {
		for _, set := range []struct {
			kind  string
			names factory.NameSet
		}{{"sensor", state.Sensors}, {"actuator", state.Actuators}} {
			for _, name := range set.names.Names {
				if externals[name] {
					continue
				}

				issue := ValidationError{
					Code:     "UNDECLARED_SNAPSHOT",
					Message:  fmt.Sprintf("State '%s' declares %s '%s' but no such external exists", state.Name, set.kind, name),
					Location: stateLocation(state.Name),
				}

				// One fix per missing name.
				if !proposed[name] {
					issue.Fix = AddExternal(name)
					proposed[name] = true
				}

				errs = append(errs, issue)
			}
		}
	}

	return RuleResult{Errors: errs}
}

// shadowedTransitionRule warns about transitions listed after an
// unconditional one from the same state: first match wins, so they never fire.
type shadowedTransitionRule struct{}

func (r *shadowedTransitionRule) Name() string       { return "ShadowedTransition" }
func (r *shadowedTransitionRule) Severity() Severity { return SeverityWarning }

func (r *shadowedTransitionRule) Check(def *factory.Definition) RuleResult {
	var warnings []ValidationWarning

	unconditional := make(map[string]int)

	for i, t := range def.Transitions {
		if first, ok := unconditional[t.From]; ok {
			warnings = append(warnings, ValidationWarning{
				Code:     "SHADOWED_TRANSITION",
				Message:  fmt.Sprintf("Transition %d from '%s' to '%s' can never fire: transition %d always fires first", i, t.From, t.To, first),
				Location: Location{State: t.From, Transition: i},
				Fix:      RemoveShadowedTransition(t),
			})

			continue
		}

		if isUnconditional(t) {
			unconditional[t.From] = i
		}
	}

	return RuleResult{Warnings: warnings}
}

func isUnconditional(t factory.TransitionDef) bool {
	for _, w := range t.When {
		if strings.TrimSpace(w) != factory.PredicateAlways {
			return false
		}
	}

	return true
}

// duplicateTransitionRule warns about repeated from/to/when triples.
type duplicateTransitionRule struct{}

func (r *duplicateTransitionRule) Name() string       { return "DuplicateTransition" }
func (r *duplicateTransitionRule) Severity() Severity { return SeverityWarning }

func (r *duplicateTransitionRule) Check(def *factory.Definition) RuleResult {
	var warnings []ValidationWarning

	seen := make(map[string]bool)

	for i, t := range def.Transitions {
		key := transitionKey(t)
		if seen[key] {
			warnings = append(warnings, ValidationWarning{
				Code:     "DUPLICATE_TRANSITION",
				Message:  fmt.Sprintf("Duplicate transition from '%s' to '%s' when [%s]", t.From, t.To, strings.Join(t.When, ", ")),
				Location: Location{State: t.From, Transition: i},
				Fix:      RemoveDuplicateTransition(t),
			})
		}

		seen[key] = true
	}

	return RuleResult{Warnings: warnings}
}

func transitionKey(t factory.TransitionDef) string {
	return t.From + "->" + t.To + ":" + strings.Join(t.When, "&")
}

// deadEndRule warns about states other than the exit that have no way out.
type deadEndRule struct{}

func (r *deadEndRule) Name() string       { return "DeadEnd" }
func (r *deadEndRule) Severity() Severity { return SeverityWarning }

func (r *deadEndRule) Check(def *factory.Definition) RuleResult {
	var warnings []ValidationWarning

	exit := def.ExitState()
	reachable := reachableStates(def)

	// Unreachable states are reported by unreachableStateRule.
	for _, state := range def.States {
		if state.Name == exit || !reachable[state.Name] || len(def.TransitionsFrom(state.Name)) > 0 {
			continue
		}

		warnings = append(warnings, ValidationWarning{
			Code:     "DEAD_END_STATE",
			Message:  fmt.Sprintf("State '%s' has no outgoing transitions and is not the exit state '%s'", state.Name, exit),
			Location: stateLocation(state.Name),
			Fix:      AddMissingTransition(state.Name, exit),
		})
	}

	return RuleResult{Warnings: warnings}
}

// unusedExternalRule warns about externals no state latches or publishes.
type unusedExternalRule struct{}

func (r *unusedExternalRule) Name() string       { return "UnusedExternal" }
func (r *unusedExternalRule) Severity() Severity { return SeverityWarning }

func (r *unusedExternalRule) Check(def *factory.Definition) RuleResult {
	used := make(map[string]bool)
	anyDeclared := false

	for _, state := range def.States {
		if !state.Sensors.Declared && !state.Actuators.Declared {
			continue
		}

		anyDeclared = true

		for _, name := range slices.Concat(state.Sensors.Names, state.Actuators.Names) {
			used[name] = true
		}
	}

	// Without any declarations every external is exchanged implicitly.
	if !anyDeclared {
		return RuleResult{}
	}

	var warnings []ValidationWarning

	for _, e := range def.Externals {
		if !used[e.Name] {
			warnings = append(warnings, ValidationWarning{
				Code:     "UNUSED_EXTERNAL",
				Message:  fmt.Sprintf("External '%s' is never a sensor or actuator", e.Name),
				Location: Location{Transition: -1},
			})
		}
	}

	return RuleResult{Warnings: warnings}
}

// registryRule flags predicate and hook names the registry cannot resolve.
type registryRule struct {
	lookup Lookup
}

func (r *registryRule) Name() string       { return "RegistryNames" }
func (r *registryRule) Severity() Severity { return SeverityError }

func (r *registryRule) Check(def *factory.Definition) RuleResult {
	var errs []ValidationError

	for _, state := range def.States {
		for _, hook := range []string{state.OnEntry, state.Main, state.OnExit} {
			if hook != "" && !r.lookup.HasHook(hook) {
				errs = append(errs, ValidationError{
					Code:     "UNKNOWN_HOOK",
					Message:  fmt.Sprintf("State '%s' uses unregistered hook '%s'", state.Name, hook),
					Location: stateLocation(state.Name),
				})
			}
		}
	}

	for i, t := range def.Transitions {
		for _, pred := range t.When {
			if !r.lookup.HasPredicate(pred) {
				errs = append(errs, ValidationError{
					Code:     "UNKNOWN_PREDICATE",
					Message:  fmt.Sprintf("Transition %d from '%s' uses unregistered predicate '%s'", i, t.From, pred),
					Location: Location{State: t.From, Transition: i},
				})
			}
		}
	}

	return RuleResult{Errors: errs}
}
