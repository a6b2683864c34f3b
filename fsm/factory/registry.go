package factory

import (
	"fmt"
	"strings"

	"facette.io/natsort"
	"github.com/amp-labs/ringlet/fsm"
)

// PredicateAlways is always registered and always fires.
const PredicateAlways = "always"

// Registry maps the names used by definitions to predicates and hooks of
// one machine family.
type Registry[F any] struct {
	predicates map[string]fsm.Predicate[F]
	hooks      map[string]fsm.Hook[F]
}

// NewRegistry creates a registry holding only PredicateAlways.
func NewRegistry[F any]() *Registry[F] {
	r := &Registry[F]{
		predicates: make(map[string]fsm.Predicate[F]),
		hooks:      make(map[string]fsm.Hook[F]),
	}

	r.RegisterPredicate(PredicateAlways, fsm.Always[F]())

	return r
}

// RegisterPredicate adds or replaces a predicate.
func (r *Registry[F]) RegisterPredicate(name string, pred fsm.Predicate[F]) *Registry[F] {
	r.predicates[name] = pred

	return r
}

// RegisterHook adds or replaces a hook.
func (r *Registry[F]) RegisterHook(name string, hook fsm.Hook[F]) *Registry[F] {
	r.hooks[name] = hook

	return r
}

// Predicate resolves one predicate name. A leading "!" negates it.
func (r *Registry[F]) Predicate(name string) (fsm.Predicate[F], error) {
	negate := strings.HasPrefix(name, "!")
	base := strings.TrimSpace(strings.TrimPrefix(name, "!"))

	pred, ok := r.predicates[base]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPredicate, base)
	}

	if negate {
		return fsm.Not(pred), nil
	}

	return pred, nil
}

// Guard resolves a conjunction of predicate names. An empty list always fires.
func (r *Registry[F]) Guard(names []string) (fsm.Predicate[F], error) {
	if len(names) == 0 {
		return r.predicates[PredicateAlways], nil
	}

	if len(names) == 1 {
		return r.Predicate(names[0])
	}

	preds := make([]fsm.Predicate[F], 0, len(names))

	for _, name := range names {
		pred, err := r.Predicate(name)
		if err != nil {
			return nil, err
		}

		preds = append(preds, pred)
	}

	return fsm.All(preds...), nil
}

// Hook resolves a hook name. The empty name is no hook.
func (r *Registry[F]) Hook(name string) (fsm.Hook[F], error) {
	if name == "" {
		return nil, nil
	}

	hook, ok := r.hooks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHook, name)
	}

	return hook, nil
}

// HasPredicate reports whether name, without negation, is registered.
func (r *Registry[F]) HasPredicate(name string) bool {
	_, ok := r.predicates[strings.TrimSpace(strings.TrimPrefix(name, "!"))]

	return ok
}

// HasHook reports whether name is registered.
func (r *Registry[F]) HasHook(name string) bool {
	_, ok := r.hooks[name]

	return ok
}

// PredicateNames lists registered predicates in natural order.
func (r *Registry[F]) PredicateNames() []string {
	return sortedKeys(r.predicates)
}

// HookNames lists registered hooks in natural order.
func (r *Registry[F]) HookNames() []string {
	return sortedKeys(r.hooks)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	natsort.Sort(keys)

	return keys
}

// BindExternals registers, for every bool external of def without a
// predicate of the same name, a predicate reporting the cell's value.
func (r *Registry[F]) BindExternals(def *Definition) *Registry[F] {
	for _, e := range def.Externals {
		if e.Type != TypeBool || r.HasPredicate(e.Name) {
			continue
		}

		cell := fsm.NewVariable[bool](e.Name)

		r.RegisterPredicate(e.Name, func(ctx *fsm.Context[F]) bool {
			return cell.Get(ctx.External)
		})
	}

	return r
}
