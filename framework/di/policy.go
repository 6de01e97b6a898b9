package di

import "reflect"

// ── Graph ────────────────────────────────────────────────────────────────────

// Graph gives policies read access to the binding registry and constructor
// metadata, plus a type-level walker over the static dependency graph.
// Nothing here constructs an instance.
type Graph struct {
	registry *Registry
	types    *Introspector
}

// Registry returns the binding table under validation.
func (g *Graph) Registry() *Registry { return g.registry }

// Constructor returns the constructor that would build t.
func (g *Graph) Constructor(t reflect.Type) (*Constructor, error) {
	return g.types.Select(t)
}

// dependencies returns the parameter list a binding statically pulls in.
// Values, externals, and factories have no static dependency information.
func (g *Graph) dependencies(b *Binding) ([]Param, error) {
	if b.kind != targetImpl {
		return nil, nil
	}
	c, err := g.types.Select(b.impl)
	if err != nil {
		return nil, err
	}
	return c.Params, nil
}

// Walk traverses the static dependency graph reachable from k, calling
// onEdge for every (parent, parameter) edge. A cycle aborts the walk with
// CircularDependencyError; constructor selection errors propagate.
func (g *Graph) Walk(k Key, onEdge func(parent Key, p Param) error) error {
	return g.walk(k, nil, make(map[Key]bool), onEdge)
}

func (g *Graph) walk(k Key, stack []Key, done map[Key]bool, onEdge func(Key, Param) error) error {
	for _, s := range stack {
		if s == k {
			return CircularDependencyError{Key: k, Path: append(append([]Key(nil), stack...), k)}
		}
	}
	if done[k] {
		return nil
	}
	done[k] = true

	var params []Param
	if b, bound := g.registry.Lookup(k); bound {
		ps, err := g.dependencies(b)
		if err != nil {
			return err
		}
		params = ps
	} else if k.Name == "" && k.Type.Kind() != reflect.Interface {
		c, err := g.types.Select(k.Type)
		if err != nil {
			return err
		}
		params = c.Params
	} else {
		// Unbound interface or named key: existence policy reports it.
		return nil
	}

	stack = append(stack, k)
	for _, p := range params {
		if onEdge != nil {
			if err := onEdge(k, p); err != nil {
				return err
			}
		}
		if err := g.walk(p.key(), stack, done, onEdge); err != nil {
			return err
		}
	}
	return nil
}

// namedBindings counts bindings of t carrying a name tag.
func (g *Graph) namedBindings(t reflect.Type) int {
	n := 0
	for _, k := range g.registry.Keys() {
		if k.Type == t && k.Name != "" {
			n++
		}
	}
	return n
}

// ── Policies ─────────────────────────────────────────────────────────────────

// Policy is one pluggable validator run by Injector.Validate before any
// construction side effect. A failed policy aborts with a descriptive error
// identifying the violating key.
type Policy interface {
	Name() string
	Check(g *Graph) error
}

// DefaultPolicies returns the full built-in validator set, in the order
// they run.
func DefaultPolicies() []Policy {
	return []Policy{
		CheckBindingExistence{},
		CheckCircularDependencies{},
		CheckCreationOwnership{},
		CheckArgumentSafety{},
	}
}

// CheckBindingExistence fails when a reachable dependency has no binding
// and cannot be default-constructed: interface-typed parameters, and named
// parameters, always require an explicit binding.
type CheckBindingExistence struct{}

// Name implements Policy.
func (CheckBindingExistence) Name() string { return "binding-existence" }

// Check implements Policy.
func (p CheckBindingExistence) Check(g *Graph) error {
	for _, k := range g.registry.Keys() {
		b, _ := g.registry.Lookup(k)
		if b.kind == targetImpl && k.Type.Kind() == reflect.Interface && !b.impl.Implements(k.Type) {
			return InvalidBindingError{Key: k, Reason: b.impl.String() + " does not implement " + k.Type.String()}
		}
	}
	for _, root := range g.registry.Keys() {
		err := g.Walk(root, func(parent Key, prm Param) error {
			k := prm.key()
			if _, bound := g.registry.Lookup(k); bound {
				return nil
			}
			if prm.Type.Kind() == reflect.Interface && prm.Type.NumMethod() == 0 {
				return nil // argument-safety reports empty interfaces
			}
			if prm.Type.Kind() == reflect.Interface || prm.Name != "" {
				return MissingBindingError{Key: k, Path: []Key{parent}}
			}
			return nil
		})
		if err != nil {
			if _, cyclic := err.(CircularDependencyError); cyclic {
				continue // the cycle policy owns this report
			}
			return err
		}
	}
	return nil
}

// CheckCircularDependencies detects cycles in the static type graph, before
// any construction runs. Factory bindings are opaque here; cycles routed
// through a factory are still caught inline during resolution.
type CheckCircularDependencies struct{}

// Name implements Policy.
func (CheckCircularDependencies) Name() string { return "circular-dependencies" }

// Check implements Policy.
func (p CheckCircularDependencies) Check(g *Graph) error {
	for _, root := range g.registry.Keys() {
		if err := g.Walk(root, nil); err != nil {
			return err
		}
	}
	return nil
}

// CheckCreationOwnership fails on scope/ownership mismatches that would
// hand out a reference outliving its instance. The static half rejects
// External-scoped bindings with a constructing target (there is nothing
// external to reference); the inline half lives in CreateRef, which refuses
// Unique-, Shared-, and session-scoped bindings.
type CheckCreationOwnership struct{}

// Name implements Policy.
func (CheckCreationOwnership) Name() string { return "creation-ownership" }

// Check implements Policy.
func (p CheckCreationOwnership) Check(g *Graph) error {
	seen := make(map[*Binding]bool)
	for _, k := range g.registry.Keys() {
		b, _ := g.registry.Lookup(k)
		if seen[b] {
			continue
		}
		seen[b] = true
		if b.scope == External && (b.kind == targetImpl || b.kind == targetFactory) {
			return OwnershipViolationError{Key: k, Scope: External}
		}
	}
	return nil
}

// refScope reports whether a non-owning reference may be taken for a
// binding of scope s: only caller-owned and injector-cached instances
// outlive the reference. Used inline by CreateRef.
func refScope(s Scope) bool {
	return s == External || s == Singleton
}

// CheckArgumentSafety fails when a constructor parameter cannot be matched
// to a binding unambiguously: empty-interface parameters match everything,
// and an unnamed parameter is ambiguous when its type is bound under
// several names and nothing else.
type CheckArgumentSafety struct{}

// Name implements Policy.
func (CheckArgumentSafety) Name() string { return "argument-safety" }

// Check implements Policy.
func (p CheckArgumentSafety) Check(g *Graph) error {
	for _, root := range g.registry.Keys() {
		err := g.Walk(root, func(parent Key, prm Param) error {
			if prm.Type.Kind() == reflect.Interface && prm.Type.NumMethod() == 0 {
				return AmbiguousArgumentError{
					Owner:  parent,
					Param:  prm,
					Reason: "an empty-interface parameter matches every binding",
				}
			}
			if prm.Name == "" {
				if _, bound := g.registry.Lookup(prm.key()); !bound && g.namedBindings(prm.Type) > 1 {
					return AmbiguousArgumentError{
						Owner:  parent,
						Param:  prm,
						Reason: "type is bound under multiple names; tag the parameter",
					}
				}
			}
			return nil
		})
		if err != nil {
			if _, cyclic := err.(CircularDependencyError); cyclic {
				continue
			}
			return err
		}
	}
	return nil
}
