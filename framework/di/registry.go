package di

// ── Registry ─────────────────────────────────────────────────────────────────

// Registry is the immutable, queryable binding table mapping keys to their
// binding descriptors. Absence of a binding is a meaningful result: the
// resolver falls back to constructing the requested type directly.
type Registry struct {
	entries map[Key]*Binding
	order   []Key // key insertion order, for deterministic validation
}

// NewRegistry builds a registry from a list of binding declarations in a
// single linear pass. A second binding for an already-present key fails
// with DuplicateBindingError unless it carries the Override option.
func NewRegistry(bindings ...Binding) (*Registry, error) {
	r := &Registry{entries: make(map[Key]*Binding, len(bindings))}
	for i := range bindings {
		if err := r.add(&bindings[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Merge composes registries into a new one. Later registries' entries
// replace identical keys only via explicit Override re-binding; otherwise a
// collision is a DuplicateBindingError. Insertion order is preserved.
func Merge(registries ...*Registry) (*Registry, error) {
	out := &Registry{entries: make(map[Key]*Binding)}
	for _, r := range registries {
		if r == nil {
			continue
		}
		seen := make(map[*Binding]bool)
		for _, k := range r.order {
			b := r.entries[k]
			if seen[b] {
				continue // multi-key binding already merged
			}
			seen[b] = true
			if err := out.add(b); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// add validates b and registers it under each of its keys.
func (r *Registry) add(b *Binding) error {
	if len(b.keys) == 0 {
		return InvalidBindingError{Reason: "binding declares no keys"}
	}
	if b.scope == SessionScoped && b.session == "" {
		return InvalidBindingError{Key: b.keys[0], Reason: "session scope requires a session id"}
	}
	for _, k := range b.keys {
		if _, exists := r.entries[k]; exists {
			if !b.override {
				return DuplicateBindingError{Key: k}
			}
		} else {
			r.order = append(r.order, k)
		}
		r.entries[k] = b
	}
	return nil
}

// Lookup returns the active binding for k, if any.
func (r *Registry) Lookup(k Key) (*Binding, bool) {
	b, ok := r.entries[k]
	return b, ok
}

// Keys returns every bound key in insertion order.
func (r *Registry) Keys() []Key {
	out := make([]Key, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of bound keys.
func (r *Registry) Len() int { return len(r.entries) }
