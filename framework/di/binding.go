package di

import "reflect"

// ── Targets ──────────────────────────────────────────────────────────────────

// targetKind discriminates what a binding resolves to.
type targetKind int

const (
	targetValue    targetKind = iota // a fixed value, shared by identity
	targetExternal                   // a caller-owned variable, referenced
	targetImpl                       // an implementation type, constructed
	targetFactory                    // a factory callable
)

// ── Binding ──────────────────────────────────────────────────────────────────

// Binding is an immutable descriptor mapping one or more abstract keys to a
// single target plus a lifetime scope. Bindings are declared with the Bind*
// builders and fed into an Injector (or a Registry) as plain data.
//
//	di.BindValue(42)                                   // int → 42
//	di.BindType[Clock, *SystemClock]()                 // interface → impl
//	di.BindExternal(&counter)                          // caller-owned variable
//	di.BindFactory(newConn, di.InScope(di.Singleton))  // factory, cached
type Binding struct {
	keys     []Key
	name     string
	scope    Scope
	session  string
	override bool

	kind    targetKind
	ref     reflect.Value // targetValue / targetExternal: pointer to the instance
	impl    reflect.Type  // targetImpl: type to construct
	factory func(*Resolver) (any, bool, error)
}

// Keys returns the abstract keys this binding serves.
func (b Binding) Keys() []Key {
	out := make([]Key, len(b.keys))
	copy(out, b.keys)
	return out
}

// Scope returns the binding's lifetime scope.
func (b Binding) Scope() Scope { return b.scope }

// apply runs the options and stamps the name tag onto every key.
func (b Binding) apply(opts []BindOption) Binding {
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}
	if b.name != "" {
		for i := range b.keys {
			b.keys[i].Name = b.name
		}
	}
	return b
}

// ── Options ──────────────────────────────────────────────────────────────────

// BindOption customizes a Binding under construction.
type BindOption func(*Binding)

// Named tags the binding so it only satisfies requests carrying the same
// name. The tag applies to every key of the binding, including As aliases.
func Named(name string) BindOption {
	return func(b *Binding) { b.name = name }
}

// InScope sets the binding's lifetime scope. The default for constructed
// targets is Unique.
func InScope(s Scope) BindOption {
	return func(b *Binding) { b.scope = s }
}

// InSession places the binding in the named session's scope: one cached
// instance while the session is open, absent outside it.
func InSession(id string) BindOption {
	return func(b *Binding) {
		b.scope = SessionScoped
		b.session = id
	}
}

// Override marks the binding as an explicit re-bind: when registries are
// composed it replaces an earlier binding for the same key instead of
// failing with DuplicateBindingError.
func Override() BindOption {
	return func(b *Binding) { b.override = true }
}

// As additionally exposes the binding under the abstract type I. With a
// caching scope (Shared, Singleton, session) every exposed interface sees
// the one shared instance.
func As[I any]() BindOption {
	return func(b *Binding) {
		b.keys = append(b.keys, Key{Type: TypeOf[I]()})
	}
}

// ── Builders ─────────────────────────────────────────────────────────────────

// BindValue binds T to a fixed value. Value bindings behave like external
// ones: the engine never constructs, and every resolution of the key sees
// the same instance.
func BindValue[T any](v T, opts ...BindOption) Binding {
	p := new(T)
	*p = v
	b := Binding{
		keys:  []Key{KeyOf[T]()},
		scope: External,
		kind:  targetValue,
		ref:   reflect.ValueOf(p),
	}
	return b.apply(opts)
}

// BindExternal binds T to a caller-owned variable. Resolution reads through
// ptr, so mutations of the original are visible to later creates, and
// CreateRef hands back ptr itself. The referenced variable must outlive
// every borrower.
func BindExternal[T any](ptr *T, opts ...BindOption) Binding {
	b := Binding{
		keys:  []Key{KeyOf[T]()},
		scope: External,
		kind:  targetExternal,
		ref:   reflect.ValueOf(ptr),
	}
	return b.apply(opts)
}

// Bind declares scope, name, or aliases for a type constructed as itself.
// A type with no binding at all is already constructible directly; Bind is
// only needed to change its lifetime or expose it under an interface.
func Bind[T any](opts ...BindOption) Binding {
	b := Binding{
		keys:  []Key{KeyOf[T]()},
		scope: Unique,
		kind:  targetImpl,
		impl:  TypeOf[T](),
	}
	return b.apply(opts)
}

// BindType binds the abstract type A to the implementation type Impl. Impl
// must match the result type of its declared constructor exactly (use *Impl
// when the constructor returns a pointer).
func BindType[A any, Impl any](opts ...BindOption) Binding {
	b := Binding{
		keys:  []Key{KeyOf[A]()},
		scope: Unique,
		kind:  targetImpl,
		impl:  TypeOf[Impl](),
	}
	return b.apply(opts)
}

// BindFactory binds T to a factory. The factory receives a Resolver sharing
// the caller's resolution context, so it may pull further dependencies via
// di.Resolve. A nil result of a nilable kind signals "do not construct" and
// propagates as an absent value rather than an error.
func BindFactory[T any](fn func(*Resolver) (T, error), opts ...BindOption) Binding {
	b := Binding{
		keys:  []Key{KeyOf[T]()},
		scope: Unique,
		kind:  targetFactory,
		factory: func(r *Resolver) (any, bool, error) {
			v, err := fn(r)
			if err != nil {
				return nil, false, err
			}
			rv := reflect.ValueOf(&v).Elem()
			if nilableKind(rv.Kind()) && rv.IsNil() {
				return nil, false, nil
			}
			return v, true, nil
		},
	}
	return b.apply(opts)
}

// nilableKind reports whether a kind has a nil representation able to carry
// an absent value.
func nilableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
