package di

import "sync"

// ── Injector ─────────────────────────────────────────────────────────────────

// Injector is the constructed object-graph engine: an immutable binding
// registry, constructor metadata, and the scope stores governing instance
// identity. It is an explicitly owned value — build as many independent
// injectors per process as you need; they share no state.
type Injector struct {
	registry *Registry
	types    *Introspector
	policies []Policy

	singletons *singletonStore
	sessions   *sessionStore

	refMu sync.Mutex
	refs  map[*Binding]any // stable singleton reference boxes, see CreateRef
}

// ── Construction options ─────────────────────────────────────────────────────

// builder accumulates injector configuration before the registry is sealed.
type builder struct {
	bindings []Binding
	ctors    []any
	fixed    []fixedCtor
	modules  []Module
	policies []Policy
}

type fixedCtor struct {
	fn    any
	names []string
}

// Option configures an Injector under construction.
type Option func(*builder)

// Provide contributes binding declarations.
func Provide(bindings ...Binding) Option {
	return func(b *builder) { b.bindings = append(b.bindings, bindings...) }
}

// Constructors declares candidate constructor functions, each of the form
// func(deps...) T or func(deps...) (T, error).
func Constructors(fns ...any) Option {
	return func(b *builder) { b.ctors = append(b.ctors, fns...) }
}

// ConstructorFor fixes the constructor for fn's result type, bypassing
// arity-based selection. names tags parameters positionally ("" leaves a
// parameter unnamed).
func ConstructorFor(fn any, names ...string) Option {
	return func(b *builder) { b.fixed = append(b.fixed, fixedCtor{fn: fn, names: names}) }
}

// Modules registers modules; their bindings and constructors are collected
// in registration order, and BootModules run after construction.
func Modules(ms ...Module) Option {
	return func(b *builder) { b.modules = append(b.modules, ms...) }
}

// WithPolicies replaces the default validation policy set. Passing none
// disables build-time validation entirely (cycle detection still runs
// inline during resolution).
func WithPolicies(ps ...Policy) Option {
	return func(b *builder) { b.policies = ps }
}

// New builds an Injector: modules are expanded, constructor metadata is
// introspected, the registry is composed, the configured policies validate
// the static graph, and finally BootModules run. Any failure aborts with no
// construction side effect beyond the boot hooks already run.
func New(opts ...Option) (*Injector, error) {
	b := &builder{policies: DefaultPolicies()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	bindings := append([]Binding(nil), b.bindings...)
	ctors := append([]any(nil), b.ctors...)
	for _, m := range b.modules {
		bindings = append(bindings, m.Provide()...)
		if cm, ok := m.(ConstructorModule); ok {
			ctors = append(ctors, cm.Constructors()...)
		}
	}

	types := NewIntrospector()
	for _, fn := range ctors {
		if err := types.RegisterConstructor(fn); err != nil {
			return nil, err
		}
	}
	for _, f := range b.fixed {
		if err := types.SetConstructor(f.fn, f.names...); err != nil {
			return nil, err
		}
	}

	registry, err := NewRegistry(bindings...)
	if err != nil {
		return nil, err
	}

	inj := &Injector{
		registry:   registry,
		types:      types,
		policies:   b.policies,
		singletons: newSingletonStore(),
		sessions:   newSessionStore(),
		refs:       make(map[*Binding]any),
	}
	if err := inj.Validate(); err != nil {
		return nil, err
	}

	for _, m := range b.modules {
		if bm, ok := m.(BootModule); ok {
			if err := bm.Boot(inj); err != nil {
				return nil, err
			}
		}
	}
	return inj, nil
}

// ── Validation ───────────────────────────────────────────────────────────────

// Validate runs every configured policy against the static binding graph.
// It performs no construction and may be called at any time.
func (inj *Injector) Validate() error {
	g := &Graph{registry: inj.registry, types: inj.types}
	for _, p := range inj.policies {
		if err := p.Check(g); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns the injector's binding table (read-only use).
func (inj *Injector) Registry() *Registry { return inj.registry }

// ── Construction entry points ────────────────────────────────────────────────

// Create resolves T with a fresh resolution context. Each call starts an
// empty Shared cache; Singleton and session caches persist on the Injector.
func Create[T any](inj *Injector) (T, error) {
	r := &Resolver{inj: inj, ctx: newResolutionContext()}
	return resolveAs[T](r, KeyOf[T]())
}

// CreateNamed resolves the binding for T tagged with name.
func CreateNamed[T any](inj *Injector, name string) (T, error) {
	r := &Resolver{inj: inj, ctx: newResolutionContext()}
	return resolveAs[T](r, NamedKeyOf[T](name))
}

// MustCreate resolves T or panics. Reserve it for bootstrap paths where a
// resolution failure is unrecoverable anyway.
func MustCreate[T any](inj *Injector) T {
	v, err := Create[T](inj)
	if err != nil {
		panic(err)
	}
	return v
}

// CreateRef returns a non-owning pointer into T's binding:
//
//   - External / value targets: the bound pointer itself, so the result is
//     identity-equal with the caller's variable and mutations flow both ways.
//   - Singleton: a stable pointer to a per-binding box holding the singleton
//     instance; every CreateRef call returns the same pointer.
//   - Unique, Shared, and session scopes refuse with OwnershipViolationError:
//     the store would discard the instance before the reference's use.
//
// The referenced instance must outlive all borrowers.
func CreateRef[T any](inj *Injector) (*T, error) {
	k := KeyOf[T]()
	b, bound := inj.registry.Lookup(k)
	if !bound {
		return nil, MissingBindingError{Key: k}
	}
	if b.kind == targetValue || b.kind == targetExternal {
		p, ok := b.ref.Interface().(*T)
		if !ok {
			return nil, WrongTypeError{Key: k, Got: b.ref.Type()}
		}
		return p, nil
	}
	if !refScope(b.scope) {
		return nil, OwnershipViolationError{Key: k, Scope: b.scope}
	}

	// Singleton: materialize the instance, then hand out a stable box.
	v, err := Create[T](inj)
	if err != nil {
		return nil, err
	}
	inj.refMu.Lock()
	defer inj.refMu.Unlock()
	if p, ok := inj.refs[b]; ok {
		return p.(*T), nil
	}
	p := new(T)
	*p = v
	inj.refs[b] = p
	return p, nil
}

// ── Session control ──────────────────────────────────────────────────────────

// SessionEntry opens the caching window for session id. Session-scoped
// bindings for id construct and cache only while the window is open.
// Entering an already open session is a no-op.
func (inj *Injector) SessionEntry(id string) { inj.sessions.Enter(id) }

// SessionExit closes the window for session id and discards every instance
// cached for it. Subsequent resolutions yield absent until the next entry.
func (inj *Injector) SessionExit(id string) { inj.sessions.Exit(id) }

// SessionActive reports whether session id is currently open.
func (inj *Injector) SessionActive(id string) bool { return inj.sessions.Active(id) }
