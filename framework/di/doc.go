// Package di is an object-graph construction engine: declarative bindings
// in, fully wired instances out, with no hand-written factory code between
// them.
//
// # Overview
//
// A binding maps an abstract key (a type plus an optional name tag) to a
// concrete target — a value, a caller-owned variable, an implementation
// type, or a factory — together with a lifetime scope. The Injector seals
// the bindings into an immutable registry, validates the whole graph, and
// then resolves requests recursively: each constructor parameter is itself
// resolved through the registry, left-to-right, with cycle detection on the
// in-progress stack.
//
// # Bindings
//
//	inj, err := di.New(di.Provide(
//	    di.BindValue(42),                                    // int → 42
//	    di.BindValue("postgres://...", di.Named("db-url")),  // named binding
//	    di.BindType[Clock, *SystemClock](),                  // interface → impl
//	    di.BindExternal(&counter),                           // caller-owned
//	    di.BindFactory(func(r *di.Resolver) (*Pool, error) { // factory
//	        size, err := di.Resolve[int](r)
//	        ...
//	    }),
//	))
//
// A type with no binding is constructed directly: its declared constructor
// if one was registered, otherwise its exported struct fields in
// declaration order, otherwise its zero value. Creating an unbound int
// therefore yields 0.
//
// # Scopes
//
// Scope governs instance identity, never construction logic:
//
//	di.InScope(di.Unique)     // fresh instance per resolution site (default)
//	di.InScope(di.Shared)     // one instance per top-level Create call
//	di.InScope(di.Singleton)  // one instance per Injector, concurrency-safe
//	di.InSession("checkout")  // one instance while the session is open
//
// Session windows are imperative: SessionEntry(id) opens one,
// SessionExit(id) discards everything cached in it. Outside the window a
// session-scoped binding resolves to an absent value — a typed nil, not an
// error.
//
// # Constructors
//
// Constructor metadata is declared, not guessed:
//
//	di.Constructors(NewRepo, NewCache)       // candidates, max arity wins
//	di.ConstructorFor(NewRepo, "primary-db") // fixed choice + param name tags
//
// Two candidates tied at maximum arity with no ConstructorFor override are
// an AmbiguousConstructorError at validation time.
//
// # Policies
//
// di.New validates the static graph before anything is constructed:
// binding existence, circular dependencies, creation ownership, and
// argument safety. Swap the set with di.WithPolicies; cycle detection also
// runs inline during every resolution, so factory-routed cycles fail fast
// instead of recursing forever.
//
// # Creating
//
//	pool, err := di.Create[*Pool](inj)
//	url, err := di.CreateNamed[string](inj, "db-url")
//	ref, err := di.CreateRef[int64](inj) // non-owning pointer, external/singleton only
//
// Every failure aborts the whole top-level call; no partially constructed
// object is ever returned.
package di
