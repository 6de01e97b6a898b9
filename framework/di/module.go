package di

// ── Modules ──────────────────────────────────────────────────────────────────

// Module groups related bindings so each area of an application declares
// its own slice of the object graph.
//
//	type StorageModule struct{ DSN string }
//
//	func (m *StorageModule) Provide() []di.Binding {
//	    return []di.Binding{
//	        di.BindValue(m.DSN, di.Named("db-url")),
//	        di.BindType[Repository, *SQLRepository](di.InScope(di.Singleton)),
//	    }
//	}
//
// Modules are handed to the Injector via the Modules option; their bindings
// are collected in registration order and composed under the normal
// duplicate/override rules.
type Module interface {
	// Provide returns the bindings this module contributes.
	Provide() []Binding
}

// ConstructorModule is a Module that also declares constructor functions
// for the implementation types it binds.
type ConstructorModule interface {
	Module

	// Constructors returns candidate constructor functions, each of the
	// form func(deps...) T or func(deps...) (T, error).
	Constructors() []any
}

// BootModule is a Module with a post-construction hook. Boot runs after
// the Injector is fully built and validated, so it is safe to resolve any
// binding here. Modules boot in registration order.
type BootModule interface {
	Module
	Boot(inj *Injector) error
}

// ModuleFunc adapts a plain function into a Module.
//
//	app := di.Modules(di.ModuleFunc(func() []di.Binding {
//	    return []di.Binding{di.BindValue(42)}
//	}))
type ModuleFunc func() []Binding

// Provide implements Module.
func (f ModuleFunc) Provide() []Binding { return f() }
