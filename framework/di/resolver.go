package di

import "reflect"

// ── Resolution context ───────────────────────────────────────────────────────

// resolutionContext is the transient state for one top-level Create call:
// the in-progress key stack (cycle detection and diagnostics) plus the
// Shared-scope cache. A new top-level call starts fresh.
type resolutionContext struct {
	stack    []Key
	inFlight map[Key]struct{}
	shared   map[*Binding]any
}

func newResolutionContext() *resolutionContext {
	return &resolutionContext{
		inFlight: make(map[Key]struct{}),
		shared:   make(map[*Binding]any),
	}
}

// push records k as in-progress, failing if k is already being resolved
// further up the same call.
func (c *resolutionContext) push(k Key) error {
	if _, busy := c.inFlight[k]; busy {
		return CircularDependencyError{Key: k, Path: c.path()}
	}
	c.inFlight[k] = struct{}{}
	c.stack = append(c.stack, k)
	return nil
}

func (c *resolutionContext) pop() {
	k := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	delete(c.inFlight, k)
}

// path returns a copy of the in-progress stack for diagnostics.
func (c *resolutionContext) path() []Key {
	out := make([]Key, len(c.stack))
	copy(out, c.stack)
	return out
}

// ── Resolver ─────────────────────────────────────────────────────────────────

// Resolver resolves keys against one Injector within one resolution
// context. Factories receive a Resolver so conditional wiring can pull
// further dependencies through the same context (and the same Shared
// cache).
type Resolver struct {
	inj *Injector
	ctx *resolutionContext
}

// Resolve resolves T through r's context. Intended for factory bodies:
//
//	di.BindFactory(func(r *di.Resolver) (*Mailer, error) {
//	    cfg, err := di.Resolve[*config.Config](r)
//	    ...
//	})
func Resolve[T any](r *Resolver) (T, error) {
	return resolveAs[T](r, KeyOf[T]())
}

// ResolveNamed resolves the binding for T tagged with name.
func ResolveNamed[T any](r *Resolver, name string) (T, error) {
	return resolveAs[T](r, NamedKeyOf[T](name))
}

// resolveAs resolves k and narrows the instance to T. Absent results
// materialize as a typed nil when T can carry one, and fail with
// AbsentValueError otherwise.
func resolveAs[T any](r *Resolver, k Key) (T, error) {
	var zero T
	v, present, err := r.resolve(k)
	if err != nil {
		return zero, err
	}
	if !present {
		if nilableKind(TypeOf[T]().Kind()) {
			return zero, nil
		}
		return zero, AbsentValueError{Key: k}
	}
	out, ok := v.(T)
	if !ok {
		return zero, WrongTypeError{Key: k, Got: reflect.TypeOf(v)}
	}
	return out, nil
}

// resolve is the core recursive algorithm. It returns the instance, whether
// it is present (inactive sessions and conditional factories yield absent),
// and any failure. Any failure aborts the whole top-level call; no
// partially constructed instance is ever returned.
func (r *Resolver) resolve(k Key) (any, bool, error) {
	if err := r.ctx.push(k); err != nil {
		return nil, false, err
	}
	defer r.ctx.pop()

	b, bound := r.inj.registry.Lookup(k)
	if !bound {
		// No binding: the requested type is its own implementation. Named
		// requests are the exception — a name tag demands an explicit
		// binding, silently dropping it would resolve the wrong slot.
		if k.Name != "" {
			return nil, false, MissingBindingError{Key: k, Path: r.ctx.path()}
		}
		return r.construct(k.Type)
	}

	switch b.kind {
	case targetValue, targetExternal:
		// Read through the stored pointer: external mutations stay visible.
		return b.ref.Elem().Interface(), true, nil
	}

	build := func() (any, bool, error) {
		if b.kind == targetFactory {
			return b.factory(r)
		}
		return r.construct(b.impl)
	}
	return r.scoped(b, build)
}

// scoped routes a construction through the store matching the binding's
// scope to obtain identity and caching semantics.
func (r *Resolver) scoped(b *Binding, build buildFunc) (any, bool, error) {
	switch b.scope {
	case Shared:
		if v, hit := r.ctx.shared[b]; hit {
			return v, true, nil
		}
		v, present, err := build()
		if err != nil || !present {
			return nil, present, err
		}
		r.ctx.shared[b] = v
		return v, true, nil
	case Singleton:
		return r.inj.singletons.getOrCreate(b, build)
	case SessionScoped:
		return r.inj.sessions.getOrCreate(b.session, b, build)
	}
	// Unique (and External targets, which never reach here): no caching.
	return build()
}

// construct builds an instance of t via its selected constructor, resolving
// parameters strictly left-to-right so factory side effects observe the
// declared order.
func (r *Resolver) construct(t reflect.Type) (any, bool, error) {
	if t.Kind() == reflect.Interface {
		return nil, false, MissingBindingError{Key: Key{Type: t}, Path: r.ctx.path()}
	}
	ctor, err := r.inj.types.Select(t)
	if err != nil {
		return nil, false, err
	}
	args := make([]reflect.Value, len(ctor.Params))
	for i, p := range ctor.Params {
		v, present, err := r.resolve(p.key())
		if err != nil {
			return nil, false, err
		}
		args[i], err = argValue(p, v, present)
		if err != nil {
			return nil, false, err
		}
	}
	out, err := ctor.New(args)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// argValue converts a resolved instance into the reflect.Value passed for
// parameter p. Absent dependencies become a typed nil when the parameter
// can carry one.
func argValue(p Param, v any, present bool) (reflect.Value, error) {
	if !present {
		if nilableKind(p.Type.Kind()) {
			return reflect.Zero(p.Type), nil
		}
		return reflect.Value{}, AbsentValueError{Key: p.key()}
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		// A bound nil instance (e.g. BindValue of a nil interface).
		return reflect.Zero(p.Type), nil
	}
	if rv.Type() == p.Type {
		return rv, nil
	}
	if rv.Type().AssignableTo(p.Type) {
		// A concrete implementation satisfying an interface parameter.
		out := reflect.New(p.Type).Elem()
		out.Set(rv)
		return out, nil
	}
	return reflect.Value{}, WrongTypeError{Key: p.key(), Got: rv.Type()}
}
