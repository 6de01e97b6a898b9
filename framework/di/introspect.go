package di

import "reflect"

// ── Constructor metadata ─────────────────────────────────────────────────────

// Param is one constructor parameter descriptor: its type plus an optional
// name tag resolved against named bindings.
type Param struct {
	Type reflect.Type
	Name string
}

// key returns the binding key this parameter resolves through.
func (p Param) key() Key { return Key{Type: p.Type, Name: p.Name} }

// Constructor is the ordered parameter list plus the callable producing an
// instance of Type. Aggregate constructors (the struct-field fallback) have
// no function; they assign resolved arguments to exported fields instead.
type Constructor struct {
	Type   reflect.Type
	Params []Param

	fn     reflect.Value // declared constructors only
	hasErr bool          // fn returns (T, error)
	fields []int         // aggregate constructors: field indices, parallel to Params
}

// Arity returns the number of parameters.
func (c *Constructor) Arity() int { return len(c.Params) }

// newConstructor introspects fn, which must be a non-variadic
// func(deps...) T or func(deps...) (T, error). names optionally tags
// parameters positionally; "" leaves a parameter unnamed.
func newConstructor(fn any, names []string) (*Constructor, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, InvalidConstructorError{Reason: "not a function"}
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, InvalidConstructorError{Reason: t.String() + " is variadic"}
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != TypeOf[error]() {
			return nil, InvalidConstructorError{Reason: t.String() + ": second result must be error"}
		}
	default:
		return nil, InvalidConstructorError{Reason: t.String() + " must return the instance (and optionally an error)"}
	}
	if len(names) > t.NumIn() {
		return nil, InvalidConstructorError{Reason: t.String() + ": more name tags than parameters"}
	}

	c := &Constructor{
		Type:   t.Out(0),
		Params: make([]Param, t.NumIn()),
		fn:     v,
		hasErr: t.NumOut() == 2,
	}
	for i := 0; i < t.NumIn(); i++ {
		p := Param{Type: t.In(i)}
		if i < len(names) {
			p.Name = names[i]
		}
		c.Params[i] = p
	}
	return c, nil
}

// aggregateConstructor builds the fallback descriptor for a type with no
// declared constructor: a struct (or pointer to struct) exposes its exported
// fields, in declaration order, as synthetic parameters; any other type
// constructs its zero value. Field tags steer resolution:
//
//	type Server struct {
//	    DSN   string `inject:"db-url"` // resolve the named binding
//	    trace bool                     // unexported: skipped
//	    Debug bool   `inject:"-"`      // opt out, stays zero
//	}
func aggregateConstructor(t reflect.Type) *Constructor {
	c := &Constructor{Type: t}
	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return c
	}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("inject")
		if tag == "-" {
			continue
		}
		c.Params = append(c.Params, Param{Type: f.Type, Name: tag})
		c.fields = append(c.fields, i)
	}
	return c
}

// New invokes the constructor with resolved arguments in declared order.
func (c *Constructor) New(args []reflect.Value) (any, error) {
	if c.fn.IsValid() {
		out := c.fn.Call(args)
		if c.hasErr && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}

	// Aggregate construction.
	st := c.Type
	ptr := st.Kind() == reflect.Ptr
	if ptr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return reflect.Zero(c.Type).Interface(), nil
	}
	pv := reflect.New(st)
	v := pv.Elem()
	for i, idx := range c.fields {
		v.Field(idx).Set(args[i])
	}
	if ptr {
		return pv.Interface(), nil
	}
	return v.Interface(), nil
}

// ── Introspector ─────────────────────────────────────────────────────────────

// Introspector holds per-type constructor metadata: declared candidate
// constructors plus explicit overrides that bypass arity selection.
// Analysis is pure; all registration happens during initialization.
type Introspector struct {
	declared map[reflect.Type][]*Constructor
	fixed    map[reflect.Type]*Constructor
}

// NewIntrospector creates an empty Introspector.
func NewIntrospector() *Introspector {
	return &Introspector{
		declared: make(map[reflect.Type][]*Constructor),
		fixed:    make(map[reflect.Type]*Constructor),
	}
}

// RegisterConstructor declares fn as a candidate constructor for its result
// type. A type may declare several candidates; Select picks among them.
func (in *Introspector) RegisterConstructor(fn any) error {
	c, err := newConstructor(fn, nil)
	if err != nil {
		return err
	}
	in.declared[c.Type] = append(in.declared[c.Type], c)
	return nil
}

// SetConstructor fixes the constructor for fn's result type, bypassing
// arity-based selection entirely. names tags parameters positionally, which
// is the only way to attach name tags to function parameters.
//
//	in.SetConstructor(NewRepo, "primary-db") // first param resolves *DB["primary-db"]
func (in *Introspector) SetConstructor(fn any, names ...string) error {
	c, err := newConstructor(fn, names)
	if err != nil {
		return err
	}
	in.fixed[c.Type] = c
	return nil
}

// Candidates returns every viable constructor for t: the explicit override
// first if present, then declared candidates in registration order, then
// the aggregate fallback.
func (in *Introspector) Candidates(t reflect.Type) []*Constructor {
	var out []*Constructor
	if c, ok := in.fixed[t]; ok {
		out = append(out, c)
	}
	out = append(out, in.declared[t]...)
	if len(out) == 0 {
		out = append(out, aggregateConstructor(t))
	}
	return out
}

// Select picks the constructor used to build t. An explicit override wins;
// otherwise the declared candidate with the most parameters (the richest
// initialization) is chosen, and a tie at maximum arity is a configuration
// error, never a silent pick. With no declared candidates the aggregate
// fallback applies.
func (in *Introspector) Select(t reflect.Type) (*Constructor, error) {
	if c, ok := in.fixed[t]; ok {
		return c, nil
	}
	cands := in.declared[t]
	if len(cands) == 0 {
		return aggregateConstructor(t), nil
	}
	best, tie := cands[0], false
	for _, c := range cands[1:] {
		switch {
		case c.Arity() > best.Arity():
			best, tie = c, false
		case c.Arity() == best.Arity():
			tie = true
		}
	}
	if tie {
		return nil, AmbiguousConstructorError{Type: t, Arity: best.Arity()}
	}
	return best, nil
}
