package di

import (
	"reflect"
	"strconv"
)

// ── Type tokens ──────────────────────────────────────────────────────────────

// TypeOf returns the reflect.Type token for T.
//
// Unlike reflect.TypeOf on a value, it works for interface types too:
//
//	di.TypeOf[Logger]()   // the Logger interface type itself
//	di.TypeOf[*Config]()  // *config.Config
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ── Key ──────────────────────────────────────────────────────────────────────

// Key uniquely identifies a resolvable slot: an abstract type plus an
// optional name tag. Name tags disambiguate multiple bindings of the same
// type ("named bindings").
type Key struct {
	Type reflect.Type
	Name string
}

// KeyOf returns the unnamed Key for T.
func KeyOf[T any]() Key { return Key{Type: TypeOf[T]()} }

// NamedKeyOf returns the Key for T tagged with name.
func NamedKeyOf[T any](name string) Key {
	return Key{Type: TypeOf[T](), Name: name}
}

// String renders the key for diagnostics:
//
//	main.Clock
//	string["db-url"]
func (k Key) String() string {
	s := "<nil>"
	if k.Type != nil {
		s = k.Type.String()
	}
	if k.Name != "" {
		s += "[" + strconv.Quote(k.Name) + "]"
	}
	return s
}
