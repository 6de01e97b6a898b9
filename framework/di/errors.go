package di

import (
	"reflect"
	"strconv"
	"strings"
)

// All configuration defects are reported as typed error values carrying the
// offending key and, where available, the resolution path that led to it.
// Error strings are built without fmt so failure handling stays cheap when
// errors are used for control flow.

// ── Path rendering ───────────────────────────────────────────────────────────

// pathString renders a resolution path as "A -> B -> C".
func pathString(path []Key) string {
	var b strings.Builder
	for i, k := range path {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(k.String())
	}
	return b.String()
}

// pathSuffix renders the optional " (resolution path: ...)" fragment.
func pathSuffix(path []Key) string {
	if len(path) == 0 {
		return ""
	}
	return " (resolution path: " + pathString(path) + ")"
}

// ── Error taxonomy ───────────────────────────────────────────────────────────

// MissingBindingError is returned when a key has no binding and cannot be
// default-constructed (interface types, and any named key).
type MissingBindingError struct {
	Key  Key
	Path []Key
}

// Error implements the error interface.
func (e MissingBindingError) Error() string {
	return "di: no binding for " + e.Key.String() + pathSuffix(e.Path)
}

// CircularDependencyError is returned when a key is requested while it is
// already being resolved further up the same call.
type CircularDependencyError struct {
	Key  Key
	Path []Key
}

// Error implements the error interface.
func (e CircularDependencyError) Error() string {
	return "di: circular dependency on " + e.Key.String() + pathSuffix(e.Path)
}

// AmbiguousConstructorError is returned when a type declares two candidate
// constructors of equal maximum arity and no explicit override.
type AmbiguousConstructorError struct {
	Type  reflect.Type
	Arity int
}

// Error implements the error interface.
func (e AmbiguousConstructorError) Error() string {
	return "di: ambiguous constructors for " + e.Type.String() +
		": multiple candidates with arity " + strconv.Itoa(e.Arity) +
		" and no explicit override"
}

// OwnershipViolationError is returned when a non-owning reference is
// requested for an instance whose scope would discard it before use.
type OwnershipViolationError struct {
	Key   Key
	Scope Scope
}

// Error implements the error interface.
func (e OwnershipViolationError) Error() string {
	return "di: cannot take a non-owning reference to " + e.Key.String() +
		" (scope " + e.Scope.String() + ")"
}

// AmbiguousArgumentError is returned when a constructor parameter's binding
// cannot be determined unambiguously.
type AmbiguousArgumentError struct {
	Owner  Key    // the key whose constructor declares the parameter
	Param  Param  // the offending parameter
	Reason string // human-readable cause
}

// Error implements the error interface.
func (e AmbiguousArgumentError) Error() string {
	return "di: ambiguous argument " + e.Param.key().String() +
		" of " + e.Owner.String() + ": " + e.Reason
}

// AbsentValueError is returned when a resolution yields an absent value
// (inactive session, conditional factory) but the demanded result type has
// no nil representation to carry it.
type AbsentValueError struct {
	Key Key
}

// Error implements the error interface.
func (e AbsentValueError) Error() string {
	return "di: " + e.Key.String() +
		" resolved to an absent value but a non-nilable result was required"
}

// DuplicateBindingError is returned when a composed registry would hold two
// active bindings for one key without an explicit override.
type DuplicateBindingError struct {
	Key Key
}

// Error implements the error interface.
func (e DuplicateBindingError) Error() string {
	return "di: duplicate binding for " + e.Key.String() +
		" (re-bind with Override to replace it)"
}

// WrongTypeError is returned when a resolved instance does not satisfy the
// requested type.
type WrongTypeError struct {
	Key Key
	Got reflect.Type
}

// Error implements the error interface.
func (e WrongTypeError) Error() string {
	got := "<nil>"
	if e.Got != nil {
		got = e.Got.String()
	}
	return "di: " + e.Key.String() + " resolved to incompatible type " + got
}

// InvalidBindingError is returned at registry construction for a binding
// that is structurally unusable (e.g. session scope without a session id).
type InvalidBindingError struct {
	Key    Key
	Reason string
}

// Error implements the error interface.
func (e InvalidBindingError) Error() string {
	return "di: invalid binding for " + e.Key.String() + ": " + e.Reason
}

// InvalidConstructorError is returned when a declared constructor function
// has an unsupported signature.
type InvalidConstructorError struct {
	Reason string
}

// Error implements the error interface.
func (e InvalidConstructorError) Error() string {
	return "di: invalid constructor: " + e.Reason
}
