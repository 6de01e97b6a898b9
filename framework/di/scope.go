package di

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// ── Scope ────────────────────────────────────────────────────────────────────

// Scope governs instance identity and sharing. It never changes how an
// instance is constructed, only whether a construction is reused.
type Scope int

const (
	// Unique constructs a fresh instance at every resolution site.
	// Nothing is ever cached.
	Unique Scope = iota

	// Shared caches one instance per top-level Create call: two Shared
	// dependencies requested within the same call see the same instance,
	// while a new top-level call starts with an empty cache.
	Shared

	// Singleton caches one instance for the lifetime of the Injector.
	// First creation is serialized so at most one instance is constructed
	// even under concurrent access.
	Singleton

	// SessionScoped caches one instance per active named session. Outside
	// an open session window the binding resolves to an absent value and
	// never constructs.
	SessionScoped

	// External marks a caller-owned instance. The engine never constructs
	// or destroys it; it only hands out the value (or the original pointer
	// via CreateRef).
	External
)

// String returns the scope name used in diagnostics.
func (s Scope) String() string {
	switch s {
	case Unique:
		return "unique"
	case Shared:
		return "shared"
	case Singleton:
		return "singleton"
	case SessionScoped:
		return "session"
	case External:
		return "external"
	}
	return "scope(" + strconv.Itoa(int(s)) + ")"
}

// ── Singleton store ──────────────────────────────────────────────────────────

// buildFunc constructs an instance on demand. The middle result reports
// presence: absent values (inactive sessions, conditional factories) are
// valid outcomes, not errors.
type buildFunc func() (any, bool, error)

// boxed wraps a cached instance so atomic.Value can hold nil instances.
type boxed struct{ v any }

// singletonEntry is the cache slot for one binding. Creation is
// double-checked: a lock-free read on the hot path, a per-entry mutex so
// concurrent first access constructs exactly once.
type singletonEntry struct {
	mu  sync.Mutex
	val atomic.Value // *boxed
}

// singletonStore caches one instance per binding for the Injector lifetime.
// Cache slots are keyed by binding identity, so a multi-interface binding
// shares a single instance across every bound key.
type singletonStore struct {
	mu      sync.Mutex
	entries map[*Binding]*singletonEntry
}

func newSingletonStore() *singletonStore {
	return &singletonStore{entries: make(map[*Binding]*singletonEntry)}
}

// getOrCreate returns the cached instance for b, constructing it with build
// on first access. Failed or absent constructions are not cached.
func (s *singletonStore) getOrCreate(b *Binding, build buildFunc) (any, bool, error) {
	s.mu.Lock()
	e, ok := s.entries[b]
	if !ok {
		e = &singletonEntry{}
		s.entries[b] = e
	}
	s.mu.Unlock()

	if v := e.val.Load(); v != nil {
		return v.(*boxed).v, true, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if v := e.val.Load(); v != nil {
		return v.(*boxed).v, true, nil
	}
	v, present, err := build()
	if err != nil || !present {
		return nil, present, err
	}
	e.val.Store(&boxed{v: v})
	return v, true, nil
}
