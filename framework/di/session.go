package di

import "sync"

// ── Session store ────────────────────────────────────────────────────────────

// sessionStore caches instances per active named session.
//
// A session window is opened with Enter(id) and closed with Exit(id); Exit
// discards every instance cached for that id. Lookups outside an open window
// yield an absent value and never construct.
//
// Entry/exit serialize against concurrent resolutions via the store mutex;
// per-slot mutexes serialize first construction so a resolution racing an
// Exit either completes against the pre-exit cache or observes absent.
type sessionStore struct {
	mu     sync.RWMutex
	active map[string]map[*Binding]*sessionEntry
}

// sessionEntry mirrors singletonEntry: double-checked, construct-once slots.
type sessionEntry struct {
	mu  sync.Mutex
	val *boxed
}

func newSessionStore() *sessionStore {
	return &sessionStore{active: make(map[string]map[*Binding]*sessionEntry)}
}

// Enter opens the caching window for session id. Entering an already open
// session is a no-op; cached entries are kept.
func (s *sessionStore) Enter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, open := s.active[id]; !open {
		s.active[id] = make(map[*Binding]*sessionEntry)
	}
}

// Exit closes the window for session id and discards all entries cached for
// it. Exiting a session that is not open is a no-op.
func (s *sessionStore) Exit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
}

// Active reports whether session id is currently open.
func (s *sessionStore) Active(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, open := s.active[id]
	return open
}

// getOrCreate returns the cached instance for b within session id,
// constructing it on first access while the session is open. While the
// session is closed it returns absent without constructing.
func (s *sessionStore) getOrCreate(id string, b *Binding, build buildFunc) (any, bool, error) {
	s.mu.RLock()
	cache, open := s.active[id]
	var e *sessionEntry
	if open {
		e = cache[b]
	}
	s.mu.RUnlock()

	if !open {
		return nil, false, nil
	}
	if e == nil {
		s.mu.Lock()
		cache, open = s.active[id]
		if !open {
			// Raced with Exit: the window closed before construction began.
			s.mu.Unlock()
			return nil, false, nil
		}
		e = cache[b]
		if e == nil {
			e = &sessionEntry{}
			cache[b] = e
		}
		s.mu.Unlock()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.val != nil {
		return e.val.v, true, nil
	}
	v, present, err := build()
	if err != nil || !present {
		return nil, present, err
	}
	e.val = &boxed{v: v}
	return v, true, nil
}
