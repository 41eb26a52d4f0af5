package alert

import "sync"

// Store records which alert keys have already been decided. Add is
// insert-if-absent and reports whether the key was newly added.
//
// Injected rather than global so tests supply a fresh instance per case.
type Store interface {
	Add(key string) bool
	Len() int
}

// MemStore is the production Store: an in-process set guarded by a mutex.
// It is lost on restart, so a restart inside a lead-time window can repeat
// one notification. Keys are never evicted; growth is bounded by process
// lifetime.
type MemStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{keys: make(map[string]struct{})}
}

// Add inserts the key, returning false if it was already present.
func (s *MemStore) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.keys[key]; exists {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Len returns the number of recorded keys.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
