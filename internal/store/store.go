// Package store holds the process-local user directory.
package store

import "sync"

// Store maps user ids to records. It is safe for concurrent use; a completed
// Insert is visible to every later Lookup.
type Store struct {
	mu    sync.RWMutex
	users map[string]User
}

func New() *Store {
	return &Store{users: make(map[string]User)}
}

// Seeded returns a store holding the default record
// {"1", "name", "name@example.com"}.
func Seeded() *Store {
	s := New()
	s.Insert(User{ID: "1", Name: "name", Email: "name@example.com"})
	return s
}

// Insert records u under u.ID, replacing any previous record. It reports
// whether a record was replaced.
func (s *Store) Insert(u User) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, replaced = s.users[u.ID]
	s.users[u.ID] = u
	return replaced
}

// Lookup returns a copy of the record stored under id.
func (s *Store) Lookup(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
