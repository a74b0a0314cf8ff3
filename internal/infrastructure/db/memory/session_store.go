package memory

import (
	"context"
	"sync"
)

// SessionStore keeps session generations in a map. It replaces Redis when
// the service runs without one.
type SessionStore struct {
	mu   sync.Mutex
	gens map[string]int64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{gens: map[string]int64{}}
}

func (s *SessionStore) Generation(_ context.Context, employeeID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[employeeID], nil
}

func (s *SessionStore) Revoke(_ context.Context, employeeID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[employeeID]++
	return s.gens[employeeID], nil
}
