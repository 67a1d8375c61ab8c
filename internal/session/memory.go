package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Used for tests and
// single-instance deployments without Redis.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, false, nil
	}
	copied := entry.session
	return &copied, true, nil
}

func (s *MemoryStore) Put(_ context.Context, sess *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = memoryEntry{session: *sess, expiresAt: time.Now().Add(ttl)}
	s.purgeLocked()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// purgeLocked drops expired entries so the map does not grow unbounded.
func (s *MemoryStore) purgeLocked() {
	now := time.Now()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
