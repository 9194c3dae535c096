package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
)

// MemoryStore 是进程内的会话存储，读写都复制会话，调用方不会共享内部状态。
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
	now      func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*chat.Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns a copy of the stored session.
func (s *MemoryStore) Get(_ context.Context, id string) (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session.Clone(), nil
}

// Put stores a copy of session.
func (s *MemoryStore) Put(_ context.Context, session *chat.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}

	cp := session.Clone()
	s.mu.Lock()
	s.sessions[cp.ID] = cp
	s.mu.Unlock()
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// SweepOlderThan removes sessions whose LastActive is older than ttl.
func (s *MemoryStore) SweepOlderThan(_ context.Context, ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
