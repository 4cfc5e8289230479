package draft

import (
	"context"
	"sync"
)

// MemoryStore keeps drafts in process memory. It is the fallback backend and
// the store used in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (Draft, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[key]
	if !ok {
		return Draft{}, false, nil
	}
	return d.Normalize(), true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key] = d
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}
