package conversation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a simple in-process conversation store for local/dev use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string][]Exchange
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string][]Exchange)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID, topic string) ([]Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.sessions[sessionID][topic]
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([]Exchange, len(arr))
	copy(out, arr)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID, topic string, ex Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ex.AskedAt.IsZero() {
		ex.AskedAt = time.Now().UTC()
	}
	topics, ok := s.sessions[sessionID]
	if !ok {
		topics = make(map[string][]Exchange)
		s.sessions[sessionID] = topics
	}
	topics[topic] = append(topics[topic], ex)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topics, ok := s.sessions[sessionID]; ok {
		delete(topics, topic)
	}
	return nil
}

func (s *MemoryStore) ClearAll(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
