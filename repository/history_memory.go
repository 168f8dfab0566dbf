package repository

import (
	"context"
	"sync"

	"juspatria-backend/models"
)

// MemoryHistoryStore keeps history in process memory. Lists are copied on the
// way in and out so callers never share a backing array with the store.
type MemoryHistoryStore struct {
	mu    sync.RWMutex
	lists map[string]models.HistoryItems
}

// NewMemoryHistoryStore creates an empty in-memory history store
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{lists: make(map[string]models.HistoryItems)}
}

func (s *MemoryHistoryStore) Load(ctx context.Context, namespace string) (models.HistoryItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(models.HistoryItems{}, s.lists[namespace]...), nil
}

func (s *MemoryHistoryStore) Save(ctx context.Context, namespace string, items models.HistoryItems) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[namespace] = append(models.HistoryItems{}, items...)
	return nil
}

func (s *MemoryHistoryStore) Clear(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, namespace)
	return nil
}
