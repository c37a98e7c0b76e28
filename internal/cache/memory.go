package cache

import (
	"context"
	"sync"
)

// MemoryCache keeps mechanism determinations for the lifetime of the process.
type MemoryCache struct {
	mu         sync.RWMutex
	mechanisms map[string]string
}

var _ ICache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{mechanisms: make(map[string]string)}
}

func (m *MemoryCache) GetMechanism(_ context.Context, userPoolID string, clientID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mechanisms[mechanismKey(userPoolID, clientID)], nil
}

func (m *MemoryCache) SetMechanism(_ context.Context, userPoolID string, clientID string, mechanism string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mechanisms[mechanismKey(userPoolID, clientID)] = mechanism
	return nil
}

func (m *MemoryCache) Close() error {
	return nil
}
