package cache

import "sync"

// MemoryCache implements GenericCache in process memory
type MemoryCache struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty memory cache
func NewMemory() *MemoryCache {
	return &MemoryCache{
		values: make(map[string][]byte),
	}
}

func (m *MemoryCache) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryCache) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *MemoryCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryCache) Init() error {
	return nil
}
