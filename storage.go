package hostedauth

import "sync"

// Storage is the key/value persistence medium behind the session cache. It is
// a narrow synchronous capability: adapters exist per environment (in-memory,
// Redis, a browser's web storage behind a bridge) and are selected at
// construction.
//
// Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value.
	Set(key, value string)

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string)
}

// MemoryStorage is a Storage backed by an in-process map. It is the default
// medium when none is injected.
type MemoryStorage struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		m: map[string]string{},
	}
}

// Get implements Storage.
func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// Set implements Storage.
func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

// Remove implements Storage.
func (s *MemoryStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}
