package client

import "sync"

// Well-known keys in the client's key-value store.
const (
	// SessionTokenKey holds the bearer token for the current session.
	SessionTokenKey = "session.token"

	// ThemeKey holds the user's persisted theme preference.
	ThemeKey = "ui.theme"
)

// KeyValueStore is the small persistence interface the client keeps its
// session and UI state behind. Abstracting the storage medium keeps the
// mutation and pagination logic free of any dependency on where the values
// actually live, and lets tests substitute an in-memory implementation.
type KeyValueStore interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores the value for key, replacing any previous value.
	Set(key, value string)

	// Delete removes the value for key, if any.
	Delete(key string)
}

// MemoryKeyValueStore implements KeyValueStore over a mutex-guarded map.
type MemoryKeyValueStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKeyValueStore creates an empty in-memory key-value store.
func NewMemoryKeyValueStore() *MemoryKeyValueStore {
	return &MemoryKeyValueStore{values: make(map[string]string)}
}

// Ensure MemoryKeyValueStore implements KeyValueStore interface
var _ KeyValueStore = (*MemoryKeyValueStore)(nil)

// Get implements KeyValueStore.Get
func (s *MemoryKeyValueStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements KeyValueStore.Set
func (s *MemoryKeyValueStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete implements KeyValueStore.Delete
func (s *MemoryKeyValueStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
