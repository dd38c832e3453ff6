// Package storage provides durable key-value stores for the session record.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// Compile-time interface check.
var _ domain.SecureStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory store. Nothing survives the process; used
// for tests and for --storage=memory. Safe for concurrent access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
	log     *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string),
		log:     log,
	}
}

// Set stores a value. Overwrites if it already exists.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("storing %s (%d bytes)", key, len(value))
	s.entries[key] = value
	return nil
}

// Get retrieves a value by key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		s.log.Debug("key not found: %s", key)
		return "", domain.ErrNotFound
	}
	return v, nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	s.log.Debug("deleted %s", key)
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
