package store

import (
	"context"
	"sync"
)

// MemStore is an in-memory slot store with the same contract as SlotStore.
// It backs tests and cache-less CLI runs where no database path is set.
type MemStore struct {
	mu    sync.Mutex
	slots map[string]string
}

// NewMemStore creates an empty in-memory slot store.
func NewMemStore() *MemStore {
	return &MemStore{slots: make(map[string]string)}
}

// Save stores value under name.
func (m *MemStore) Save(_ context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = value
	return nil
}

// Load returns the blob stored under name; false when the slot is unset.
func (m *MemStore) Load(_ context.Context, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.slots[name]
	return value, ok, nil
}

// Delete removes the named slot.
func (m *MemStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, name)
	return nil
}
