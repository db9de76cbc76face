// Package testutil provides shared test doubles: a discard logger and
// blob stores with injectable failures. It must stay a leaf package so
// internal test packages anywhere in the tree can import it without
// creating a cycle.
package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// DiscardLogger returns a slog.Logger that discards all output. Prefer
// log.NewNop() in packages that already import internal/log.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// FlakyStore is an in-memory blob store with injectable failures for
// exercising the cache's swallow-and-log persistence paths.
type FlakyStore struct {
	SaveErr error // returned by every Save when set
	LoadErr error // returned by every Load when set

	mu    sync.Mutex
	slots map[string]string
}

// NewFlakyStore creates an empty FlakyStore.
func NewFlakyStore() *FlakyStore {
	return &FlakyStore{slots: make(map[string]string)}
}

// Save stores value under name, unless SaveErr is set.
func (f *FlakyStore) Save(_ context.Context, name, value string) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[name] = value
	return nil
}

// Load returns the stored blob, unless LoadErr is set.
func (f *FlakyStore) Load(_ context.Context, name string) (string, bool, error) {
	if f.LoadErr != nil {
		return "", false, f.LoadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.slots[name]
	return value, ok, nil
}

// Put seeds a slot directly, bypassing error injection.
func (f *FlakyStore) Put(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[name] = value
}
