// Package cache provides the bounded LRU response cache that sits in front
// of the response generator. Keys are a normalized form of the candidate's
// utterance, so near-duplicate phrasings short-circuit to the same cached
// response instead of paying for another generation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	// DefaultMaxSize is the default maximum number of cached responses.
	DefaultMaxSize = 50

	// DefaultKeyPrefixLen bounds the normalized key to a prefix of the
	// utterance. Long utterances sharing the first 100 runes alias to the
	// same slot; that approximate matching is intended.
	DefaultKeyPrefixLen = 100

	// DefaultSlotName is the blob-store slot used for snapshots.
	DefaultSlotName = "response_cache"
)

// BlobStore persists serialized snapshots under a named slot.
// internal/store.SlotStore is the durable implementation; tests use
// in-memory stand-ins.
type BlobStore interface {
	Save(ctx context.Context, slot, blob string) error
	Load(ctx context.Context, slot string) (blob string, ok bool, err error)
}

// Config contains the parameters for a ResponseCache.
type Config struct {
	MaxSize      int       // maximum entries; 0 means DefaultMaxSize
	KeyPrefixLen int       // normalized key prefix length in runes; 0 means DefaultKeyPrefixLen
	SlotName     string    // blob-store slot; "" means DefaultSlotName
	Store        BlobStore // nil disables snapshot persistence
	Logger       *slog.Logger
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Size    int
	Hits    uint64
	Misses  uint64
	HitRate string // percentage, "0%" before any lookup
}

// ResponseCache is a fixed-capacity LRU store of generated responses keyed
// by normalized utterance text. Reads and writes both touch recency; the
// least-recently-used entry is evicted only when a new key is inserted at
// capacity.
type ResponseCache struct {
	entries   *lru.Cache[string, string]
	prefixLen int
	slot      string
	store     BlobStore
	logger    *slog.Logger

	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// New creates a ResponseCache.
func New(cfg Config) (*ResponseCache, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.KeyPrefixLen == 0 {
		cfg.KeyPrefixLen = DefaultKeyPrefixLen
	}
	if cfg.SlotName == "" {
		cfg.SlotName = DefaultSlotName
	}

	entries, err := lru.New[string, string](cfg.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	return &ResponseCache{
		entries:   entries,
		prefixLen: cfg.KeyPrefixLen,
		slot:      cfg.SlotName,
		store:     cfg.Store,
		logger:    cfg.Logger,
	}, nil
}

// normalize derives the lookup key from raw utterance text: case-folded,
// trimmed, and truncated to the configured rune prefix. Lossy on purpose.
func (c *ResponseCache) normalize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if runes := []rune(key); len(runes) > c.prefixLen {
		key = string(runes[:c.prefixLen])
	}
	return key
}

// Get looks up the response cached for rawKey. A hit promotes the entry to
// most-recently-used. Counters are updated either way.
func (c *ResponseCache) Get(rawKey string) (string, bool) {
	value, ok := c.entries.Get(c.normalize(rawKey))

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	return value, ok
}

// Set stores value under rawKey at the most-recently-used position.
// Inserting a new key at capacity evicts the least-recently-used entry;
// updating an existing key never evicts.
func (c *ResponseCache) Set(rawKey, value string) {
	if evicted := c.entries.Add(c.normalize(rawKey), value); evicted {
		c.logger.Debug("evicted least-recently-used cache entry", "size", c.entries.Len())
	}
}

// Has reports whether rawKey is cached, without touching recency or counters.
func (c *ResponseCache) Has(rawKey string) bool {
	return c.entries.Contains(c.normalize(rawKey))
}

// Len returns the current number of entries.
func (c *ResponseCache) Len() int {
	return c.entries.Len()
}

// Stats returns current size and hit/miss counters. The hit rate is
// formatted as a percentage with one decimal place, or "0%" when no
// lookups have occurred.
func (c *ResponseCache) Stats() Stats {
	c.mu.Lock()
	hits, misses := c.hits, c.misses
	c.mu.Unlock()

	rate := "0%"
	if total := hits + misses; total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(hits)/float64(total)*100)
	}

	return Stats{
		Size:    c.entries.Len(),
		Hits:    hits,
		Misses:  misses,
		HitRate: rate,
	}
}

// Clear empties the cache and resets the hit/miss counters.
func (c *ResponseCache) Clear() {
	c.entries.Purge()

	c.mu.Lock()
	c.hits, c.misses = 0, 0
	c.mu.Unlock()
}
