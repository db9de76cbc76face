package cache

import (
	"context"
	"encoding/json"
)

// snapshotEntry is one persisted cache entry. Entries are serialized in
// LRU order, oldest first, so recency survives the round trip.
type snapshotEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Snapshot serializes the full entry list and writes it to the blob store.
// Persistence failures are logged and swallowed: the interview flow must
// never stall because local storage misbehaved.
func (c *ResponseCache) Snapshot(ctx context.Context) {
	if c.store == nil {
		return
	}

	keys := c.entries.Keys() // oldest to newest
	snapshot := make([]snapshotEntry, 0, len(keys))
	for _, k := range keys {
		if v, ok := c.entries.Peek(k); ok {
			snapshot = append(snapshot, snapshotEntry{Key: k, Value: v})
		}
	}

	blob, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn("serializing cache snapshot", "error", err)
		return
	}

	if err := c.store.Save(ctx, c.slot, string(blob)); err != nil {
		c.logger.Warn("persisting cache snapshot", "error", err)
		return
	}

	c.logger.Debug("persisted cache snapshot", "entries", len(snapshot))
}

// Restore loads the snapshot blob and replays its entries in stored order,
// rebuilding both contents and recency. Any failure (no snapshot, malformed
// blob, storage unavailable) degrades to an empty cache and a diagnostic;
// it is never surfaced to the caller. Hit/miss counters are not restored.
func (c *ResponseCache) Restore(ctx context.Context) {
	if c.store == nil {
		return
	}

	blob, ok, err := c.store.Load(ctx, c.slot)
	if err != nil {
		c.logger.Warn("loading cache snapshot", "error", err)
		return
	}
	if !ok {
		c.logger.Debug("no prior cache snapshot")
		return
	}

	var snapshot []snapshotEntry
	if err := json.Unmarshal([]byte(blob), &snapshot); err != nil {
		c.logger.Warn("parsing cache snapshot, starting empty", "error", err)
		return
	}

	for _, e := range snapshot {
		c.entries.Add(e.Key, e.Value)
	}

	c.logger.Debug("restored cache snapshot", "entries", len(snapshot))
}
