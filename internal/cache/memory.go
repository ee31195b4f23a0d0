package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// Memory is a bounded in-process cache. When full, the single oldest entry by
// insertion order is evicted. Updating an existing key keeps its position.
// Entries live for the process lifetime unless a TTL is given.
type Memory struct {
	mu      sync.Mutex
	max     int
	entries map[string]memoryEntry
	order   []string
}

func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Memory{
		max:     maxEntries,
		entries: make(map[string]memoryEntry, maxEntries),
	}
}

func (c *Memory) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.remove(key)
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		// data corrupt: treat as miss
		c.remove(key)
		return false, nil
	}
	return true, nil
}

func (c *Memory) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = memoryEntry{data: b, expiresAt: expires}
		return nil
	}

	if len(c.order) >= c.max {
		c.remove(c.order[0])
	}
	c.entries[key] = memoryEntry{data: b, expiresAt: expires}
	c.order = append(c.order, key)
	return nil
}

func (c *Memory) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.remove(k)
	}
	return nil
}

// Len reports the current entry count, for health reporting.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cap reports the configured bound.
func (c *Memory) Cap() int { return c.max }

func (c *Memory) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
