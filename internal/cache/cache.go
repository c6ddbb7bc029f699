// Package cache holds serialized report payloads so repeated summary and
// balance reads skip the aggregation pass. Entries are invalidated by the
// HTTP layer whenever a write touches the user's data.
package cache

import (
	"context"
	"sync"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, val string, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// Memory is the default single-process cache.
type Memory struct {
	mu sync.RWMutex
	m  map[string]entry
}

type entry struct {
	val string
	exp time.Time
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]entry)}
}

func (c *Memory) Get(_ context.Context, key string) (string, bool) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return "", false
	}

	return e.val, true
}

func (c *Memory) Set(_ context.Context, key, val string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	c.mu.Lock()
	c.m[key] = entry{val: val, exp: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Memory) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.m, k)
	}
	c.mu.Unlock()
}
