package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a byte-value store with per-entry expiry. It exists purely to
// reduce upstream API call volume; a miss is never an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Name() string
}

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a process-local TTL cache used when Redis is not configured
// or unreachable. Expired entries are dropped lazily on read and by Sweep.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memEntry)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.entries[key] = memEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

// Sweep removes expired entries and returns how many were dropped.
func (m *Memory) Sweep() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
