package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxItems bounds the memory cache when no limit is configured.
const DefaultMaxItems = 1024

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Cache. When full, expired entries are dropped
// first and then an arbitrary entry is evicted.
type Memory struct {
	mu       sync.Mutex
	items    map[string]entry
	maxItems int
	now      func() time.Time
}

// NewMemory returns an empty memory cache holding at most maxItems entries.
func NewMemory(maxItems int) *Memory {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Memory{
		items:    make(map[string]entry),
		maxItems: maxItems,
		now:      time.Now,
	}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if m.expired(e) {
		delete(m.items, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists && len(m.items) >= m.maxItems {
		m.evictLocked()
	}
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.items[key] = e
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close implements Cache.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.items)
	return nil
}

func (m *Memory) expired(e entry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

func (m *Memory) evictLocked() {
	for k, e := range m.items {
		if m.expired(e) {
			delete(m.items, k)
		}
	}
	if len(m.items) < m.maxItems {
		return
	}
	for k := range m.items {
		delete(m.items, k)
		return
	}
}
