package cache

import (
	"context"
	"sync"
	"time"

	"github.com/AaronL1011/polly-ai/internal/rag"
)

// Memory is an in-process, mutex-guarded TTL cache. It is the cache
// implementation used by cmd/pollyctl's demo mode and by tests; a
// production deployment would back Cache onto Redis or similar, but
// spec.md's contract only names the interface, so this is the one
// implementation this module ships.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     *rag.Result
	expiresAt time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory builds an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) (*rag.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value *rag.Result, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (m *Memory) QueryKey(q rag.Query) string {
	return QueryKey(q)
}
