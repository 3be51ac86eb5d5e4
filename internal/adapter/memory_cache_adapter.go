package adapter

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"quiz-drill/internal/domain"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCacheAdapter is a bounded in-process domain.Cache. The least
// recently used entry is evicted once capacity is reached and expired
// entries read as misses.
type MemoryCacheAdapter struct {
	entries *lru.Cache
	now     func() time.Time
}

func NewMemoryCacheAdapter(capacity int) (*MemoryCacheAdapter, error) {
	entries, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("create memory cache: %w", err)
	}
	return &MemoryCacheAdapter{entries: entries, now: time.Now}, nil
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) (string, error) {
	raw, ok := m.entries.Get(key)
	if !ok {
		return "", domain.ErrCacheMiss
	}
	entry := raw.(memoryEntry)
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.entries.Remove(key)
		return "", domain.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCacheAdapter) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}
	m.entries.Add(key, entry)
	return nil
}

func (m *MemoryCacheAdapter) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

func (m *MemoryCacheAdapter) Ping(context.Context) error {
	return nil
}

// Len counts stored entries, expired ones included until they are read.
func (m *MemoryCacheAdapter) Len() int {
	return m.entries.Len()
}
