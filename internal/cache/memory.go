package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// DefaultMemoryEntries caps a backend built by NewMemory.
const DefaultMemoryEntries = 10000

const memorySweepInterval = time.Minute

// MemoryBackend is a process-local Backend used in tests and single-instance
// development runs. Expired entries are dropped on read and by a sweep that
// runs from Set at most once per minute. When the backend is full, Set
// evicts the entry closest to expiry.
type MemoryBackend struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	nextSweep  time.Time
	now        func() time.Time
}

// NewMemory creates an empty in-memory backend holding at most
// DefaultMemoryEntries entries.
func NewMemory() *MemoryBackend {
	return NewMemoryWithLimit(DefaultMemoryEntries)
}

// NewMemoryWithLimit creates an empty in-memory backend holding at most
// maxEntries entries. A non-positive limit falls back to DefaultMemoryEntries.
func NewMemoryWithLimit(maxEntries int) *MemoryBackend {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryBackend{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return nil, ErrMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweepLocked(now)
		m.nextSweep = now.Add(memorySweepInterval)
	}
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.sweepLocked(now)
		if len(m.entries) >= m.maxEntries {
			m.evictSoonestLocked()
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[key] = memoryEntry{value: stored, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryBackend) sweepLocked(now time.Time) {
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}

func (m *MemoryBackend) evictSoonestLocked() {
	var (
		victim  string
		soonest time.Time
		found   bool
	)
	for key, entry := range m.entries {
		if !found || entry.expiresAt.Before(soonest) {
			victim, soonest, found = key, entry.expiresAt, true
		}
	}
	if found {
		delete(m.entries, victim)
	}
}

func (m *MemoryBackend) Ping(context.Context) error { return nil }

func (m *MemoryBackend) Close() error { return nil }

// Len reports the number of stored entries, expired or not.
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
