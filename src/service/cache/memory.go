package cache

import (
	"sync"
	"time"

	"code-analyzer/src/util"
)

type memoryEntry struct {
	value     []byte
	timestamp int64
}

// MemoryStore is an in-process Store shared by all workers of one run
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value by key
func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || expired(e.timestamp, m.ttl, m.now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value unless another worker stored a live entry for the same
// key first. Identical content yields identical values, so the first writer
// wins.
func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if ok && !expired(e.timestamp, m.ttl, m.now()) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if e, ok := m.entries[key]; ok && !expired(e.timestamp, m.ttl, m.now()) {
		util.Debug("Cache entry %s stored concurrently, keeping existing value", key)
		return nil
	}
	m.entries[key] = memoryEntry{value: value, timestamp: m.now().UnixNano()}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close drops all entries
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
