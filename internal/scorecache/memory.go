package scorecache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps totals in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, docID string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[docID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) Set(_ context.Context, docID string, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[docID] = Entry{DocumentID: docID, Total: total, UpdatedAt: m.now().UTC()}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, docID)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
