package journal

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and dry runs. It applies
// the same (time, id) ordering and first-writer-wins semantics as the
// persistent store.
type MemoryStore struct {
	mu       sync.Mutex
	trades   map[string]Trade
	metadata map[string]string
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trades:   make(map[string]Trade),
		metadata: make(map[string]string),
	}
}

// AppendIfAbsent implements Store.
func (m *MemoryStore) AppendIfAbsent(t Trade) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.trades[t.ID]; exists {
		return false, nil
	}
	m.trades[t.ID] = t
	return true, nil
}

// FetchOrdered implements Store.
func (m *MemoryStore) FetchOrdered(f Filter) ([]Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Trade
	for _, t := range m.trades {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	SortTrades(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out, nil
}

// PersistPnL implements Store.
func (m *MemoryStore) PersistPnL(id string, step Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, exists := m.trades[id]
	if !exists {
		return fmt.Errorf("trade %s not found", id)
	}
	t.RealizedPnL = step.RealizedPnL
	t.FeeAdjustedPnL = step.FeeAdjustedPnL
	t.ShortPosition = step.ShortPosition
	t.UnconvertedFee = step.UnconvertedFee
	m.trades[id] = t
	return nil
}

// SetMetadata implements MetadataStore.
func (m *MemoryStore) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}

// Metadata implements MetadataStore.
func (m *MemoryStore) Metadata(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.metadata[key]
	return v, ok, nil
}

// Count returns the number of stored trades.
func (m *MemoryStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trades)
}
