package sink

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory keeps artifacts in memory. Useful for testing or when diagrams are
// consumed in-process.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

// Backend implements Sink.
func (m *Memory) Backend() string { return "memory" }

// Put stores a copy of data.
func (m *Memory) Put(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	m.items[name] = slices.Clone(data)
	m.mu.Unlock()
	return record(ctx, m.Backend(), name, len(data), nil)
}

// Get returns a copy of the stored artifact.
func (m *Memory) Get(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.items[name]
	if !ok {
		return nil, notFound(m.Backend(), name)
	}
	return slices.Clone(data), nil
}

// List returns the stored names in lexical order.
func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.items)), nil
}

// Len returns the number of stored artifacts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close does nothing.
func (m *Memory) Close() error {
	return nil
}

var _ Sink = (*Memory)(nil)
