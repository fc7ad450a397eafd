package store

import (
	"context"
	"sync"

	"github.com/urmzd/irhome/pkg/device"
)

// Memory keeps device records in a map. Records are stored encoded so
// callers never share a live Device with the store.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) ListKeys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	return sorted(keys), nil
}

func (m *Memory) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[id]
	return ok, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*device.Device, error) {
	m.mu.RLock()
	data, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return decode(id, data)
}

func (m *Memory) Put(ctx context.Context, id string, d *device.Device) error {
	data, err := encode(id, d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[id] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return notFound(id)
	}
	delete(m.records, id)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
