package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in process memory. Values are copied on the way in
// and out so callers can't alias stored bytes.
type MemoryBackend struct {
	values sync.Map
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := m.values.Load(key); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	m.values.Store(key, append([]byte(nil), value...))
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.values.Delete(key)
	return nil
}
