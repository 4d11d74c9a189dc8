package persistence

import (
	"context"
	"sync"

	"github.com/khoahotran/cv-portfolio/internal/storage"
)

type memoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend keeps values in process memory. Everything is lost on restart.
func NewMemoryBackend() storage.Backend {
	return &memoryBackend{data: make(map[string][]byte)}
}

func (b *memoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.data[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (b *memoryBackend) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	b.mu.Lock()
	b.data[key] = v
	b.mu.Unlock()
	return nil
}

func (b *memoryBackend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.data, key)
	b.mu.Unlock()
	return nil
}
