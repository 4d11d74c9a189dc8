// Package storage is the key-value persistence layer every component writes through.
// Values are JSON documents stored under namespaced string keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

var ErrKeyNotFound = errors.New("key not found")

// Backend is a raw byte store. Get returns ErrKeyNotFound for an absent key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

type Store struct {
	backend   Backend
	namespace string
	logger    logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(backend Backend, namespace string, log logger.Logger) *Store {
	return &Store{
		backend:   backend,
		namespace: namespace,
		logger:    log,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

// Get decodes the value under key into v. It reports false when the key is absent,
// unreadable or holds a payload that does not parse; corruption is logged, never
// returned.
func (s *Store) Get(ctx context.Context, key string, v any) bool {
	raw, err := s.backend.Get(ctx, s.key(key))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error("Failed to read key", err, zap.String("key", key))
		}
		return false
	}

	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("Stored value is corrupt, treating as absent",
			zap.String("key", key),
			zap.Error(apperror.NewStorageCorrupt(key, err)),
		)
		return false
	}
	return true
}

// GetRaw returns the stored JSON document as-is.
func (s *Store) GetRaw(ctx context.Context, key string) (json.RawMessage, bool) {
	raw, err := s.backend.Get(ctx, s.key(key))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error("Failed to read key", err, zap.String("key", key))
		}
		return nil, false
	}
	if !json.Valid(raw) {
		s.logger.Warn("Stored value is corrupt, treating as absent", zap.String("key", key))
		return nil, false
	}
	return raw, true
}

func (s *Store) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperror.NewInternal("failed to encode value for "+key, err)
	}
	if err := s.backend.Set(ctx, s.key(key), raw); err != nil {
		return apperror.NewInternal("failed to write "+key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Remove(ctx, s.key(key)); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return apperror.NewInternal("failed to remove "+key, err)
	}
	return nil
}

// Update runs a read-modify-write cycle on key while holding the key's lock. v is
// filled with the current value (left untouched when absent), fn mutates it, and the
// result is written back. Returning an error from fn aborts without writing.
func (s *Store) Update(ctx context.Context, key string, v any, fn func(found bool) error) error {
	unlock := s.Lock(key)
	defer unlock()

	found := s.Get(ctx, key, v)
	if err := fn(found); err != nil {
		return err
	}
	return s.Set(ctx, key, v)
}

// Lock serialises writers of key within this process.
func (s *Store) Lock(key string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
