// Package storage provides the client's local persistence: a synchronous
// key/value store used for drafts and session state, and a cache of
// listings for offline browsing. Both are backed by sqlite; an in-memory
// key/value store covers tests and the degraded no-local-storage mode.
package storage

import (
	"context"
	"sync"

	"github.com/foodshare/foodshare/internal/common"
)

// KVStore is a synchronous string key/value store. Get returns
// common.ErrorNotFound when the key is absent; absence is a normal,
// commonly-exercised state. Each call is atomic.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryKV is an in-memory KVStore. It backs tests and the degraded mode
// entered when the sqlite store cannot be opened.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

func (s *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (s *MemoryKV) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemoryKV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
