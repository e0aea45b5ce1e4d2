package store

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	maxBytes int
}

type MemoryOptions struct {
	// MaxValueBytes rejects larger writes with ErrValueTooLarge. Zero disables the check.
	MaxValueBytes int
}

func NewMemoryStore(opts MemoryOptions) *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string][]byte),
		maxBytes: opts.MaxValueBytes,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if s.maxBytes > 0 && len(value) > s.maxBytes {
		return ErrValueTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
