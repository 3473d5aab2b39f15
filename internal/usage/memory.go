package usage

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore is an in-process counter store for tests and single-node runs.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, _ := strconv.ParseInt(s.values[key], 10, 64)
	current++
	s.values[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
