package loginlink

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process TokenStore used in tests and single-node dev
// setups without Redis.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]memoryItem
}

type memoryItem struct {
	email string
	exp   time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryItem)}
}

func (s *MemoryStore) Put(ctx context.Context, token, email string, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[token] = memoryItem{email: email, exp: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, token string) (string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.data[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	delete(s.data, token)
	if time.Now().After(it.exp) {
		return "", ErrTokenNotFound
	}
	return it.email, nil
}
