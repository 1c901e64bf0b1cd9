// internal/services/idempotency.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore reserves request keys for a window so that repeated cart
// mutations are only forwarded once.
type IdempotencyStore interface {
	// Acquire reports true when the key was free and is now held for ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		prefix: "storefront:idempotency:",
	}
}

func (s *RedisIdempotencyStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key, 1, ttl).Result()
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// MemoryIdempotencyStore is the single-instance fallback used when Redis is
// not configured.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryIdempotencyStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expires, ok := s.entries[key]; ok && now.Before(expires) {
		return false, nil
	}

	s.entries[key] = now.Add(ttl)
	s.sweep(now)
	return true, nil
}

func (s *MemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// sweep drops expired keys. Caller holds the lock.
func (s *MemoryIdempotencyStore) sweep(now time.Time) {
	for key, expires := range s.entries {
		if !now.Before(expires) {
			delete(s.entries, key)
		}
	}
}
