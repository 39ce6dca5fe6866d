package cache

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CodeStore is a small expiring key-value store for short-lived codes
// (password-reset OTPs). It is injected as a dependency so handlers can
// be tested against the in-memory implementation and deployments can
// share codes across instances through redis.
type CodeStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// RedisCodeStore backs the store with redis TTLs.
type RedisCodeStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisCodeStore(client *redis.Client, prefix string) *RedisCodeStore {
	return &RedisCodeStore{Client: client, Prefix: prefix}
}

func (s *RedisCodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, s.Prefix+key, value, ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.Client.Get(ctx, s.Prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.Prefix+key).Err()
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCodeStore keeps codes in process memory with lazy expiry plus a
// background sweep. Suitable for tests and single-instance deployments.
type MemoryCodeStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	stop    chan struct{}
}

func NewMemoryCodeStore() *MemoryCodeStore {
	s := &MemoryCodeStore{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryCodeStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryCodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryCodeStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryCodeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close stops the background sweep.
func (s *MemoryCodeStore) Close() {
	close(s.stop)
}
