package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore remembers OAuth state values until they are consumed once.
type StateStore interface {
	Put(ctx context.Context, state string, ttl time.Duration) error
	// Consume reports whether state was issued, unexpired and unused.
	Consume(ctx context.Context, state string) (bool, error)
}

// MemoryStateStore keeps states in process memory. Suitable for a single
// API instance.
type MemoryStateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

// NewMemoryStateStore constructs an empty MemoryStateStore.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{items: make(map[string]time.Time), now: time.Now}
}

// Put records state with an expiry and drops expired entries.
func (s *MemoryStateStore) Put(ctx context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	s.items[state] = now.Add(ttl)
	return nil
}

// Consume implements StateStore.
func (s *MemoryStateStore) Consume(ctx context.Context, state string) (bool, error) {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return !s.now().After(exp), nil
}

// RedisStateStore shares states across API instances.
type RedisStateStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStateStore connects to redisURL (redis:// or rediss://) and pings it.
func NewRedisStateStore(ctx context.Context, redisURL string) (*RedisStateStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStateStore{client: client, prefix: "oauth:state:"}, nil
}

// Put implements StateStore.
func (s *RedisStateStore) Put(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+state, "1", ttl).Err()
}

// Consume implements StateStore. GETDEL makes a state single-use across instances.
func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	_, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ping reports whether Redis is reachable.
func (s *RedisStateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var (
	_ StateStore = (*MemoryStateStore)(nil)
	_ StateStore = (*RedisStateStore)(nil)
)
