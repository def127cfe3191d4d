package oauth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const StateTTL = 10 * time.Minute

// StateStore хранит одноразовые state-токены OAuth-рукопожатия
type StateStore interface {
	Save(ctx context.Context, state, provider string, ttl time.Duration) error
	// Consume возвращает провайдера и удаляет state; повторный вызов: ErrInvalidState
	Consume(ctx context.Context, state string) (string, error)
}

func NewState() string {
	return uuid.NewString()
}

type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryState
	now     func() time.Time
}

type memoryState struct {
	provider string
	expires  time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{entries: make(map[string]memoryState), now: time.Now}
}

func (s *MemoryStateStore) Save(_ context.Context, state, provider string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, v := range s.entries {
		if now.After(v.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[state] = memoryState{provider: provider, expires: now.Add(ttl)}
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[state]
	if !ok {
		return "", ErrInvalidState
	}
	delete(s.entries, state)
	if s.now().After(entry.expires) {
		return "", ErrInvalidState
	}
	return entry.provider, nil
}

const statePrefix = "oauth_state:"

type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) Save(ctx context.Context, state, provider string, ttl time.Duration) error {
	return s.client.Set(ctx, statePrefix+state, provider, ttl).Err()
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (string, error) {
	provider, err := s.client.GetDel(ctx, statePrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidState
	}
	if err != nil {
		return "", err
	}
	return provider, nil
}
