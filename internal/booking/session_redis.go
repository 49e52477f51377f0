package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/voicemed/platform/internal/catalog"
)

// RedisSessionStore persists wizard snapshots as JSON with a TTL, so
// in-progress bookings survive API restarts and expire on abandonment.
type RedisSessionStore struct {
	catalog *catalog.Catalog
	redis   *redis.Client
	ttl     time.Duration
}

// NewRedisSessionStore creates a session store backed by the given client.
// A non-positive ttl disables expiry.
func NewRedisSessionStore(cat *catalog.Catalog, redisClient *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSessionStore{
		catalog: cat,
		redis:   redisClient,
		ttl:     ttl,
	}
}

func (s *RedisSessionStore) key(id string) string {
	return fmt.Sprintf("booking:session:%s", id)
}

func (s *RedisSessionStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.write(ctx, id, New(s.catalog).State()); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Wizard, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking: get session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("booking: unmarshal session: %w", err)
	}

	return Restore(s.catalog, state), nil
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, w *Wizard) error {
	exists, err := s.redis.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("booking: check session: %w", err)
	}
	if exists == 0 {
		return ErrSessionNotFound
	}
	return s.write(ctx, id, w.State())
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("booking: delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) write(ctx context.Context, id string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("booking: marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("booking: set session: %w", err)
	}
	return nil
}
