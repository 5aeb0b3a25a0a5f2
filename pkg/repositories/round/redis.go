package round

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kopeyka/casino/pkg/entities"
	"github.com/redis/go-redis/v9"
)

const roundKeyFormat = "casino:round:%s"

// Abandoned rounds expire on their own; a round older than this has no
// player coming back for it.
const defaultRoundTTL = 24 * time.Hour

// RedisStore implements Store backed by Redis, for deployments where
// in-progress rounds must survive process restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    defaultRoundTTL,
	}, nil
}

// GetRound retrieves a user's round, or nil when none is in progress
func (s *RedisStore) GetRound(ctx context.Context, userID string) (*entities.Round, error) {
	key := fmt.Sprintf(roundKeyFormat, userID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting round: %w", err)
	}

	var r entities.Round
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("error decoding round: %w", err)
	}
	return &r, nil
}

// PutRound stores a user's round, replacing any previous one
func (s *RedisStore) PutRound(ctx context.Context, userID string, r *entities.Round) error {
	key := fmt.Sprintf(roundKeyFormat, userID)

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error encoding round: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("error storing round: %w", err)
	}
	return nil
}

// ClearRound discards a user's round if present
func (s *RedisStore) ClearRound(ctx context.Context, userID string) error {
	key := fmt.Sprintf(roundKeyFormat, userID)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("error clearing round: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
