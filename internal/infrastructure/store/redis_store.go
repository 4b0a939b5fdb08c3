package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each profile in a hash that expires after ttl of
// inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// GetItem retrieves a value
func (rs *RedisStore) GetItem(ctx context.Context, profileID, key string) (string, bool, error) {
	if profileID == "" {
		return "", false, ErrEmptyProfile
	}
	value, err := rs.client.HGet(ctx, profileKey(profileID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget failed: %w", err)
	}
	return value, true, nil
}

// SetItem stores a value and refreshes the profile expiry
func (rs *RedisStore) SetItem(ctx context.Context, profileID, key, value string) error {
	if profileID == "" {
		return ErrEmptyProfile
	}
	hash := profileKey(profileID)
	pipe := rs.client.TxPipeline()
	pipe.HSet(ctx, hash, key, value)
	if rs.ttl > 0 {
		pipe.Expire(ctx, hash, rs.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

// RemoveItem deletes a value
func (rs *RedisStore) RemoveItem(ctx context.Context, profileID, key string) error {
	if profileID == "" {
		return ErrEmptyProfile
	}
	if err := rs.client.HDel(ctx, profileKey(profileID), key).Err(); err != nil {
		return fmt.Errorf("redis hdel failed: %w", err)
	}
	return nil
}

func profileKey(profileID string) string {
	return fmt.Sprintf("profile:%s", profileID)
}
