package registry

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements Store on a shared Redis connection.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetValue(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &StoreError{Op: "GET " + key, Err: err}
	}
	return val, nil
}

func (s *RedisStore) SetValue(ctx context.Context, key, val string) error {
	if err := s.client.Set(ctx, key, val, 0).Err(); err != nil {
		return &StoreError{Op: "SET " + key, Err: err}
	}
	return nil
}

func (s *RedisStore) HashGetField(ctx context.Context, hash, field string) (string, error) {
	val, err := s.client.HGet(ctx, hash, field).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &StoreError{Op: "HGET " + hash + " " + field, Err: err}
	}
	return val, nil
}

func (s *RedisStore) HashSetField(ctx context.Context, hash, field, val string) error {
	if err := s.client.HSet(ctx, hash, field, val).Err(); err != nil {
		return &StoreError{Op: "HSET " + hash + " " + field, Err: err}
	}
	return nil
}

func (s *RedisStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, &StoreError{Op: "SMEMBERS " + key, Err: err}
	}
	return members, nil
}
