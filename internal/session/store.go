package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	Get(ctx context.Context, sid, key string) (string, error)
	Set(ctx context.Context, sid, key, value string) error
	// Pop reads and removes key in one round trip. Used for flash values.
	Pop(ctx context.Context, sid, key string) (string, error)
}

// RedisStore keeps each session as a hash under "session:<sid>" with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) key(sid string) string {
	return "session:" + sid
}

func (s *RedisStore) Get(ctx context.Context, sid, key string) (string, error) {
	val, err := s.rdb.HGet(ctx, s.key(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *RedisStore) Set(ctx context.Context, sid, key, value string) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key(sid), key, value)
	pipe.Expire(ctx, s.key(sid), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Pop(ctx context.Context, sid, key string) (string, error) {
	pipe := s.rdb.TxPipeline()
	get := pipe.HGet(ctx, s.key(sid), key)
	pipe.HDel(ctx, s.key(sid), key)
	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	val, err := get.Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}
