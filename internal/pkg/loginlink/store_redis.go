package loginlink

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "auth:login-link:"

// RedisStore keeps login tokens in Redis. Single-use consumption relies on
// GETDEL, so concurrent redeems of the same token resolve at most once.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) key(token string) string { return redisKeyPrefix + token }

func (s *RedisStore) Put(ctx context.Context, token, email string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(token), email, ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.rdb.GetDel(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
