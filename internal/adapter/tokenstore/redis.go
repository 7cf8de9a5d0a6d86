package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"study-buddy/internal/cache"
	"study-buddy/internal/domain"
	"study-buddy/internal/util"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares the session token between machines through Redis. The key
// expires together with the token when the token is a JWT.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore accepts any redis.Cmdable so tests can pass a redismock client.
func NewRedisStore(client redis.Cmdable, tokenKey string) *RedisStore {
	return &RedisStore{client: client, key: cache.SessionTokenKey(tokenKey)}
}

var _ domain.TokenStore = (*RedisStore)(nil)

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session token: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	var expiration time.Duration
	if ttl := util.TokenTTL(token, time.Now()); ttl > 0 {
		expiration = ttl
	}
	if err := s.client.Set(ctx, s.key, token, expiration).Err(); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
