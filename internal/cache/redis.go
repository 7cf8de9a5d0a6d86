package cache

import (
	"context"
	"errors"
	"fmt"
	"study-buddy/internal/config"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

var ErrNoRedisAddress = errors.New("redis.address is not configured")

// NewRedisClient connects to the configured server and fails fast when it does not
// answer a PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrNoRedisAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.Address, err)
	}
	return client, nil
}
