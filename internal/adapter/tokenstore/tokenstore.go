// Package tokenstore persists the client's authentication token under a single
// well-known key.
package tokenstore

import (
	"context"
	"fmt"
	"study-buddy/internal/cache"
	"study-buddy/internal/config"
	"study-buddy/internal/domain"
)

// New builds the token store selected by cfg.Session.Store. The redis store dials the
// server configured in cfg.Redis.
func New(ctx context.Context, cfg *config.Config) (domain.TokenStore, error) {
	switch cfg.Session.Store {
	case "file":
		return NewFileStore(cfg.Session.TokenFile, cfg.Session.TokenKey), nil
	case "memory":
		return NewMemoryStore(cfg.Session.TokenKey), nil
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Session.TokenKey), nil
	default:
		return nil, fmt.Errorf("unsupported token store %q", cfg.Session.Store)
	}
}
