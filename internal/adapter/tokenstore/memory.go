package tokenstore

import (
	"context"
	"study-buddy/internal/domain"
	"study-buddy/internal/util"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps the token for the lifetime of the process only. JWTs are evicted
// when their exp claim passes.
type MemoryStore struct {
	cache *gocache.Cache
	key   string
}

func NewMemoryStore(key string) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
		key:   key,
	}
}

var _ domain.TokenStore = (*MemoryStore)(nil)

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	if v, found := s.cache.Get(s.key); found {
		return v.(string), nil
	}
	return "", nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	expiration := gocache.NoExpiration
	if ttl := util.TokenTTL(token, time.Now()); ttl > 0 {
		expiration = ttl
	}
	s.cache.Set(s.key, token, expiration)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.cache.Delete(s.key)
	return nil
}
