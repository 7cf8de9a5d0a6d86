package tutor

import (
	"strconv"
	"study-buddy/internal/adapter/generator"
	"study-buddy/internal/domain"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ChunkCache keeps the split text of recently used documents.
type ChunkCache struct {
	c *gocache.Cache
}

// NewChunkCache creates a cache whose entries expire ttl after their last write.
func NewChunkCache(ttl time.Duration) *ChunkCache {
	return &ChunkCache{c: gocache.New(ttl, 2*ttl)}
}

func cacheKey(documentID int64) string {
	return strconv.FormatInt(documentID, 10)
}

func (cc *ChunkCache) get(doc *domain.StoredDocument) ([]string, error) {
	key := cacheKey(doc.ID)
	if v, ok := cc.c.Get(key); ok {
		return v.([]string), nil
	}
	chunks, err := generator.Chunk(doc.Content)
	if err != nil {
		return nil, domain.NewInternalError("failed to split document", err)
	}
	cc.c.SetDefault(key, chunks)
	return chunks, nil
}

func (cc *ChunkCache) put(documentID int64, chunks []string) {
	cc.c.SetDefault(cacheKey(documentID), chunks)
}

func (cc *ChunkCache) forget(documentID int64) {
	cc.c.Delete(cacheKey(documentID))
}
