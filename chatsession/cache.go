package chatsession

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache holds the server state a session has already fetched.
// Each session owns its own instance.
type Cache interface {
	Read(key string) (any, bool)
	Write(key string, v any)
	Invalidate(key string)
}

const (
	defaultCacheSize = 64
	defaultCacheTTL  = time.Minute * 5
)

// MemoryCache is a size bounded [Cache] whose entries expire after ttl.
// It is safe for concurrent use.
type MemoryCache struct {
	items *lru.LRU[string, any]
}

// NewMemoryCache with a size of 64 entries and a ttl of 5 minutes when
// given zero values.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &MemoryCache{items: lru.NewLRU[string, any](size, nil, ttl)}
}

func (c *MemoryCache) Read(key string) (any, bool) {
	return c.items.Get(key)
}

func (c *MemoryCache) Write(key string, v any) {
	c.items.Add(key, v)
}

func (c *MemoryCache) Invalidate(key string) {
	c.items.Remove(key)
}

func messagesKey(conversationID string) string {
	return "messages:" + conversationID
}

const unreadCountKey = "unread_count"
