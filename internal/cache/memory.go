package cache

import (
	"context"
	"time"

	"github.com/siahsang/yatube/internal/utils/collectionutils"
)

type memoryEntry struct {
	value    []byte
	expireAt time.Time
}

// MemoryCache is a process-local PageCache, used when no Redis URL is configured.
type MemoryCache struct {
	entries *collectionutils.SafeMap[string, memoryEntry]
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: collectionutils.New[string, memoryEntry](),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.entries.Get(KeyPrefix + key)
	if ok && !c.now().Before(entry.expireAt) {
		c.entries.Delete(KeyPrefix + key)
		ok = false
	}
	recordLookup(ok, nil)
	if !ok {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := c.now()
	c.entries.DeleteFunc(func(_ string, e memoryEntry) bool {
		return !now.Before(e.expireAt)
	})
	c.entries.Store(KeyPrefix+key, memoryEntry{
		value:    value,
		expireAt: now.Add(ttl),
	})
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.entries.Clear()
	return nil
}
