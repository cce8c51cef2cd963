// Package cache holds the page cache used to memoize rendered feed pages for a fixed time.
// Entries are never invalidated by writes, only by expiry or an explicit Clear.
package cache

import (
	"context"
	"time"

	"github.com/siahsang/yatube/internal/metrics"
)

// PageCache stores rendered page bodies under string keys.
type PageCache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// KeyPrefix namespaces every page cache key.
const KeyPrefix = "yatube:page:"

func recordLookup(hit bool, err error) {
	switch {
	case err != nil:
		metrics.PageCacheLookups.WithLabelValues("error").Inc()
	case hit:
		metrics.PageCacheLookups.WithLabelValues("hit").Inc()
	default:
		metrics.PageCacheLookups.WithLabelValues("miss").Inc()
	}
}
