// Package codecache memoises decode results in bounded, sharded LRUs.
package codecache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/beidou-grid/internal/cache/keys"
	"github.com/mohammed-shakir/beidou-grid/internal/core/observability"
)

const defaultShards = 8

// Cache is a set of LRU shards chosen by the key hash. A nil *Cache is a
// valid, always-missing cache.
type Cache[V any] struct {
	name   string
	shards []*lru.Cache[string, V]
}

// New returns a cache holding about size entries, or nil when size <= 0.
// name labels the hit/miss metrics.
func New[V any](name string, size int) *Cache[V] {
	if size <= 0 {
		return nil
	}
	n := defaultShards
	if size < n {
		n = 1
	}
	per := (size + n - 1) / n
	c := &Cache[V]{name: name, shards: make([]*lru.Cache[string, V], n)}
	for i := range c.shards {
		// lru.New only fails for a non-positive size
		c.shards[i], _ = lru.New[string, V](per)
	}
	return c
}

func (c *Cache[V]) shard(op, variant, code string) *lru.Cache[string, V] {
	return c.shards[keys.Sum(op, variant, code)%uint64(len(c.shards))]
}

func (c *Cache[V]) Get(op, variant, code string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	v, ok := c.shard(op, variant, code).Get(keys.Key(op, variant, code))
	if ok {
		observability.IncCacheHit(c.name)
	} else {
		observability.IncCacheMiss(c.name)
	}
	return v, ok
}

func (c *Cache[V]) Add(op, variant, code string, v V) {
	if c == nil {
		return
	}
	c.shard(op, variant, code).Add(keys.Key(op, variant, code), v)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Errors are returned as is and never cached.
func (c *Cache[V]) GetOrLoad(op, variant, code string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(op, variant, code); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Add(op, variant, code, v)
	return v, nil
}

// Len is the number of entries across all shards.
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, s := range c.shards {
		n += s.Len()
	}
	return n
}

func (c *Cache[V]) Purge() {
	if c == nil {
		return
	}
	for _, s := range c.shards {
		s.Purge()
	}
}
