package policy

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

type cacheKey struct {
	action  Action
	typeKey string
}

// cacheEntry serialises resolution for one key. resolved stays empty until
// a resolution succeeds and is read without the lock afterwards.
type cacheEntry struct {
	mu       sync.Mutex
	resolved atomic.Pointer[resolvedBox]
}

type resolvedBox struct {
	Resolved
}

// Cache memoizes Resolver output per (action, type key). Entries live as long
// as the Cache; there is no eviction. Concurrent first accesses to the same
// key resolve once; failed resolutions are not stored and are attempted
// again on the next call.
type Cache struct {
	resolver *Resolver
	enabled  bool
	entries  *xsync.MapOf[cacheKey, *cacheEntry]
}

// NewCache wraps resolver. With enabled false every call resolves afresh.
func NewCache(resolver *Resolver, enabled bool) *Cache {
	return &Cache{
		resolver: resolver,
		enabled:  enabled,
		entries:  xsync.NewMapOf[cacheKey, *cacheEntry](),
	}
}

// GetOrResolve returns the cached predicate for (action, typeKey), resolving
// raw against sample on a miss. The bool reports whether the result came
// from the cache.
func (c *Cache) GetOrResolve(action Action, typeKey string, raw any, sample any) (Resolved, bool, error) {
	if !c.enabled {
		r, err := c.resolver.Resolve(action, typeKey, raw, sample)
		return r, false, err
	}

	key := cacheKey{action: action, typeKey: typeKey}
	entry, ok := c.entries.Load(key)
	if !ok {
		entry, _ = c.entries.LoadOrStore(key, &cacheEntry{})
	}
	if box := entry.resolved.Load(); box != nil {
		return box.Resolved, true, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if box := entry.resolved.Load(); box != nil {
		return box.Resolved, true, nil
	}
	r, err := c.resolver.Resolve(action, typeKey, raw, sample)
	if err != nil {
		return nil, false, err
	}
	entry.resolved.Store(&resolvedBox{r})
	return r, false, nil
}

// Len reports how many keys hold a resolved predicate.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_ cacheKey, e *cacheEntry) bool {
		if e.resolved.Load() != nil {
			n++
		}
		return true
	})
	return n
}
