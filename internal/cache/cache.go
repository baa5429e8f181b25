package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"ShopMate/internal/responder"
)

// CachedReply represents a cached routing-mode reply
type CachedReply struct {
	Reply     responder.Reply
	Timestamp time.Time
}

// ReplyCache memoizes replies that depend only on the message text.
// Negotiation replies depend on session state and must never be stored.
type ReplyCache struct {
	entries    sync.Map
	ttl        time.Duration
	maxEntries int
}

// DefaultMaxEntries bounds the cache when no limit is given
const DefaultMaxEntries = 1024

// New creates a cache holding at most DefaultMaxEntries replies; a zero ttl
// keeps entries until the limit is reached
func New(ttl time.Duration) *ReplyCache {
	return NewBounded(ttl, DefaultMaxEntries)
}

// NewBounded creates a cache holding at most maxEntries replies
func NewBounded(ttl time.Duration, maxEntries int) *ReplyCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &ReplyCache{ttl: ttl, maxEntries: maxEntries}
}

func (c *ReplyCache) expired(cached CachedReply, now time.Time) bool {
	return c.ttl > 0 && now.Sub(cached.Timestamp) > c.ttl
}

// GenerateCacheKey generates a cache key from a message
func GenerateCacheKey(message string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(message))))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Load returns the cached reply for key if present and fresh
func (c *ReplyCache) Load(key string, now time.Time) (responder.Reply, bool) {
	val, ok := c.entries.Load(key)
	if !ok {
		return responder.Reply{}, false
	}
	cached := val.(CachedReply)
	if c.expired(cached, now) {
		c.entries.Delete(key)
		return responder.Reply{}, false
	}
	return cloneReply(cached.Reply), true
}

// Store caches reply under key. Expired entries are swept first; when the
// cache is still full a new key is not stored.
func (c *ReplyCache) Store(key string, reply responder.Reply, now time.Time) {
	live := 0
	c.entries.Range(func(k, v any) bool {
		if c.expired(v.(CachedReply), now) {
			c.entries.Delete(k)
		} else {
			live++
		}
		return true
	})

	if _, exists := c.entries.Load(key); !exists && live >= c.maxEntries {
		return
	}
	c.entries.Store(key, CachedReply{Reply: cloneReply(reply), Timestamp: now})
}

// Len returns the number of entries, fresh or not yet swept
func (c *ReplyCache) Len() int {
	n := 0
	c.entries.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

// cloneReply copies the navigation pointer so callers cannot mutate cached entries
func cloneReply(r responder.Reply) responder.Reply {
	if r.Navigation != nil {
		dest := *r.Navigation
		r.Navigation = &dest
	}
	return r
}
