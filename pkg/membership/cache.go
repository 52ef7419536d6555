package membership

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Cache stores a user's active membership list for a bounded time.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves the cached membership list for a user.
	Get(ctx context.Context, userID uuid.UUID) ([]Membership, bool)

	// Set stores the membership list with the given TTL.
	Set(ctx context.Context, userID uuid.UUID, memberships []Membership, ttl time.Duration)

	// Delete removes the user's entry; used for synchronous invalidation
	// on membership changes.
	Delete(ctx context.Context, userID uuid.UUID)

	// Close releases any resources held by the cache.
	Close() error
}

type cacheItem struct {
	memberships []Membership
	expiresAt   time.Time
}

// inMemoryCache is the default per-process cache with TTL expiry, LRU
// eviction and a background cleanup goroutine.
type inMemoryCache struct {
	mu      sync.Mutex
	items   map[uuid.UUID]cacheItem
	lru     []uuid.UUID
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// DefaultCacheSize bounds the number of users held in the in-memory cache.
const DefaultCacheSize = 1000

// NewInMemoryCache creates an in-memory cache with the default size limit.
func NewInMemoryCache() Cache {
	return NewInMemoryCacheWithSize(DefaultCacheSize)
}

// NewInMemoryCacheWithSize creates an in-memory cache bounded to maxSize users.
func NewInMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &inMemoryCache{
		items:   make(map[uuid.UUID]cacheItem),
		lru:     make([]uuid.UUID, 0, maxSize),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, userID uuid.UUID) ([]Membership, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[userID]
	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, userID)
		c.removeLRU(userID)
		return nil, false
	}

	c.touchLRU(userID)
	return item.memberships, true
}

func (c *inMemoryCache) Set(ctx context.Context, userID uuid.UUID, memberships []Membership, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[userID]; !exists && len(c.items) >= c.maxSize {
		if len(c.lru) > 0 {
			evict := c.lru[0]
			delete(c.items, evict)
			c.lru = c.lru[1:]
		}
	}

	c.items[userID] = cacheItem{
		memberships: memberships,
		expiresAt:   time.Now().Add(ttl),
	}
	c.touchLRU(userID)
}

func (c *inMemoryCache) Delete(ctx context.Context, userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, userID)
	c.removeLRU(userID)
}

func (c *inMemoryCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *inMemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for userID, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, userID)
			c.removeLRU(userID)
		}
	}
}

func (c *inMemoryCache) touchLRU(userID uuid.UUID) {
	c.removeLRU(userID)
	c.lru = append(c.lru, userID)
}

func (c *inMemoryCache) removeLRU(userID uuid.UUID) {
	for i, id := range c.lru {
		if id == userID {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			return
		}
	}
}

func (c *inMemoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noOpCache disables caching; every read goes to the directory.
type noOpCache struct{}

// NewNoOpCache creates a cache that never stores anything.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(ctx context.Context, userID uuid.UUID) ([]Membership, bool) { return nil, false }
func (noOpCache) Set(ctx context.Context, userID uuid.UUID, memberships []Membership, ttl time.Duration) {
}
func (noOpCache) Delete(ctx context.Context, userID uuid.UUID) {}
func (noOpCache) Close() error                                 { return nil }
