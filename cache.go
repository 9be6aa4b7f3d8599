package ogcards

import (
	"context"
	"sync"
	"time"
)

// PostCache is an in-memory cache of sorted posts with TTL.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	loaded  bool
	fetched time.Time
	ttl     time.Duration
	src     PostSource
}

// NewPostCache creates a PostCache backed by src.
func NewPostCache(src PostSource, ttl time.Duration) *PostCache {
	return &PostCache{src: src, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.loaded = false
	c.mu.Unlock()
}

// SortedPosts returns cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) SortedPosts(ctx context.Context) ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.src.SortedPosts(ctx)
	if err != nil {
		return nil, err
	}
	c.posts = posts
	c.loaded = true
	c.fetched = time.Now()
	return posts, nil
}
