package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// directoryTTL is how long a cached Directory is served before the store is read again
const directoryTTL = time.Minute * 5

// ErrCacheMiss is returned when a key is not cached or expired
var ErrCacheMiss = errors.New("cache miss")

// Directory holds the user and reporting rows, both change rarely and are only edited in the store itself
type Directory struct {
	Users     []User
	Reporting []ReportingEdge
	LoadedAt  time.Time
}

// DirectoryCacheInterface is the interface for a directory cache
type DirectoryCacheInterface interface {
	Add(ctx context.Context, key string, entry *Directory) error
	Invalidate(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*Directory, error)
}

// DirectoryCacheMemory caches the Directory inside the process
type DirectoryCacheMemory struct {
	Cache *lru.Cache
	TTL   time.Duration
}

// NewDirectoryCacheMemory initializes a new DirectoryCacheMemory
func NewDirectoryCacheMemory() (*DirectoryCacheMemory, error) {
	cache, err := lru.New(10)
	if err != nil {
		return nil, err
	}

	return &DirectoryCacheMemory{
		Cache: cache,
		TTL:   directoryTTL,
	}, nil
}

// Add adds a Directory to the cache
func (c *DirectoryCacheMemory) Add(_ context.Context, key string, entry *Directory) error {
	_ = c.Cache.Add(key, entry)
	return nil
}

// Invalidate removes a Directory from the cache
func (c *DirectoryCacheMemory) Invalidate(_ context.Context, key string) error {
	c.Cache.Remove(key)
	return nil
}

// Get retrieves a Directory from the cache, expired entries are evicted
func (c *DirectoryCacheMemory) Get(_ context.Context, key string) (*Directory, error) {
	result, ok := c.Cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("could not find key %s in directory cache: %w", key, ErrCacheMiss)
	}

	directory, ok := result.(*Directory)
	if !ok {
		return nil, fmt.Errorf("cache entry was not a directory")
	}

	if c.TTL > 0 && time.Since(directory.LoadedAt) > c.TTL {
		c.Cache.Remove(key)
		return nil, fmt.Errorf("key %s expired: %w", key, ErrCacheMiss)
	}

	return directory, nil
}
