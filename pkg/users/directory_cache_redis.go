package users

import (
	"context"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// DirectoryCacheRedis caches the Directory in Redis so every instance shares it
type DirectoryCacheRedis struct {
	Cache *cache.Cache
}

// NewDirectoryCacheRedis initializes a new DirectoryCacheRedis with a small local layer in front of Redis
func NewDirectoryCacheRedis(redisClient *redis.Client) *DirectoryCacheRedis {
	redisCache := cache.New(&cache.Options{
		Redis:      redisClient,
		LocalCache: cache.NewTinyLFU(10, time.Minute),
	})

	return &DirectoryCacheRedis{
		Cache: redisCache,
	}
}

// Add adds a Directory
func (c *DirectoryCacheRedis) Add(ctx context.Context, key string, entry *Directory) error {
	err := c.Cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: entry,
		TTL:   directoryTTL,
	})
	if err != nil {
		return err
	}

	return nil
}

// Invalidate invalidates an entry
func (c *DirectoryCacheRedis) Invalidate(ctx context.Context, key string) error {
	err := c.Cache.Delete(ctx, key)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return err
	}

	return nil
}

// Get retrieves a Directory
func (c *DirectoryCacheRedis) Get(ctx context.Context, key string) (*Directory, error) {
	result := Directory{}
	err := c.Cache.Get(ctx, key, &result)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, errors.Wrapf(ErrCacheMiss, "key %s", key)
	}
	if err != nil {
		return nil, err
	}

	return &result, nil
}
