package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultCacheTTL    = 10 * time.Minute
	defaultCachePrefix = "catalog"
)

// CacheKey names the cache entry for a source kind, so switching CATALOG_SOURCE never
// serves rows loaded from the other source.
func CacheKey(prefix, kind string) string {
	if prefix == "" {
		prefix = defaultCachePrefix
	}
	return fmt.Sprintf("%s:%s:v1", prefix, kindOrDefault(kind))
}

// Cache stores a loaded country list so restarts skip the database.
type Cache interface {
	Get(ctx context.Context) ([]Country, error)
	Set(ctx context.Context, countries []Country) error
}

// RedisCache keeps the catalog as a JSON blob under a single key.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, key string, ttl time.Duration) *RedisCache {
	if key == "" {
		key = CacheKey(defaultCachePrefix, KindEmbedded)
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, key: key, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (c *RedisCache) Get(ctx context.Context) ([]Country, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var countries []Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (c *RedisCache) Set(ctx context.Context, countries []Country) error {
	data, err := json.Marshal(countries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, c.ttl).Err()
}

// CachedSource consults a Cache before falling through to the wrapped Source.
// Cache errors are logged and otherwise ignored.
type CachedSource struct {
	inner  Source
	cache  Cache
	logger zerolog.Logger
}

func NewCachedSource(inner Source, cache Cache, logger zerolog.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		cache:  cache,
		logger: logger.With().Str("component", "catalog_cache").Logger(),
	}
}

func (s *CachedSource) Load(ctx context.Context) (*Catalog, error) {
	cached, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("catalog cache read failed")
	case len(cached) > 0:
		cat, err := New(cached)
		if err == nil {
			s.logger.Debug().Int("countries", cat.Len()).Msg("catalog served from cache")
			return cat, nil
		}
		s.logger.Warn().Err(err).Msg("discarding invalid cached catalog")
	}

	cat, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cat.All()); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache write failed")
	}
	return cat, nil
}
