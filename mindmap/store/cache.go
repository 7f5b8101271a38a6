package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/bluesky-social/mindmap/mindmap"

	"github.com/go-redis/cache/v9"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache holds encoded mind map documents by map name.
type Cache interface {
	// a miss is reported as (nil, false, nil)
	Get(ctx context.Context, name string) ([]byte, bool, error)
	Set(ctx context.Context, name string, doc []byte) error
	Purge(ctx context.Context, name string) error
}

type LRUCache struct {
	Data *expirable.LRU[string, []byte]
}

var _ Cache = (*LRUCache)(nil)

func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		Data: expirable.NewLRU[string, []byte](capacity, nil, ttl),
	}
}

func (c *LRUCache) Get(ctx context.Context, name string) ([]byte, bool, error) {
	v, ok := c.Data.Get(name)
	return v, ok, nil
}

func (c *LRUCache) Set(ctx context.Context, name string, doc []byte) error {
	c.Data.Add(name, doc)
	return nil
}

func (c *LRUCache) Purge(ctx context.Context, name string) error {
	c.Data.Remove(name)
	return nil
}

// RedisCache shares cached documents between processes through redis, with an
// in-process TinyLFU in front (provided by the redis cache library).
type RedisCache struct {
	Data *cache.Cache
	TTL  time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(ctx context.Context, redisURL string, localSize int, ttl time.Duration) (*RedisCache, error) {
	rdb, err := connectRedis(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{
		Data: cache.New(&cache.Options{
			Redis:      rdb,
			LocalCache: cache.NewTinyLFU(localSize, ttl),
		}),
		TTL: ttl,
	}, nil
}

func redisCacheKey(name string) string {
	return "cache/mindmap/" + name
}

func (c *RedisCache) Get(ctx context.Context, name string) ([]byte, bool, error) {
	var val []byte
	err := c.Data.Get(ctx, redisCacheKey(name), &val)
	if err == cache.ErrCacheMiss {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, name string, doc []byte) error {
	return c.Data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   redisCacheKey(name),
		Value: doc,
		TTL:   c.TTL,
	})
}

func (c *RedisCache) Purge(ctx context.Context, name string) error {
	err := c.Data.Delete(ctx, redisCacheKey(name))
	if err == cache.ErrCacheMiss {
		return nil
	}
	return err
}

// CachedStore is a read-through, write-through cache in front of another
// store. Cache failures are logged and fall back to Inner.
//
// Each process has its own view of the cache when using LRUCache, so with
// several replicas sharing one backend reads may be stale for up to the cache
// TTL.
type CachedStore struct {
	Inner mindmap.Store
	Cache Cache
	// label for metrics
	Name string

	logger *slog.Logger
}

var _ mindmap.Store = (*CachedStore)(nil)

func NewCachedStore(inner mindmap.Store, c Cache, name string, logger *slog.Logger) *CachedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{
		Inner:  inner,
		Cache:  c,
		Name:   name,
		logger: logger.With("system", "mindmap-cache", "cache", name),
	}
}

func (s *CachedStore) GetMap(ctx context.Context, name string) (*mindmap.Node, error) {
	b, ok, err := s.Cache.Get(ctx, name)
	if err != nil {
		s.logger.Warn("cache read failed", "map", name, "err", err)
	}
	if ok {
		root, err := mindmap.UnmarshalDocument(b)
		if err == nil {
			cacheHits.WithLabelValues(s.Name).Inc()
			return root, nil
		}
		s.logger.Warn("dropping undecodable cache entry", "map", name, "err", err)
		_ = s.Cache.Purge(ctx, name)
	}
	cacheMisses.WithLabelValues(s.Name).Inc()

	root, err := s.Inner.GetMap(ctx, name)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, root)
	return root, nil
}

func (s *CachedStore) PutMap(ctx context.Context, root *mindmap.Node) error {
	if err := s.Inner.PutMap(ctx, root); err != nil {
		// the backend may or may not have the new version
		_ = s.Cache.Purge(ctx, root.Name)
		return err
	}
	s.fill(ctx, root)
	return nil
}

func (s *CachedStore) CreateMap(ctx context.Context, name string) error {
	return s.Inner.CreateMap(ctx, name)
}

func (s *CachedStore) fill(ctx context.Context, root *mindmap.Node) {
	b, err := mindmap.MarshalDocument(root)
	if err != nil {
		s.logger.Warn("failed to encode map for cache", "map", root.Name, "err", err)
		return
	}
	if err := s.Cache.Set(ctx, root.Name, b); err != nil {
		s.logger.Warn("cache write failed", "map", root.Name, "err", err)
	}
}
