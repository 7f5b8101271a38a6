package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bluesky-social/mindmap/mindmap"

	"gorm.io/plugin/opentelemetry/tracing"
)

type Options struct {
	Logger *slog.Logger

	// max open connections for postgres; sqlite always uses one
	MaxConnections int

	// enable OpenTelemetry spans for SQL queries
	DBTracing bool

	// in-process LRU document cache; zero disables
	CacheSize int
	CacheTTL  time.Duration

	// if set, cache documents in redis instead of the in-process LRU
	RedisCacheURL string
}

// Open configures a store from a URL:
//
// - "memory://"
// - "sqlite://path/to/file.sqlite" (or "sqlite=...")
// - "postgres://..." / "postgresql://..." (or "postgres=<dsn>")
// - "pebble://path/to/dir"
// - "redis://<user>:<pass>@<hostname>:6379/<db>" (or "rediss://...")
//
// The returned close function releases any underlying connections or files.
func Open(ctx context.Context, storeURL string, opts Options) (mindmap.Store, func() error, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() error { return nil }

	var (
		backend string
		inner   mindmap.Store
		closer  = noop
	)
	switch {
	case strings.HasPrefix(storeURL, "memory://"):
		backend = "memory"
		inner = NewMemStore()
	case strings.HasPrefix(storeURL, "sqlite"), strings.HasPrefix(storeURL, "postgres"):
		backend = "gorm"
		db, err := OpenDatabase(storeURL, opts.MaxConnections)
		if err != nil {
			return nil, nil, err
		}
		if opts.DBTracing {
			if err := db.Use(tracing.NewPlugin()); err != nil {
				return nil, nil, err
			}
		}
		gs, err := NewGormStore(db)
		if err != nil {
			return nil, nil, err
		}
		sqldb, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		inner = gs
		closer = sqldb.Close
	case strings.HasPrefix(storeURL, "pebble://"):
		backend = "pebble"
		ps, err := OpenPebbleStore(strings.TrimPrefix(storeURL, "pebble://"), nil, logger)
		if err != nil {
			return nil, nil, err
		}
		inner = ps
		closer = ps.Close
	case strings.HasPrefix(storeURL, "redis://"), strings.HasPrefix(storeURL, "rediss://"):
		backend = "redis"
		rs, err := NewRedisStore(ctx, storeURL)
		if err != nil {
			return nil, nil, err
		}
		inner = rs
		closer = rs.Close
	default:
		return nil, nil, fmt.Errorf("unsupported or unrecognized store URL scheme")
	}
	logger.Info("opened mind map store", "backend", backend)

	var out mindmap.Store = Instrument(backend, inner)

	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	if opts.RedisCacheURL != "" {
		size := opts.CacheSize
		if size <= 0 {
			size = 10_000
		}
		rc, err := NewRedisCache(ctx, opts.RedisCacheURL, size, ttl)
		if err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("could not configure redis mind map cache: %w", err)
		}
		out = NewCachedStore(out, rc, "redis", logger)
		logger.Info("enabled redis document cache", "local_size", size, "ttl", ttl)
	} else if opts.CacheSize > 0 {
		out = NewCachedStore(out, NewLRUCache(opts.CacheSize, ttl), "lru", logger)
		logger.Info("enabled in-process document cache", "size", opts.CacheSize, "ttl", ttl)
	}

	return out, closer, nil
}
