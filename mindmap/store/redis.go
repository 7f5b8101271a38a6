package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bluesky-social/mindmap/mindmap"

	"github.com/redis/go-redis/v9"
)

// prefix string for all the Redis keys this store uses
var redisMapPrefix string = "mindmap/"

// RedisStore keeps each mind map document as a plain string value in redis,
// with no expiry.
type RedisStore struct {
	rdb *redis.Client
}

var _ mindmap.Store = (*RedisStore)(nil)

// `redisURL` contains all the redis connection config options, eg: redis://<user>:<pass>@<hostname>:6379/<db>
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	rdb, err := connectRedis(ctx, redisURL)
	if err != nil {
		return nil, fmt.Errorf("could not configure redis mind map store: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func connectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return rdb, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) GetMap(ctx context.Context, name string) (*mindmap.Node, error) {
	b, err := s.rdb.Get(ctx, redisMapPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(name)
	} else if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", name, err)
	}
	return mindmap.UnmarshalDocument(b)
}

func (s *RedisStore) PutMap(ctx context.Context, root *mindmap.Node) error {
	b, err := encodeDocument("redis", root)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, redisMapPrefix+root.Name, b, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", root.Name, err)
	}
	return nil
}

func (s *RedisStore) CreateMap(ctx context.Context, name string) error {
	b, err := emptyDocument("redis", name)
	if err != nil {
		return err
	}
	if err := s.rdb.SetNX(ctx, redisMapPrefix+name, b, 0).Err(); err != nil {
		return fmt.Errorf("redis setnx %s: %w", name, err)
	}
	return nil
}
