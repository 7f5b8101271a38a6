package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bluesky-social/mindmap/mindmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a store and counts backend reads
type countingStore struct {
	mindmap.Store
	gets    int
	failPut bool
}

func (s *countingStore) GetMap(ctx context.Context, name string) (*mindmap.Node, error) {
	s.gets++
	return s.Store.GetMap(ctx, name)
}

func (s *countingStore) PutMap(ctx context.Context, root *mindmap.Node) error {
	if s.failPut {
		return errors.New("backend unavailable")
	}
	return s.Store.PutMap(ctx, root)
}

func TestCachedStore(t *testing.T) {
	testStoreBasics(t, NewCachedStore(NewMemStore(), NewLRUCache(10, time.Minute), "lru", testLogger(t)))
}

func TestCachedStoreReadThrough(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	inner := &countingStore{Store: NewMemStore()}
	s := NewCachedStore(inner, NewLRUCache(10, time.Minute), "lru", testLogger(t))

	require.NoError(t, s.CreateMap(ctx, "m"))

	first, err := s.GetMap(ctx, "m")
	require.NoError(t, err)
	assert.Equal(1, inner.gets)

	// mutating a loaded tree must not leak into the cache
	first.Insert("a", "b")

	second, err := s.GetMap(ctx, "m")
	require.NoError(t, err)
	assert.Equal(1, inner.gets)
	assert.Equal(1, second.Count())

	// writes go through to the backend and refresh the cache
	second.Insert("x/y", "z")
	require.NoError(t, s.PutMap(ctx, second))
	third, err := s.GetMap(ctx, "m")
	require.NoError(t, err)
	assert.Equal(1, inner.gets)
	assert.Equal(3, third.Count())

	fromBackend, err := inner.Store.GetMap(ctx, "m")
	require.NoError(t, err)
	assert.Equal(3, fromBackend.Count())

	// misses are not cached
	_, err = s.GetMap(ctx, "absent")
	assert.ErrorIs(err, mindmap.ErrMapNotFound)
	_, err = s.GetMap(ctx, "absent")
	assert.ErrorIs(err, mindmap.ErrMapNotFound)
	assert.Equal(3, inner.gets)
}

func TestCachedStoreFailedWritePurges(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	inner := &countingStore{Store: NewMemStore()}
	s := NewCachedStore(inner, NewLRUCache(10, time.Minute), "lru", testLogger(t))

	require.NoError(t, s.CreateMap(ctx, "m"))
	root, err := s.GetMap(ctx, "m")
	require.NoError(t, err)
	assert.Equal(1, inner.gets)

	inner.failPut = true
	root.Insert("a", "b")
	assert.Error(s.PutMap(ctx, root))

	// the cache entry was dropped, so the next read goes to the backend
	loaded, err := s.GetMap(ctx, "m")
	require.NoError(t, err)
	assert.Equal(2, inner.gets)
	assert.Equal(1, loaded.Count())
}

func TestCachedStoreBadEntry(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	inner := &countingStore{Store: NewMemStore()}
	c := NewLRUCache(10, time.Minute)
	s := NewCachedStore(inner, c, "lru", testLogger(t))

	require.NoError(t, s.CreateMap(ctx, "m"))
	require.NoError(t, c.Set(ctx, "m", []byte("not json")))

	root, err := s.GetMap(ctx, "m")
	require.NoError(t, err)
	assert.Equal("m", root.Name)
	assert.Equal(1, inner.gets)
}

func TestLRUCacheExpiry(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	c := NewLRUCache(10, 10*time.Millisecond)
	require.NoError(t, c.Set(ctx, "m", []byte("{}")))
	_, ok, err := c.Get(ctx, "m")
	assert.NoError(err)
	assert.True(ok)

	time.Sleep(50 * time.Millisecond)
	_, ok, err = c.Get(ctx, "m")
	assert.NoError(err)
	assert.False(ok)

	require.NoError(t, c.Set(ctx, "m", []byte("{}")))
	require.NoError(t, c.Purge(ctx, "m"))
	_, ok, _ = c.Get(ctx, "m")
	assert.False(ok)
}
