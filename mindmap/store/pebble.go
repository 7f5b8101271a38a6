package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bluesky-social/mindmap/mindmap"

	"github.com/cockroachdb/pebble"
)

func makeMapKey(name string) []byte {
	out := make([]byte, len(name)+1)
	out[0] = 'M'
	copy(out[1:], name)
	return out
}

// PebbleStore holds mind map documents in a local pebble database.
// Inner schema:
// M{name} : {JSON document}
type PebbleStore struct {
	db *pebble.DB

	// serializes CreateMap check-then-set
	createLock sync.Mutex

	log *slog.Logger
}

var _ mindmap.Store = (*PebbleStore)(nil)

func OpenPebbleStore(pebblePath string, opts *pebble.Options, log *slog.Logger) (*PebbleStore, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(pebblePath, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: could not open db, %w", pebblePath, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &PebbleStore{
		db:  db,
		log: log.With("system", "pebble-store"),
	}, nil
}

func (s *PebbleStore) Close() error {
	err := s.db.Flush()
	if err != nil {
		s.log.Error("pebble flush", "err", err)
	}
	err = s.db.Close()
	if err != nil {
		s.log.Error("pebble close", "err", err)
	}
	return err
}

func (s *PebbleStore) GetMap(ctx context.Context, name string) (*mindmap.Node, error) {
	val, closer, err := s.db.Get(makeMapKey(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, notFound(name)
	} else if err != nil {
		return nil, fmt.Errorf("pebble get %s: %w", name, err)
	}
	defer closer.Close()
	// decoding copies out of val, which is only valid until closer.Close
	return mindmap.UnmarshalDocument(val)
}

func (s *PebbleStore) PutMap(ctx context.Context, root *mindmap.Node) error {
	b, err := encodeDocument("pebble", root)
	if err != nil {
		return err
	}
	if err := s.db.Set(makeMapKey(root.Name), b, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %s: %w", root.Name, err)
	}
	return nil
}

func (s *PebbleStore) CreateMap(ctx context.Context, name string) error {
	b, err := emptyDocument("pebble", name)
	if err != nil {
		return err
	}
	key := makeMapKey(name)

	s.createLock.Lock()
	defer s.createLock.Unlock()

	_, closer, err := s.db.Get(key)
	if err == nil {
		s.log.Debug("map already exists", "map", name)
		return closer.Close()
	} else if !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("pebble get %s: %w", name, err)
	}
	if err := s.db.Set(key, b, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %s: %w", name, err)
	}
	return nil
}
