package store

import (
	"context"

	"github.com/bluesky-social/mindmap/mindmap"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemStore keeps encoded documents in process memory. Useful for tests and
// local development; nothing survives a restart.
type MemStore struct {
	docs *xsync.MapOf[string, []byte]
}

var _ mindmap.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		docs: xsync.NewMapOf[string, []byte](),
	}
}

func (s *MemStore) GetMap(ctx context.Context, name string) (*mindmap.Node, error) {
	b, ok := s.docs.Load(name)
	if !ok {
		return nil, notFound(name)
	}
	return mindmap.UnmarshalDocument(b)
}

func (s *MemStore) PutMap(ctx context.Context, root *mindmap.Node) error {
	b, err := encodeDocument("memory", root)
	if err != nil {
		return err
	}
	s.docs.Store(root.Name, b)
	return nil
}

func (s *MemStore) CreateMap(ctx context.Context, name string) error {
	b, err := emptyDocument("memory", name)
	if err != nil {
		return err
	}
	s.docs.LoadOrStore(name, b)
	return nil
}

// Len returns the number of maps held.
func (s *MemStore) Len() int {
	return s.docs.Size()
}
