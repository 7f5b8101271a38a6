package mindmap

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMapNotFound     = errors.New("mind map not found")
	ErrLeafNotFound    = errors.New("leaf not found")
	ErrInvalidMapName  = errors.New("invalid mind map name")
	ErrInvalidDocument = errors.New("invalid mind map document")

	// a document which can not be stored because it nests too deeply; also
	// matches ErrInvalidDocument
	ErrTooDeep = fmt.Errorf("%w: tree too deep", ErrInvalidDocument)
)

// Store persists whole mind map documents, keyed by the root node name.
//
// GetMap must return a tree which is not shared with any other caller; the
// service mutates it in place before calling PutMap.
type Store interface {
	// returns ErrMapNotFound (possibly wrapped) if no map exists with this name
	GetMap(ctx context.Context, name string) (*Node, error)
	// replaces the full document for root.Name
	PutMap(ctx context.Context, root *Node) error
	// creates an empty map; a no-op if the map already exists
	CreateMap(ctx context.Context, name string) error
}
