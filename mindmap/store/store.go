// Package store provides implementations of mindmap.Store.
//
// Every backend persists the full JSON document for a map under the map name
// and decodes a fresh tree on each read, so trees returned by GetMap are
// never shared between callers.
package store

import (
	"fmt"

	"github.com/bluesky-social/mindmap/mindmap"
)

func encodeDocument(backend string, root *mindmap.Node) ([]byte, error) {
	b, err := mindmap.MarshalDocument(root)
	if err != nil {
		return nil, err
	}
	documentBytes.WithLabelValues(backend).Observe(float64(len(b)))
	return b, nil
}

func emptyDocument(backend, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", mindmap.ErrInvalidMapName)
	}
	return encodeDocument(backend, mindmap.NewNode(name))
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", mindmap.ErrMapNotFound, name)
}
