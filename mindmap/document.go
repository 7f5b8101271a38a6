package mindmap

import (
	"encoding/json"
	"fmt"
)

// MaxDepth is the deepest tree (counted in nodes, root included) that can be
// persisted. Every node costs two levels of JSON nesting, and documents much
// deeper than this can be written but not decoded again.
const MaxDepth = 1000

// MarshalDocument encodes a full tree in the persisted document format. Trees
// deeper than MaxDepth are refused.
func MarshalDocument(root *Node) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidDocument)
	}
	if d := root.Depth(); d > MaxDepth {
		return nil, fmt.Errorf("%w: depth %d exceeds %d", ErrTooDeep, d, MaxDepth)
	}
	root.normalize()
	return json.Marshal(root)
}

// UnmarshalDocument decodes a persisted document into a fresh tree. The
// returned tree shares no memory with any previously decoded tree.
func UnmarshalDocument(b []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	root.normalize()
	return &root, nil
}
