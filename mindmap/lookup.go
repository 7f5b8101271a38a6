package mindmap

import (
	"strings"
)

// Leaf is the result of resolving a node name within a map.
type Leaf struct {
	// full path of the node, starting with the root node's name
	Path string
	Text *string
}

// RelativePath returns the path with the leading root segment removed. A
// match on the root itself returns the root name unchanged.
func (l Leaf) RelativePath(rootName string) string {
	return strings.TrimPrefix(l.Path, rootName+PathSeparator)
}

type queued struct {
	node *Node
	path string
}

// Lookup does a breadth-first search for the first node called name.
//
// Children are only enqueued the first time their name is seen anywhere in
// the traversal, so when several nodes share a name only the first one
// enqueued can ever be returned.
func (n *Node) Lookup(name string) (Leaf, bool) {
	if n.Name == name {
		return Leaf{Path: n.Name, Text: n.Text}, true
	}

	visited := make(map[string]struct{})
	queue := []queued{{node: n, path: n.Name}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.node.Name == name {
			return Leaf{Path: cur.path, Text: cur.node.Text}, true
		}
		for _, child := range cur.node.Children {
			if _, seen := visited[child.Name]; seen {
				continue
			}
			visited[child.Name] = struct{}{}
			queue = append(queue, queued{
				node: child,
				path: cur.path + PathSeparator + child.Name,
			})
		}
	}
	return Leaf{}, false
}
