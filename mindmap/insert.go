package mindmap

import (
	"strings"
)

// PathSeparator splits insertion paths and joins resolved lookup paths.
const PathSeparator = "/"

// Insert walks the slash-separated path starting at n, appending a node for
// every segment that can not be found, and sets text on the node for the
// final segment.
//
// Segments are resolved against the node reached so far with findFirstBranch,
// so a segment may be "found" anywhere along the first-child chain below that
// node, and not only among its direct children. Empty segments are treated as
// nodes named "".
func (n *Node) Insert(path, text string) {
	segments := strings.Split(path, PathSeparator)
	current := n
	for i, seg := range segments {
		found := findFirstBranch(current, seg)
		if found == nil {
			child := NewNode(seg)
			current.Children = append(current.Children, child)
			current = child
		} else {
			current = found
		}
		if i == len(segments)-1 {
			current.SetText(text)
		}
	}
}

// findFirstBranch matches name against n, then against the first child of n,
// then against that child's first child, and so on. Siblings after the first
// are never inspected.
//
// TODO: callers would probably expect a search over all direct children; kept
// first-branch until existing maps are checked for depending on it.
func findFirstBranch(n *Node, name string) *Node {
	for n != nil {
		if n.Name == name {
			return n
		}
		if len(n.Children) == 0 {
			return nil
		}
		n = n.Children[0]
	}
	return nil
}
