package mindmap

// Node is a single entry in a mind map tree. The root node of a map carries
// the map's name.
//
// The JSON form is the persisted document shape, which is why children are
// serialized under "childs".
type Node struct {
	Name     string  `json:"name"`
	Text     *string `json:"text"`
	Children []*Node `json:"childs"`
}

// NewNode returns a node with no text and an empty (non-nil) child list.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Children: []*Node{},
	}
}

func (n *Node) SetText(text string) {
	n.Text = &text
}

// TextValue returns the node text, or an empty string for structural nodes.
func (n *Node) TextValue() string {
	if n.Text == nil {
		return ""
	}
	return *n.Text
}

// Count returns the number of nodes in the subtree rooted at n, including n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Depth returns the number of nodes on the longest path from n down to a
// leaf; a lone node has depth 1.
func (n *Node) Depth() int {
	type entry struct {
		node  *Node
		depth int
	}
	deepest := 0
	stack := []entry{{node: n, depth: 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > deepest {
			deepest = top.depth
		}
		for _, c := range top.node.Children {
			stack = append(stack, entry{node: c, depth: top.depth + 1})
		}
	}
	return deepest
}

// normalize replaces nil child lists (eg, from a document with "childs": null)
// so that re-encoding always produces an array.
func (n *Node) normalize() {
	if n.Children == nil {
		n.Children = []*Node{}
	}
	for _, c := range n.Children {
		c.normalize()
	}
}
