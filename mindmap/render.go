package mindmap

import (
	"strings"
)

const indentUnit = "  "

// lines for structural entries end with a literal backslash
const nameSuffix = "\\\n"

type frame struct {
	node   *Node
	indent int
}

// Render returns an indented pre-order dump of the tree rooted at n.
//
// Traversal uses an explicit stack with children pushed in stored order, so
// siblings come out last-child-first.
func (n *Node) Render() string {
	var sb strings.Builder
	stack := []frame{{node: n, indent: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sb.WriteString(strings.Repeat(indentUnit, top.indent))
		sb.WriteString(top.node.Name)
		sb.WriteString(nameSuffix)
		if text := top.node.TextValue(); text != "" {
			sb.WriteString(strings.Repeat(indentUnit, top.indent+1))
			sb.WriteString(text)
			sb.WriteString("\n")
		}
		for _, child := range top.node.Children {
			stack = append(stack, frame{node: child, indent: top.indent + 1})
		}
	}
	return sb.String()
}
