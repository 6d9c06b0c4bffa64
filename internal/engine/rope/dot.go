package rope

import (
	"fmt"
	"strings"
)

// dotLabelLimit caps the leaf text shown in a DOT label.
const dotLabelLimit = 24

// writeDot writes n and its subtree as Graphviz statements. Nodes are named
// by their path from the root.
func (n *Node) writeDot(sb *strings.Builder, path string) {
	if n.kind == leafNode {
		label := string(n.text)
		if len(n.text) > dotLabelLimit {
			label = string(n.text[:dotLabelLimit]) + "..."
		}
		fmt.Fprintf(sb, "\t%s [shape=box, label=%q];\n", path, fmt.Sprintf("%d: %s", len(n.text), label))
		return
	}

	fmt.Fprintf(sb, "\t%s [label=%q];\n", path,
		fmt.Sprintf("h=%d n=%d l=%d c=%d", n.height, n.length.Count, n.length.Lines, n.length.Column))
	for _, child := range []struct {
		node *Node
		step string
	}{{n.left, "l"}, {n.right, "r"}} {
		fmt.Fprintf(sb, "\t%s -> %s;\n", path, path+child.step)
		child.node.writeDot(sb, path+child.step)
	}
}
