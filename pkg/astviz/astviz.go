// Package astviz renders a parsed TinyPie program as a Graphviz DOT graph:
// one plaintext node per AST node, labeled with its kind and (if it has
// one) its leaf text, and one edge per parent-child relationship.
package astviz

import (
	"fmt"
	"strings"

	"tinypie.dev/tinypie/pkg/ast"
)

const dotHeader = `digraph astgraph {
   node [shape=plaintext, fontsize=12, fontname="Courier", height=.1];
   ranksep=.3;
   edge [arrowsize=.5]

`

type visualizer struct {
	nodes []string
	edges []string
	count int
}

// Generate renders root's subtree as a complete DOT document. Node
// numbering is pre-order (a node is numbered before any of its children),
// matching the order a depth-first walk visits them.
func Generate(root *ast.Node) string {
	v := &visualizer{count: 1}
	v.walk(root)

	var b strings.Builder
	b.WriteString(dotHeader)
	for _, n := range v.nodes {
		fmt.Fprintf(&b, "   %s\n", n)
	}
	b.WriteString("\n")
	for _, e := range v.edges {
		fmt.Fprintf(&b, "   %s\n", e)
	}
	b.WriteString("}\n")
	return b.String()
}

func (v *visualizer) walk(node *ast.Node) string {
	name := fmt.Sprintf("node%d", v.count)
	v.count++

	label := node.Kind.String()
	if node.Text != "" {
		label = fmt.Sprintf("%s (%s)", label, node.Text)
	}
	v.nodes = append(v.nodes, fmt.Sprintf(`%s [label="%s"];`, name, label))

	for _, child := range node.Children {
		childName := v.walk(child)
		v.edges = append(v.edges, fmt.Sprintf("%s -> %s", name, childName))
	}

	return name
}
