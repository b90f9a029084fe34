package astviz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tinypie.dev/tinypie/pkg/astviz"
	"tinypie.dev/tinypie/pkg/parser"
)

// TestGenerateMatchesKnownCallExample pins the DOT output for `foo(3, 7)` to
// the exact node numbering and edge ordering a depth-first walk produces:
// a node is numbered before its children, and a parent's edge to a child is
// emitted right after that child's own subtree finishes.
func TestGenerateMatchesKnownCallExample(t *testing.T) {
	p, err := parser.New("foo(3, 7)\n")
	require.NoError(t, err)
	root, err := p.Parse()
	require.NoError(t, err)

	want := `digraph astgraph {
   node [shape=plaintext, fontsize=12, fontname="Courier", height=.1];
   ranksep=.3;
   edge [arrowsize=.5]

   node1 [label="BLOCK"];
   node2 [label="CALL"];
   node3 [label="ID (foo)"];
   node4 [label="INT (3)"];
   node5 [label="INT (7)"];

   node2 -> node3
   node2 -> node4
   node2 -> node5
   node1 -> node2
}
`
	require.Equal(t, want, astviz.Generate(root))
}
