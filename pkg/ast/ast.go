// Package ast defines TinyPie's homogeneous AST node type. Every construct
// in the source grammar — blocks, function defs, calls, statements,
// expressions and leaves — is represented by the same Node struct, tagged
// by a token.Kind.
package ast

import "tinypie.dev/tinypie/pkg/token"

// Node is a single AST node. Kind determines how pkg/interp's external
// visitor dispatches on it; Text carries leaf payload (an identifier name,
// an int literal's digits, a string literal's body). Scope is only set on
// CALL nodes: it is the lexical scope in which the call was parsed, kept so
// that late-bound callee resolution can start from the right place at
// interpretation time (see scope.Scope.Resolve).
type Node struct {
	Kind     token.Kind
	Text     string
	Children []*Node
	Scope    scopeRef
}

// scopeRef avoids an import cycle between pkg/ast and pkg/scope: the scope
// tree references FunctionSymbol's body via *ast.Node (pkg/scope depends on
// pkg/ast), so pkg/ast cannot depend back on pkg/scope. Node.Scope instead
// holds anything satisfying Resolve, which scope.Scope implements.
type scopeRef interface {
	Resolve(name string) any
}

// New returns a leaf Node built directly from a Token.
func New(kind token.Kind, text string) *Node {
	return &Node{Kind: kind, Text: text}
}

// AddChild appends a child node, preserving parse order — interpretation
// and DOT rendering (pkg/astviz) both rely on children being visited left
// to right.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}
