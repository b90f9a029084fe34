package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypie.dev/tinypie/pkg/parser"
	"tinypie.dev/tinypie/pkg/scope"
	"tinypie.dev/tinypie/pkg/token"
)

func TestParseSimpleCallProducesFlatBlock(t *testing.T) {
	p, err := parser.New("foo(3, 7)\n")
	require.NoError(t, err)

	root, err := p.Parse()
	require.NoError(t, err)

	require.Len(t, root.Children, 1)
	call := root.Children[0]
	assert.Equal(t, token.CALL, call.Kind)
	require.Len(t, call.Children, 3)
	assert.Equal(t, "foo", call.Children[0].Text)
	assert.Equal(t, "3", call.Children[1].Text)
	assert.Equal(t, "7", call.Children[2].Text)
}

// TestForwardCallResolvesAfterFullParse exercises late binding: a CALL
// parsed before its callee's `def` must still resolve once the whole
// program (and thus the whole scope tree) has been parsed.
func TestForwardCallResolvesAfterFullParse(t *testing.T) {
	src := "greet()\n" +
		"def greet():\n" +
		"    print 'hi'\n" +
		".\n"

	p, err := parser.New(src)
	require.NoError(t, err)
	root, err := p.Parse()
	require.NoError(t, err)

	call := root.Children[0]
	require.Equal(t, token.CALL, call.Kind)
	require.NotNil(t, call.Scope)

	resolved := call.Scope.Resolve("greet")
	fnSym, ok := resolved.(*scope.FunctionSymbol)
	require.True(t, ok, "expected greet to resolve to a FunctionSymbol")
	assert.Equal(t, "greet", fnSym.SymbolName())
	assert.NotNil(t, fnSym.Body)
}

func TestFunctionParamsDefinedInDeclarationOrder(t *testing.T) {
	src := "def add(a, b):\n" +
		"    return a + b\n" +
		".\n" +
		"add(1, 2)\n"

	p, err := parser.New(src)
	require.NoError(t, err)
	root, err := p.Parse()
	require.NoError(t, err)

	funcDef := root.Children[0]
	require.Equal(t, token.FUNC_DEF, funcDef.Kind)

	resolved := p.Global().Resolve("add")
	fnSym, ok := resolved.(*scope.FunctionSymbol)
	require.True(t, ok)

	params := fnSym.Params()
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[0].SymbolName())
	assert.Equal(t, "b", params[1].SymbolName())
}

func TestIfElseBothBranchesParsed(t *testing.T) {
	src := "if 1 < 2:\n" +
		"    print 1\n" +
		".\n" +
		"else:\n" +
		"    print 2\n" +
		".\n"

	p, err := parser.New(src)
	require.NoError(t, err)
	root, err := p.Parse()
	require.NoError(t, err)

	ifNode := root.Children[0]
	require.Equal(t, token.IF, ifNode.Kind)
	require.Len(t, ifNode.Children, 3)
}

func TestSyntaxErrorOnMismatchedToken(t *testing.T) {
	p, err := parser.New("def (x)\n")
	require.NoError(t, err)
	_, err = p.Parse()
	require.Error(t, err)
	var syntaxErr *parser.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}
