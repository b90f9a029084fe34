package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypie.dev/tinypie/pkg/lexer"
	"tinypie.dev/tinypie/pkg/token"
)

func collectSource(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.NewSource(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestSourceKeywordRuleWinsOnPrefixOverlap(t *testing.T) {
	toks := collectSource(t, "def whiletrue(x)\n")
	require.GreaterOrEqual(t, len(toks), 4)
	assert.Equal(t, token.DEF, toks[0].Kind)
	// The master pattern prefers whichever alternative is listed first when
	// several match at the same starting offset, regardless of match
	// length: 'while' is listed ahead of the identifier rule, so
	// 'whiletrue' lexes as WHILE followed by an ID('true'), not one ID.
	assert.Equal(t, token.WHILE, toks[1].Kind)
	assert.Equal(t, token.ID, toks[2].Kind)
	assert.Equal(t, "true", toks[2].Text)
}

func TestSourceStringLiteralStripsQuotes(t *testing.T) {
	toks := collectSource(t, "print 'hello'\n")
	assert.Equal(t, token.PRINT, toks[0].Kind)
	assert.Equal(t, token.STRING, toks[1].Kind)
	assert.Equal(t, "hello", toks[1].Text)
}

func TestSourceCommentsAndWhitespaceSkipped(t *testing.T) {
	toks := collectSource(t, "  x = 1   # assign one\n")
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []token.Kind{token.ID, token.ASSIGN, token.INT, token.NL, token.EOF}, kinds)
}

func TestSourceOperators(t *testing.T) {
	toks := collectSource(t, "a == b < c + d - e * f\n")
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, token.EQ)
	assert.Contains(t, kinds, token.LT)
	assert.Contains(t, kinds, token.ADD)
	assert.Contains(t, kinds, token.SUB)
	assert.Contains(t, kinds, token.MUL)
}

func TestSourceUnknownByteIsLexError(t *testing.T) {
	l := lexer.NewSource("@\n")
	_, err := l.Next()
	require.Error(t, err)
	var lexErr *lexer.Error
	assert.ErrorAs(t, err, &lexErr)
}

func TestAssemblyRegisterAndDirectives(t *testing.T) {
	l := lexer.NewAssembly(".globals 2\n.def main: args=0, locals=1\n")
	var kinds []token.Kind
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	assert.Equal(t, token.GLOBALS, kinds[0])
	assert.Contains(t, kinds, token.DEF)
	assert.Contains(t, kinds, token.ARGS)
	assert.Contains(t, kinds, token.LOCALS)
	assert.Contains(t, kinds, token.ASSIGN)
}

func TestAssemblyRegisterToken(t *testing.T) {
	l := lexer.NewAssembly("add r1, r2, r3\n")
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, token.ID, tok.Kind)
	tok, err = l.Next()
	require.NoError(t, err)
	assert.Equal(t, token.REG, tok.Kind)
	assert.Equal(t, "r1", tok.Text)
}
