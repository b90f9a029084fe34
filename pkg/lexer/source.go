package lexer

import "tinypie.dev/tinypie/pkg/token"

// Source rules, in priority order: reserved words must be matched before
// the general identifier rule or they would never fire.
var sourceRules = []rule{
	{`def`, token.DEF},
	{`\r?\n`, token.NL},
	{`print`, token.PRINT},
	{`return`, token.RETURN},
	{`if`, token.IF},
	{`else`, token.ELSE},
	{`while`, token.WHILE},
	{`[a-zA-Z_]+\d*`, token.ID},
	{`\d+`, token.INT},
	{`'[^']*'`, token.STRING},
	{`\(`, token.LPAREN},
	{`\)`, token.RPAREN},
	{`\.`, token.DOT},
	{`,`, token.COMMA},
	{`:`, token.COLON},
	{`==`, token.EQ},
	{`<`, token.LT},
	{`\+`, token.ADD},
	{`-`, token.SUB},
	{`\*`, token.MUL},
	{`=`, token.ASSIGN},
}

// Source tokenizes TinyPie source code: keywords, identifiers, int and
// single-quoted string literals, newlines and the operator/punctuation set
// used by the recursive-descent grammar in pkg/parser.
type Source struct{ base }

// NewSource returns a Source lexer reading from the given text.
func NewSource(src string) *Source {
	l := &Source{base: newBase(sourceRules)}
	l.init(src)
	return l
}

// Next returns the next Token in the stream, or an EOF token once the
// buffer is exhausted. An *Error is returned if no rule matches at the
// current offset.
func (l *Source) Next() (token.Token, error) { return l.next() }
