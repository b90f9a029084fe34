// Package parser implements TinyPie's LL(2) recursive-descent source parser
// plus the two-slot circular lookahead buffer it shares with pkg/assembler's
// single-pass translator — both walk a token stream one rule at a time and
// need to peek a fixed, small number of tokens ahead of the cursor.
package parser

import "tinypie.dev/tinypie/pkg/token"

// TokenSource is anything that yields tokens one at a time; both
// lexer.Source and lexer.Assembly satisfy it.
type TokenSource interface {
	Next() (token.Token, error)
}

// Lookahead wraps a TokenSource with a fixed-size circular buffer of
// pre-fetched tokens, giving callers Peek(k) without consuming. Limit is
// conventionally 2 for TinyPie's grammar (LL(2)).
type Lookahead struct {
	src   TokenSource
	buf   []token.Token
	limit int
	pos   int
	err   error
}

// NewLookahead fills the buffer by reading `limit` tokens up front.
func NewLookahead(src TokenSource, limit int) (*Lookahead, error) {
	la := &Lookahead{src: src, buf: make([]token.Token, limit), limit: limit}
	for i := 0; i < limit; i++ {
		if err := la.consume(); err != nil {
			return nil, err
		}
	}
	return la, nil
}

func (la *Lookahead) consume() error {
	tok, err := la.src.Next()
	if err != nil {
		la.err = err
		return err
	}
	la.buf[la.pos] = tok
	la.pos = (la.pos + 1) % la.limit
	return nil
}

// Peek returns the token `n` slots ahead of the current position (0 is the
// next unconsumed token).
func (la *Lookahead) Peek(n int) token.Token {
	return la.buf[(la.pos+n)%la.limit]
}

// PeekKind is shorthand for Peek(n).Kind.
func (la *Lookahead) PeekKind(n int) token.Kind {
	return la.Peek(n).Kind
}

// Match consumes the current token if it has the expected Kind, advancing
// the lookahead window by one; otherwise it returns a *SyntaxError.
func (la *Lookahead) Match(kind token.Kind) error {
	if la.PeekKind(0) != kind {
		return &SyntaxError{Expected: kind, Found: la.Peek(0)}
	}
	return la.consume()
}

// SyntaxError reports an unexpected token kind during parsing or assembly,
// carrying both the expected kind and the token actually found.
type SyntaxError struct {
	Expected token.Kind
	Found    token.Token
}

func (e *SyntaxError) Error() string {
	return "expecting " + e.Expected.String() + "; found " + e.Found.String()
}
