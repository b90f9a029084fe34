// Package lexer implements TinyPie's two regex-driven tokenizers: one for
// the source dialect (pkg/lexer's Source) and one for the assembly dialect
// (Assembly). Both share the same master-regex-alternation technique: every
// rule compiles to a named capture group, the groups are joined with '|',
// and each call to Next tries to match that single combined pattern at the
// current offset. Whichever named group matched tells us the token Kind.
package lexer

import (
	"fmt"
	"regexp"
	"strings"

	"tinypie.dev/tinypie/pkg/token"
)

// Error is a fatal lexer failure: an input byte sequence matched none of the
// dialect's rules. It carries the byte offset at which scanning failed.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Offset, e.Msg)
}

// rule pairs a regular expression with the token Kind it produces. Rules are
// tried in the order they are declared; the first alternative that matches
// at the current offset wins, so more specific rules (keywords) must be
// listed before more general ones (identifiers).
type rule struct {
	pattern string
	kind    token.Kind
}

var whitespaceRE = regexp.MustCompile(`^[ \t]+`)
var commentRE = regexp.MustCompile(`^#[^\n]*`)

// base implements the shared master-regex scan loop. Source and Assembly
// each supply their own rule table, embed base, and expose its next as Next.
type base struct {
	buf    string
	pos    int
	master *regexp.Regexp
	kinds  []token.Kind
}

func newBase(rules []rule) base {
	groups := make([]string, len(rules))
	kinds := make([]token.Kind, len(rules))
	for i, r := range rules {
		groups[i] = fmt.Sprintf("(?P<g%d>%s)", i, r.pattern)
		kinds[i] = r.kind
	}
	return base{
		master: regexp.MustCompile("^(?:" + strings.Join(groups, "|") + ")"),
		kinds:  kinds,
	}
}

func (b *base) init(src string) {
	b.buf = src
	b.pos = 0
}

// next scans and returns the next token, skipping whitespace and '#'
// line comments first. Returns an EOF token once the buffer is exhausted.
func (b *base) next() (token.Token, error) {
	for b.pos < len(b.buf) {
		if m := whitespaceRE.FindStringIndex(b.buf[b.pos:]); m != nil {
			b.pos += m[1]
			continue
		}
		if m := commentRE.FindStringIndex(b.buf[b.pos:]); m != nil {
			b.pos += m[1]
			continue
		}
		break
	}

	if b.pos >= len(b.buf) {
		return token.Token{Kind: token.EOF, Text: "EOF"}, nil
	}

	rest := b.buf[b.pos:]
	loc := b.master.FindStringSubmatchIndex(rest)
	if loc == nil {
		return token.Token{}, &Error{Offset: b.pos, Msg: "no valid token"}
	}

	names := b.master.SubexpNames()
	groupIdx := -1
	for i := 1; i < len(names); i++ {
		if names[i] == "" || loc[2*i] < 0 {
			continue
		}
		groupIdx = i - 1
		break
	}
	if groupIdx < 0 {
		return token.Token{}, &Error{Offset: b.pos, Msg: "no valid token"}
	}

	text := rest[loc[0]:loc[1]]
	b.pos += loc[1]

	kind := b.kinds[groupIdx]
	if kind == token.STRING {
		text = strings.Trim(text, "'")
	}
	return token.Token{Kind: kind, Text: text}, nil
}

// Pos returns the current byte offset into the source buffer.
func (b *base) Pos() int { return b.pos }
