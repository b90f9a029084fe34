// Package token defines the lexical vocabulary shared by the source and
// assembly dialects of TinyPie. Both pkg/lexer tokenizers and pkg/parser's
// recursive-descent grammar key off the Kind values declared here so that
// the lexer, the parser and the assembler stay in sync on what a given
// token means.
package token

// Kind identifies the lexical category of a Token. Both the source dialect
// (keywords, operators, literals) and the assembly dialect (directives,
// registers, mnemonics-as-identifiers) share this single enumeration; some
// Kinds (NL, ID, INT, STRING, COMMA, COLON, ASSIGN, DEF) are produced by both
// lexers.
type Kind int

const (
	// EOF is the sentinel Kind returned once a lexer reaches the end of its
	// input buffer. It is returned repeatedly on further calls.
	EOF Kind = iota

	// Shared across both dialects.
	NL      // '\n' or '\r\n'
	ID      // identifier / bare word
	INT     // integer literal
	STRING  // single-quoted string literal
	LPAREN  // '('
	RPAREN  // ')'
	COMMA   // ','
	COLON   // ':'
	ASSIGN  // '='

	// Source dialect only.
	DEF    // 'def' (also the assembly dialect's '.def')
	PRINT  // 'print'
	RETURN // 'return'
	IF     // 'if'
	ELSE   // 'else'
	WHILE  // 'while'
	DOT    // '.'
	EQ     // '=='
	LT     // '<'
	ADD    // '+'
	SUB    // '-'
	MUL    // '*'

	// Assembly dialect only.
	GLOBALS // '.globals'
	ARGS    // 'args'
	LOCALS  // 'locals'
	REG     // register operand, e.g. 'r3'

	// Synthetic kinds produced only by the parser, never by a lexer: these
	// double as both token kinds (for leaf AST nodes built straight from a
	// Token) and AST node kinds for constructs with no single backing token.
	BLOCK
	FUNC_DEF
	CALL
	ASSIGN_STMT
)

// Token is the atomic unit produced by a lexer: a tag (Kind) plus the raw
// text that was matched (stripped of surrounding quotes for STRING).
type Token struct {
	Kind Kind
	Text string
}

// String renders a Token the way the original lexer's repr did:
// "<'text', KIND>" — used by parser error messages.
func (t Token) String() string {
	return "<'" + t.Text + "', " + t.Kind.String() + ">"
}

var kindNames = map[Kind]string{
	EOF: "EOF", NL: "NL", ID: "ID", INT: "INT", STRING: "STRING",
	LPAREN: "LPAREN", RPAREN: "RPAREN", COMMA: "COMMA", COLON: "COLON",
	ASSIGN: "ASSIGN", DEF: "DEF", PRINT: "PRINT", RETURN: "RETURN",
	IF: "IF", ELSE: "ELSE", WHILE: "WHILE", DOT: "DOT", EQ: "EQ", LT: "LT",
	ADD: "ADD", SUB: "SUB", MUL: "MUL", GLOBALS: "GLOBALS", ARGS: "ARGS",
	LOCALS: "LOCALS", REG: "REG", BLOCK: "BLOCK", FUNC_DEF: "FUNC_DEF",
	CALL: "CALL", ASSIGN_STMT: "ASSIGN_STMT",
}

// String returns the canonical name of a Kind, used in error messages and
// in AST/DOT rendering where the grammar calls for the bare kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}
