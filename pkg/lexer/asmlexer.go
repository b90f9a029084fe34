package lexer

import "tinypie.dev/tinypie/pkg/token"

// Assembly rules, in priority order: directive and mnemonic-adjacent
// keywords ('.globals', 'args', 'locals', '.def') and the REG pattern must
// precede the generic ID rule (mirrors tinypie.lexer.AssemblerLexer.RULES).
var assemblyRules = []rule{
	{`\.globals`, token.GLOBALS},
	{`args`, token.ARGS},
	{`locals`, token.LOCALS},
	{`r\d+`, token.REG},
	{`\.def`, token.DEF},
	{`\d+`, token.INT},
	{`'[^']*'`, token.STRING},
	{`\r?\n`, token.NL},
	{`[a-zA-Z_]+\d*`, token.ID},
	{`,`, token.COMMA},
	{`:`, token.COLON},
	{`=`, token.ASSIGN},
}

// Assembly tokenizes TinyPie assembly text: directives, register operands,
// labels-as-identifiers and the literal/punctuation set consumed by
// pkg/assembler's single-pass translator. Mnemonics (add, call, br, ...)
// lex as plain ID tokens; the assembler itself resolves them against the
// shared pkg/bytecode opcode table.
type Assembly struct{ base }

// NewAssembly returns an Assembly lexer reading from the given text.
func NewAssembly(src string) *Assembly {
	l := &Assembly{base: newBase(assemblyRules)}
	l.init(src)
	return l
}

// Next returns the next Token in the stream, or an EOF token once the
// buffer is exhausted. An *Error is returned if no rule matches at the
// current offset.
func (l *Assembly) Next() (token.Token, error) { return l.next() }
