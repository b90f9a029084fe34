// Package assembler translates TinyPie assembly text into a packed byte
// array plus a constant pool, in a single left-to-right pass over the
// token stream. Forward jump targets and forward function calls are both
// supported: a label or `call` may reference a name before it is defined,
// and the pending reference is patched once the definition is reached.
package assembler

import (
	"strconv"

	"tinypie.dev/tinypie/pkg/bytecode"
	"tinypie.dev/tinypie/pkg/lexer"
	"tinypie.dev/tinypie/pkg/parser"
	"tinypie.dev/tinypie/pkg/token"
)

// Program is the result of a successful Assemble: the code memory, the
// constant pool backing it, the declared global-slot count, and the
// function descriptor marked as the program's entry point (nil if none was
// declared `.def main`).
type Program struct {
	Code       *CodeBuffer
	Pool       *ConstantPool
	GlobalSize int
	Main       *FunctionDescriptor
}

// Assembler drives the single-pass translation described in package doc.
type Assembler struct {
	la     *parser.Lookahead
	pool   *ConstantPool
	labels *LabelTable
	code   *CodeBuffer

	globalSize int
	main       *FunctionDescriptor
}

// New returns an Assembler reading TinyPie assembly source text.
func New(src string) (*Assembler, error) {
	la, err := parser.NewLookahead(lexer.NewAssembly(src), 2)
	if err != nil {
		return nil, err
	}
	return &Assembler{
		la:     la,
		pool:   NewConstantPool(),
		labels: NewLabelTable(),
		code:   NewCodeBuffer(),
	}, nil
}

// Assemble consumes the entire token stream, emitting code and populating
// the constant pool as it goes. It returns an error on the first syntax
// problem or on any label left undefined at end of input.
func (a *Assembler) Assemble() (*Program, error) {
	for a.la.PeekKind(0) != token.EOF {
		switch {
		case a.la.PeekKind(0) == token.NL:
			if err := a.la.Match(token.NL); err != nil {
				return nil, err
			}

		case a.la.PeekKind(0) == token.GLOBALS:
			if err := a.globalsDecl(); err != nil {
				return nil, err
			}

		case a.la.PeekKind(0) == token.DEF:
			if err := a.funcDef(); err != nil {
				return nil, err
			}

		case a.la.PeekKind(0) == token.ID && a.la.PeekKind(1) == token.COLON:
			if err := a.label(); err != nil {
				return nil, err
			}

		default:
			if err := a.instruction(); err != nil {
				return nil, err
			}
		}
	}

	if undefined := a.labels.UndefinedNames(); len(undefined) > 0 {
		return nil, errorf("undefined label(s) referenced but never defined: %v", undefined)
	}

	return &Program{Code: a.code, Pool: a.pool, GlobalSize: a.globalSize, Main: a.main}, nil
}

func (a *Assembler) globalsDecl() error {
	if err := a.la.Match(token.GLOBALS); err != nil {
		return err
	}
	n, err := strconv.Atoi(a.la.Peek(0).Text)
	if err != nil {
		return err
	}
	if err := a.la.Match(token.INT); err != nil {
		return err
	}
	a.globalSize = n
	return a.la.Match(token.NL)
}

func (a *Assembler) funcDef() error {
	if err := a.la.Match(token.DEF); err != nil {
		return err
	}
	name := a.la.Peek(0).Text
	if err := a.la.Match(token.ID); err != nil {
		return err
	}
	if err := a.la.Match(token.COLON); err != nil {
		return err
	}
	if err := a.la.Match(token.ARGS); err != nil {
		return err
	}
	if err := a.la.Match(token.ASSIGN); err != nil {
		return err
	}
	args, err := strconv.Atoi(a.la.Peek(0).Text)
	if err != nil {
		return err
	}
	if err := a.la.Match(token.INT); err != nil {
		return err
	}
	if err := a.la.Match(token.COMMA); err != nil {
		return err
	}
	if err := a.la.Match(token.LOCALS); err != nil {
		return err
	}
	if err := a.la.Match(token.ASSIGN); err != nil {
		return err
	}
	locals, err := strconv.Atoi(a.la.Peek(0).Text)
	if err != nil {
		return err
	}
	if err := a.la.Match(token.INT); err != nil {
		return err
	}
	if err := a.la.Match(token.NL); err != nil {
		return err
	}

	fd := a.pool.DefineFunction(name, a.code.Size(), args, locals)
	if name == "main" {
		a.main = fd
	}
	return nil
}

func (a *Assembler) label() error {
	name := a.la.Peek(0).Text
	if err := a.la.Match(token.ID); err != nil {
		return err
	}
	if err := a.la.Match(token.COLON); err != nil {
		return err
	}
	if err := a.la.Match(token.NL); err != nil {
		return err
	}
	a.labels.Define(name, a.code.Size(), a.code)
	return nil
}

func (a *Assembler) instruction() error {
	mnemTok := a.la.Peek(0)
	op, ok := bytecode.ByMnemonic[mnemTok.Text]
	if !ok {
		return errorf("unknown mnemonic %q", mnemTok.Text)
	}
	if err := a.la.Match(token.ID); err != nil {
		return err
	}

	a.code.AppendByte(byte(op))

	operands := bytecode.Instructions[op].Operands
	for i, kind := range operands {
		if i > 0 {
			if err := a.la.Match(token.COMMA); err != nil {
				return err
			}
		}
		if err := a.emitOperand(kind); err != nil {
			return err
		}
	}

	return a.la.Match(token.NL)
}

// emitOperand consumes the current token as an operand of the given
// semantic kind and appends its encoded 4-byte form to code.
func (a *Assembler) emitOperand(kind bytecode.OperandKind) error {
	tok := a.la.Peek(0)

	switch kind {
	case bytecode.REG:
		if err := a.la.Match(token.REG); err != nil {
			return err
		}
		n, err := strconv.Atoi(tok.Text[1:])
		if err != nil {
			return err
		}
		a.code.AppendInt32(int32(n))

	case bytecode.INT:
		switch tok.Kind {
		case token.INT:
			n, err := strconv.Atoi(tok.Text)
			if err != nil {
				return err
			}
			if err := a.la.Match(token.INT); err != nil {
				return err
			}
			a.code.AppendInt32(int32(n))
		case token.ID:
			if err := a.la.Match(token.ID); err != nil {
				return err
			}
			addr := a.labels.AddressOf(tok.Text, a.code.Size())
			a.code.AppendInt32(int32(addr))
		default:
			return &parser.SyntaxError{Expected: token.ID, Found: tok}
		}

	case bytecode.POOL:
		switch tok.Kind {
		case token.INT:
			n, err := strconv.Atoi(tok.Text)
			if err != nil {
				return err
			}
			if err := a.la.Match(token.INT); err != nil {
				return err
			}
			a.code.AppendInt32(int32(a.pool.InternValue(n)))
		case token.STRING:
			if err := a.la.Match(token.STRING); err != nil {
				return err
			}
			a.code.AppendInt32(int32(a.pool.InternValue(tok.Text)))
		default:
			return &parser.SyntaxError{Expected: token.INT, Found: tok}
		}

	case bytecode.FUNC:
		if err := a.la.Match(token.ID); err != nil {
			return err
		}
		a.code.AppendInt32(int32(a.pool.InternFunction(tok.Text)))
	}

	return nil
}
