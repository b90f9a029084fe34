package parser

import (
	"tinypie.dev/tinypie/pkg/ast"
	"tinypie.dev/tinypie/pkg/lexer"
	"tinypie.dev/tinypie/pkg/scope"
	"tinypie.dev/tinypie/pkg/token"
)

// Grammar (LL(2)):
//
//	program  -> (func_def | statement)+ EOF
//	func_def -> 'def' ID '(' (ID (',' ID)*)? ')' slist
//	slist    -> ':' NL statement+ '.' NL | statement
//	statement -> 'print' expr NL | 'return' expr NL | call NL | assign NL
//	           | 'if' expr slist ('else' slist)? | 'while' expr slist | NL
//	assign   -> ID '=' expr
//	expr     -> add_expr (('<' | '==') add_expr)?
//	add_expr -> mult_expr (('+' | '-') mult_expr)*
//	mult_expr -> atom ('*' atom)*
//	atom     -> ID | INT | STRING | call | '(' expr ')'
//	call     -> ID '(' (expr (',' expr)*)? ')'

const lookaheadLimit = 2

// Parser is TinyPie's LL(2) recursive-descent source parser. It builds the
// AST and the lexical scope tree in the same pass: entering a 'def' pushes
// a FunctionSymbol scope and defines its formal parameters, the function's
// body pushes a LocalScope, and both are popped on exit. Every CALL node is
// tagged with the scope active when it was parsed so that pkg/interp can
// resolve forward-referenced callees at interpretation time.
type Parser struct {
	la     *Lookahead
	global *scope.GlobalScope
	cur    scope.Scope
}

// New returns a Parser reading TinyPie source text.
func New(src string) (*Parser, error) {
	la, err := NewLookahead(lexer.NewSource(src), lookaheadLimit)
	if err != nil {
		return nil, err
	}
	g := scope.NewGlobalScope()
	return &Parser{la: la, global: g, cur: g}, nil
}

// Global returns the root of the scope tree built while parsing.
func (p *Parser) Global() *scope.GlobalScope { return p.global }

// Parse consumes the entire token stream and returns the program's root
// BLOCK node, or the first syntax error encountered. Parsing is single-pass
// and all-or-nothing: on error no partial AST is returned.
func (p *Parser) Parse() (*ast.Node, error) {
	root := ast.New(token.BLOCK, "")

	for p.la.PeekKind(0) != token.EOF {
		if p.la.PeekKind(0) == token.DEF {
			node, err := p.funcDef()
			if err != nil {
				return nil, err
			}
			root.AddChild(node)
			continue
		}

		node, err := p.statement()
		if err != nil {
			return nil, err
		}
		if node != nil {
			root.AddChild(node)
		}
	}

	return root, nil
}

func (p *Parser) funcDef() (*ast.Node, error) {
	if err := p.la.Match(token.DEF); err != nil {
		return nil, err
	}

	node := ast.New(token.FUNC_DEF, "")
	nameTok := p.la.Peek(0)
	node.AddChild(ast.New(token.ID, nameTok.Text))

	funcSym := scope.NewFunctionSymbol(nameTok.Text, p.cur)
	p.cur.Define(funcSym)
	p.cur = funcSym

	if err := p.la.Match(token.ID); err != nil {
		return nil, err
	}
	if err := p.la.Match(token.LPAREN); err != nil {
		return nil, err
	}

	if p.la.PeekKind(0) == token.ID {
		paramTok := p.la.Peek(0)
		node.AddChild(ast.New(token.ID, paramTok.Text))
		p.cur.Define(scope.NewVariableSymbol(paramTok.Text))
		if err := p.la.Match(token.ID); err != nil {
			return nil, err
		}

		for p.la.PeekKind(0) == token.COMMA {
			if err := p.la.Match(token.COMMA); err != nil {
				return nil, err
			}
			paramTok = p.la.Peek(0)
			node.AddChild(ast.New(token.ID, paramTok.Text))
			p.cur.Define(scope.NewVariableSymbol(paramTok.Text))
			if err := p.la.Match(token.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := p.la.Match(token.RPAREN); err != nil {
		return nil, err
	}

	p.cur = scope.NewLocalScope(p.cur)

	body, err := p.slist()
	if err != nil {
		return nil, err
	}
	funcSym.Body = body
	node.AddChild(body)

	// pop LocalScope, then the FunctionSymbol scope itself.
	p.cur = p.cur.Enclosing()
	p.cur = p.cur.Enclosing()

	return node, nil
}

func (p *Parser) slist() (*ast.Node, error) {
	node := ast.New(token.BLOCK, "")

	if p.la.PeekKind(0) == token.COLON {
		if err := p.la.Match(token.COLON); err != nil {
			return nil, err
		}
		if err := p.la.Match(token.NL); err != nil {
			return nil, err
		}

		for !(p.la.PeekKind(0) == token.DOT && p.la.PeekKind(1) == token.NL) {
			st, err := p.statement()
			if err != nil {
				return nil, err
			}
			if st != nil {
				node.AddChild(st)
			}
		}

		if err := p.la.Match(token.DOT); err != nil {
			return nil, err
		}
		if err := p.la.Match(token.NL); err != nil {
			return nil, err
		}
		return node, nil
	}

	st, err := p.statement()
	if err != nil {
		return nil, err
	}
	if st != nil {
		node.AddChild(st)
	}
	return node, nil
}

func (p *Parser) statement() (*ast.Node, error) {
	switch p.la.PeekKind(0) {
	case token.PRINT:
		node := ast.New(token.PRINT, "")
		if err := p.la.Match(token.PRINT); err != nil {
			return nil, err
		}
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		node.AddChild(expr)
		return node, p.la.Match(token.NL)

	case token.RETURN:
		node := ast.New(token.RETURN, "")
		if err := p.la.Match(token.RETURN); err != nil {
			return nil, err
		}
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		node.AddChild(expr)
		return node, p.la.Match(token.NL)

	case token.NL:
		return nil, p.la.Match(token.NL)

	case token.IF:
		node := ast.New(token.IF, "")
		if err := p.la.Match(token.IF); err != nil {
			return nil, err
		}
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		node.AddChild(cond)
		then, err := p.slist()
		if err != nil {
			return nil, err
		}
		node.AddChild(then)
		if p.la.PeekKind(0) == token.ELSE {
			if err := p.la.Match(token.ELSE); err != nil {
				return nil, err
			}
			els, err := p.slist()
			if err != nil {
				return nil, err
			}
			node.AddChild(els)
		}
		return node, nil

	case token.WHILE:
		node := ast.New(token.WHILE, "")
		if err := p.la.Match(token.WHILE); err != nil {
			return nil, err
		}
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		node.AddChild(cond)
		body, err := p.slist()
		if err != nil {
			return nil, err
		}
		node.AddChild(body)
		return node, nil
	}

	if p.la.PeekKind(0) == token.ID && p.la.PeekKind(1) == token.LPAREN {
		node, err := p.call()
		if err != nil {
			return nil, err
		}
		return node, p.la.Match(token.NL)
	}

	node, err := p.assign()
	if err != nil {
		return nil, err
	}
	return node, p.la.Match(token.NL)
}

func (p *Parser) expr() (*ast.Node, error) {
	left, err := p.addExpr()
	if err != nil {
		return nil, err
	}

	if k := p.la.PeekKind(0); k == token.LT || k == token.EQ {
		node := ast.New(k, p.la.Peek(0).Text)
		node.AddChild(left)
		if err := p.la.Match(k); err != nil {
			return nil, err
		}
		right, err := p.addExpr()
		if err != nil {
			return nil, err
		}
		node.AddChild(right)
		return node, nil
	}

	return left, nil
}

func (p *Parser) addExpr() (*ast.Node, error) {
	left, err := p.multExpr()
	if err != nil {
		return nil, err
	}

	for {
		k := p.la.PeekKind(0)
		if k != token.ADD && k != token.SUB {
			return left, nil
		}
		node := ast.New(k, p.la.Peek(0).Text)
		node.AddChild(left)
		if err := p.la.Match(k); err != nil {
			return nil, err
		}
		right, err := p.multExpr()
		if err != nil {
			return nil, err
		}
		node.AddChild(right)
		left = node
	}
}

func (p *Parser) multExpr() (*ast.Node, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}

	for p.la.PeekKind(0) == token.MUL {
		node := ast.New(token.MUL, p.la.Peek(0).Text)
		node.AddChild(left)
		if err := p.la.Match(token.MUL); err != nil {
			return nil, err
		}
		right, err := p.atom()
		if err != nil {
			return nil, err
		}
		node.AddChild(right)
		left = node
	}
	return left, nil
}

func (p *Parser) assign() (*ast.Node, error) {
	node := ast.New(token.ASSIGN_STMT, "")
	nameTok := p.la.Peek(0)
	node.AddChild(ast.New(token.ID, nameTok.Text))

	p.cur.Define(scope.NewVariableSymbol(nameTok.Text))

	if err := p.la.Match(token.ID); err != nil {
		return nil, err
	}
	if err := p.la.Match(token.ASSIGN); err != nil {
		return nil, err
	}

	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	node.AddChild(expr)
	return node, nil
}

func (p *Parser) call() (*ast.Node, error) {
	node := ast.New(token.CALL, "")
	node.Scope = p.cur
	nameTok := p.la.Peek(0)
	node.AddChild(ast.New(token.ID, nameTok.Text))

	if err := p.la.Match(token.ID); err != nil {
		return nil, err
	}
	if err := p.la.Match(token.LPAREN); err != nil {
		return nil, err
	}

	if p.la.PeekKind(0) != token.RPAREN {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		node.AddChild(arg)

		for p.la.PeekKind(0) == token.COMMA {
			if err := p.la.Match(token.COMMA); err != nil {
				return nil, err
			}
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			node.AddChild(arg)
		}
	}

	return node, p.la.Match(token.RPAREN)
}

func (p *Parser) atom() (*ast.Node, error) {
	if p.la.PeekKind(0) == token.ID && p.la.PeekKind(1) == token.LPAREN {
		return p.call()
	}

	switch p.la.PeekKind(0) {
	case token.ID:
		node := ast.New(token.ID, p.la.Peek(0).Text)
		return node, p.la.Match(token.ID)

	case token.INT:
		node := ast.New(token.INT, p.la.Peek(0).Text)
		return node, p.la.Match(token.INT)

	case token.STRING:
		node := ast.New(token.STRING, p.la.Peek(0).Text)
		return node, p.la.Match(token.STRING)

	case token.LPAREN:
		if err := p.la.Match(token.LPAREN); err != nil {
			return nil, err
		}
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		return node, p.la.Match(token.RPAREN)
	}

	return nil, &SyntaxError{Expected: token.ID, Found: p.la.Peek(0)}
}
