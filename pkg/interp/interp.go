// Package interp implements TinyPie's tree-walking interpreter: an
// external visitor over pkg/ast.Node that evaluates a program directly,
// without lowering it to bytecode. A RETURN statement unwinds to its
// enclosing call as a typed (value, returned) result threaded back up
// through every exec call on the way, rather than as a panic.
package interp

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"tinypie.dev/tinypie/pkg/ast"
	"tinypie.dev/tinypie/pkg/parser"
	"tinypie.dev/tinypie/pkg/scope"
	"tinypie.dev/tinypie/pkg/token"
	"tinypie.dev/tinypie/pkg/utils"
	"tinypie.dev/tinypie/pkg/value"
)

// Error reports a runtime fault raised by the interpreter itself (an
// unresolved name, a call to something that isn't a function) as distinct
// from a *value.TypeError raised by an operator.
type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

func errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Interpreter holds the mutable state one Interpret run threads through:
// the global memory space, the stack of active function activations, and
// whichever of the two is currently in scope for plain ID resolution.
type Interpreter struct {
	globals   *MemorySpace
	funcStack utils.Stack[*FunctionSpace]
	current   *MemorySpace

	Out io.Writer
}

// New returns a ready-to-use Interpreter writing `print` output to stdout.
func New() *Interpreter {
	g := NewMemorySpace("global")
	return &Interpreter{globals: g, current: g, Out: os.Stdout}
}

// Interpret parses src and executes the resulting program top to bottom.
func (it *Interpreter) Interpret(src string) error {
	p, err := parser.New(src)
	if err != nil {
		return err
	}
	root, err := p.Parse()
	if err != nil {
		return err
	}
	_, _, err = it.exec(root)
	return err
}

// exec dispatches on node.Kind, returning the node's value (where it has
// one), whether a RETURN fired during its evaluation, and any error.
func (it *Interpreter) exec(node *ast.Node) (any, bool, error) {
	switch node.Kind {
	case token.BLOCK:
		return it.block(node)
	case token.FUNC_DEF:
		// Function bodies are only executed through CALL; a top-level
		// FUNC_DEF node itself does nothing at the point it's reached.
		return nil, false, nil
	case token.RETURN:
		v, _, err := it.exec(node.Children[0])
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	case token.CALL:
		v, err := it.call(node)
		return v, false, err
	case token.ASSIGN_STMT:
		return nil, false, it.assign(node)
	case token.PRINT:
		return nil, false, it.print(node)
	case token.INT:
		n, err := strconv.Atoi(node.Text)
		if err != nil {
			return nil, false, err
		}
		return n, false, nil
	case token.STRING:
		return node.Text, false, nil
	case token.ID:
		v, err := it.load(node)
		return v, false, err
	case token.ADD, token.SUB, token.MUL:
		v, err := it.binop(node)
		return v, false, err
	case token.LT, token.EQ:
		v, err := it.compare(node)
		return v, false, err
	case token.IF:
		return it.ifStmt(node)
	case token.WHILE:
		return it.whileStmt(node)
	}
	return nil, false, errorf("interp: unhandled node kind %s", node.Kind)
}

func (it *Interpreter) block(node *ast.Node) (any, bool, error) {
	for _, child := range node.Children {
		v, returned, err := it.exec(child)
		if err != nil {
			return nil, false, err
		}
		if returned {
			return v, true, nil
		}
	}
	return nil, false, nil
}

func (it *Interpreter) assign(node *ast.Node) error {
	left := node.Children[0]
	v, _, err := it.exec(node.Children[1])
	if err != nil {
		return err
	}

	space := it.symbolSpace(left.Text)
	if space == nil {
		space = it.current
	}
	space.Put(left.Text, v)
	return nil
}

func (it *Interpreter) print(node *ast.Node) error {
	v, _, err := it.exec(node.Children[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(it.Out, v)
	return err
}

func (it *Interpreter) call(node *ast.Node) (any, error) {
	name := node.Children[0].Text
	resolved := node.Scope.Resolve(name)
	sym, ok := resolved.(*scope.FunctionSymbol)
	if !ok {
		return nil, errorf("'%s' is not a function", name)
	}

	funcSpace := NewFunctionSpace(sym)
	saved := it.current
	it.current = funcSpace.MemorySpace

	params := sym.Params()
	for i, p := range params {
		v, _, err := it.exec(node.Children[i+1])
		if err != nil {
			it.current = saved
			return nil, err
		}
		funcSpace.Put(p.SymbolName(), v)
	}

	it.funcStack.Push(funcSpace)
	v, returned, err := it.exec(sym.Body)
	it.funcStack.Pop()
	it.current = saved

	if err != nil {
		return nil, err
	}
	if returned {
		return v, nil
	}
	return nil, nil
}

func (it *Interpreter) binop(node *ast.Node) (any, error) {
	left, _, err := it.exec(node.Children[0])
	if err != nil {
		return nil, err
	}
	right, _, err := it.exec(node.Children[1])
	if err != nil {
		return nil, err
	}

	switch node.Kind {
	case token.ADD:
		return value.Add(left, right)
	case token.SUB:
		return value.Sub(left, right)
	case token.MUL:
		return value.Mul(left, right)
	}
	return nil, errorf("interp: unreachable binop kind %s", node.Kind)
}

func (it *Interpreter) compare(node *ast.Node) (any, error) {
	left, _, err := it.exec(node.Children[0])
	if err != nil {
		return nil, err
	}
	right, _, err := it.exec(node.Children[1])
	if err != nil {
		return nil, err
	}

	if node.Kind == token.EQ {
		return boolToInt(left == right), nil
	}
	lt, err := value.Less(left, right)
	if err != nil {
		return nil, err
	}
	return boolToInt(lt), nil
}

func (it *Interpreter) load(node *ast.Node) (any, error) {
	name := node.Text
	if space := it.symbolSpace(name); space != nil {
		return space.Get(name), nil
	}
	return nil, errorf("name '%s' is not defined", name)
}

func (it *Interpreter) ifStmt(node *ast.Node) (any, bool, error) {
	cond, _, err := it.exec(node.Children[0])
	if err != nil {
		return nil, false, err
	}
	if value.Truthy(cond) {
		return it.exec(node.Children[1])
	}
	if len(node.Children) == 3 {
		return it.exec(node.Children[2])
	}
	return nil, false, nil
}

func (it *Interpreter) whileStmt(node *ast.Node) (any, bool, error) {
	condNode, bodyNode := node.Children[0], node.Children[1]

	for {
		cond, _, err := it.exec(condNode)
		if err != nil {
			return nil, false, err
		}
		if !value.Truthy(cond) {
			return nil, false, nil
		}

		v, returned, err := it.exec(bodyNode)
		if err != nil {
			return nil, false, err
		}
		if returned {
			return v, true, nil
		}
	}
}

// symbolSpace finds which space a name is already bound in: the innermost
// active function activation, then globals. Returns nil if unbound
// anywhere, in which case the caller (assign) defaults to it.current.
func (it *Interpreter) symbolSpace(name string) *MemorySpace {
	if top, err := it.funcStack.Top(); err == nil && top.Has(name) {
		return top.MemorySpace
	}
	if it.globals.Has(name) {
		return it.globals
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
