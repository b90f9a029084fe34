package scope

import "tinypie.dev/tinypie/pkg/ast"

// Symbol is anything a Scope can Define/Resolve by name: a VariableSymbol
// or a FunctionSymbol.
type Symbol interface {
	SymbolName() string
	SetScope(s Scope)
	GetScope() Scope
}

// baseSymbol is embedded by both concrete Symbol kinds.
type baseSymbol struct {
	name  string
	scope Scope
}

func (s *baseSymbol) SymbolName() string { return s.name }
func (s *baseSymbol) SetScope(sc Scope)  { s.scope = sc }
func (s *baseSymbol) GetScope() Scope    { return s.scope }

// VariableSymbol names a plain variable: a function parameter or a value
// bound by an ASSIGN statement. It carries no type information — TinyPie
// values are dynamically tagged at runtime (see pkg/interp).
type VariableSymbol struct{ baseSymbol }

// NewVariableSymbol returns a VariableSymbol with the given name, not yet
// attached to any scope (Scope.Define attaches it).
func NewVariableSymbol(name string) *VariableSymbol {
	return &VariableSymbol{baseSymbol{name: name}}
}

// FunctionSymbol is both a Symbol (resolvable by name from its enclosing
// scope, so a CALL can look it up) and a Scope (its formal parameters
// resolve against it, one level inside its enclosing scope and one level
// outside the LocalScope introduced by its body). Body holds a direct
// reference to the function's AST so pkg/interp can invoke it by name
// without re-parsing or re-walking the top-level program.
type FunctionSymbol struct {
	baseSymbol
	enclosing Scope
	params    []*VariableSymbol
	locals    map[string]Symbol
	Body      *ast.Node
}

// NewFunctionSymbol returns a FunctionSymbol scoped inside enclosing, with
// no formal parameters and no body yet (the parser fills both in while
// parsing the function's parameter list and slist).
func NewFunctionSymbol(name string, enclosing Scope) *FunctionSymbol {
	return &FunctionSymbol{
		baseSymbol: baseSymbol{name: name},
		enclosing:  enclosing,
		locals:     map[string]Symbol{},
	}
}

func (f *FunctionSymbol) Enclosing() Scope { return f.enclosing }

// Define adds a formal parameter to the function's own scope, preserving
// declaration order in Params so call-site arguments can be bound by
// position.
func (f *FunctionSymbol) Define(sym Symbol) {
	f.locals[sym.SymbolName()] = sym
	sym.SetScope(f)
	if v, ok := sym.(*VariableSymbol); ok {
		f.params = append(f.params, v)
	}
}

func (f *FunctionSymbol) Resolve(name string) any {
	if sym, ok := f.locals[name]; ok {
		return sym
	}
	if f.enclosing != nil {
		return f.enclosing.Resolve(name)
	}
	return nil
}

// Params returns the function's formal parameters in declaration order.
func (f *FunctionSymbol) Params() []*VariableSymbol { return f.params }
