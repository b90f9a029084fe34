// Package scope implements TinyPie's lexical scope tree: GlobalScope,
// LocalScope and FunctionSymbol-as-scope, built once during source parsing
// by pkg/parser and then treated as immutable by pkg/interp. A Scope chains
// to its enclosing Scope and resolves a name by walking outward until a
// symbol is found or the chain is exhausted.
package scope

// Scope resolves names to symbols, walking outward through enclosing scopes
// when a name is not defined locally. Both GlobalScope, LocalScope and
// FunctionSymbol implement it — in TinyPie a function is simultaneously a
// symbol (resolvable by name from its enclosing scope) and a scope (its
// formal parameters resolve against it).
type Scope interface {
	Enclosing() Scope
	Define(sym Symbol)
	Resolve(name string) any
}

// baseScope is the shared map-backed implementation used by both
// GlobalScope and LocalScope.
type baseScope struct {
	enclosing Scope
	symbols   map[string]Symbol
}

func newBaseScope(enclosing Scope) baseScope {
	return baseScope{enclosing: enclosing, symbols: map[string]Symbol{}}
}

func (s *baseScope) Enclosing() Scope { return s.enclosing }

func (s *baseScope) Define(sym Symbol) {
	s.symbols[sym.SymbolName()] = sym
	sym.SetScope(s)
}

func (s *baseScope) Resolve(name string) any {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	if s.enclosing != nil {
		return s.enclosing.Resolve(name)
	}
	return nil
}

// GlobalScope is the single top-level scope; its enclosing scope is always
// nil. Variables assigned at top level (outside any function body) and
// top-level function definitions are defined here.
type GlobalScope struct{ baseScope }

// NewGlobalScope returns an empty GlobalScope.
func NewGlobalScope() *GlobalScope {
	return &GlobalScope{baseScope: newBaseScope(nil)}
}

// LocalScope is the scope introduced by a function body, as distinct from
// the FunctionSymbol scope holding its formal parameters: parameters live
// one level up, in the FunctionSymbol itself.
type LocalScope struct{ baseScope }

// NewLocalScope returns a LocalScope enclosed by the given scope.
func NewLocalScope(enclosing Scope) *LocalScope {
	return &LocalScope{baseScope: newBaseScope(enclosing)}
}

// This file does not reference *ast.Node; FunctionSymbol, the one type in
// the package that does, lives in symbol.go.
