package interp

import "tinypie.dev/tinypie/pkg/scope"

// MemorySpace is a flat name-to-value binding table: the global space, or
// one function activation's local variables.
type MemorySpace struct {
	name    string
	members map[string]any
}

// NewMemorySpace returns an empty, named MemorySpace.
func NewMemorySpace(name string) *MemorySpace {
	return &MemorySpace{name: name, members: map[string]any{}}
}

// Has reports whether name is bound in this space.
func (m *MemorySpace) Has(name string) bool {
	_, ok := m.members[name]
	return ok
}

// Get returns the value bound to name, or nil if unbound.
func (m *MemorySpace) Get(name string) any { return m.members[name] }

// Put binds name to v, overwriting any previous binding.
func (m *MemorySpace) Put(name string, v any) { m.members[name] = v }

// FunctionSpace is the MemorySpace backing one activation of a function
// call: its formal parameters and any names assigned in its body.
type FunctionSpace struct {
	*MemorySpace
	Symbol *scope.FunctionSymbol
}

// NewFunctionSpace returns a fresh, empty activation record for sym.
func NewFunctionSpace(sym *scope.FunctionSymbol) *FunctionSpace {
	return &FunctionSpace{MemorySpace: NewMemorySpace(sym.SymbolName()), Symbol: sym}
}
