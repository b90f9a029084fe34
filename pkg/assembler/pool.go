package assembler

// FunctionDescriptor is what `call` and `.def` share a slot for in the
// constant pool: enough to route control transfer (Address) and to size a
// fresh StackFrame (Args, Locals) without re-parsing anything.
type FunctionDescriptor struct {
	Name    string
	Address int
	Args    int
	Locals  int
}

// ConstantPool holds every literal and function descriptor an assembled
// program references, in first-use order. Ordinary values (ints, strings)
// are pooled by value equality: the same literal appearing twice shares one
// slot. FunctionDescriptors are pooled by name instead, because `call` may
// reference a function before its `.def` has been seen — the slot is
// created empty and patched in place once the definition arrives, so the
// pool index a `call` site already emitted stays valid.
type ConstantPool struct {
	values []any
}

// NewConstantPool returns an empty pool.
func NewConstantPool() *ConstantPool { return &ConstantPool{} }

// Len reports how many slots are in use.
func (p *ConstantPool) Len() int { return len(p.values) }

// Get returns the value stored at the given index.
func (p *ConstantPool) Get(index int) any { return p.values[index] }

// InternValue returns the index of an existing slot equal to v, adding a
// new slot if none matches.
func (p *ConstantPool) InternValue(v any) int {
	for i, existing := range p.values {
		if existing == v {
			return i
		}
	}
	p.values = append(p.values, v)
	return len(p.values) - 1
}

// InternFunction returns the index of the FunctionDescriptor named name,
// creating an unaddressed placeholder (Address/Args/Locals all zero) if
// this is the first reference to that name.
func (p *ConstantPool) InternFunction(name string) int {
	for i, v := range p.values {
		if fd, ok := v.(*FunctionDescriptor); ok && fd.Name == name {
			return i
		}
	}
	p.values = append(p.values, &FunctionDescriptor{Name: name})
	return len(p.values) - 1
}

// DefineFunction records a `.def` site: it fills in (or creates) the
// FunctionDescriptor for name in place, so any `call` that already
// referenced it by index sees the real address once execution reaches it.
func (p *ConstantPool) DefineFunction(name string, address, args, locals int) *FunctionDescriptor {
	idx := p.InternFunction(name)
	fd := p.values[idx].(*FunctionDescriptor)
	fd.Address = address
	fd.Args = args
	fd.Locals = locals
	return fd
}
