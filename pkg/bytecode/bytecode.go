// Package bytecode is the single source of truth for TinyPie's instruction
// set: the opcode byte assigned to each mnemonic and the operand kinds it
// takes, in order. pkg/assembler, pkg/vm and the disassembler all dispatch
// off the same Instructions table so that adding or reshaping an
// instruction only ever requires one edit.
package bytecode

// OperandKind tags what an operand slot means, independent of how it is
// spelled in assembly source.
type OperandKind int

const (
	// REG is a register index within the current frame.
	REG OperandKind = iota + 1
	// INT is a literal integer or a resolved jump address.
	INT
	// FUNC is a constant-pool index pointing at a FunctionDescriptor.
	FUNC
	// POOL is a constant-pool index pointing at an ordinary value.
	POOL
)

// Op is an instruction's opcode byte. Zero is never assigned to a real
// instruction so that a stray zero byte (e.g. in grown-but-unused code
// space) cannot be mistaken for one; code growth instead fills with OpHalt.
type Op byte

const (
	_ Op = iota
	OpAdd
	OpSub
	OpMul
	OpLt
	OpEq
	OpLoadK
	OpGload
	OpGstore
	OpRet
	OpHalt
	OpBr
	OpBrt
	OpBrf
	OpMove
	OpPrint
	OpCall
)

// Instruction names one opcode and the ordered operand kinds it consumes.
type Instruction struct {
	Name     string
	Operands []OperandKind
}

// Instructions is indexed by opcode; index 0 is unused.
var Instructions = [...]Instruction{
	{},
	OpAdd:    {"add", []OperandKind{REG, REG, REG}},
	OpSub:    {"sub", []OperandKind{REG, REG, REG}},
	OpMul:    {"mul", []OperandKind{REG, REG, REG}},
	OpLt:     {"lt", []OperandKind{REG, REG, REG}},
	OpEq:     {"eq", []OperandKind{REG, REG, REG}},
	OpLoadK:  {"loadk", []OperandKind{REG, POOL}},
	OpGload:  {"gload", []OperandKind{REG, POOL}},
	OpGstore: {"gstore", []OperandKind{POOL, REG}},
	OpRet:    {"ret", nil},
	OpHalt:   {"halt", nil},
	OpBr:     {"br", []OperandKind{INT}},
	OpBrt:    {"brt", []OperandKind{REG, INT}},
	OpBrf:    {"brf", []OperandKind{REG, INT}},
	OpMove:   {"move", []OperandKind{REG, REG}},
	OpPrint:  {"print", []OperandKind{REG}},
	OpCall:   {"call", []OperandKind{FUNC, REG}},
}

// ByMnemonic maps an assembly mnemonic to its opcode, built once from
// Instructions so the two can never drift apart.
var ByMnemonic = func() map[string]Op {
	m := make(map[string]Op, len(Instructions))
	for i, instr := range Instructions {
		if instr.Name != "" {
			m[instr.Name] = Op(i)
		}
	}
	return m
}()

// FrameSize returns the register-file size for a frame with the given
// number of formal parameters and locals: slot 0 is always the result/
// return-value register.
func FrameSize(args, locals int) int { return args + locals + 1 }
