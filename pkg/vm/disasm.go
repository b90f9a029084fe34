package vm

import (
	"fmt"
	"strings"

	"tinypie.dev/tinypie/pkg/assembler"
	"tinypie.dev/tinypie/pkg/bytecode"
	"tinypie.dev/tinypie/pkg/value"
)

// DisassembleInstruction decodes one instruction starting at ip and returns
// the index just past it along with its rendered text ("0006: LOADK   r1,
// #1:'hi'"). pool resolves POOL and FUNC operands to their stored values.
func DisassembleInstruction(code []byte, ip int, pool *assembler.ConstantPool) (int, string) {
	op := bytecode.Op(code[ip])
	instr := bytecode.Instructions[op]
	index := ip + 1

	parts := make([]string, 0, len(instr.Operands))
	for _, kind := range instr.Operands {
		raw := int(assembler.ReadInt32(code, index))
		index += 4

		switch kind {
		case bytecode.INT:
			parts = append(parts, fmt.Sprintf("%d", raw))
		case bytecode.REG:
			parts = append(parts, fmt.Sprintf("r%d", raw))
		case bytecode.FUNC:
			fd := pool.Get(raw).(*assembler.FunctionDescriptor)
			parts = append(parts, fmt.Sprintf("#%d:%s@%d", raw, fd.Name, fd.Address))
		case bytecode.POOL:
			v := pool.Get(raw)
			parts = append(parts, fmt.Sprintf("#%d:%s", raw, value.Quote(v)))
		}
	}

	line := fmt.Sprintf("%04d: %-8s%s", ip, strings.ToUpper(instr.Name), strings.Join(parts, ", "))
	return index, line
}

// Disassemble renders every instruction in code[:size] as the textual
// listing produced by the `--disasm` VM flag.
func Disassemble(code []byte, size int, pool *assembler.ConstantPool) string {
	var b strings.Builder
	b.WriteString("Disassembly:\n")
	for ip := 0; ip < size; {
		next, line := DisassembleInstruction(code, ip, pool)
		b.WriteString(line)
		b.WriteByte('\n')
		ip = next
	}
	return b.String()
}

// Coredump renders code memory, data memory (globals) and the constant
// pool the way the `--coredump` VM flag does: constant pool first (if
// non-empty), then globals (if any), then the full decimal byte dump of
// code memory.
func Coredump(code []byte, size int, globals []any, pool *assembler.ConstantPool) string {
	var b strings.Builder

	if pool.Len() > 0 {
		b.WriteString("Constant pool:\n")
		for i := 0; i < pool.Len(); i++ {
			v := pool.Get(i)
			switch t := v.(type) {
			case string:
				fmt.Fprintf(&b, "%04d: '%s'\n", i, t)
			case *assembler.FunctionDescriptor:
				fmt.Fprintf(&b, "%04d: <FunctionDescriptor: name='%s', address=%d, args=%d, locals=%d>\n",
					i, t.Name, t.Address, t.Args, t.Locals)
			default:
				fmt.Fprintf(&b, "%04d: %v\n", i, t)
			}
		}
		b.WriteByte('\n')
	}

	if len(globals) > 0 {
		b.WriteString("Data memory:\n")
		for i, g := range globals {
			fmt.Fprintf(&b, "%04d: %v <%s>\n", i, g, value.TypeName(g))
		}
		b.WriteByte('\n')
	}

	b.WriteString("Code memory:\n")
	var line strings.Builder
	for i := 0; i < size; i++ {
		if i%8 == 0 {
			if i != 0 {
				b.WriteString(line.String())
				b.WriteByte('\n')
				line.Reset()
			}
			fmt.Fprintf(&line, "%04d:", i)
		}
		fmt.Fprintf(&line, " %3d", code[i])
	}
	b.WriteString(line.String())
	b.WriteByte('\n')

	return b.String()
}
