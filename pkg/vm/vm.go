// Package vm implements TinyPie's register-based bytecode virtual machine:
// a fixed-depth call stack of per-frame register files, and a fetch-decode-
// execute loop over the opcode table in pkg/bytecode.
package vm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"tinypie.dev/tinypie/pkg/assembler"
	"tinypie.dev/tinypie/pkg/bytecode"
	"tinypie.dev/tinypie/pkg/value"
)

// CallStackSize bounds call depth; exceeding it is a fatal runtime error.
const CallStackSize = 1000

// RuntimeError is a fatal VM fault: stack overflow, an unrecognized opcode,
// an out-of-range pool/global index, a call through a pool entry that is
// not a function, or a type error from an arithmetic or comparison op. An
// ip at or past the code's high-water mark ends execution normally.
type RuntimeError struct{ Msg string }

func (e *RuntimeError) Error() string { return e.Msg }

func faultf(format string, args ...any) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

type frame struct {
	descriptor *assembler.FunctionDescriptor
	returnAddr int
	registers  []any
}

func newFrame(fd *assembler.FunctionDescriptor, returnAddr int) *frame {
	return &frame{
		descriptor: fd,
		returnAddr: returnAddr,
		registers:  make([]any, bytecode.FrameSize(fd.Args, fd.Locals)),
	}
}

// VM executes an assembled Program.
type VM struct {
	code []byte
	size int
	pool *assembler.ConstantPool
	main *assembler.FunctionDescriptor

	globals []any
	calls   [CallStackSize]*frame
	fp      int
	ip      int

	Trace bool
	Out   io.Writer
}

// New returns a VM ready to execute prog. Out defaults to os.Stdout.
func New(prog *assembler.Program) *VM {
	return &VM{
		code:    prog.Code.Raw(),
		size:    prog.Code.Size(),
		pool:    prog.Pool,
		main:    prog.Main,
		globals: make([]any, prog.GlobalSize),
		fp:      -1,
		Out:     os.Stdout,
	}
}

// Globals exposes the final state of the global slots, for coredump.
func (vm *VM) Globals() []any { return vm.globals }

// Code returns the executed program's code memory and its high-water mark.
func (vm *VM) Code() ([]byte, int) { return vm.code, vm.size }

// Pool returns the constant pool backing the executed program.
func (vm *VM) Pool() *assembler.ConstantPool { return vm.pool }

// Execute runs the program to completion (HALT or running past the code's
// high-water mark), entering through .def main if one was declared or a
// synthesized zero-arg main at address 0 otherwise.
func (vm *VM) Execute() error {
	main := vm.main
	if main == nil {
		main = &assembler.FunctionDescriptor{Name: "main"}
	}

	vm.fp++
	vm.calls[vm.fp] = newFrame(main, vm.ip)
	vm.ip = main.Address

	return vm.run()
}

func (vm *VM) run() error {
	for vm.ip < vm.size {
		op := bytecode.Op(vm.code[vm.ip])
		if op == bytecode.OpHalt {
			return nil
		}

		if vm.Trace {
			vm.emitTrace()
		}

		vm.ip++
		fr := vm.calls[vm.fp]
		regs := fr.registers

		switch op {
		case bytecode.OpAdd:
			a, b, c := vm.reg3()
			sum, err := value.Add(regs[b], regs[c])
			if err != nil {
				return faultf("%s", err)
			}
			regs[a] = sum
		case bytecode.OpSub:
			a, b, c := vm.reg3()
			diff, err := value.Sub(regs[b], regs[c])
			if err != nil {
				return faultf("%s", err)
			}
			regs[a] = diff
		case bytecode.OpMul:
			a, b, c := vm.reg3()
			prod, err := value.Mul(regs[b], regs[c])
			if err != nil {
				return faultf("%s", err)
			}
			regs[a] = prod
		case bytecode.OpLt:
			a, b, c := vm.reg3()
			lt, err := value.Less(regs[b], regs[c])
			if err != nil {
				return faultf("%s", err)
			}
			regs[a] = boolToInt(lt)
		case bytecode.OpEq:
			a, b, c := vm.reg3()
			regs[a] = boolToInt(regs[b] == regs[c])
		case bytecode.OpLoadK:
			a := vm.int32()
			idx := vm.int32()
			v, err := vm.poolValue(int(idx))
			if err != nil {
				return err
			}
			regs[a] = v
		case bytecode.OpGload:
			a := vm.int32()
			idx := vm.int32()
			slot, err := vm.poolValue(int(idx))
			if err != nil {
				return err
			}
			g, err := vm.globalSlot(slot.(int))
			if err != nil {
				return err
			}
			regs[a] = g
		case bytecode.OpGstore:
			idx := vm.int32()
			b := vm.int32()
			slot, err := vm.poolValue(int(idx))
			if err != nil {
				return err
			}
			if err := vm.setGlobalSlot(slot.(int), regs[b]); err != nil {
				return err
			}
		case bytecode.OpMove:
			a, b := vm.int32(), vm.int32()
			regs[a] = regs[b]
		case bytecode.OpBr:
			addr := vm.int32()
			vm.ip = int(addr)
		case bytecode.OpBrt:
			a := vm.int32()
			addr := vm.int32()
			if value.Truthy(regs[a]) {
				vm.ip = int(addr)
			}
		case bytecode.OpBrf:
			a := vm.int32()
			addr := vm.int32()
			if !value.Truthy(regs[a]) {
				vm.ip = int(addr)
			}
		case bytecode.OpPrint:
			a := vm.int32()
			fmt.Fprintln(vm.Out, regs[a])
		case bytecode.OpCall:
			if err := vm.call(); err != nil {
				return err
			}
		case bytecode.OpRet:
			callee := vm.calls[vm.fp]
			vm.fp--
			if vm.fp < 0 {
				return nil
			}
			vm.calls[vm.fp].registers[0] = callee.registers[0]
			vm.ip = callee.returnAddr
		default:
			return faultf("bad opcode %d at ip %d", op, vm.ip-1)
		}
	}
	return nil
}

func (vm *VM) reg3() (int, int, int) {
	return int(vm.int32()), int(vm.int32()), int(vm.int32())
}

func (vm *VM) int32() int32 {
	v := assembler.ReadInt32(vm.code, vm.ip)
	vm.ip += 4
	return v
}

func (vm *VM) poolValue(idx int) (any, error) {
	if idx < 0 || idx >= vm.pool.Len() {
		return nil, faultf("bad constant pool index %d", idx)
	}
	return vm.pool.Get(idx), nil
}

func (vm *VM) globalSlot(idx int) (any, error) {
	if idx < 0 || idx >= len(vm.globals) {
		return nil, faultf("bad global index %d", idx)
	}
	return vm.globals[idx], nil
}

func (vm *VM) setGlobalSlot(idx int, v any) error {
	if idx < 0 || idx >= len(vm.globals) {
		return faultf("bad global index %d", idx)
	}
	vm.globals[idx] = v
	return nil
}

func (vm *VM) call() error {
	caller := vm.calls[vm.fp]
	idx := vm.int32()
	baseReg := vm.int32()

	v, err := vm.poolValue(int(idx))
	if err != nil {
		return err
	}
	fd, ok := v.(*assembler.FunctionDescriptor)
	if !ok {
		return faultf("constant pool index %d is not a function", idx)
	}

	if vm.fp+1 >= CallStackSize {
		return faultf("call stack overflow (depth %d)", CallStackSize)
	}

	fr := newFrame(fd, vm.ip)
	for i := 0; i < fd.Args; i++ {
		fr.registers[i+1] = caller.registers[int(baseReg)+i]
	}

	vm.fp++
	vm.calls[vm.fp] = fr
	vm.ip = fd.Address
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// emitTrace writes one trace line ahead of executing the instruction at
// vm.ip: the disassembled instruction, the active frame's register file,
// and the call-stack names from outermost to innermost.
func (vm *VM) emitTrace() {
	_, line := DisassembleInstruction(vm.code, vm.ip, vm.pool)

	fr := vm.calls[vm.fp]
	regParts := make([]string, len(fr.registers))
	for i, r := range fr.registers {
		if r == nil {
			regParts[i] = "?"
		} else {
			regParts[i] = value.Quote(r)
		}
	}
	regDump := ""
	if len(regParts) > 0 {
		regDump = "[" + regParts[0] + " | " + strings.Join(regParts[1:], " ") + "]"
	}

	names := make([]string, vm.fp+1)
	for i := 0; i <= vm.fp; i++ {
		names[i] = vm.calls[i].descriptor.Name
	}

	fmt.Fprintf(vm.Out, "%-40s %-30s %s\n", line, regDump, strings.Join(names, " > "))
}
