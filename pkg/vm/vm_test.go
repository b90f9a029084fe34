package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypie.dev/tinypie/pkg/assembler"
	"tinypie.dev/tinypie/pkg/vm"
)

func mustAssemble(t *testing.T, src string) *assembler.Program {
	t.Helper()
	a, err := assembler.New(src)
	require.NoError(t, err)
	prog, err := a.Assemble()
	require.NoError(t, err)
	return prog
}

func TestArithmeticAndPrint(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=3\n" +
		"loadk r1, 3\n" +
		"loadk r2, 4\n" +
		"add r3, r1, r2\n" +
		"print r3\n" +
		"halt\n"

	var out bytes.Buffer
	machine := vm.New(mustAssemble(t, src))
	machine.Out = &out

	require.NoError(t, machine.Execute())
	assert.Equal(t, "7\n", out.String())
}

func TestAddOnStringsIsRuntimeError(t *testing.T) {
	// spec.md §4.3: `+` is not defined on strings.
	src := ".globals 0\n" +
		".def main: args=0, locals=3\n" +
		"loadk r1, 'foo'\n" +
		"loadk r2, 'bar'\n" +
		"add r3, r1, r2\n" +
		"halt\n"

	machine := vm.New(mustAssemble(t, src))
	err := machine.Execute()
	require.Error(t, err)
	var rtErr *vm.RuntimeError
	assert.ErrorAs(t, err, &rtErr)
}

func TestMixedOperandAddIsRuntimeError(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=3\n" +
		"loadk r1, 3\n" +
		"loadk r2, 'bar'\n" +
		"add r3, r1, r2\n" +
		"halt\n"

	machine := vm.New(mustAssemble(t, src))
	err := machine.Execute()
	require.Error(t, err)
	var rtErr *vm.RuntimeError
	assert.ErrorAs(t, err, &rtErr)
}

func TestMixedOperandSubAndMulAreRuntimeErrors(t *testing.T) {
	subSrc := ".globals 0\n" +
		".def main: args=0, locals=3\n" +
		"loadk r1, 3\n" +
		"loadk r2, 'bar'\n" +
		"sub r3, r1, r2\n" +
		"halt\n"

	machine := vm.New(mustAssemble(t, subSrc))
	err := machine.Execute()
	require.Error(t, err)
	var rtErr *vm.RuntimeError
	assert.ErrorAs(t, err, &rtErr)

	mulSrc := ".globals 0\n" +
		".def main: args=0, locals=3\n" +
		"loadk r1, 3\n" +
		"loadk r2, 'bar'\n" +
		"mul r3, r1, r2\n" +
		"halt\n"

	machine = vm.New(mustAssemble(t, mulSrc))
	err = machine.Execute()
	require.Error(t, err)
	assert.ErrorAs(t, err, &rtErr)
}

func TestBranchOnFalseSkipsBody(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=2\n" +
		"loadk r1, 0\n" +
		"brf r1, skip\n" +
		"loadk r2, 1\n" +
		"print r2\n" +
		"skip:\n" +
		"loadk r2, 2\n" +
		"print r2\n" +
		"halt\n"

	var out bytes.Buffer
	machine := vm.New(mustAssemble(t, src))
	machine.Out = &out

	require.NoError(t, machine.Execute())
	assert.Equal(t, "2\n", out.String())
}

func TestCallPassesArgsAndReturnsValue(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=3\n" +
		"loadk r1, 3\n" +
		"loadk r2, 4\n" +
		"call add, r1\n" +
		"move r3, r0\n" +
		"print r3\n" +
		"halt\n" +
		".def add: args=2, locals=1\n" +
		"add r0, r1, r2\n" +
		"ret\n"

	var out bytes.Buffer
	machine := vm.New(mustAssemble(t, src))
	machine.Out = &out

	require.NoError(t, machine.Execute())
	assert.Equal(t, "7\n", out.String())
}

func TestGlobalStoreAndLoadRoundTrip(t *testing.T) {
	src := ".globals 1\n" +
		".def main: args=0, locals=2\n" +
		"loadk r1, 5\n" +
		"gstore 0, r1\n" +
		"gload r2, 0\n" +
		"print r2\n" +
		"halt\n"

	var out bytes.Buffer
	machine := vm.New(mustAssemble(t, src))
	machine.Out = &out

	require.NoError(t, machine.Execute())
	assert.Equal(t, "5\n", out.String())

	assert.Equal(t, 5, machine.Globals()[0])
}

func TestCallStackOverflowIsFatal(t *testing.T) {
	// spiral calls itself unconditionally; with no base case it must
	// eventually blow the fixed-depth call stack rather than recurse
	// forever or corrupt frames.
	src := ".globals 0\n" +
		".def main: args=0, locals=0\n" +
		"call spiral, r0\n" +
		"halt\n" +
		".def spiral: args=0, locals=0\n" +
		"call spiral, r0\n" +
		"ret\n"

	machine := vm.New(mustAssemble(t, src))
	err := machine.Execute()
	require.Error(t, err)
	var rtErr *vm.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Contains(t, rtErr.Error(), "overflow")
}

func TestReturnAtTopFrameEndsExecution(t *testing.T) {
	src := ".globals 0\n.def main: args=0, locals=0\nret\n"

	machine := vm.New(mustAssemble(t, src))
	assert.NoError(t, machine.Execute())
}

func TestTraceEmitsOneLinePerInstructionBeforeExecuting(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=1\n" +
		"loadk r1, 9\n" +
		"halt\n"

	var out bytes.Buffer
	machine := vm.New(mustAssemble(t, src))
	machine.Out = &out
	machine.Trace = true

	require.NoError(t, machine.Execute())
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "LOADK")
	assert.Contains(t, lines[0], "main")
}

func TestBadOpcodeIsRuntimeError(t *testing.T) {
	prog := mustAssemble(t, ".globals 0\n.def main: args=0, locals=0\nhalt\n")
	// Corrupt the first byte of main's body into an opcode value that has
	// no entry in the instruction table.
	prog.Code.Bytes()[0] = 200

	machine := vm.New(prog)
	err := machine.Execute()
	require.Error(t, err)
	var rtErr *vm.RuntimeError
	assert.ErrorAs(t, err, &rtErr)
}
