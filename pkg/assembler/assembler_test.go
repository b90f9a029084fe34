package assembler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinypie.dev/tinypie/pkg/assembler"
	"tinypie.dev/tinypie/pkg/bytecode"
)

func assemble(t *testing.T, src string) *assembler.Program {
	t.Helper()
	a, err := assembler.New(src)
	require.NoError(t, err)
	prog, err := a.Assemble()
	require.NoError(t, err)
	return prog
}

func TestForwardBranchIsBackPatched(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=1\n" +
		"br skip\n" +
		"loadk r0, 99\n" +
		"skip:\n" +
		"halt\n"

	prog := assemble(t, src)
	code := prog.Code.Bytes()

	require.Equal(t, byte(bytecode.OpBr), code[0])
	target := assembler.ReadInt32(code, 1)
	// skip: sits right after the br (1 opcode + 4 operand bytes) and the
	// loadk (1 opcode + 4 + 4 operand bytes) = 5 + 9 = 14.
	assert.EqualValues(t, 14, target)
}

func TestConstantPoolInternsLiteralsByValue(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=1\n" +
		"loadk r0, 42\n" +
		"loadk r0, 42\n" +
		"loadk r0, 7\n" +
		"halt\n"

	prog := assemble(t, src)
	assert.Equal(t, 2, prog.Pool.Len())
	assert.Equal(t, 42, prog.Pool.Get(0))
	assert.Equal(t, 7, prog.Pool.Get(1))

	code := prog.Code.Bytes()
	firstIdx := assembler.ReadInt32(code, 5)
	secondIdx := assembler.ReadInt32(code, 14)
	assert.EqualValues(t, 0, firstIdx)
	assert.EqualValues(t, 0, secondIdx, "the repeated literal 42 must reuse the same pool slot")
}

func TestGloadAndGstorePoolTheirLiteralToo(t *testing.T) {
	// spec.md requires loadk/gload/gstore's literal operand to always land
	// in the constant pool, even an INT literal — unlike the narrower
	// original assembler, which only pooled STRING-typed operands.
	src := ".globals 1\n" +
		".def main: args=0, locals=1\n" +
		"gload r0, 0\n" +
		"gstore 0, r0\n" +
		"halt\n"

	prog := assemble(t, src)
	require.Equal(t, 1, prog.Pool.Len())
	assert.Equal(t, 0, prog.Pool.Get(0))
}

func TestStringLiteralIsPooledByValue(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=1\n" +
		"loadk r0, 'hi'\n" +
		"loadk r0, 'hi'\n" +
		"halt\n"

	prog := assemble(t, src)
	assert.Equal(t, 1, prog.Pool.Len())
	assert.Equal(t, "hi", prog.Pool.Get(0))
}

func TestCallBeforeDefPatchesDescriptorInPlace(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=1\n" +
		"call greet, r0\n" +
		"halt\n" +
		".def greet: args=0, locals=1\n" +
		"ret\n"

	prog := assemble(t, src)
	code := prog.Code.Bytes()

	callSiteIdx := assembler.ReadInt32(code, 1)
	fd, ok := prog.Pool.Get(int(callSiteIdx)).(*assembler.FunctionDescriptor)
	require.True(t, ok)
	assert.Equal(t, "greet", fd.Name)
	// greet's .def is reached right after main's body: opcode(1)+func(4)+reg(4)
	// for call, plus 1 for halt.
	assert.Equal(t, 10, fd.Address)
	assert.Equal(t, 0, fd.Args)
	assert.Equal(t, 1, fd.Locals)

	assert.NotNil(t, prog.Main)
	assert.Equal(t, "main", prog.Main.Name)
}

func TestUndefinedLabelAtEndOfInputIsError(t *testing.T) {
	src := ".globals 0\n" +
		".def main: args=0, locals=1\n" +
		"br nowhere\n" +
		"halt\n"

	a, err := assembler.New(src)
	require.NoError(t, err)
	_, err = a.Assemble()
	require.Error(t, err)
	var asmErr *assembler.Error
	assert.ErrorAs(t, err, &asmErr)
}

func TestCodeBufferGrowsPastInitialCapacityFilledWithHalt(t *testing.T) {
	buf := assembler.NewCodeBuffer()
	for i := 0; i < 100; i++ {
		buf.AppendInt32(int32(i))
	}
	raw := buf.Raw()
	assert.Greater(t, len(raw), buf.Size())
	for i := buf.Size(); i < len(raw); i++ {
		assert.Equal(t, byte(bytecode.OpHalt), raw[i])
	}
}

func TestGlobalsDeclSetsGlobalSize(t *testing.T) {
	prog := assemble(t, ".globals 3\n.def main: args=0, locals=0\nhalt\n")
	assert.Equal(t, 3, prog.GlobalSize)
}
