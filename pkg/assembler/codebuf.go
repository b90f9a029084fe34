package assembler

import "tinypie.dev/tinypie/pkg/bytecode"

const initialCodeCapacity = 64

// CodeBuffer is the packed byte array the assembler emits into and the VM
// later executes. Capacity grows geometrically; newly reserved bytes are
// filled with the HALT opcode so that execution straying past emitted code
// (a missing `ret`, a synthesized entry with nothing after it) terminates
// instead of decoding garbage as an opcode.
type CodeBuffer struct {
	buf  []byte
	size int
}

// NewCodeBuffer returns an empty, HALT-filled CodeBuffer.
func NewCodeBuffer() *CodeBuffer {
	buf := make([]byte, initialCodeCapacity)
	fillHalt(buf, 0)
	return &CodeBuffer{buf: buf}
}

func fillHalt(buf []byte, from int) {
	for i := from; i < len(buf); i++ {
		buf[i] = byte(bytecode.OpHalt)
	}
}

func (c *CodeBuffer) ensure(upto int) {
	if upto <= len(c.buf) {
		return
	}
	newCap := len(c.buf) * 2
	if newCap < upto {
		newCap = upto
	}
	grown := make([]byte, newCap)
	copy(grown, c.buf)
	fillHalt(grown, len(c.buf))
	c.buf = grown
}

// Size is the high-water mark of emitted bytes: the VM and disassembler
// treat it as the end of real code, even though buf itself may be larger.
func (c *CodeBuffer) Size() int { return c.size }

// Bytes returns the buffer up to Size.
func (c *CodeBuffer) Bytes() []byte { return c.buf[:c.size] }

// Raw returns the full underlying buffer, including HALT-filled capacity
// beyond Size — the VM executes against this so that stray control flow
// past the last real instruction still finds a HALT rather than running
// off the end of the slice.
func (c *CodeBuffer) Raw() []byte { return c.buf }

// AppendByte writes one byte at the current high-water mark and advances
// it by one.
func (c *CodeBuffer) AppendByte(b byte) {
	c.ensure(c.size + 1)
	c.buf[c.size] = b
	c.size++
}

// AppendInt32 writes v as four big-endian bytes at the current high-water
// mark and advances it by four.
func (c *CodeBuffer) AppendInt32(v int32) {
	c.ensure(c.size + 4)
	writeInt32(c.buf, c.size, v)
	c.size += 4
}

// PatchInt32 overwrites four bytes already within [0, Size) without moving
// the high-water mark — used by label back-patching.
func (c *CodeBuffer) PatchInt32(addr int, v int32) {
	writeInt32(c.buf, addr, v)
}

func writeInt32(buf []byte, addr int, v int32) {
	buf[addr+0] = byte(v >> 24)
	buf[addr+1] = byte(v >> 16)
	buf[addr+2] = byte(v >> 8)
	buf[addr+3] = byte(v)
}

// ReadInt32 decodes four big-endian bytes at addr.
func ReadInt32(buf []byte, addr int) int32 {
	return int32(buf[addr])<<24 | int32(buf[addr+1])<<16 | int32(buf[addr+2])<<8 | int32(buf[addr+3])
}
