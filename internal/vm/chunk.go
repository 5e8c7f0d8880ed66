package vm

import "github.com/nxlang/nx/internal/token"

// Chunk is a growable array of 16-bit instruction words with a parallel
// source-view array (one entry per word) and an append-only constant pool.
// Grounded on the teacher's Chunk (flat code + parallel position tracking)
// widened from bytes to 16-bit words per the wider opcode/operand space.
type Chunk struct {
	Code      []uint16
	Positions []token.Token // one per Code word, used for error reporting
	Constants []Value
}

func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]uint16, 0, 64),
		Positions: make([]token.Token, 0, 64),
		Constants: make([]Value, 0, 16),
	}
}

func (c *Chunk) Write(word uint16, pos token.Token) int {
	c.Code = append(c.Code, word)
	c.Positions = append(c.Positions, pos)
	return len(c.Code) - 1
}

func (c *Chunk) WriteOp(op Opcode, pos token.Token) int {
	return c.Write(uint16(op), pos)
}

// AddConstant appends to the constant pool and returns its index. The
// compiler is responsible for keeping the pool under 65536 entries.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

func (c *Chunk) PatchJump(at int, target int) {
	c.Code[at] = uint16(target)
}
