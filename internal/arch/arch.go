// Package arch decodes instruction words for the supported architectures
// and classifies their operands for equivalence hashing. Each architecture
// keeps its own operand enumeration; the shared surface is the Instruction
// and Operand interfaces plus the classification classes.
package arch

import (
	"io"

	"coddog/internal/errors"
	"coddog/internal/platform"
)

// Class partitions operands for equivalence hashing. Register-like
// operands are always emitted; immediate-like operands are suppressed when
// a relocation covers the instruction; labels (intra-function branch
// targets) are always emitted; OffsetBase is the MIPS offset(base)
// compound, which degrades to its base register under relocation.
type Class int

const (
	ClassRegister Class = iota
	ClassImmediate
	ClassLabel
	ClassOffsetBase
)

// Operand is one decoded operand.
type Operand interface {
	// Class reports the operand's hashing class.
	Class() Class
	// Emit writes the operand's full identity (kind tag plus values).
	Emit(w io.Writer)
	// EmitBase writes the reduced identity used when a relocation covers
	// the instruction. Only OffsetBase operands emit anything here.
	EmitBase(w io.Writer)
}

// Instruction is one decoded instruction.
type Instruction interface {
	// OpcodeID is the dense architecture-scoped opcode identifier.
	OpcodeID() uint16
	// Size is the instruction length in bytes (2 or 4).
	Size() int
	// Operands returns the typed operand list in encoding order.
	Operands() []Operand
}

// Decode decodes the instruction at the start of buf. addr is the
// instruction's virtual address; Thumb long branches consume 4 bytes and
// report it via Size.
func Decode(buf []byte, addr uint32, p platform.Platform) (Instruction, error) {
	switch p.Arch() {
	case platform.MIPS:
		if len(buf) < 4 {
			return nil, errors.New(errors.KindOutOfBounds, "mips instruction at %#x: need 4 bytes, have %d", addr, len(buf))
		}
		return decodeMips(p.ReadWord(buf), addr, p), nil
	case platform.PPC:
		if len(buf) < 4 {
			return nil, errors.New(errors.KindOutOfBounds, "ppc instruction at %#x: need 4 bytes, have %d", addr, len(buf))
		}
		return decodePpc(p.ReadWord(buf)), nil
	case platform.Thumb:
		if len(buf) < 2 {
			return nil, errors.New(errors.KindOutOfBounds, "thumb instruction at %#x: need 2 bytes, have %d", addr, len(buf))
		}
		hi := p.ReadHalf(buf)
		if thumbIsWide(hi) {
			if len(buf) < 4 {
				return nil, errors.New(errors.KindOutOfBounds, "thumb long branch at %#x: need 4 bytes, have %d", addr, len(buf))
			}
			return decodeThumbWide(hi, p.ReadHalf(buf[2:]), addr), nil
		}
		return decodeThumb(hi, addr), nil
	}
	return nil, errors.New(errors.KindUnknownPlatform, "no decoder for platform %s", p)
}

// Opcodes extracts the opcode-id vector from raw bytes by walking
// standard-length chunks. Thumb walks halfwords; the two halves of a long
// branch each contribute their own id, keeping the vector length a pure
// function of the byte length.
func Opcodes(bytes []byte, p platform.Platform) []uint16 {
	insnLen := p.Arch().InsnLength()
	ops := make([]uint16, 0, len(bytes)/insnLen)
	for i := 0; i+insnLen <= len(bytes); i += insnLen {
		switch p.Arch() {
		case platform.MIPS:
			ops = append(ops, decodeMips(p.ReadWord(bytes[i:]), 0, p).OpcodeID())
		case platform.PPC:
			ops = append(ops, decodePpc(p.ReadWord(bytes[i:])).OpcodeID())
		case platform.Thumb:
			ops = append(ops, decodeThumb(p.ReadHalf(bytes[i:]), 0).OpcodeID())
		}
	}
	return ops
}

func emitU8(w io.Writer, v uint8) {
	w.Write([]byte{v})
}

func emitU32(w io.Writer, v uint32) {
	w.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
