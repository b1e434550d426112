package arch

import "io"

// ThumbOperandKind enumerates the ARM Thumb operand forms.
type ThumbOperandKind uint8

const (
	ThumbOpReg ThumbOperandKind = iota
	ThumbOpRegList
	ThumbOpStatusReg
	ThumbOpUImm
	ThumbOpSImm
	ThumbOpOffsetImm
	ThumbOpOffsetReg
	ThumbOpBranchDest
)

// thumbOperandClass is the central classification table. Registers and
// register lists survive relocation suppression; immediates, offsets and
// branch destinations do not.
var thumbOperandClass = [...]Class{
	ThumbOpReg:        ClassRegister,
	ThumbOpRegList:    ClassRegister,
	ThumbOpStatusReg:  ClassRegister,
	ThumbOpUImm:       ClassImmediate,
	ThumbOpSImm:       ClassImmediate,
	ThumbOpOffsetImm:  ClassImmediate,
	ThumbOpOffsetReg:  ClassImmediate,
	ThumbOpBranchDest: ClassImmediate,
}

// ThumbOperand is one decoded Thumb operand.
type ThumbOperand struct {
	Kind ThumbOperandKind
	Val  int32
}

// Class reports the operand's hashing class.
func (o ThumbOperand) Class() Class {
	return thumbOperandClass[o.Kind]
}

// Emit writes the operand's full identity.
func (o ThumbOperand) Emit(w io.Writer) {
	emitU8(w, uint8(o.Kind))
	emitU32(w, uint32(o.Val))
}

// EmitBase is a no-op for Thumb operands.
func (o ThumbOperand) EmitBase(w io.Writer) {}

// Thumb opcode identifiers.
const (
	ThumbIllegal uint16 = iota
	ThumbLsl
	ThumbLsr
	ThumbAsr
	ThumbAddReg
	ThumbSubReg
	ThumbAddImm3
	ThumbSubImm3
	ThumbMovImm
	ThumbCmpImm
	ThumbAddImm8
	ThumbSubImm8
	ThumbAnd
	ThumbEor
	ThumbLslReg
	ThumbLsrReg
	ThumbAsrReg
	ThumbAdc
	ThumbSbc
	ThumbRor
	ThumbTst
	ThumbNeg
	ThumbCmpReg
	ThumbCmn
	ThumbOrr
	ThumbMul
	ThumbBic
	ThumbMvn
	ThumbAddHi
	ThumbCmpHi
	ThumbMovHi
	ThumbBx
	ThumbBlx
	ThumbLdrPc
	ThumbStrReg
	ThumbStrhReg
	ThumbStrbReg
	ThumbLdrsbReg
	ThumbLdrReg
	ThumbLdrhReg
	ThumbLdrbReg
	ThumbLdrshReg
	ThumbStrImm
	ThumbLdrImm
	ThumbStrbImm
	ThumbLdrbImm
	ThumbStrhImm
	ThumbLdrhImm
	ThumbStrSp
	ThumbLdrSp
	ThumbAddPc
	ThumbAddSp
	ThumbAddSpImm7
	ThumbSubSpImm7
	ThumbPush
	ThumbPop
	ThumbStmia
	ThumbLdmia
	ThumbBCond
	ThumbSwi
	ThumbB
	ThumbBlPrefix
	ThumbBlSuffix
	ThumbBl
	ThumbBlxSuffix
)

func thumbReg(r uint16) Operand {
	return ThumbOperand{Kind: ThumbOpReg, Val: int32(r)}
}

func thumbImm(kind ThumbOperandKind, v int32) Operand {
	return ThumbOperand{Kind: kind, Val: v}
}

func thumb(op uint16, ops ...Operand) insn {
	return insn{op: op, size: 2, ops: ops}
}

// thumbIsWide reports whether hi is the first halfword of a 4-byte long
// branch (BL/BLX prefix).
func thumbIsWide(hi uint16) bool {
	return hi&0xF800 == 0xF000
}

// decodeThumbWide decodes a 4-byte BL/BLX pair. The combined destination
// offset is carried as a branch-dest operand.
func decodeThumbWide(hi, lo uint16, addr uint32) insn {
	off := int32(hi&0x7FF) << 21 >> 9 // sign-extended high part << 12
	off += int32(lo&0x7FF) << 1
	op := ThumbBl
	if lo&0xF800 == 0xE800 {
		op = ThumbBlxSuffix
	}
	i := thumb(op, thumbImm(ThumbOpBranchDest, off))
	i.size = 4
	return i
}

// decodeThumb decodes one 16-bit Thumb halfword. A BL prefix or suffix
// seen in isolation (the fixed-chunk opcode walk) gets its own id.
func decodeThumb(h uint16, addr uint32) insn {
	rd := h & 7
	rs := h >> 3 & 7

	switch {
	case h&0xF800 == 0x1800: // add/sub register or imm3
		rn := h >> 6 & 7
		switch h >> 9 & 3 {
		case 0:
			return thumb(ThumbAddReg, thumbReg(rd), thumbReg(rs), thumbReg(rn))
		case 1:
			return thumb(ThumbSubReg, thumbReg(rd), thumbReg(rs), thumbReg(rn))
		case 2:
			return thumb(ThumbAddImm3, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpUImm, int32(rn)))
		default:
			return thumb(ThumbSubImm3, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpUImm, int32(rn)))
		}
	case h&0xE000 == 0x0000: // shift by immediate
		sh := int32(h >> 6 & 31)
		switch h >> 11 & 3 {
		case 0:
			return thumb(ThumbLsl, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpUImm, sh))
		case 1:
			return thumb(ThumbLsr, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpUImm, sh))
		default:
			return thumb(ThumbAsr, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpUImm, sh))
		}
	case h&0xE000 == 0x2000: // mov/cmp/add/sub imm8
		r := h >> 8 & 7
		imm := thumbImm(ThumbOpUImm, int32(h&0xFF))
		switch h >> 11 & 3 {
		case 0:
			return thumb(ThumbMovImm, thumbReg(r), imm)
		case 1:
			return thumb(ThumbCmpImm, thumbReg(r), imm)
		case 2:
			return thumb(ThumbAddImm8, thumbReg(r), imm)
		default:
			return thumb(ThumbSubImm8, thumbReg(r), imm)
		}
	case h&0xFC00 == 0x4000: // ALU operations
		aluOps := [...]uint16{
			ThumbAnd, ThumbEor, ThumbLslReg, ThumbLsrReg,
			ThumbAsrReg, ThumbAdc, ThumbSbc, ThumbRor,
			ThumbTst, ThumbNeg, ThumbCmpReg, ThumbCmn,
			ThumbOrr, ThumbMul, ThumbBic, ThumbMvn,
		}
		return thumb(aluOps[h>>6&15], thumbReg(rd), thumbReg(rs))
	case h&0xFC00 == 0x4400: // hi register ops / BX
		hd := h&7 | h>>4&8
		hs := h >> 3 & 15
		switch h >> 8 & 3 {
		case 0:
			return thumb(ThumbAddHi, thumbReg(hd), thumbReg(hs))
		case 1:
			return thumb(ThumbCmpHi, thumbReg(hd), thumbReg(hs))
		case 2:
			return thumb(ThumbMovHi, thumbReg(hd), thumbReg(hs))
		default:
			if h>>7&1 == 1 {
				return thumb(ThumbBlx, thumbReg(hs))
			}
			return thumb(ThumbBx, thumbReg(hs))
		}
	case h&0xF800 == 0x4800: // ldr rd, [pc, #imm]
		return thumb(ThumbLdrPc, thumbReg(h>>8&7), thumbImm(ThumbOpOffsetImm, int32(h&0xFF)<<2))
	case h&0xF000 == 0x5000: // load/store register offset
		ro := h >> 6 & 7
		regOps := [...]uint16{
			ThumbStrReg, ThumbStrhReg, ThumbStrbReg, ThumbLdrsbReg,
			ThumbLdrReg, ThumbLdrhReg, ThumbLdrbReg, ThumbLdrshReg,
		}
		return thumb(regOps[h>>9&7], thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpOffsetReg, int32(ro)))
	case h&0xE000 == 0x6000: // load/store word/byte immediate
		off := int32(h >> 6 & 31)
		switch h >> 11 & 3 {
		case 0:
			return thumb(ThumbStrImm, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpOffsetImm, off<<2))
		case 1:
			return thumb(ThumbLdrImm, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpOffsetImm, off<<2))
		case 2:
			return thumb(ThumbStrbImm, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpOffsetImm, off))
		default:
			return thumb(ThumbLdrbImm, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpOffsetImm, off))
		}
	case h&0xF000 == 0x8000: // load/store halfword immediate
		off := int32(h>>6&31) << 1
		if h>>11&1 == 0 {
			return thumb(ThumbStrhImm, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpOffsetImm, off))
		}
		return thumb(ThumbLdrhImm, thumbReg(rd), thumbReg(rs), thumbImm(ThumbOpOffsetImm, off))
	case h&0xF000 == 0x9000: // load/store SP-relative
		r := h >> 8 & 7
		off := int32(h&0xFF) << 2
		if h>>11&1 == 0 {
			return thumb(ThumbStrSp, thumbReg(r), thumbImm(ThumbOpOffsetImm, off))
		}
		return thumb(ThumbLdrSp, thumbReg(r), thumbImm(ThumbOpOffsetImm, off))
	case h&0xF000 == 0xA000: // add rd, pc/sp, #imm
		r := h >> 8 & 7
		off := int32(h&0xFF) << 2
		if h>>11&1 == 0 {
			return thumb(ThumbAddPc, thumbReg(r), thumbImm(ThumbOpUImm, off))
		}
		return thumb(ThumbAddSp, thumbReg(r), thumbImm(ThumbOpUImm, off))
	case h&0xFF00 == 0xB000: // adjust SP
		off := int32(h&0x7F) << 2
		if h>>7&1 == 0 {
			return thumb(ThumbAddSpImm7, thumbImm(ThumbOpUImm, off))
		}
		return thumb(ThumbSubSpImm7, thumbImm(ThumbOpUImm, off))
	case h&0xF600 == 0xB400: // push/pop
		list := int32(h & 0xFF)
		if h>>8&1 == 1 {
			list |= 0x100 // lr / pc bit
		}
		if h>>11&1 == 0 {
			return thumb(ThumbPush, ThumbOperand{Kind: ThumbOpRegList, Val: list})
		}
		return thumb(ThumbPop, ThumbOperand{Kind: ThumbOpRegList, Val: list})
	case h&0xF000 == 0xC000: // multiple load/store
		r := h >> 8 & 7
		list := ThumbOperand{Kind: ThumbOpRegList, Val: int32(h & 0xFF)}
		if h>>11&1 == 0 {
			return thumb(ThumbStmia, thumbReg(r), list)
		}
		return thumb(ThumbLdmia, thumbReg(r), list)
	case h&0xF000 == 0xD000: // conditional branch / swi
		cond := h >> 8 & 15
		if cond == 15 {
			return thumb(ThumbSwi, thumbImm(ThumbOpUImm, int32(h&0xFF)))
		}
		if cond == 14 {
			return thumb(ThumbIllegal, thumbImm(ThumbOpUImm, int32(h)))
		}
		off := int32(int8(h&0xFF)) << 1
		return thumb(ThumbBCond, ThumbOperand{Kind: ThumbOpStatusReg, Val: int32(cond)}, thumbImm(ThumbOpBranchDest, off))
	case h&0xF800 == 0xE000: // unconditional branch
		off := int32(h&0x7FF) << 21 >> 20
		return thumb(ThumbB, thumbImm(ThumbOpBranchDest, off))
	case h&0xF800 == 0xF000: // BL prefix halfword in the fixed-chunk walk
		return thumb(ThumbBlPrefix, thumbImm(ThumbOpSImm, int32(h&0x7FF)))
	case h&0xF800 == 0xF800:
		return thumb(ThumbBlSuffix, thumbImm(ThumbOpSImm, int32(h&0x7FF)))
	case h&0xF800 == 0xE800:
		return thumb(ThumbBlxSuffix, thumbImm(ThumbOpSImm, int32(h&0x7FF)))
	}
	return thumb(ThumbIllegal, thumbImm(ThumbOpUImm, int32(h)))
}
