package arch

import (
	"io"

	"coddog/internal/platform"
)

// MipsOperandKind enumerates the MIPS operand forms.
type MipsOperandKind uint8

const (
	MipsOpRs MipsOperandKind = iota
	MipsOpRt
	MipsOpRd
	MipsOpSa
	MipsOpFs
	MipsOpFt
	MipsOpFd
	MipsOpCop0d
	MipsOpFpCtl
	MipsOpCode
	MipsOpImmS16
	MipsOpImmU16
	MipsOpJumpTarget
	MipsOpBranchLabel
	MipsOpOffsetBase
)

// mipsOperandClass is the central classification table for equivalence
// hashing. Branch labels are intra-function and never suppressed.
var mipsOperandClass = [...]Class{
	MipsOpRs:          ClassRegister,
	MipsOpRt:          ClassRegister,
	MipsOpRd:          ClassRegister,
	MipsOpSa:          ClassRegister,
	MipsOpFs:          ClassRegister,
	MipsOpFt:          ClassRegister,
	MipsOpFd:          ClassRegister,
	MipsOpCop0d:       ClassRegister,
	MipsOpFpCtl:       ClassRegister,
	MipsOpCode:        ClassRegister,
	MipsOpImmS16:      ClassImmediate,
	MipsOpImmU16:      ClassImmediate,
	MipsOpJumpTarget:  ClassImmediate,
	MipsOpBranchLabel: ClassLabel,
	MipsOpOffsetBase:  ClassOffsetBase,
}

// MipsOperand is one decoded MIPS operand. Base is meaningful only for
// MipsOpOffsetBase.
type MipsOperand struct {
	Kind MipsOperandKind
	Val  int32
	Base uint8
}

// Class reports the operand's hashing class.
func (o MipsOperand) Class() Class {
	return mipsOperandClass[o.Kind]
}

// Emit writes the operand's full identity.
func (o MipsOperand) Emit(w io.Writer) {
	emitU8(w, uint8(o.Kind))
	emitU32(w, uint32(o.Val))
	if o.Kind == MipsOpOffsetBase {
		emitU8(w, o.Base)
	}
}

// EmitBase writes the base register of an offset(base) compound; the
// immediate part is pinned down by the relocation identity.
func (o MipsOperand) EmitBase(w io.Writer) {
	if o.Kind != MipsOpOffsetBase {
		return
	}
	emitU8(w, uint8(o.Kind))
	emitU8(w, o.Base)
}

// MIPS opcode identifiers. Values are stable across runs; only equality
// matters to callers.
const (
	MipsIllegal uint16 = iota
	MipsSLL
	MipsSRL
	MipsSRA
	MipsSLLV
	MipsSRLV
	MipsSRAV
	MipsJR
	MipsJALR
	MipsMOVZ
	MipsMOVN
	MipsSYSCALL
	MipsBREAK
	MipsSYNC
	MipsMFHI
	MipsMTHI
	MipsMFLO
	MipsMTLO
	MipsDSLLV
	MipsDSRLV
	MipsDSRAV
	MipsMULT
	MipsMULTU
	MipsDIV
	MipsDIVU
	MipsDMULT
	MipsDMULTU
	MipsDDIV
	MipsDDIVU
	MipsADD
	MipsADDU
	MipsSUB
	MipsSUBU
	MipsAND
	MipsOR
	MipsXOR
	MipsNOR
	MipsSLT
	MipsSLTU
	MipsDADD
	MipsDADDU
	MipsDSUB
	MipsDSUBU
	MipsTGE
	MipsTGEU
	MipsTLT
	MipsTLTU
	MipsTEQ
	MipsTNE
	MipsDSLL
	MipsDSRL
	MipsDSRA
	MipsDSLL32
	MipsDSRL32
	MipsDSRA32
	MipsBLTZ
	MipsBGEZ
	MipsBLTZL
	MipsBGEZL
	MipsTGEI
	MipsTGEIU
	MipsTLTI
	MipsTLTIU
	MipsTEQI
	MipsTNEI
	MipsBLTZAL
	MipsBGEZAL
	MipsBLTZALL
	MipsBGEZALL
	MipsJ
	MipsJAL
	MipsBEQ
	MipsBNE
	MipsBLEZ
	MipsBGTZ
	MipsBEQL
	MipsBNEL
	MipsBLEZL
	MipsBGTZL
	MipsADDI
	MipsADDIU
	MipsSLTI
	MipsSLTIU
	MipsANDI
	MipsORI
	MipsXORI
	MipsLUI
	MipsDADDI
	MipsDADDIU
	MipsLDL
	MipsLDR
	MipsLB
	MipsLH
	MipsLWL
	MipsLW
	MipsLBU
	MipsLHU
	MipsLWR
	MipsLWU
	MipsSB
	MipsSH
	MipsSWL
	MipsSW
	MipsSDL
	MipsSDR
	MipsSWR
	MipsCACHE
	MipsLL
	MipsLWC1
	MipsLWC2
	MipsPREF
	MipsLLD
	MipsLDC1
	MipsLDC2
	MipsLD
	MipsSC
	MipsSWC1
	MipsSWC2
	MipsSCD
	MipsSDC1
	MipsSDC2
	MipsSD
	MipsMFC0
	MipsMTC0
	MipsMFC1
	MipsDMFC1
	MipsCFC1
	MipsMTC1
	MipsDMTC1
	MipsCTC1
	MipsBC1F
	MipsBC1T
	MipsBC1FL
	MipsBC1TL
	MipsCOP2
)

// COP1 arithmetic opcode ids. The S, D, W, L format variants of a family
// occupy consecutive ids starting at the base; decode adds the format
// index.
const (
	mipsFpBase uint16 = 0x100

	MipsFAdd uint16 = mipsFpBase + 4*iota
	MipsFSub
	MipsFMul
	MipsFDiv
	MipsFSqrt
	MipsFAbs
	MipsFMov
	MipsFNeg
	MipsFRoundL
	MipsFTruncL
	MipsFCeilL
	MipsFFloorL
	MipsFRoundW
	MipsFTruncW
	MipsFCeilW
	MipsFFloorW
	MipsFCvtS
	MipsFCvtD
	MipsFCvtW
	MipsFCvtL
	MipsFCmp
)

// insn is the shared decoded-instruction value. The operand list keeps
// encoding order.
type insn struct {
	op   uint16
	size int
	ops  []Operand
}

func (i insn) OpcodeID() uint16    { return i.op }
func (i insn) Size() int           { return i.size }
func (i insn) Operands() []Operand { return i.ops }

func mipsReg(kind MipsOperandKind, r uint8) Operand {
	return MipsOperand{Kind: kind, Val: int32(r)}
}

func mipsImm(kind MipsOperandKind, v int32) Operand {
	return MipsOperand{Kind: kind, Val: v}
}

func mips4(op uint16, ops ...Operand) insn {
	return insn{op: op, size: 4, ops: ops}
}

// fp format field values for COP1 rs.
const (
	mipsFmtS = 16
	mipsFmtD = 17
	mipsFmtW = 20
	mipsFmtL = 21
)

func mipsFmtIndex(fmt uint32) (uint16, bool) {
	switch fmt {
	case mipsFmtS:
		return 0, true
	case mipsFmtD:
		return 1, true
	case mipsFmtW:
		return 2, true
	case mipsFmtL:
		return 3, true
	}
	return 0, false
}

// decodeMips decodes one 32-bit MIPS word. Flavor-specific encodings that
// the table does not classify come back as MipsIllegal (or MipsCOP2) with
// the raw bits carried in an always-hashed operand, so unknown words stay
// deterministic without failing ingest.
func decodeMips(word uint32, addr uint32, p platform.Platform) insn {
	op := word >> 26
	rs := uint8(word >> 21 & 31)
	rt := uint8(word >> 16 & 31)
	rd := uint8(word >> 11 & 31)
	sa := uint8(word >> 6 & 31)
	funct := word & 63
	simm := int32(int16(word))
	uimm := int32(uint16(word))

	loadStore := func(id uint16) insn {
		return mips4(id,
			mipsReg(MipsOpRt, rt),
			MipsOperand{Kind: MipsOpOffsetBase, Val: simm, Base: rs})
	}
	fpLoadStore := func(id uint16) insn {
		return mips4(id,
			mipsReg(MipsOpFt, rt),
			MipsOperand{Kind: MipsOpOffsetBase, Val: simm, Base: rs})
	}
	// Branch targets are relative; identical bodies at different vrams
	// must decode identically.
	branchOff := mipsImm(MipsOpBranchLabel, simm<<2)

	switch op {
	case 0:
		return decodeMipsSpecial(word, funct, rs, rt, rd, sa)
	case 1:
		return decodeMipsRegimm(rs, rt, simm<<2)
	case 2:
		return mips4(MipsJ, mipsImm(MipsOpJumpTarget, int32(word&0x03FFFFFF)<<2))
	case 3:
		return mips4(MipsJAL, mipsImm(MipsOpJumpTarget, int32(word&0x03FFFFFF)<<2))
	case 4:
		return mips4(MipsBEQ, mipsReg(MipsOpRs, rs), mipsReg(MipsOpRt, rt), branchOff)
	case 5:
		return mips4(MipsBNE, mipsReg(MipsOpRs, rs), mipsReg(MipsOpRt, rt), branchOff)
	case 6:
		return mips4(MipsBLEZ, mipsReg(MipsOpRs, rs), branchOff)
	case 7:
		return mips4(MipsBGTZ, mipsReg(MipsOpRs, rs), branchOff)
	case 8:
		return mips4(MipsADDI, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmS16, simm))
	case 9:
		return mips4(MipsADDIU, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmS16, simm))
	case 10:
		return mips4(MipsSLTI, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmS16, simm))
	case 11:
		return mips4(MipsSLTIU, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmS16, simm))
	case 12:
		return mips4(MipsANDI, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmU16, uimm))
	case 13:
		return mips4(MipsORI, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmU16, uimm))
	case 14:
		return mips4(MipsXORI, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmU16, uimm))
	case 15:
		return mips4(MipsLUI, mipsReg(MipsOpRt, rt), mipsImm(MipsOpImmU16, uimm))
	case 16: // COP0
		switch rs {
		case 0:
			return mips4(MipsMFC0, mipsReg(MipsOpRt, rt), mipsReg(MipsOpCop0d, rd))
		case 4:
			return mips4(MipsMTC0, mipsReg(MipsOpRt, rt), mipsReg(MipsOpCop0d, rd))
		}
		return mips4(MipsIllegal, mipsImm(MipsOpCode, int32(word&0x03FFFFFF)))
	case 17: // COP1
		return decodeMipsCop1(word, rs, rt, rd, sa, funct, simm<<2)
	case 18: // COP2: GTE / VU / VFPU blocks are carried opaquely.
		return mips4(MipsCOP2, mipsImm(MipsOpCode, int32(word&0x03FFFFFF)))
	case 20:
		return mips4(MipsBEQL, mipsReg(MipsOpRs, rs), mipsReg(MipsOpRt, rt), branchOff)
	case 21:
		return mips4(MipsBNEL, mipsReg(MipsOpRs, rs), mipsReg(MipsOpRt, rt), branchOff)
	case 22:
		return mips4(MipsBLEZL, mipsReg(MipsOpRs, rs), branchOff)
	case 23:
		return mips4(MipsBGTZL, mipsReg(MipsOpRs, rs), branchOff)
	case 24:
		return mips4(MipsDADDI, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmS16, simm))
	case 25:
		return mips4(MipsDADDIU, mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmS16, simm))
	case 26:
		return loadStore(MipsLDL)
	case 27:
		return loadStore(MipsLDR)
	case 32:
		return loadStore(MipsLB)
	case 33:
		return loadStore(MipsLH)
	case 34:
		return loadStore(MipsLWL)
	case 35:
		return loadStore(MipsLW)
	case 36:
		return loadStore(MipsLBU)
	case 37:
		return loadStore(MipsLHU)
	case 38:
		return loadStore(MipsLWR)
	case 39:
		return loadStore(MipsLWU)
	case 40:
		return loadStore(MipsSB)
	case 41:
		return loadStore(MipsSH)
	case 42:
		return loadStore(MipsSWL)
	case 43:
		return loadStore(MipsSW)
	case 44:
		return loadStore(MipsSDL)
	case 45:
		return loadStore(MipsSDR)
	case 46:
		return loadStore(MipsSWR)
	case 47:
		return mips4(MipsCACHE,
			mipsImm(MipsOpCode, int32(rt)),
			MipsOperand{Kind: MipsOpOffsetBase, Val: simm, Base: rs})
	case 48:
		return loadStore(MipsLL)
	case 49:
		return fpLoadStore(MipsLWC1)
	case 50:
		return loadStore(MipsLWC2)
	case 51:
		return mips4(MipsPREF,
			mipsImm(MipsOpCode, int32(rt)),
			MipsOperand{Kind: MipsOpOffsetBase, Val: simm, Base: rs})
	case 52:
		return loadStore(MipsLLD)
	case 53:
		return fpLoadStore(MipsLDC1)
	case 54:
		return loadStore(MipsLDC2)
	case 55:
		return loadStore(MipsLD)
	case 56:
		return loadStore(MipsSC)
	case 57:
		return fpLoadStore(MipsSWC1)
	case 58:
		return loadStore(MipsSWC2)
	case 60:
		return loadStore(MipsSCD)
	case 61:
		return fpLoadStore(MipsSDC1)
	case 62:
		return loadStore(MipsSDC2)
	case 63:
		return loadStore(MipsSD)
	}
	return mips4(MipsIllegal, mipsImm(MipsOpCode, int32(word)))
}

func decodeMipsSpecial(word, funct uint32, rs, rt, rd, sa uint8) insn {
	shiftImm := func(id uint16) insn {
		return mips4(id, mipsReg(MipsOpRd, rd), mipsReg(MipsOpRt, rt), mipsReg(MipsOpSa, sa))
	}
	shiftVar := func(id uint16) insn {
		return mips4(id, mipsReg(MipsOpRd, rd), mipsReg(MipsOpRt, rt), mipsReg(MipsOpRs, rs))
	}
	threeReg := func(id uint16) insn {
		return mips4(id, mipsReg(MipsOpRd, rd), mipsReg(MipsOpRs, rs), mipsReg(MipsOpRt, rt))
	}
	hiLo := func(id uint16) insn {
		return mips4(id, mipsReg(MipsOpRs, rs), mipsReg(MipsOpRt, rt))
	}
	trap := func(id uint16) insn {
		return mips4(id, mipsReg(MipsOpRs, rs), mipsReg(MipsOpRt, rt))
	}

	switch funct {
	case 0:
		return shiftImm(MipsSLL)
	case 2:
		return shiftImm(MipsSRL)
	case 3:
		return shiftImm(MipsSRA)
	case 4:
		return shiftVar(MipsSLLV)
	case 6:
		return shiftVar(MipsSRLV)
	case 7:
		return shiftVar(MipsSRAV)
	case 8:
		return mips4(MipsJR, mipsReg(MipsOpRs, rs))
	case 9:
		return mips4(MipsJALR, mipsReg(MipsOpRd, rd), mipsReg(MipsOpRs, rs))
	case 10:
		return threeReg(MipsMOVZ)
	case 11:
		return threeReg(MipsMOVN)
	case 12:
		return mips4(MipsSYSCALL, mipsImm(MipsOpCode, int32(word>>6&0xFFFFF)))
	case 13:
		return mips4(MipsBREAK, mipsImm(MipsOpCode, int32(word>>6&0xFFFFF)))
	case 15:
		return mips4(MipsSYNC)
	case 16:
		return mips4(MipsMFHI, mipsReg(MipsOpRd, rd))
	case 17:
		return mips4(MipsMTHI, mipsReg(MipsOpRs, rs))
	case 18:
		return mips4(MipsMFLO, mipsReg(MipsOpRd, rd))
	case 19:
		return mips4(MipsMTLO, mipsReg(MipsOpRs, rs))
	case 20:
		return shiftVar(MipsDSLLV)
	case 22:
		return shiftVar(MipsDSRLV)
	case 23:
		return shiftVar(MipsDSRAV)
	case 24:
		return hiLo(MipsMULT)
	case 25:
		return hiLo(MipsMULTU)
	case 26:
		return hiLo(MipsDIV)
	case 27:
		return hiLo(MipsDIVU)
	case 28:
		return hiLo(MipsDMULT)
	case 29:
		return hiLo(MipsDMULTU)
	case 30:
		return hiLo(MipsDDIV)
	case 31:
		return hiLo(MipsDDIVU)
	case 32:
		return threeReg(MipsADD)
	case 33:
		return threeReg(MipsADDU)
	case 34:
		return threeReg(MipsSUB)
	case 35:
		return threeReg(MipsSUBU)
	case 36:
		return threeReg(MipsAND)
	case 37:
		return threeReg(MipsOR)
	case 38:
		return threeReg(MipsXOR)
	case 39:
		return threeReg(MipsNOR)
	case 42:
		return threeReg(MipsSLT)
	case 43:
		return threeReg(MipsSLTU)
	case 44:
		return threeReg(MipsDADD)
	case 45:
		return threeReg(MipsDADDU)
	case 46:
		return threeReg(MipsDSUB)
	case 47:
		return threeReg(MipsDSUBU)
	case 48:
		return trap(MipsTGE)
	case 49:
		return trap(MipsTGEU)
	case 50:
		return trap(MipsTLT)
	case 51:
		return trap(MipsTLTU)
	case 52:
		return trap(MipsTEQ)
	case 54:
		return trap(MipsTNE)
	case 56:
		return shiftImm(MipsDSLL)
	case 58:
		return shiftImm(MipsDSRL)
	case 59:
		return shiftImm(MipsDSRA)
	case 60:
		return shiftImm(MipsDSLL32)
	case 62:
		return shiftImm(MipsDSRL32)
	case 63:
		return shiftImm(MipsDSRA32)
	}
	return mips4(MipsIllegal, mipsImm(MipsOpCode, int32(word)))
}

func decodeMipsRegimm(rs, rt uint8, off int32) insn {
	branch := func(id uint16) insn {
		return mips4(id, mipsReg(MipsOpRs, rs), mipsImm(MipsOpBranchLabel, off))
	}
	trapImm := func(id uint16) insn {
		return mips4(id, mipsReg(MipsOpRs, rs), mipsImm(MipsOpImmS16, off>>2))
	}

	switch rt {
	case 0:
		return branch(MipsBLTZ)
	case 1:
		return branch(MipsBGEZ)
	case 2:
		return branch(MipsBLTZL)
	case 3:
		return branch(MipsBGEZL)
	case 8:
		return trapImm(MipsTGEI)
	case 9:
		return trapImm(MipsTGEIU)
	case 10:
		return trapImm(MipsTLTI)
	case 11:
		return trapImm(MipsTLTIU)
	case 12:
		return trapImm(MipsTEQI)
	case 14:
		return trapImm(MipsTNEI)
	case 16:
		return branch(MipsBLTZAL)
	case 17:
		return branch(MipsBGEZAL)
	case 18:
		return branch(MipsBLTZALL)
	case 19:
		return branch(MipsBGEZALL)
	}
	return mips4(MipsIllegal, mipsImm(MipsOpCode, int32(rt)))
}

func decodeMipsCop1(word uint32, rs, rt, rd, sa uint8, funct uint32, branchOff int32) insn {
	fs := rd
	ft := rt
	fd := sa

	switch rs {
	case 0:
		return mips4(MipsMFC1, mipsReg(MipsOpRt, rt), mipsReg(MipsOpFs, fs))
	case 1:
		return mips4(MipsDMFC1, mipsReg(MipsOpRt, rt), mipsReg(MipsOpFs, fs))
	case 2:
		return mips4(MipsCFC1, mipsReg(MipsOpRt, rt), mipsReg(MipsOpFpCtl, fs))
	case 4:
		return mips4(MipsMTC1, mipsReg(MipsOpRt, rt), mipsReg(MipsOpFs, fs))
	case 5:
		return mips4(MipsDMTC1, mipsReg(MipsOpRt, rt), mipsReg(MipsOpFs, fs))
	case 6:
		return mips4(MipsCTC1, mipsReg(MipsOpRt, rt), mipsReg(MipsOpFpCtl, fs))
	case 8: // BC1x by the nd/tf bits in rt.
		label := mipsImm(MipsOpBranchLabel, branchOff)
		switch rt & 3 {
		case 0:
			return mips4(MipsBC1F, label)
		case 1:
			return mips4(MipsBC1T, label)
		case 2:
			return mips4(MipsBC1FL, label)
		default:
			return mips4(MipsBC1TL, label)
		}
	}

	fmtIdx, ok := mipsFmtIndex(uint32(rs))
	if !ok {
		return mips4(MipsIllegal, mipsImm(MipsOpCode, int32(word&0x03FFFFFF)))
	}

	two := func(family uint16) insn {
		return mips4(family+fmtIdx, mipsReg(MipsOpFd, fd), mipsReg(MipsOpFs, fs))
	}
	three := func(family uint16) insn {
		return mips4(family+fmtIdx, mipsReg(MipsOpFd, fd), mipsReg(MipsOpFs, fs), mipsReg(MipsOpFt, ft))
	}

	switch funct {
	case 0:
		return three(MipsFAdd)
	case 1:
		return three(MipsFSub)
	case 2:
		return three(MipsFMul)
	case 3:
		return three(MipsFDiv)
	case 4:
		return two(MipsFSqrt)
	case 5:
		return two(MipsFAbs)
	case 6:
		return two(MipsFMov)
	case 7:
		return two(MipsFNeg)
	case 8:
		return two(MipsFRoundL)
	case 9:
		return two(MipsFTruncL)
	case 10:
		return two(MipsFCeilL)
	case 11:
		return two(MipsFFloorL)
	case 12:
		return two(MipsFRoundW)
	case 13:
		return two(MipsFTruncW)
	case 14:
		return two(MipsFCeilW)
	case 15:
		return two(MipsFFloorW)
	case 32:
		return two(MipsFCvtS)
	case 33:
		return two(MipsFCvtD)
	case 36:
		return two(MipsFCvtW)
	case 37:
		return two(MipsFCvtL)
	}
	if funct >= 48 { // c.cond.fmt; the condition code is an operand.
		return mips4(MipsFCmp+fmtIdx,
			mipsImm(MipsOpCode, int32(funct&15)),
			mipsReg(MipsOpFs, fs),
			mipsReg(MipsOpFt, ft))
	}
	return mips4(MipsIllegal, mipsImm(MipsOpCode, int32(word&0x03FFFFFF)))
}
