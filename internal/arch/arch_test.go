package arch

import (
	"testing"

	"coddog/internal/platform"
)

func decodeWord(t *testing.T, word uint32, p platform.Platform) Instruction {
	t.Helper()
	buf := make([]byte, 4)
	if p.Endianness() == platform.Big {
		buf[0], buf[1], buf[2], buf[3] = byte(word>>24), byte(word>>16), byte(word>>8), byte(word)
	} else {
		buf[0], buf[1], buf[2], buf[3] = byte(word), byte(word>>8), byte(word>>16), byte(word>>24)
	}
	insn, err := Decode(buf, 0x80000000, p)
	if err != nil {
		t.Fatalf("Decode(%#x) failed: %v", word, err)
	}
	return insn
}

func TestDecodeMips(t *testing.T) {
	tests := []struct {
		name     string
		word     uint32
		opcode   uint16
		operands int
	}{
		{"sll zero", 0x00000000, MipsSLL, 3},
		{"addiu", 0x24840010, MipsADDIU, 3}, // addiu a0, a0, 0x10
		{"lui", 0x3C040080, MipsLUI, 2},     // lui a0, 0x80
		{"lw", 0x8C850004, MipsLW, 2},       // lw a1, 4(a0)
		{"sw", 0xACC70008, MipsSW, 2},       // sw a3, 8(a2)
		{"jr ra", 0x03E00008, MipsJR, 1},
		{"jal", 0x0C000404, MipsJAL, 1},
		{"beq", 0x10860003, MipsBEQ, 3},
		{"addu", 0x00851021, MipsADDU, 3},
		{"mult", 0x00850018, MipsMULT, 2},
		{"mfhi", 0x00001010, MipsMFHI, 1},
		{"add.s", 0x46062000, MipsFAdd, 3},
		{"add.d", 0x46262000, MipsFAdd + 1, 3},
		{"mtc1", 0x44844000, MipsMTC1, 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			insn := decodeWord(t, test.word, platform.N64)
			if insn.OpcodeID() != test.opcode {
				t.Errorf("opcode = %d, want %d", insn.OpcodeID(), test.opcode)
			}
			if len(insn.Operands()) != test.operands {
				t.Errorf("operand count = %d, want %d", len(insn.Operands()), test.operands)
			}
			if insn.Size() != 4 {
				t.Errorf("size = %d, want 4", insn.Size())
			}
		})
	}
}

func TestDecodeMipsOperandClasses(t *testing.T) {
	// lw a1, 4(a0): the rt operand is a register, the compound is an
	// offset(base).
	insn := decodeWord(t, 0x8C850004, platform.N64)
	ops := insn.Operands()
	if ops[0].Class() != ClassRegister {
		t.Errorf("rt class = %v, want register", ops[0].Class())
	}
	if ops[1].Class() != ClassOffsetBase {
		t.Errorf("offset(base) class = %v, want offset-base", ops[1].Class())
	}

	// beq: the branch target is a label, never suppressed.
	insn = decodeWord(t, 0x10860003, platform.N64)
	ops = insn.Operands()
	if ops[2].Class() != ClassLabel {
		t.Errorf("branch target class = %v, want label", ops[2].Class())
	}

	// addiu: the immediate participates in suppression.
	insn = decodeWord(t, 0x24840010, platform.N64)
	ops = insn.Operands()
	if ops[2].Class() != ClassImmediate {
		t.Errorf("immediate class = %v, want immediate", ops[2].Class())
	}
}

func TestDecodeMipsBranchIsPositionIndependent(t *testing.T) {
	buf := []byte{0x10, 0x86, 0x00, 0x03}
	a, err := Decode(buf, 0x80000000, platform.N64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Decode(buf, 0x80004000, platform.N64)
	if err != nil {
		t.Fatal(err)
	}
	av := a.Operands()[2].(MipsOperand)
	bv := b.Operands()[2].(MipsOperand)
	if av != bv {
		t.Errorf("branch label differs across addresses: %+v vs %+v", av, bv)
	}
}

func TestDecodePpc(t *testing.T) {
	tests := []struct {
		name   string
		word   uint32
		opcode uint16
	}{
		{"addi", 0x38600001, PpcAddi},   // li r3, 1
		{"addis", 0x3C600080, PpcAddis}, // lis r3, 0x80
		{"lwz", 0x80830004, PpcLwz},     // lwz r4, 4(r3)
		{"stw", 0x90830008, PpcStw},     // stw r4, 8(r3)
		{"b", 0x48000010, PpcB},
		{"bc", 0x41820008, PpcBc}, // beq +8
		{"blr", 0x4E800020, PpcBclr},
		{"add", 0x7C632214, PpcAdd},
		{"mullw", 0x7C6321D6, PpcMullw},
		{"or", 0x7C632378, PpcOr},
		{"mfspr lr", 0x7C0802A6, PpcMfspr},
		{"rlwinm", 0x5463103A, PpcRlwinm},
		{"fadds", 0xEC22182A, PpcFadds},
		{"fadd", 0xFC22182A, PpcFadd},
		{"psq_l", 0xE0230000, PpcPsqL},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			insn := decodeWord(t, test.word, platform.GC)
			if insn.OpcodeID() != test.opcode {
				t.Errorf("opcode = %d, want %d", insn.OpcodeID(), test.opcode)
			}
		})
	}
}

func TestDecodeThumb(t *testing.T) {
	tests := []struct {
		name   string
		half   uint16
		opcode uint16
	}{
		{"lsl imm", 0x0088, ThumbLsl},  // lsls r0, r1, #2
		{"mov imm", 0x2005, ThumbMovImm},
		{"add reg", 0x1888, ThumbAddReg},
		{"and", 0x4008, ThumbAnd},
		{"mul", 0x4348, ThumbMul},
		{"bx lr", 0x4770, ThumbBx},
		{"ldr pc", 0x4801, ThumbLdrPc},
		{"str imm", 0x6008, ThumbStrImm},
		{"ldrh imm", 0x8808, ThumbLdrhImm},
		{"push lr", 0xB500, ThumbPush},
		{"pop pc", 0xBD00, ThumbPop},
		{"beq", 0xD0FE, ThumbBCond},
		{"swi", 0xDF01, ThumbSwi},
		{"b", 0xE7FE, ThumbB},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := []byte{byte(test.half), byte(test.half >> 8)}
			insn, err := Decode(buf, 0x08000000, platform.GBA)
			if err != nil {
				t.Fatalf("Decode(%#x) failed: %v", test.half, err)
			}
			if insn.OpcodeID() != test.opcode {
				t.Errorf("opcode = %d, want %d", insn.OpcodeID(), test.opcode)
			}
			if insn.Size() != 2 {
				t.Errorf("size = %d, want 2", insn.Size())
			}
		})
	}
}

func TestDecodeThumbLongBranch(t *testing.T) {
	// bl: 0xF000 prefix then 0xF800 suffix, little-endian halfwords.
	buf := []byte{0x00, 0xF0, 0x08, 0xF8}
	insn, err := Decode(buf, 0x08000000, platform.GBA)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if insn.Size() != 4 {
		t.Errorf("long branch size = %d, want 4", insn.Size())
	}
	if insn.OpcodeID() != ThumbBl {
		t.Errorf("opcode = %d, want ThumbBl", insn.OpcodeID())
	}
}

func TestOpcodesFixedChunks(t *testing.T) {
	// Two MIPS words produce two opcodes; five Thumb halfwords produce
	// five, long-branch halves included.
	mips := []byte{0x24, 0x84, 0x00, 0x10, 0x03, 0xE0, 0x00, 0x08}
	ops := Opcodes(mips, platform.N64)
	if len(ops) != 2 || ops[0] != MipsADDIU || ops[1] != MipsJR {
		t.Errorf("mips opcodes = %v", ops)
	}

	thumb := []byte{0x05, 0x20, 0x00, 0xF0, 0x08, 0xF8, 0x70, 0x47, 0x00, 0xBD}
	tops := Opcodes(thumb, platform.GBA)
	if len(tops) != 5 {
		t.Fatalf("thumb opcode count = %d, want 5", len(tops))
	}
	if tops[1] != ThumbBlPrefix || tops[2] != ThumbBlSuffix {
		t.Errorf("long branch halves = %d, %d", tops[1], tops[2])
	}
}
