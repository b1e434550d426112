package core

import (
	"testing"

	"coddog/internal/platform"
	"coddog/internal/reloc"
)

// asm packs big-endian MIPS words.
func asm(words ...uint32) []byte {
	out := make([]byte, 0, 4*len(words))
	for _, w := range words {
		out = append(out, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	return out
}

const (
	hiLoadA0  = 0x3C040000 // lui a0, %hi(sym)
	loAddA0   = 0x24840000 // addiu a0, a0, %lo(sym)
	hiLoadA1  = 0x3C050000 // lui a1, %hi(sym)
	loAddA1   = 0x24A50000 // addiu a1, a1, %lo(sym)
	jrRa      = 0x03E00008
	nop       = 0x00000000
)

// relocPair maps a HI16/LO16 pair at offsets 0 and 4 to the given target.
func relocPair(vram uint64, target string, addend int64) reloc.Map {
	return reloc.Map{
		vram:     {Symbol: target, Addend: addend, Kind: reloc.MipsRelocHi16},
		vram + 4: {Symbol: target, Addend: addend, Kind: reloc.MipsRelocLo16},
	}
}

func TestSymbolHashDeterminism(t *testing.T) {
	body := asm(hiLoadA0, loAddA0|0x10, jrRa)
	relocs := relocPair(0x80000000, "some_data", 0x10)

	a := NewSymbol("f", body, 0x80000000, 0, false, platform.N64, relocs)
	b := NewSymbol("f", body, 0x80000000, 0, false, platform.N64, relocs)

	if a.ExactHash != b.ExactHash || a.EquivHash != b.EquivHash || a.OpcodeHash != b.OpcodeHash {
		t.Errorf("hashes are not deterministic: %+v vs %+v", a, b)
	}
}

func TestTrailingZeroTrim(t *testing.T) {
	plain := asm(hiLoadA0, loAddA0|0x10, jrRa)
	padded := asm(hiLoadA0, loAddA0|0x10, jrRa, nop, nop)

	a := NewSymbol("f", plain, 0x80000000, 0, false, platform.N64, reloc.Map{})
	b := NewSymbol("f", padded, 0x80000000, 0, false, platform.N64, reloc.Map{})

	if a.ExactHash != b.ExactHash {
		t.Error("trailing nop padding perturbed the exact hash")
	}
	if len(b.Opcodes) != 3 {
		t.Errorf("opcode count = %d, want 3", len(b.Opcodes))
	}
}

// Identical opcode skeletons referring to different external symbols must
// collapse under the equivalence hash but stay apart under the exact hash;
// a skeleton with different registers stays apart under both.
func TestLayeredHashes(t *testing.T) {
	vram := uint64(0x80000000)

	test1 := NewSymbol("test_1", asm(hiLoadA0, loAddA0|0x10, jrRa), vram, 0, false,
		platform.N64, relocPair(vram, "data_a", 0x10))
	test2 := NewSymbol("test_2", asm(hiLoadA0, loAddA0|0x20, jrRa), vram+0x10, 1, false,
		platform.N64, relocPair(vram+0x10, "data_b", 0x20))
	test3 := NewSymbol("test_3", asm(hiLoadA1, loAddA1|0x10, jrRa), vram+0x20, 2, false,
		platform.N64, relocPair(vram+0x20, "data_a", 0x10))

	if test1.OpcodeHash != test2.OpcodeHash || test1.OpcodeHash != test3.OpcodeHash {
		t.Error("opcode hashes should all match: same opcode skeleton")
	}
	if test1.EquivHash != test2.EquivHash {
		t.Error("equiv hashes should match: same shape, relocations differ only by target")
	}
	if test1.EquivHash == test3.EquivHash {
		t.Error("equiv hashes should differ: different registers")
	}
	if test1.ExactHash == test2.ExactHash {
		t.Error("exact hashes should differ: different immediate bits")
	}
}

func TestExactDuplicate(t *testing.T) {
	body := asm(hiLoadA0, loAddA0|0x10, 0x00851021, jrRa)
	a := NewSymbol("math_op_1", body, 0x80000000, 0, false, platform.N64, reloc.Map{})
	b := NewSymbol("math_op_1_dup", body, 0x80000100, 1, false, platform.N64, reloc.Map{})

	if a.ExactHash != b.ExactHash {
		t.Error("exact hashes should match for identical bytes")
	}
	if a.EquivHash != b.EquivHash {
		t.Error("equiv hashes should match for identical bytes")
	}
	if a.OpcodeHash != b.OpcodeHash {
		t.Error("opcode hashes should match for identical bytes")
	}
}

// With empty relocations, exact equality implies equivalence equality
// implies opcode equality.
func TestLayeredImplicationWithoutRelocs(t *testing.T) {
	// Same opcodes, different immediate: equiv must differ, opcode match.
	a := NewSymbol("a", asm(0x24840010, jrRa), 0x80000000, 0, false, platform.N64, reloc.Map{})
	b := NewSymbol("b", asm(0x24840020, jrRa), 0x80000000, 1, false, platform.N64, reloc.Map{})

	if a.OpcodeHash != b.OpcodeHash {
		t.Error("opcode hashes should match")
	}
	if a.EquivHash == b.EquivHash {
		t.Error("equiv hashes should differ: immediates are hashed without relocations")
	}
	if a.ExactHash == b.ExactHash {
		t.Error("exact hashes should differ")
	}
}

// The dense relocation id depends on first appearance order only, so two
// functions with isomorphic relocation structure hash equal even when the
// target names are unrelated.
func TestDenseRelocationIdentity(t *testing.T) {
	vram := uint64(0)
	body := asm(hiLoadA0, loAddA0, hiLoadA1, loAddA1, jrRa)

	relocsAB := reloc.Map{
		0:  {Symbol: "aaa", Kind: reloc.MipsRelocHi16},
		4:  {Symbol: "aaa", Kind: reloc.MipsRelocLo16},
		8:  {Symbol: "bbb", Kind: reloc.MipsRelocHi16},
		12: {Symbol: "bbb", Kind: reloc.MipsRelocLo16},
	}
	relocsXY := reloc.Map{
		0:  {Symbol: "xxx", Kind: reloc.MipsRelocHi16},
		4:  {Symbol: "xxx", Kind: reloc.MipsRelocLo16},
		8:  {Symbol: "yyy", Kind: reloc.MipsRelocHi16},
		12: {Symbol: "yyy", Kind: reloc.MipsRelocLo16},
	}
	// Same instruction stream, but both references hit the same symbol:
	// the dense id sequence changes, so the hash must differ.
	relocsXX := reloc.Map{
		0:  {Symbol: "xxx", Kind: reloc.MipsRelocHi16},
		4:  {Symbol: "xxx", Kind: reloc.MipsRelocLo16},
		8:  {Symbol: "xxx", Kind: reloc.MipsRelocHi16},
		12: {Symbol: "xxx", Kind: reloc.MipsRelocLo16},
	}

	ab := NewSymbol("ab", body, vram, 0, false, platform.N64, relocsAB)
	xy := NewSymbol("xy", body, vram, 1, false, platform.N64, relocsXY)
	xx := NewSymbol("xx", body, vram, 2, false, platform.N64, relocsXX)

	if ab.EquivHash != xy.EquivHash {
		t.Error("isomorphic relocation structure should hash equal")
	}
	if ab.EquivHash == xx.EquivHash {
		t.Error("different relocation structure should hash differently")
	}
}

func TestThumbSymbol(t *testing.T) {
	// mov r0, #5; bx lr -- little endian halfwords.
	body := []byte{0x05, 0x20, 0x70, 0x47}
	a := NewSymbol("t1", body, 0x08000000, 0, false, platform.GBA, reloc.Map{})
	if len(a.Opcodes) != 2 {
		t.Fatalf("opcode count = %d, want 2", len(a.Opcodes))
	}

	// Same skeleton, different immediate.
	b := NewSymbol("t2", []byte{0x07, 0x20, 0x70, 0x47}, 0x08000000, 1, false, platform.GBA, reloc.Map{})
	if a.OpcodeHash != b.OpcodeHash {
		t.Error("opcode hashes should match")
	}
	if a.ExactHash == b.ExactHash {
		t.Error("exact hashes should differ")
	}
}
