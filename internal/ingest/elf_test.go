package ingest

import (
	"encoding/binary"
	"testing"

	"coddog/internal/platform"
)

// buildTestObject assembles a minimal big-endian MIPS ELF32 relocatable
// object holding two functions with the same shape but different external
// references:
//
//	test_1: lui a0, %hi(data_a); addiu a0, a0, %lo(data_a)+0x10; jr ra
//	test_2: lui a0, %hi(data_b); addiu a0, a0, %lo(data_b)+0x20; jr ra
func buildTestObject() []byte {
	be := binary.BigEndian

	text := make([]byte, 24)
	words := []uint32{
		0x3C040000, 0x24840010, 0x03E00008,
		0x3C040000, 0x24840020, 0x03E00008,
	}
	for i, w := range words {
		be.PutUint32(text[4*i:], w)
	}

	// R_MIPS_HI16 / R_MIPS_LO16 pairs against symtab entries 3 and 4.
	rel := make([]byte, 32)
	relocs := []struct {
		off  uint32
		info uint32
	}{
		{0, 3<<8 | 5},
		{4, 3<<8 | 6},
		{12, 4<<8 | 5},
		{16, 4<<8 | 6},
	}
	for i, r := range relocs {
		be.PutUint32(rel[8*i:], r.off)
		be.PutUint32(rel[8*i+4:], r.info)
	}

	// Elf32_Sym is 16 bytes: name, value, size, info, other, shndx.
	symtab := make([]byte, 80)
	putSym := func(idx int, name, value, size uint32, info uint8, shndx uint16) {
		base := 16 * idx
		be.PutUint32(symtab[base:], name)
		be.PutUint32(symtab[base+4:], value)
		be.PutUint32(symtab[base+8:], size)
		symtab[base+12] = info
		be.PutUint16(symtab[base+14:], shndx)
	}
	putSym(1, 1, 0, 12, 0x12, 1)  // test_1, STT_FUNC
	putSym(2, 8, 12, 12, 0x12, 1) // test_2, STT_FUNC
	putSym(3, 15, 0, 0, 0x10, 0)  // data_a, extern
	putSym(4, 22, 0, 0, 0x10, 0)  // data_b, extern

	strtab := []byte("\x00test_1\x00test_2\x00data_a\x00data_b\x00")
	shstrtab := []byte("\x00.text\x00.rel.text\x00.symtab\x00.strtab\x00.shstrtab\x00")

	const (
		ehSize      = 52
		textOff     = ehSize
		relOff      = textOff + 24
		symtabOff   = relOff + 32
		strtabOff   = symtabOff + 80
		shstrtabOff = strtabOff + 29
		shOff       = shstrtabOff + 43
	)

	out := make([]byte, shOff+6*40)

	// ELF header.
	copy(out, []byte{0x7F, 'E', 'L', 'F', 1, 2, 1, 0})
	be.PutUint16(out[16:], 1) // ET_REL
	be.PutUint16(out[18:], 8) // EM_MIPS
	be.PutUint32(out[20:], 1)
	be.PutUint32(out[32:], shOff)
	be.PutUint16(out[40:], ehSize)
	be.PutUint16(out[46:], 40) // shentsize
	be.PutUint16(out[48:], 6)  // shnum
	be.PutUint16(out[50:], 5)  // shstrndx

	copy(out[textOff:], text)
	copy(out[relOff:], rel)
	copy(out[symtabOff:], symtab)
	copy(out[strtabOff:], strtab)
	copy(out[shstrtabOff:], shstrtab)

	putShdr := func(idx int, name, typ, flags, off, size, link, info, align, entsize uint32) {
		base := shOff + 40*idx
		be.PutUint32(out[base:], name)
		be.PutUint32(out[base+4:], typ)
		be.PutUint32(out[base+8:], flags)
		be.PutUint32(out[base+16:], off)
		be.PutUint32(out[base+20:], size)
		be.PutUint32(out[base+24:], link)
		be.PutUint32(out[base+28:], info)
		be.PutUint32(out[base+32:], align)
		be.PutUint32(out[base+36:], entsize)
	}
	putShdr(1, 1, 1, 6, textOff, 24, 0, 0, 4, 0)    // .text
	putShdr(2, 7, 9, 0, relOff, 32, 3, 1, 4, 8)     // .rel.text
	putShdr(3, 17, 2, 0, symtabOff, 80, 4, 1, 4, 16) // .symtab
	putShdr(4, 25, 3, 0, strtabOff, 29, 0, 0, 1, 0) // .strtab
	putShdr(5, 33, 3, 0, shstrtabOff, 43, 0, 0, 1, 0)

	return out
}

func TestReadELF(t *testing.T) {
	syms, err := ReadELF(platform.N64, buildTestObject(), nil)
	if err != nil {
		t.Fatalf("ReadELF failed: %v", err)
	}
	if len(syms) != 2 {
		t.Fatalf("symbol count = %d, want 2", len(syms))
	}

	byName := map[string]int{}
	for i, s := range syms {
		byName[s.Name] = i
	}
	t1, ok := byName["test_1"]
	if !ok {
		t.Fatal("test_1 not found")
	}
	t2, ok := byName["test_2"]
	if !ok {
		t.Fatal("test_2 not found")
	}

	if syms[t1].OpcodeHash != syms[t2].OpcodeHash {
		t.Error("opcode hashes should match: same opcode skeleton")
	}
	if syms[t1].EquivHash != syms[t2].EquivHash {
		t.Error("equiv hashes should match: isomorphic relocation structure")
	}
	if syms[t1].ExactHash == syms[t2].ExactHash {
		t.Error("exact hashes should differ: different immediate bits")
	}
	if len(syms[t1].Opcodes) != 3 {
		t.Errorf("opcode count = %d, want 3", len(syms[t1].Opcodes))
	}
}

func TestReadELFDecompiledMarking(t *testing.T) {
	unmatched := map[string]bool{"test_1": true}
	syms, err := ReadELF(platform.N64, buildTestObject(), unmatched)
	if err != nil {
		t.Fatalf("ReadELF failed: %v", err)
	}
	for _, s := range syms {
		wantDecompiled := s.Name != "test_1"
		if s.IsDecompiled != wantDecompiled {
			t.Errorf("%s decompiled = %v, want %v", s.Name, s.IsDecompiled, wantDecompiled)
		}
	}
}

func TestReadELFGarbage(t *testing.T) {
	if _, err := ReadELF(platform.N64, []byte("not an elf"), nil); err == nil {
		t.Error("expected a parse error for garbage input")
	}
}
