package ingest

import (
	"encoding/binary"
	"testing"

	"coddog/internal/platform"
)

const rawMap = `
.main          0x0000000080000400      0x18 load address 0x0000000000000000
 .text          0x0000000080000400      0x18 build/src/main.o
                0x0000000080000400                test_1
                0x000000008000040c                test_2
`

func TestReadMap(t *testing.T) {
	// The same functions as the ELF fixture, pre-linked into an image:
	// identical skeletons with different immediates.
	rom := make([]byte, 24)
	words := []uint32{
		0x3C040000, 0x24840010, 0x03E00008,
		0x3C040000, 0x24840020, 0x03E00008,
	}
	for i, w := range words {
		binary.BigEndian.PutUint32(rom[4*i:], w)
	}

	syms, err := ReadMap(platform.N64, rom, rawMap, nil)
	if err != nil {
		t.Fatalf("ReadMap failed: %v", err)
	}
	if len(syms) != 2 {
		t.Fatalf("symbol count = %d, want 2", len(syms))
	}
	if syms[0].Name != "test_1" || syms[1].Name != "test_2" {
		t.Fatalf("unexpected symbol names: %s, %s", syms[0].Name, syms[1].Name)
	}

	// The raw path has no relocations, so only the opcode channel is
	// expected to collapse the pair.
	if syms[0].OpcodeHash != syms[1].OpcodeHash {
		t.Error("opcode hashes should match on the raw path")
	}
	if syms[0].ExactHash == syms[1].ExactHash {
		t.Error("exact hashes should differ")
	}
	if syms[0].Vram != 0x80000400 {
		t.Errorf("vram = %#x, want 0x80000400", syms[0].Vram)
	}
}

func TestReadMapOutOfBounds(t *testing.T) {
	// A 12-byte image holds test_1 but not test_2; the out-of-bounds
	// symbol is skipped, not fatal.
	rom := make([]byte, 12)
	binary.BigEndian.PutUint32(rom[0:], 0x3C040000)
	binary.BigEndian.PutUint32(rom[4:], 0x24840010)
	binary.BigEndian.PutUint32(rom[8:], 0x03E00008)

	syms, err := ReadMap(platform.N64, rom, rawMap, nil)
	if err != nil {
		t.Fatalf("ReadMap failed: %v", err)
	}
	if len(syms) != 1 || syms[0].Name != "test_1" {
		t.Fatalf("symbols = %+v, want only test_1", syms)
	}
}
