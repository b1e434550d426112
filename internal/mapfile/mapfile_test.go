package mapfile

import "testing"

const sampleMap = `
Memory map

.main          0x0000000080000400     0x2000 load address 0x0000000000001000
 .text          0x0000000080000400     0x100 build/src/main.o
                0x0000000080000400                func_a
                0x0000000080000440                func_b
 .data          0x0000000080001000      0x40 build/src/main.o
                0x0000000080001000                some_table
 .text          0x0000000080000500      0x80 build/src/other.o
                0x0000000080000500                func_c

.bss            0x0000000080002400     0x100 load address 0x0000000000003000
 .bss           0x0000000080002400     0x100 build/src/main.o
`

func TestParse(t *testing.T) {
	syms, err := Parse(sampleMap)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(syms) != 3 {
		t.Fatalf("symbol count = %d, want 3 (.text only)", len(syms))
	}

	tests := []struct {
		name string
		vram uint64
		vrom uint64
		size uint64
	}{
		{"func_a", 0x80000400, 0x1000, 0x40},
		{"func_b", 0x80000440, 0x1040, 0xC0},
		{"func_c", 0x80000500, 0x1100, 0x80},
	}

	for i, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := syms[i]
			if s.Name != test.name {
				t.Errorf("name = %s, want %s", s.Name, test.name)
			}
			if s.Vram != test.vram {
				t.Errorf("vram = %#x, want %#x", s.Vram, test.vram)
			}
			if s.Vrom != test.vrom {
				t.Errorf("vrom = %#x, want %#x", s.Vrom, test.vrom)
			}
			if s.Size != test.size {
				t.Errorf("size = %#x, want %#x", s.Size, test.size)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse("nothing recognizable here\n"); err == nil {
		t.Error("expected an error for a map with no entries")
	}
}
