package platform

import (
	"testing"

	"coddog/internal/errors"
)

func TestPlatformOf(t *testing.T) {
	tests := []struct {
		name string
		want Platform
	}{
		{"n64", N64},
		{"N64", N64},
		{"psx", PSX},
		{"ps1", PSX},
		{"ps2", PS2},
		{"psp", PSP},
		{"gc", GC},
		{"ngc", GC},
		{"gamecube", GC},
		{"wii", Wii},
		{"gba", GBA},
		{"agb", GBA},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Of(test.name)
			if err != nil {
				t.Fatalf("Of(%q) failed: %v", test.name, err)
			}
			if got != test.want {
				t.Errorf("Of(%q) = %v, want %v", test.name, got, test.want)
			}
		})
	}
}

func TestPlatformOfUnknown(t *testing.T) {
	_, err := Of("dreamcast")
	if err == nil {
		t.Fatal("expected an error for an unknown platform")
	}
	if !errors.IsKind(err, errors.KindUnknownPlatform) {
		t.Errorf("expected KindUnknownPlatform, got %v", err)
	}
}

func TestArchMapping(t *testing.T) {
	tests := []struct {
		platform   Platform
		arch       Arch
		endianness Endianness
		insnLen    int
	}{
		{N64, MIPS, Big, 4},
		{PSX, MIPS, Little, 4},
		{PS2, MIPS, Little, 4},
		{PSP, MIPS, Little, 4},
		{GC, PPC, Big, 4},
		{Wii, PPC, Big, 4},
		{GBA, Thumb, Little, 2},
	}

	for _, test := range tests {
		t.Run(test.platform.String(), func(t *testing.T) {
			if got := test.platform.Arch(); got != test.arch {
				t.Errorf("Arch() = %v, want %v", got, test.arch)
			}
			if got := test.platform.Endianness(); got != test.endianness {
				t.Errorf("Endianness() = %v, want %v", got, test.endianness)
			}
			if got := test.platform.Arch().InsnLength(); got != test.insnLen {
				t.Errorf("InsnLength() = %d, want %d", got, test.insnLen)
			}
		})
	}
}

func TestReadWord(t *testing.T) {
	buf := []byte{0x12, 0x34, 0x56, 0x78}
	if got := N64.ReadWord(buf); got != 0x12345678 {
		t.Errorf("big-endian ReadWord = %#x, want 0x12345678", got)
	}
	if got := PSX.ReadWord(buf); got != 0x78563412 {
		t.Errorf("little-endian ReadWord = %#x, want 0x78563412", got)
	}
	if got := GBA.ReadHalf(buf); got != 0x3412 {
		t.Errorf("little-endian ReadHalf = %#x, want 0x3412", got)
	}
}
