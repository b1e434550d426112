package core

import "testing"

func TestWindowHashCount(t *testing.T) {
	tests := []struct {
		name       string
		numOpcodes int
		windowSize int
		want       int
	}{
		{"longer than window", 40, 8, 33},
		{"exactly window", 8, 8, 1},
		{"shorter than window", 3, 8, 1},
		{"empty", 0, 8, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opcodes := make([]uint16, test.numOpcodes)
			for i := range opcodes {
				opcodes[i] = uint16(i + 1)
			}
			got := WindowHashes(opcodes, test.windowSize)
			if len(got) != test.want {
				t.Errorf("window count = %d, want %d", len(got), test.want)
			}
		})
	}
}

func TestWindowHashesShiftInvariant(t *testing.T) {
	// The same sub-sequence must produce the same hash at any position.
	a := []uint16{9, 9, 1, 2, 3, 4}
	b := []uint16{7, 7, 7, 1, 2, 3, 4}
	ha := WindowHashes(a, 4)
	hb := WindowHashes(b, 4)
	if ha[2] != hb[3] {
		t.Error("equal windows at different positions hash differently")
	}
}

func TestWindowHashesPadding(t *testing.T) {
	// A short vector hashes as if zero-padded to the window size.
	short := WindowHashes([]uint16{5, 6}, 4)
	padded := WindowHashes([]uint16{5, 6, 0, 0}, 4)
	if short[0] != padded[0] {
		t.Error("zero padding changed the single-window hash")
	}
}
