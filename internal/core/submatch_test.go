package core

import "testing"

// Two 40-opcode symbols sharing opcodes [5, 25) must produce exactly one
// run: 13 windows at width 8, covering 20 instructions.
func TestSubmatchSharedRun(t *testing.T) {
	const windowSize = 8

	a := make([]uint16, 40)
	b := make([]uint16, 40)
	for i := range a {
		a[i] = uint16(0x1000 + i)
		b[i] = uint16(0x2000 + i)
	}
	for i := 5; i < 25; i++ {
		shared := uint16(0x3000 + i)
		a[i] = shared
		b[i] = shared
	}

	runs := Submatches(WindowHashes(a, windowSize), WindowHashes(b, windowSize))
	if len(runs) != 1 {
		t.Fatalf("run count = %d, want 1 (%+v)", len(runs), runs)
	}
	run := runs[0]
	if run.Offset1 != 5 || run.Offset2 != 5 {
		t.Errorf("run starts = (%d, %d), want (5, 5)", run.Offset1, run.Offset2)
	}
	if run.Length != 13 {
		t.Errorf("run length = %d windows, want 13", run.Length)
	}
	if got := run.Length + windowSize - 1; got != 20 {
		t.Errorf("run length = %d instructions, want 20", got)
	}
}

func TestSubmatchNoMatches(t *testing.T) {
	a := []uint16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := []uint16{21, 22, 23, 24, 25, 26, 27, 28, 29, 30}
	runs := Submatches(WindowHashes(a, 4), WindowHashes(b, 4))
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %+v", runs)
	}
}

func TestSubmatchTwoSeparateRuns(t *testing.T) {
	const windowSize = 4
	a := make([]uint16, 30)
	b := make([]uint16, 30)
	for i := range a {
		a[i] = uint16(0x1000 + i)
		b[i] = uint16(0x2000 + i)
	}
	// Two shared stretches with disjoint content, at different diagonals.
	for i := 0; i < 6; i++ {
		a[2+i] = uint16(0x3000 + i)
		b[4+i] = uint16(0x3000 + i)
	}
	for i := 0; i < 5; i++ {
		a[15+i] = uint16(0x4000 + i)
		b[20+i] = uint16(0x4000 + i)
	}

	runs := Submatches(WindowHashes(a, windowSize), WindowHashes(b, windowSize))
	if len(runs) != 2 {
		t.Fatalf("run count = %d, want 2 (%+v)", len(runs), runs)
	}
	if runs[0].Offset1 != 2 || runs[0].Offset2 != 4 || runs[0].Length != 3 {
		t.Errorf("first run = %+v, want offsets (2, 4) length 3", runs[0])
	}
	if runs[1].Offset1 != 15 || runs[1].Offset2 != 20 || runs[1].Length != 2 {
		t.Errorf("second run = %+v, want offsets (15, 20) length 2", runs[1])
	}
}
