package core

import "testing"

func TestCompareBinaries(t *testing.T) {
	shared := []uint16{1, 2, 3, 4, 5, 6, 7, 8}
	binA := &Binary{Name: "a", Symbols: []Symbol{
		symWithOpcodes("func_a", shared),
		symWithOpcodes("func_only_a", []uint16{20, 21, 22, 23, 24, 25}),
		symWithOpcodes("tiny", []uint16{1}),
	}}
	binB := &Binary{Name: "b", Symbols: []Symbol{
		symWithOpcodes("func_b", shared),
		symWithOpcodes("func_only_b", []uint16{40, 41, 42, 43, 44, 45}),
	}}

	matches := CompareBinaries(binA, binB, 0.9, 5)
	if len(matches) != 1 {
		t.Fatalf("match count = %d, want 1 (%+v)", len(matches), matches)
	}
	m := matches[0]
	if m.A.Name != "func_a" || m.B.Name != "func_b" {
		t.Errorf("matched pair = (%s, %s), want (func_a, func_b)", m.A.Name, m.B.Name)
	}
	if m.Score != 1.0 {
		t.Errorf("score = %v, want 1.0", m.Score)
	}
}

func TestCompareBinariesPicksBest(t *testing.T) {
	target := []uint16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	nearMiss := append(append([]uint16{}, target...), 11)
	binA := &Binary{Name: "a", Symbols: []Symbol{symWithOpcodes("q", target)}}
	binB := &Binary{Name: "b", Symbols: []Symbol{
		symWithOpcodes("near", nearMiss),
		symWithOpcodes("same", target),
	}}

	matches := CompareBinaries(binA, binB, 0.5, 5)
	if len(matches) != 1 {
		t.Fatalf("match count = %d, want 1", len(matches))
	}
	if matches[0].B.Name != "same" {
		t.Errorf("best match = %s, want same", matches[0].B.Name)
	}
}
