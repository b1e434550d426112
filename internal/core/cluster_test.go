package core

import "testing"

func TestGetClusters(t *testing.T) {
	dup := []uint16{1, 2, 3, 4, 5, 6, 7, 8}
	other := []uint16{11, 12, 13, 14, 15, 16, 17, 18}

	symbols := []Symbol{
		symWithOpcodes("dup_1", dup),
		symWithOpcodes("dup_2", dup),
		symWithOpcodes("other", other),
		symWithOpcodes("dup_3", dup),
		symWithOpcodes("tiny", []uint16{1, 2}),
	}

	clusters := GetClusters(symbols, 0.9, 5)
	if len(clusters) != 2 {
		t.Fatalf("cluster count = %d, want 2 (tiny filtered out)", len(clusters))
	}

	// Sorted by size descending: the dup cluster first.
	if clusters[0].Size() != 3 {
		t.Errorf("largest cluster size = %d, want 3", clusters[0].Size())
	}
	if clusters[0].Syms[0].Name != "dup_1" {
		t.Errorf("cluster representative = %s, want dup_1", clusters[0].Syms[0].Name)
	}
	if clusters[1].Size() != 1 {
		t.Errorf("second cluster size = %d, want 1", clusters[1].Size())
	}
}

func TestGetClustersMinLen(t *testing.T) {
	symbols := []Symbol{
		symWithOpcodes("a", []uint16{1, 2, 3}),
		symWithOpcodes("b", []uint16{1, 2, 3}),
	}
	if got := GetClusters(symbols, 0.9, 5); len(got) != 0 {
		t.Errorf("expected no clusters below min length, got %d", len(got))
	}
}
