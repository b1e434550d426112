package core

import "sort"

// SeqMatch is one maximal run of matching windows between two symbols:
// start offsets into each symbol's window list and the run length in
// windows. The instruction count of a run is Length + windowSize - 1.
type SeqMatch struct {
	Offset1 int
	Offset2 int
	Length  int
}

// Submatches finds the maximal diagonal runs of shared window hashes
// between two window-hash lists. Windows align on the same diagonal when
// their position difference is constant; consecutive positions along a
// diagonal form one run.
func Submatches(hashes1, hashes2 []uint64) []SeqMatch {
	positions := make(map[uint64][]int, len(hashes2))
	for j, h := range hashes2 {
		positions[h] = append(positions[h], j)
	}

	// open runs keyed by diagonal (i - j); value is the run's start pair
	// and current length, extended while positions stay consecutive.
	type run struct {
		start1, start2, length, lastPos int
	}
	open := make(map[int]*run)
	var matches []SeqMatch

	for i, h := range hashes1 {
		for _, j := range positions[h] {
			diag := i - j
			if r, ok := open[diag]; ok && r.lastPos == i-1 {
				r.length++
				r.lastPos = i
				continue
			}
			if r, ok := open[diag]; ok {
				matches = append(matches, SeqMatch{Offset1: r.start1, Offset2: r.start2, Length: r.length})
			}
			open[diag] = &run{start1: i, start2: j, length: 1, lastPos: i}
		}
	}
	for _, r := range open {
		matches = append(matches, SeqMatch{Offset1: r.start1, Offset2: r.start2, Length: r.length})
	}

	// Deterministic order for display and tests.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Offset1 != matches[j].Offset1 {
			return matches[i].Offset1 < matches[j].Offset1
		}
		return matches[i].Offset2 < matches[j].Offset2
	})
	return matches
}
