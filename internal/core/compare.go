package core

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Match pairs a symbol with its best-scoring counterpart in another build.
type Match struct {
	A     *Symbol
	B     *Symbol
	Score float32
}

// CompareBinaries finds, for every symbol of a with at least minLen
// instructions, the best match above threshold among the symbols of b.
// Scoring is CPU-bound and independent per symbol, so symbols are scanned
// in parallel; result order follows a's symbol order.
func CompareBinaries(a, b *Binary, threshold float32, minLen int) []Match {
	results := make([]*Match, len(a.Symbols))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i := range a.Symbols {
		g.Go(func() error {
			sym := &a.Symbols[i]
			if len(sym.Opcodes) < minLen {
				return nil
			}

			var best *Match
			for j := range b.Symbols {
				cand := &b.Symbols[j]
				if len(cand.Opcodes) < minLen {
					continue
				}
				score := Similarity(sym, cand, threshold)
				if score <= threshold {
					continue
				}
				if best == nil || score > best.Score {
					best = &Match{A: sym, B: cand, Score: score}
				}
			}
			results[i] = best
			return nil
		})
	}
	g.Wait()

	matches := make([]Match, 0, len(results))
	for _, m := range results {
		if m != nil {
			matches = append(matches, *m)
		}
	}
	return matches
}
