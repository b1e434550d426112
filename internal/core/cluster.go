package core

import "sort"

// Cluster groups symbols whose pairwise similarity to the cluster's first
// member exceeds a threshold.
type Cluster struct {
	Syms []*Symbol
}

// Size returns the number of symbols in the cluster.
func (c *Cluster) Size() int {
	return len(c.Syms)
}

// GetClusters performs a one-pass greedy grouping: each symbol joins the
// first existing cluster whose representative scores above threshold,
// otherwise it starts a new cluster. The result is order-dependent and
// non-optimal; it is a fast triage, not an exhaustive partition. Clusters
// come back sorted by size descending.
func GetClusters(symbols []Symbol, threshold float32, minLen int) []*Cluster {
	var clusters []*Cluster

	for i := range symbols {
		sym := &symbols[i]
		if len(sym.Opcodes) < minLen {
			continue
		}

		matched := false
		for _, cluster := range clusters {
			if Similarity(sym, cluster.Syms[0], threshold) > threshold {
				cluster.Syms = append(cluster.Syms, sym)
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, &Cluster{Syms: []*Symbol{sym}})
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size() > clusters[j].Size()
	})
	return clusters
}
