package search

import "github.com/bits-and-blooms/bitset"

// findAllKCliquesInKPartiteGraph enumerates every clique that picks
// exactly one vertex from each partition of a k-partite graph given as an
// adjacency bitset matrix. Cliques are emitted in deterministic order:
// partitions are consumed in the given order and vertices ascending
// within a partition. State atoms are sparse relative to the space of
// possible atoms, so the graphs are sparse and the clique count stays
// small in practice.
func findAllKCliquesInKPartiteGraph(adj []*bitset.BitSet, partitions [][]int, emit func(clique []int)) {
	if len(partitions) == 0 {
		return
	}
	compatible := bitset.New(uint(len(adj)))
	for _, part := range partitions {
		for _, v := range part {
			compatible.Set(uint(v))
		}
	}
	clique := make([]int, 0, len(partitions))
	kCliqueRec(adj, partitions, 0, compatible, clique, emit)
}

func kCliqueRec(adj []*bitset.BitSet, partitions [][]int, depth int, compatible *bitset.BitSet, clique []int, emit func([]int)) {
	if depth == len(partitions) {
		emit(clique)
		return
	}
	for _, v := range partitions[depth] {
		if !compatible.Test(uint(v)) {
			continue
		}
		narrowed := compatible.Intersection(adj[v])
		// Cut: every remaining partition must keep a candidate.
		viable := true
		for _, part := range partitions[depth+1:] {
			any := false
			for _, w := range part {
				if narrowed.Test(uint(w)) {
					any = true
					break
				}
			}
			if !any {
				viable = false
				break
			}
		}
		if !viable {
			continue
		}
		kCliqueRec(adj, partitions, depth+1, narrowed, append(clique, v), emit)
	}
}
