package router

import (
	"cmp"
	"slices"

	"chash/pkg/hash"
	"chash/pkg/types"
)

// Rendezvous implements highest-random-weight hashing: node n scores
// h(key ^ n) and the highest score wins. Ties go to the lower index.
type Rendezvous struct {
	hasher hash.Hasher
	nodes  int
}

func NewRendezvous(h hash.Hasher, nodes int) (*Rendezvous, error) {
	if err := validate(h, nodes); err != nil {
		return nil, err
	}
	return &Rendezvous{hasher: h, nodes: nodes}, nil
}

func (r *Rendezvous) Route(key types.Key) types.NodeIndex {
	best := 0
	bestScore := r.score(key, 0)
	for n := 1; n < r.nodes; n++ {
		if s := r.score(key, n); s > bestScore {
			best, bestScore = n, s
		}
	}
	return best
}

// Owners returns the count highest scoring nodes, best first.
func (r *Rendezvous) Owners(key types.Key, count int) []types.NodeIndex {
	count = clampCount(count, r.nodes)
	if count == 0 {
		return []types.NodeIndex{}
	}

	type scored struct {
		node  types.NodeIndex
		score int32
	}
	all := make([]scored, r.nodes)
	for n := range all {
		all[n] = scored{node: n, score: r.score(key, n)}
	}
	slices.SortStableFunc(all, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	result := make([]types.NodeIndex, count)
	for i := range result {
		result[i] = all[i].node
	}
	return result
}

func (r *Rendezvous) score(key types.Key, node types.NodeIndex) int32 {
	return r.hasher.Hash(key ^ types.Key(node))
}

func (r *Rendezvous) Nodes() int { return r.nodes }
