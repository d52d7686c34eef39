package router

import (
	"cmp"
	"fmt"
	"slices"

	"chash/pkg/hash"
	"chash/pkg/routeerrors"
	"chash/pkg/types"
)

// DefaultSegments is the number of ring points per node when none is given.
const DefaultSegments = 64

// Point is one virtual node on the ring.
type Point struct {
	Hash int32
	Node types.NodeIndex
}

// Consistent реализует consistent hashing с виртуальными нодами.
type Consistent struct {
	hasher   hash.Hasher
	nodes    int
	segments int
	ring     []Point // по возрастанию Hash
}

type Option func(*Consistent)

// WithSegments sets the number of ring points per node.
func WithSegments(n int) Option {
	return func(c *Consistent) {
		c.segments = n
	}
}

// NewConsistent builds the ring for nodes [0, nodes). Point j of node i is
// placed at h(i*segments + j).
func NewConsistent(h hash.Hasher, nodes int, opts ...Option) (*Consistent, error) {
	if err := validate(h, nodes); err != nil {
		return nil, err
	}
	c := &Consistent{
		hasher:   h,
		nodes:    nodes,
		segments: DefaultSegments,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.segments < 1 {
		return nil, fmt.Errorf("%w: segments must be >= 1, got %d", routeerrors.ErrInvalidConfig, c.segments)
	}

	c.ring = make([]Point, 0, nodes*c.segments)
	for i := 0; i < nodes; i++ {
		for j := 0; j < c.segments; j++ {
			p := types.Key(i*c.segments + j)
			c.ring = append(c.ring, Point{Hash: h.Hash(p), Node: i})
		}
	}

	// равные хэши упорядочиваем по индексу ноды, чтобы кольцо не зависело от сортировки
	slices.SortFunc(c.ring, func(a, b Point) int {
		if r := cmp.Compare(a.Hash, b.Hash); r != 0 {
			return r
		}
		return cmp.Compare(a.Node, b.Node)
	})
	return c, nil
}

// Route returns the owner of the first ring point clockwise from h(key).
func (c *Consistent) Route(key types.Key) types.NodeIndex {
	return c.ring[c.search(c.hasher.Hash(key))].Node
}

// Owners returns up to count distinct nodes walking clockwise from the
// key's position. The first element is Route(key).
func (c *Consistent) Owners(key types.Key, count int) []types.NodeIndex {
	count = clampCount(count, c.nodes)
	result := make([]types.NodeIndex, 0, count)
	if count == 0 {
		return result
	}

	start := c.search(c.hasher.Hash(key))
	seen := make(map[types.NodeIndex]struct{}, count)
	for i := 0; i < len(c.ring) && len(result) < count; i++ {
		node := c.ring[(start+i)%len(c.ring)].Node
		if _, ok := seen[node]; ok {
			continue
		}
		seen[node] = struct{}{}
		result = append(result, node)
	}
	return result
}

// search returns the index of the first point with Hash >= h, wrapping to 0
// past the end.
func (c *Consistent) search(h int32) int {
	idx, _ := slices.BinarySearchFunc(c.ring, h, func(p Point, target int32) int {
		return cmp.Compare(p.Hash, target)
	})
	if idx == len(c.ring) {
		idx = 0
	}
	return idx
}

func (c *Consistent) Nodes() int { return c.nodes }

func (c *Consistent) Segments() int { return c.segments }

// Ring returns a copy of the sorted ring.
func (c *Consistent) Ring() []Point {
	return slices.Clone(c.ring)
}
