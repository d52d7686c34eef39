package router

import (
	"errors"
	"math"
	"testing"

	"chash/pkg/hash"
	"chash/pkg/routeerrors"
	"chash/pkg/types"
)

func mustConsistent(t testing.TB, h hash.Hasher, nodes, segments int) *Consistent {
	t.Helper()
	c, err := NewConsistent(h, nodes, WithSegments(segments))
	if err != nil {
		t.Fatalf("NewConsistent(%d, %d): %v", nodes, segments, err)
	}
	return c
}

func TestConsistent_IdentityExample(t *testing.T) {
	c := mustConsistent(t, hash.Identity, 4, 1)

	want := []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	got := c.Ring()
	if len(got) != len(want) {
		t.Fatalf("ring len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ring[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if n := c.Route(2); n != 2 {
		t.Fatalf("Route(2) = %d, want 2", n)
	}
	if n := c.Route(5); n != 0 {
		t.Fatalf("Route(5) = %d, want 0 (wraparound)", n)
	}
	// между точками ключ уходит к следующей по часовой
	if n := c.Route(-7); n != 0 {
		t.Fatalf("Route(-7) = %d, want 0", n)
	}
}

func TestConsistent_WrapsToSmallestPoint(t *testing.T) {
	c := mustConsistent(t, hash.ShiftMult, 10, 16)
	ring := c.Ring()
	first := ring[0].Node

	// ключ с хэшем больше любой точки кольца
	h := hash.Func(func(key types.Key) int32 {
		if key == -1 {
			return math.MaxInt32
		}
		return hash.ShiftMult.Hash(key)
	})
	c = mustConsistent(t, h, 10, 16)
	if ring[len(ring)-1].Hash == math.MaxInt32 {
		t.Skip("ring already holds MaxInt32")
	}
	if got := c.Route(-1); got != first {
		t.Fatalf("Route(max) = %d, want first ring node %d", got, first)
	}
}

func TestConsistent_DefaultSegments(t *testing.T) {
	c, err := NewConsistent(hash.ShiftMult, 3)
	if err != nil {
		t.Fatalf("NewConsistent: %v", err)
	}
	if c.Segments() != DefaultSegments {
		t.Fatalf("Segments() = %d, want %d", c.Segments(), DefaultSegments)
	}
	if len(c.Ring()) != 3*DefaultSegments {
		t.Fatalf("ring len = %d, want %d", len(c.Ring()), 3*DefaultSegments)
	}
}

func TestConsistent_RejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name     string
		hasher   hash.Hasher
		nodes    int
		segments int
	}{
		{"zero nodes", hash.ShiftMult, 0, 64},
		{"negative nodes", hash.ShiftMult, -3, 64},
		{"zero segments", hash.ShiftMult, 4, 0},
		{"nil hasher", nil, 4, 64},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewConsistent(tc.hasher, tc.nodes, WithSegments(tc.segments))
			if !errors.Is(err, routeerrors.ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if c != nil {
				t.Fatal("expected nil router on invalid config")
			}
		})
	}
}

func TestConsistent_RingAlignment(t *testing.T) {
	const nodes, segments = 7, 32
	c := mustConsistent(t, hash.ShiftMult, nodes, segments)
	ring := c.Ring()

	if len(ring) != nodes*segments {
		t.Fatalf("ring len = %d, want %d", len(ring), nodes*segments)
	}
	for i := 1; i < len(ring); i++ {
		if ring[i-1].Hash > ring[i].Hash {
			t.Fatalf("ring not sorted at %d: %d > %d", i, ring[i-1].Hash, ring[i].Hash)
		}
	}

	// каждая пара (i, j) даёт ровно одну точку
	expected := map[Point]int{}
	for i := 0; i < nodes; i++ {
		for j := 0; j < segments; j++ {
			expected[Point{Hash: hash.ShiftMult.Hash(types.Key(i*segments + j)), Node: i}]++
		}
	}
	for _, p := range ring {
		expected[p]--
	}
	for p, n := range expected {
		if n != 0 {
			t.Fatalf("point %+v count mismatch: %d", p, n)
		}
	}
}

func TestConsistent_EqualHashesOrderedByNode(t *testing.T) {
	constant := hash.Func(func(types.Key) int32 { return 7 })
	c := mustConsistent(t, constant, 5, 3)
	ring := c.Ring()
	for i := 1; i < len(ring); i++ {
		if ring[i-1].Node > ring[i].Node {
			t.Fatalf("tie order broken at %d: %+v before %+v", i, ring[i-1], ring[i])
		}
	}
	if got := c.Route(123); got != 0 {
		t.Fatalf("Route = %d, want 0", got)
	}
}

func TestConsistent_RingIsCopy(t *testing.T) {
	c := mustConsistent(t, hash.ShiftMult, 3, 4)
	ring := c.Ring()
	ring[0].Node = 99
	if c.Ring()[0].Node == 99 {
		t.Fatal("Ring() exposes internal state")
	}
}

func TestConsistent_DeterministicAndInRange(t *testing.T) {
	a := mustConsistent(t, hash.ShiftMult, 13, 64)
	b := mustConsistent(t, hash.ShiftMult, 13, 64)
	for k := types.Key(-5000); k < 5000; k++ {
		na, nb := a.Route(k), b.Route(k)
		if na != nb || na != a.Route(k) {
			t.Fatalf("non-deterministic mapping for %d: %d vs %d", k, na, nb)
		}
		if na < 0 || na >= 13 {
			t.Fatalf("Route(%d) = %d out of range", k, na)
		}
	}
}

// равномерность распределения ~ 1/N с допуском
func TestConsistent_DistributionUniformity(t *testing.T) {
	const nodes, total = 10, 100_000
	c := mustConsistent(t, hash.ShiftMult, nodes, 64)

	counts := make([]int, nodes)
	for k := 0; k < total; k++ {
		counts[c.Route(types.Key(k))]++
	}
	ideal := float64(total) / nodes
	tolerance := 0.35 * ideal
	for node, n := range counts {
		if diff := math.Abs(float64(n) - ideal); diff > tolerance {
			t.Fatalf("node %d: count=%d ideal=%.0f diff=%.0f > tol=%.0f", node, n, ideal, diff, tolerance)
		}
	}
}

func TestConsistent_Owners(t *testing.T) {
	c := mustConsistent(t, hash.ShiftMult, 5, 64)
	for k := types.Key(0); k < 500; k++ {
		owners := c.Owners(k, 3)
		if len(owners) != 3 {
			t.Fatalf("Owners(%d, 3) len = %d", k, len(owners))
		}
		if owners[0] != c.Route(k) {
			t.Fatalf("Owners(%d)[0] = %d, want Route = %d", k, owners[0], c.Route(k))
		}
		seen := map[types.NodeIndex]bool{}
		for _, n := range owners {
			if seen[n] {
				t.Fatalf("duplicate owner %d for key %d", n, k)
			}
			seen[n] = true
		}
	}

	if got := c.Owners(1, 10); len(got) != 5 {
		t.Fatalf("Owners(1, 10) len = %d, want 5", len(got))
	}
	if got := c.Owners(1, 0); len(got) != 0 {
		t.Fatalf("Owners(1, 0) len = %d, want 0", len(got))
	}
	if got := c.Owners(1, -1); len(got) != 0 {
		t.Fatalf("Owners(1, -1) len = %d, want 0", len(got))
	}
}

func BenchmarkConsistentRoute(b *testing.B) {
	c := mustConsistent(b, hash.ShiftMult, 100, 64)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Route(types.Key(i))
	}
}
