// Package generator produces finite key streams with a chosen
// distribution. Streams are restartable: ranging twice over the same
// sequence yields the same keys.
package generator

import (
	"fmt"
	"iter"
	"math"
	"math/rand/v2"
	"strings"

	"chash/pkg/routeerrors"
	"chash/pkg/types"
)

const (
	DistSequential = "sequential"
	DistUniform    = "uniform"
	DistNormal     = "normal"
)

// DefaultStdDev is the spread ByName uses for normal streams.
const DefaultStdDev = 1 << 20

// Sequential yields 0, 1, ..., count-1.
func Sequential(count int) iter.Seq[types.Key] {
	return func(yield func(types.Key) bool) {
		for i := 0; i < count; i++ {
			if !yield(types.Key(i)) {
				return
			}
		}
	}
}

// Uniform yields count keys drawn uniformly from the int32 range.
func Uniform(count int, seed uint64) iter.Seq[types.Key] {
	return func(yield func(types.Key) bool) {
		rng := newRand(seed)
		for i := 0; i < count; i++ {
			if !yield(types.Key(rng.Uint32())) {
				return
			}
		}
	}
}

// Normal yields count keys from N(0, stddev) rounded and clamped to int32.
func Normal(count int, seed uint64, stddev float64) iter.Seq[types.Key] {
	return func(yield func(types.Key) bool) {
		rng := newRand(seed)
		for i := 0; i < count; i++ {
			v := math.Round(rng.NormFloat64() * stddev)
			v = min(max(v, math.MinInt32), math.MaxInt32)
			if !yield(types.Key(v)) {
				return
			}
		}
	}
}

// ByName resolves a configured distribution.
func ByName(name string, count int, seed uint64) (iter.Seq[types.Key], error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DistSequential:
		return Sequential(count), nil
	case DistUniform:
		return Uniform(count, seed), nil
	case DistNormal:
		return Normal(count, seed, DefaultStdDev), nil
	}
	return nil, fmt.Errorf("%w: %q", routeerrors.ErrUnknownDistribution, name)
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
