// Package router maps integer keys to dense node indices.
//
// Consistent builds a sorted ring of virtual points once and answers each
// lookup with a binary search. Rendezvous scores every node per lookup and
// keeps the highest. Modulo, Jump and Bounded are comparison baselines.
// Every router is immutable after construction and safe for concurrent
// lookups.
package router

import (
	"fmt"

	"chash/pkg/hash"
	"chash/pkg/routeerrors"
)

func validate(h hash.Hasher, nodes int) error {
	if h == nil {
		return fmt.Errorf("%w: hasher is nil", routeerrors.ErrInvalidConfig)
	}
	if nodes < 1 {
		return fmt.Errorf("%w: nodes must be >= 1, got %d", routeerrors.ErrInvalidConfig, nodes)
	}
	return nil
}

func clampCount(count, nodes int) int {
	if count < 0 {
		return 0
	}
	if count > nodes {
		return nodes
	}
	return count
}
