package sharding

import (
	"fmt"
	"strings"

	"chash/pkg/hash"
	"chash/pkg/routeerrors"
	"chash/pkg/router"
	"chash/pkg/types"
)

// Router deterministically maps keys to node indices in [0, Nodes()).
// Implementations are immutable and safe for concurrent use.
type Router interface {
	Route(key types.Key) types.NodeIndex
	Nodes() int
}

// ReplicaRouter also yields an ordered preference list of distinct nodes.
type ReplicaRouter interface {
	Router
	Owners(key types.Key, count int) []types.NodeIndex
}

type Strategy string

const (
	StrategyConsistent Strategy = "consistent"
	StrategyRendezvous Strategy = "rendezvous"
	StrategyModulo     Strategy = "modulo"
	StrategyJump       Strategy = "jump"
	StrategyBounded    Strategy = "bounded"
)

var (
	_ ReplicaRouter = (*router.Consistent)(nil)
	_ ReplicaRouter = (*router.Rendezvous)(nil)
	_ Router        = (*router.Modulo)(nil)
	_ Router        = (*router.Jump)(nil)
	_ Router        = (*router.Bounded)(nil)
)

// Strategies lists every strategy New accepts.
func Strategies() []Strategy {
	return []Strategy{StrategyConsistent, StrategyRendezvous, StrategyModulo, StrategyJump, StrategyBounded}
}

// ParseStrategy normalizes a configuration name.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Strategies() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", routeerrors.ErrUnknownStrategy, name)
}

// New builds a router for the given strategy. segments is used by the
// ring based strategies and ignored by the rest.
func New(s Strategy, h hash.Hasher, nodes, segments int) (Router, error) {
	var (
		r   Router
		err error
	)
	switch s {
	case StrategyConsistent:
		r, err = nonNil(router.NewConsistent(h, nodes, router.WithSegments(segments)))
	case StrategyRendezvous:
		r, err = nonNil(router.NewRendezvous(h, nodes))
	case StrategyModulo:
		r, err = nonNil(router.NewModulo(h, nodes))
	case StrategyJump:
		r, err = nonNil(router.NewJump(h, nodes))
	case StrategyBounded:
		r, err = nonNil(router.NewBounded(h, nodes, segments))
	default:
		return nil, fmt.Errorf("%w: %q", routeerrors.ErrUnknownStrategy, s)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s router: %w", s, err)
	}
	return r, nil
}

// nonNil keeps a typed nil pointer out of the Router interface.
func nonNil[R Router](r R, err error) (Router, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}
