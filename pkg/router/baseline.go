package router

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/buraksezer/consistent"
	"github.com/cespare/xxhash/v2"
	jump "github.com/dgryski/go-jump"

	"chash/pkg/hash"
	"chash/pkg/routeerrors"
	"chash/pkg/types"
)

// Modulo routes by the unsigned h(key) mod nodes. Almost every key moves when the
// node count changes.
type Modulo struct {
	hasher hash.Hasher
	nodes  int
}

func NewModulo(h hash.Hasher, nodes int) (*Modulo, error) {
	if err := validate(h, nodes); err != nil {
		return nil, err
	}
	return &Modulo{hasher: h, nodes: nodes}, nil
}

func (m *Modulo) Route(key types.Key) types.NodeIndex {
	return int(uint32(m.hasher.Hash(key)) % uint32(m.nodes))
}

func (m *Modulo) Nodes() int { return m.nodes }

// Jump routes with the jump consistent hash over h(key).
type Jump struct {
	hasher hash.Hasher
	nodes  int
}

func NewJump(h hash.Hasher, nodes int) (*Jump, error) {
	if err := validate(h, nodes); err != nil {
		return nil, err
	}
	return &Jump{hasher: h, nodes: nodes}, nil
}

func (j *Jump) Route(key types.Key) types.NodeIndex {
	return int(jump.Hash(uint64(uint32(j.hasher.Hash(key))), j.nodes))
}

func (j *Jump) Nodes() int { return j.nodes }

// DefaultPartitions is the partition count of the bounded-load ring.
const DefaultPartitions = 271

const defaultLoad = 1.25

type member string

func (m member) String() string { return string(m) }

type xxHasher struct{}

func (xxHasher) Sum64(data []byte) uint64 { return xxhash.Sum64(data) }

// Bounded is consistent hashing with bounded loads. Keys are hashed with
// the injected hasher first, so it is compared on the same primitive as
// the other routers.
type Bounded struct {
	hasher hash.Hasher
	nodes  int
	ring   *consistent.Consistent
}

func NewBounded(h hash.Hasher, nodes, segments int) (*Bounded, error) {
	if err := validate(h, nodes); err != nil {
		return nil, err
	}
	if segments < 1 {
		return nil, fmt.Errorf("%w: segments must be >= 1, got %d", routeerrors.ErrInvalidConfig, segments)
	}

	members := make([]consistent.Member, nodes)
	for i := range members {
		members[i] = member(strconv.Itoa(i))
	}
	ring := consistent.New(members, consistent.Config{
		PartitionCount:    max(DefaultPartitions, nodes),
		ReplicationFactor: segments,
		Load:              defaultLoad,
		Hasher:            xxHasher{},
	})
	return &Bounded{hasher: h, nodes: nodes, ring: ring}, nil
}

func (b *Bounded) Route(key types.Key) types.NodeIndex {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(b.hasher.Hash(key)))
	// имена участников - десятичные индексы, выставленные в NewBounded
	idx, _ := strconv.Atoi(b.ring.LocateKey(buf[:]).String())
	return idx
}

func (b *Bounded) Nodes() int { return b.nodes }
