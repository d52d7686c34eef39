// Package hash provides the integer mixing functions every router is
// composed over. A Hasher is injected into a router, never baked into it.
package hash

import (
	"encoding/binary"
	"fmt"
	"strings"

	"chash/pkg/routeerrors"
	"chash/pkg/types"
)

// Hasher scrambles a key into a well distributed int32. Implementations
// must be deterministic and free of side effects. Negative outputs are
// valid.
type Hasher interface {
	Hash(key types.Key) int32
}

// Func adapts a plain function to Hasher.
type Func func(key types.Key) int32

func (f Func) Hash(key types.Key) int32 { return f(key) }

const (
	NameShiftMult = "shiftmult"
	NameMurmur3   = "murmur3"
	NameXXHash    = "xxhash"
	NameIdentity  = "identity"
)

var (
	ShiftMult Hasher = Func(shiftMult)
	Murmur3   Hasher = Func(murmur3Sum)
	XXHash    Hasher = Func(xxhashSum)
	Identity  Hasher = Func(func(key types.Key) int32 { return key })
)

// ByName resolves a hasher by its configuration name.
func ByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameShiftMult:
		return ShiftMult, nil
	case NameMurmur3:
		return Murmur3, nil
	case NameXXHash:
		return XXHash, nil
	case NameIdentity:
		return Identity, nil
	}
	return nil, fmt.Errorf("%w: %q", routeerrors.ErrUnknownHash, name)
}

// keyBytes returns the little-endian encoding of the key.
func keyBytes(key types.Key) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(key))
	return b[:]
}
