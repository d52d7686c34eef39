package hash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"

	"chash/pkg/types"
)

func murmur3Sum(key types.Key) int32 {
	return int32(murmur3.Sum32(keyBytes(key)))
}

// xxhashSum folds the 64-bit digest so both halves contribute.
func xxhashSum(key types.Key) int32 {
	h := xxhash.Sum64(keyBytes(key))
	return int32(uint32(h ^ (h >> 32)))
}
