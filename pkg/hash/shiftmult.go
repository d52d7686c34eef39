package hash

import "chash/pkg/types"

const shiftMultC2 = 0x27d4eb2d

// shiftMult is Thomas Wang's hash32shiftmult. All shifts are logical.
func shiftMult(key types.Key) int32 {
	k := uint32(key)
	k = (k ^ 61) ^ (k >> 16)
	k += k << 3
	k ^= k >> 4
	k *= shiftMultC2
	k ^= k >> 15
	return int32(k)
}
