package types

// Key is the integer routing key. Hash primitives operate on its 32-bit
// two's complement pattern.
type Key = int32

// NodeIndex identifies a logical node. Valid indices are dense: [0, nodes).
type NodeIndex = int
