// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hashmerkle implements the keyed hash and Merkle-tree primitives
// that every other subsystem builds on: block/transaction hashing, the
// transaction Merkle root, and inclusion proofs.
package hashmerkle

import (
	"crypto/subtle"

	"github.com/zeebo/blake3"
)

// Size is the length in bytes of a Hash.
const Size = 32

// Hash is a 32-byte opaque identifier. Equality is byte-equality.
type Hash [Size]byte

// Zero is the zero-value Hash.
var Zero Hash

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Zero
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// String returns the lowercase hex encoding of h.
func (h Hash) String() string {
	const hextable = "0123456789abcdef"
	out := make([]byte, Size*2)
	for i, b := range h {
		out[i*2] = hextable[b>>4]
		out[i*2+1] = hextable[b&0x0f]
	}
	return string(out)
}

// defaultKey is the domain key used when no caller-supplied key is given.
// It is not a secret; it exists to domain-separate this primitive's output
// from raw BLAKE3 so other subsystems cannot accidentally collide with it.
var defaultKey = [32]byte{'w', 'e', 'b', '4', '-', 'c', 'o', 'r', 'e', '-', 'h', 'a', 's', 'h'}

// H computes the keyed 256-bit hash of the concatenation of parts.
func H(parts ...[]byte) Hash {
	return HWithKey(defaultKey, parts...)
}

// HWithKey computes the keyed 256-bit hash of the concatenation of parts
// under the given 32-byte key, allowing callers to domain-separate
// unrelated hash usages (e.g. chain commitments vs. Merkle nodes).
func HWithKey(key [32]byte, parts ...[]byte) Hash {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		// NewKeyed only fails for a key of the wrong length, which cannot
		// happen here since key is statically [32]byte.
		panic(err)
	}
	for _, p := range parts {
		_, _ = hasher.Write(p)
	}
	var out Hash
	sum := hasher.Sum(nil)
	copy(out[:], sum)
	return out
}

// Equal performs a constant-time equality comparison, for use wherever
// the comparison result could leak timing information about secret or
// peer-controlled data (genesis hash checks, nullifier matches, etc).
func Equal(a, b Hash) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// FromBytes copies up to Size bytes from b into a Hash. It does not
// validate length; callers that need strict length checking should
// compare len(b) against Size first.
func FromBytes(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}
