// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashmerkle

import "errors"

// ErrEmptyLeafSet is returned when a Merkle root or proof is requested
// over an empty leaf set.
var ErrEmptyLeafSet = errors.New("hashmerkle: empty leaf set")

// merkleKey domain-separates internal-node hashing from leaf hashing and
// from the generic H() helper used elsewhere.
var merkleKey = [32]byte{'w', 'e', 'b', '4', '-', 'm', 'e', 'r', 'k', 'l', 'e', '-', 'n', 'o', 'd', 'e'}

// parent computes the Merkle parent of two sibling hashes: H(left || right).
func parent(left, right Hash) Hash {
	return HWithKey(merkleKey, left[:], right[:])
}

// ComputeRoot computes the Merkle root over leaves, duplicating the last
// leaf at each level when the level has an odd number of nodes (no
// NULL-promotion, per spec).
func ComputeRoot(leaves []Hash) (Hash, error) {
	if len(leaves) == 0 {
		return Zero, ErrEmptyLeafSet
	}
	level := make([]Hash, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		level = nextLevel(level)
	}
	return level[0], nil
}

func nextLevel(level []Hash) []Hash {
	if len(level)%2 == 1 {
		level = append(level, level[len(level)-1])
	}
	next := make([]Hash, len(level)/2)
	for i := 0; i+1 < len(level); i += 2 {
		next[i/2] = parent(level[i], level[i+1])
	}
	return next
}

// Proof is a Merkle inclusion proof: the ordered sequence of sibling
// hashes needed to recompute the root starting from a leaf. Verification
// folds the siblings in order: current = H(current || sibling).
type Proof struct {
	Siblings []Hash
}

// BuildProof constructs the inclusion proof for leaves[index].
func BuildProof(leaves []Hash, index int) (Proof, error) {
	if len(leaves) == 0 {
		return Proof{}, ErrEmptyLeafSet
	}
	if index < 0 || index >= len(leaves) {
		return Proof{}, errors.New("hashmerkle: index out of range")
	}

	level := make([]Hash, len(leaves))
	copy(level, leaves)
	var proof Proof

	idx := index
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		var siblingIdx int
		if idx%2 == 0 {
			siblingIdx = idx + 1
		} else {
			siblingIdx = idx - 1
		}
		proof.Siblings = append(proof.Siblings, level[siblingIdx])

		level = nextLevel(level)
		idx /= 2
	}
	return proof, nil
}

// VerifyProof recomputes the root from leaf using proof and compares it
// against root. Flipping any sibling byte changes the recomputed root
// and so returns false.
func VerifyProof(leaf Hash, proof Proof, root Hash) bool {
	current := leaf
	for _, sibling := range proof.Siblings {
		current = parent(current, sibling)
	}
	return Equal(current, root)
}
