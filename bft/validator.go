// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

// ValidatorSet answers the two validator-set questions the proposal and
// vote pipelines need: whether an identity is active at a height, and
// how many validators total exist at that height (the N in the
// supermajority test).
type ValidatorSet interface {
	IsActive(id IdentityID, height uint64) bool
	Total(height uint64) int
}

// SignatureVerifier verifies a detached signature over a message for a
// claimed signer identity. Production implementations check a
// post-quantum signature scheme (e.g. ML-DSA); tests use a fake that
// accepts/rejects deterministically.
type SignatureVerifier interface {
	Verify(signer IdentityID, message, signature []byte) bool
}
