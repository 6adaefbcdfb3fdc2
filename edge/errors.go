// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package edge

import "errors"

var (
	// ErrInvalidVersion rejects a header with a zero version.
	ErrInvalidVersion = errors.New("edge: header version must be non-zero")
	// ErrHashMismatch rejects a header whose stored hash does not match
	// its recomputed hash.
	ErrHashMismatch = errors.New("edge: block_hash does not match H(header)")
	// ErrFutureTimestamp rejects a header timestamped too far ahead.
	ErrFutureTimestamp = errors.New("edge: header timestamp more than 2h in the future")
	// ErrHeightMismatch rejects a header whose height does not chain
	// from the current tip.
	ErrHeightMismatch = errors.New("edge: header height does not follow tip")
	// ErrPrevHashMismatch rejects a header whose prev_hash does not
	// reference the current tip.
	ErrPrevHashMismatch = errors.New("edge: prev_hash does not reference tip")
	// ErrTimestampNotIncreasing rejects a header that does not strictly
	// increase the timestamp over its predecessor.
	ErrTimestampNotIncreasing = errors.New("edge: header timestamp does not exceed tip timestamp")
	// ErrMerkleRootMismatch is returned by ProcessBlock when the
	// transactions' recomputed root does not match the header.
	ErrMerkleRootMismatch = errors.New("edge: reconstructed merkle root does not match header")
	// ErrHeaderNotFound is returned when a height has no retained header.
	ErrHeaderNotFound = errors.New("edge: header not found in retained window")
	// ErrNotMyPayment is returned by VerifyPayment when the output is not
	// addressed to this node.
	ErrNotMyPayment = errors.New("edge: output is not addressed to this node")
	// ErrMerkleProofInvalid is returned by VerifyPayment when the supplied
	// inclusion proof does not reduce to the header's merkle_root.
	ErrMerkleProofInvalid = errors.New("edge: merkle proof does not verify against header")
)
