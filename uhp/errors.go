// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package uhp implements the Unified Handshake Protocol: mutual peer
// authentication (Full and Provisional modes) and its blockchain-aware
// extension (chain-ID, fork, stake, epoch, validator-set verification).
package uhp

import "errors"

var (
	// ErrVersionOutOfRange rejects a negotiated protocol version outside
	// [MinVersion, MaxVersion]. No silent downgrade is performed.
	ErrVersionOutOfRange = errors.New("uhp: protocol version outside supported range")
	// ErrStaleTimestamp rejects a Hello whose timestamp is outside the
	// ±5 minute tolerance window.
	ErrStaleTimestamp = errors.New("uhp: timestamp outside tolerance window")
	// ErrReplayedNonce rejects a Hello whose nonce has already been seen.
	ErrReplayedNonce = errors.New("uhp: nonce already seen (replay)")
	// ErrSignatureInvalid rejects a Hello/Finish whose signature does not
	// verify.
	ErrSignatureInvalid = errors.New("uhp: signature verification failed")

	// ErrRateLimited is returned by verify_peer when the peer's IP has
	// exceeded its handshake rate budget.
	ErrRateLimited = errors.New("uhp: peer rate limit exceeded")
	// ErrChainIDMismatch signals a cross-chain replay attempt.
	ErrChainIDMismatch = errors.New("uhp: chain_id mismatch (cross-chain replay attempt)")
	// ErrGenesisMismatch signals the peer is on a different network.
	ErrGenesisMismatch = errors.New("uhp: genesis_hash mismatch (different network)")
	// ErrEpochOutOfBounds signals the peer's epoch is too far in the
	// future or too far in the past relative to local epoch.
	ErrEpochOutOfBounds = errors.New("uhp: peer epoch outside allowed bounds")
	// ErrHeightOutOfBounds signals |height_diff| exceeds max_height_diff;
	// VerifyPeer rejects with it whether or not the validator sets match.
	ErrHeightOutOfBounds = errors.New("uhp: peer height too far from local height")
	// ErrValidatorAuthFailed is the single generic message returned for
	// any stake-claim mismatch, deliberately carrying no further detail.
	ErrValidatorAuthFailed = errors.New("Validator authentication failed")
)
