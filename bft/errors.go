// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import "errors"

var (
	// ErrInvalidHeight rejects a proposal with height 0.
	ErrInvalidHeight = errors.New("bft: proposal height must be > 0")
	// ErrEmptyProposer rejects a proposal whose proposer identity is zero.
	ErrEmptyProposer = errors.New("bft: proposer identity must not be empty")
	// ErrBlockDataTooLarge rejects a proposal whose block_data exceeds 1 MiB.
	ErrBlockDataTooLarge = errors.New("bft: block_data exceeds 1 MiB")
	// ErrProposalTimestampOutOfRange rejects a proposal timestamped outside
	// [now-3600, now+300].
	ErrProposalTimestampOutOfRange = errors.New("bft: proposal timestamp outside allowed range")
	// ErrProposerNotValidator rejects a proposal from an identity absent
	// from the active validator set.
	ErrProposerNotValidator = errors.New("bft: proposer is not an active validator")
	// ErrWrongProposer rejects a proposal that doesn't match the round's
	// assigned proposer.
	ErrWrongProposer = errors.New("bft: proposer does not match the round's assigned proposer")
	// ErrZkDIDProofInvalid rejects a proposal whose zk_did_proof fails
	// verification.
	ErrZkDIDProofInvalid = errors.New("bft: zk_did_proof failed verification")
	// ErrEmptyTransaction rejects a deserialized transaction shorter than
	// 64 bytes.
	ErrEmptyTransaction = errors.New("bft: transaction below minimum 64-byte size")
	// ErrMalformedBlockData rejects a block_data blob whose length-prefix
	// framing is inconsistent.
	ErrMalformedBlockData = errors.New("bft: block_data length-prefix framing is malformed")
	// ErrConsensusProofTooShort rejects a zk_did_proof shorter than 32 bytes.
	ErrConsensusProofTooShort = errors.New("bft: zk_did_proof below minimum 32-byte size")
	// ErrConsensusProofTimestampFuture rejects a consensus proof timestamped
	// more than 300s in the future.
	ErrConsensusProofTimestampFuture = errors.New("bft: consensus_proof timestamp too far in the future")

	// ErrVoteSignatureInvalid rejects a vote whose signature does not
	// verify.
	ErrVoteSignatureInvalid = errors.New("bft: vote signature invalid")
	// ErrVoterNotValidator rejects a vote from an identity absent from the
	// active validator set at the voted height.
	ErrVoterNotValidator = errors.New("bft: voter is not an active validator at this height")
	// ErrDoubleVote rejects a second vote from the same voter for the same
	// (height, round, type).
	ErrDoubleVote = errors.New("bft: voter already voted for this (height, round, type)")
	// ErrVoteHeightOutOfRange rejects a vote whose height falls outside
	// [current-1, current+1].
	ErrVoteHeightOutOfRange = errors.New("bft: vote height out of range")
	// ErrVoteTimestampOutOfRange rejects a vote timestamped outside
	// [now-600, now+300].
	ErrVoteTimestampOutOfRange = errors.New("bft: vote timestamp out of range")
)
