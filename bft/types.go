// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bft implements the Byzantine fault-tolerant consensus engine of
// spec.md §4.5: a propose/prevote/precommit round state machine driven
// by ZK-DID proposer authentication and post-quantum vote signatures,
// finalizing on a 2/3+ supermajority and handing off to the recursive
// proof aggregator (package aggregator).
package bft

import (
	"time"

	"github.com/zhtp/web4/hashmerkle"
	"github.com/zhtp/web4/zkproof"
)

// IdentityID names a validator or proposer by its Sovereign ID hash.
type IdentityID = hashmerkle.Hash

// Step is a round's current phase.
type Step uint8

const (
	StepPropose Step = iota
	StepPreVote
	StepPreCommit
)

func (s Step) String() string {
	switch s {
	case StepPropose:
		return "propose"
	case StepPreVote:
		return "prevote"
	case StepPreCommit:
		return "precommit"
	default:
		return "unknown"
	}
}

// VoteType distinguishes a prevote from a precommit.
type VoteType uint8

const (
	VotePreVote VoteType = iota
	VotePreCommit
)

func (t VoteType) String() string {
	if t == VotePreCommit {
		return "precommit"
	}
	return "prevote"
}

// MaxBlockDataBytes bounds ConsensusProposal.BlockData (spec.md §4.5 step 1).
const MaxBlockDataBytes = 1 << 20

// MinTransactionBytes is the minimum size of a deserialized transaction
// within BlockData (spec.md §4.5 step 3).
const MinTransactionBytes = 64

// MinConsensusProofBytes is the minimum size of a non-empty zk_did_proof
// (spec.md §4.5 step 4).
const MinConsensusProofBytes = 32

// proposalPastWindow and proposalFutureWindow bound a proposal's
// timestamp relative to now (spec.md §4.5 step 1: [now-3600, now+300]).
const (
	proposalPastWindow   = time.Hour
	proposalFutureWindow = 5 * time.Minute
)

// votePastWindow and voteFutureWindow bound a vote's timestamp relative
// to now (spec.md §4.5: [now-600, now+300]).
const (
	votePastWindow   = 10 * time.Minute
	voteFutureWindow = 5 * time.Minute
)

// consensusProofFutureWindow bounds how far ahead of now a consensus
// proof's own timestamp may be (spec.md §4.5 step 4: [_, now+300]).
const consensusProofFutureWindow = 5 * time.Minute

// ConsensusProof carries the optional ZK-DID proposer-authentication
// proof and stake proof piggybacked on a proposal, plus its own
// timestamp (spec.md §3 ConsensusProposal.consensus_proof).
type ConsensusProof struct {
	ZkDIDProof *zkproof.ZkProof
	StakeProof *zkproof.ZkProof
	Timestamp  int64 // unix seconds
}

// ConsensusProposal is a block proposal published at the start of a
// round, carrying block data and a consensus proof authenticating the
// proposer (spec.md §3).
type ConsensusProposal struct {
	ID             hashmerkle.Hash
	Proposer       IdentityID
	Height         uint64
	PrevHash       hashmerkle.Hash
	BlockData      []byte
	Timestamp      int64 // unix seconds
	Signature      []byte
	ConsensusProof ConsensusProof
}

// ConsensusVote is a single prevote or precommit cast by a validator for
// a proposal at a given (height, round) (spec.md §3). A voter contributes
// at most one vote per (height, round, type).
type ConsensusVote struct {
	ID         hashmerkle.Hash
	Voter      IdentityID
	ProposalID hashmerkle.Hash
	Type       VoteType
	Height     uint64
	Round      uint64
	Timestamp  int64 // unix seconds
	Signature  []byte
}

// SerializeForVerification returns the deterministic byte layout a vote's
// signature is computed/verified over: id || voter || proposal_id ||
// type_byte || height || round || timestamp (spec.md §4.5).
func (v ConsensusVote) SerializeForVerification() []byte {
	buf := make([]byte, 0, hashmerkle.Size*3+1+8+8+8)
	buf = append(buf, v.ID[:]...)
	buf = append(buf, v.Voter[:]...)
	buf = append(buf, v.ProposalID[:]...)
	buf = append(buf, byte(v.Type))
	buf = appendUint64(buf, v.Height)
	buf = appendUint64(buf, v.Round)
	buf = appendUint64(buf, uint64(v.Timestamp))
	return buf
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return append(buf, b[:]...)
}

// voteKey identifies the (voter, height, round, type) slot the
// double-vote invariant is enforced over.
type voteKey struct {
	voter  IdentityID
	height uint64
	round  uint64
	typ    VoteType
}

// Round is one (height, round) instance of the propose/prevote/precommit
// state machine (spec.md §3 ConsensusRound).
type Round struct {
	Height    uint64
	RoundNum  uint64
	Step      Step
	StartTime time.Time
	Proposer  *IdentityID

	proposals []ConsensusProposal
	votesByID map[voteKey]ConsensusVote

	TimedOut       bool
	LockedProposal *hashmerkle.Hash
	ValidProposal  *hashmerkle.Hash
}

// NewRound starts a fresh round at (height, round), optionally with a
// pre-assigned proposer.
func NewRound(height, round uint64, proposer *IdentityID, now time.Time) *Round {
	return &Round{
		Height:    height,
		RoundNum:  round,
		Step:      StepPropose,
		StartTime: now,
		Proposer:  proposer,
		votesByID: make(map[voteKey]ConsensusVote),
	}
}

// AddProposal records a structurally-accepted proposal against the round.
func (r *Round) AddProposal(p ConsensusProposal) {
	r.proposals = append(r.proposals, p)
}

// Proposals returns every proposal recorded against this round.
func (r *Round) Proposals() []ConsensusProposal {
	return r.proposals
}
