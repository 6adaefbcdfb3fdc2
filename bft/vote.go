// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import (
	"sync"
	"time"

	"github.com/zhtp/web4/hashmerkle"
)

// ByzantineEvidence records two conflicting votes observed from the same
// voter for the same (height, round, type) — proof of double-voting.
type ByzantineEvidence struct {
	Voter  IdentityID
	Height uint64
	Round  uint64
	Type   VoteType
	First  ConsensusVote
	Second ConsensusVote
}

// VotePool accumulates votes keyed by (voter, height, round, type),
// enforcing one vote per voter and type at each (height, round) and
// surfacing Byzantine evidence when it is violated (spec.md §4.5).
//
// One Mutex guards the whole pool across every (height, round) it
// holds; Engine keeps a single pool for all rounds and heights.
type VotePool struct {
	Validators ValidatorSet
	Signer     SignatureVerifier

	mu        sync.Mutex
	votes     map[voteKey]ConsensusVote
	evidence  []ByzantineEvidence
	currentHt uint64
}

// NewVotePool constructs an empty pool tracking votes relative to
// currentHeight, the height new votes are range-checked against.
func NewVotePool(validators ValidatorSet, signer SignatureVerifier, currentHeight uint64) *VotePool {
	return &VotePool{
		Validators: validators,
		Signer:     signer,
		votes:      make(map[voteKey]ConsensusVote),
		currentHt:  currentHeight,
	}
}

// AddVote validates and records vote, returning an error if it is
// malformed, from an inactive voter, out of range, or a double-vote. A
// detected double-vote is also appended to Evidence and does not
// overwrite the first vote on record.
func (p *VotePool) AddVote(vote ConsensusVote, now time.Time) error {
	if err := p.validate(vote, now); err != nil {
		return err
	}

	key := voteKey{voter: vote.Voter, height: vote.Height, round: vote.Round, typ: vote.Type}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.votes[key]; ok {
		if existing.ID != vote.ID {
			p.evidence = append(p.evidence, ByzantineEvidence{
				Voter: vote.Voter, Height: vote.Height, Round: vote.Round, Type: vote.Type,
				First: existing, Second: vote,
			})
		}
		return ErrDoubleVote
	}
	p.votes[key] = vote
	return nil
}

// validate checks signature, active-validator membership, and the
// height/timestamp windows — everything AddVote needs before it may
// touch the shared vote map.
func (p *VotePool) validate(vote ConsensusVote, now time.Time) error {
	if p.Signer != nil && !p.Signer.Verify(vote.Voter, vote.SerializeForVerification(), vote.Signature) {
		return ErrVoteSignatureInvalid
	}
	if p.Validators != nil && !p.Validators.IsActive(vote.Voter, vote.Height) {
		return ErrVoterNotValidator
	}

	current := p.currentHt
	if vote.Height+1 < current || vote.Height > current+1 {
		return ErrVoteHeightOutOfRange
	}

	ts := time.Unix(vote.Timestamp, 0)
	if ts.Before(now.Add(-votePastWindow)) || ts.After(now.Add(voteFutureWindow)) {
		return ErrVoteTimestampOutOfRange
	}
	return nil
}

// CountFor returns the number of recorded votes of typ for proposalID at
// (height, round).
func (p *VotePool) CountFor(height, round uint64, typ VoteType, proposalID hashmerkle.Hash) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for key, v := range p.votes {
		if key.height == height && key.round == round && key.typ == typ && v.ProposalID == proposalID {
			count++
		}
	}
	return count
}

// Evidence returns every Byzantine double-vote detected so far.
func (p *VotePool) Evidence() []ByzantineEvidence {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ByzantineEvidence, len(p.evidence))
	copy(out, p.evidence)
	return out
}

// SupermajorityThreshold returns ⌊2N/3⌋+1 for N total validators —
// spec.md §4.5's supermajority test.
func SupermajorityThreshold(totalValidators int) int {
	return (2*totalValidators)/3 + 1
}

// HasSupermajority reports whether proposalID has reached supermajority
// of typ votes at (height, round) given totalValidators.
func (p *VotePool) HasSupermajority(height, round uint64, typ VoteType, proposalID hashmerkle.Hash, totalValidators int) bool {
	return p.CountFor(height, round, typ, proposalID) >= SupermajorityThreshold(totalValidators)
}
