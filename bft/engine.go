// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import (
	"time"

	"github.com/luxfi/log"

	"github.com/zhtp/web4/hashmerkle"
	nolog "github.com/zhtp/web4/log"
)

// Engine drives one height's propose/prevote/precommit round state
// machine, advancing rounds on timeout and finalizing on a 2/3+
// precommit supermajority (spec.md §4.5).
//
// Failure semantics: local errors (malformed proposal, bad signature,
// stale vote) are dropped with a structured log line; liveness failures
// (no supermajority before timeout) advance the round instead of
// failing the engine.
type Engine struct {
	Validators   ValidatorSet
	Proposals    *ProposalValidator
	RoundTimeout time.Duration

	log   log.Logger
	round *Round
	pool  *VotePool
}

// NewEngine constructs an Engine for a validator set, with the given
// proposal validator and round timeout. A nil logger defaults to a
// no-op logger.
func NewEngine(validators ValidatorSet, proposals *ProposalValidator, signer SignatureVerifier, roundTimeout time.Duration, logger log.Logger) *Engine {
	if logger == nil {
		logger = nolog.NewNoOpLogger()
	}
	e := &Engine{Validators: validators, Proposals: proposals, RoundTimeout: roundTimeout, log: logger}
	e.pool = NewVotePool(validators, signer, 0)
	return e
}

// StartRound begins round (height, roundNum), optionally with a
// pre-assigned proposer.
func (e *Engine) StartRound(height, roundNum uint64, proposer *IdentityID, now time.Time) {
	e.round = NewRound(height, roundNum, proposer, now)
	e.pool.currentHt = height
	e.log.Info("round started", "height", height, "round", roundNum, "step", StepPropose.String())
}

// Round returns the engine's current round, or nil if none has started.
func (e *Engine) Round() *Round { return e.round }

// SubmitProposal validates and records a proposal against the current
// round. A rejected proposal is dropped (logged) and does not fail the
// round.
func (e *Engine) SubmitProposal(p ConsensusProposal, now time.Time) error {
	if e.round == nil {
		return ErrInvalidHeight
	}
	if err := e.Proposals.Validate(p, e.round.Proposer, now); err != nil {
		return err
	}
	e.round.AddProposal(p)
	return nil
}

// SubmitVote validates and records a vote, advancing the round's step on
// reaching supermajority. A rejected or double-voted vote is dropped
// (logged) and does not fail the round; double votes are additionally
// retained as Byzantine evidence in the vote pool.
func (e *Engine) SubmitVote(vote ConsensusVote, now time.Time) error {
	if e.round == nil {
		return ErrInvalidHeight
	}
	if err := e.pool.AddVote(vote, now); err != nil {
		e.log.Warn("vote dropped", "voter", vote.Voter.String(), "height", vote.Height, "round", vote.Round, "err", err)
		return err
	}

	n := 0
	if e.Validators != nil {
		n = e.Validators.Total(vote.Height)
	}

	switch vote.Type {
	case VotePreVote:
		if e.round.Step == StepPropose || e.round.Step == StepPreVote {
			if e.pool.HasSupermajority(vote.Height, vote.Round, VotePreVote, vote.ProposalID, n) {
				pid := vote.ProposalID
				e.round.LockedProposal = &pid
				e.round.ValidProposal = &pid
				e.round.Step = StepPreCommit
				e.log.Info("prevote supermajority reached, locking", "height", vote.Height, "round", vote.Round, "proposal", pid.String())
			}
		}
	case VotePreCommit:
		if e.round.Step == StepPreCommit {
			if e.pool.HasSupermajority(vote.Height, vote.Round, VotePreCommit, vote.ProposalID, n) {
				e.log.Info("precommit supermajority reached, finalizing", "height", vote.Height, "round", vote.Round, "proposal", vote.ProposalID.String())
			}
		}
	}
	return nil
}

// Finalized reports whether the current round has reached a precommit
// supermajority for proposalID, meaning it is ready to hand off to the
// recursive proof aggregator.
func (e *Engine) Finalized(proposalID hashmerkle.Hash) bool {
	if e.round == nil {
		return false
	}
	n := 0
	if e.Validators != nil {
		n = e.Validators.Total(e.round.Height)
	}
	return e.pool.HasSupermajority(e.round.Height, e.round.RoundNum, VotePreCommit, proposalID, n)
}

// CheckTimeout advances to the next round if now has exceeded the
// round's start time by RoundTimeout without finalizing — a liveness
// failure, not an error.
func (e *Engine) CheckTimeout(now time.Time) bool {
	if e.round == nil || e.round.TimedOut {
		return false
	}
	if now.Sub(e.round.StartTime) < e.RoundTimeout {
		return false
	}
	e.round.TimedOut = true
	e.log.Warn("round timed out, advancing", "height", e.round.Height, "round", e.round.RoundNum)
	e.StartRound(e.round.Height, e.round.RoundNum+1, nil, now)
	return true
}

// ByzantineEvidence exposes every double-vote observed by the engine's
// vote pool.
func (e *Engine) ByzantineEvidence() []ByzantineEvidence {
	return e.pool.Evidence()
}
