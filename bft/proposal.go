// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import (
	"encoding/binary"
	"time"

	"github.com/luxfi/log"

	nolog "github.com/zhtp/web4/log"
	"github.com/zhtp/web4/zkproof"
)

// ProposalValidator runs the four-stage proposal validation pipeline of
// spec.md §4.5: structure, proposer identity, content, consensus proof.
type ProposalValidator struct {
	Validators    ValidatorSet
	ProofVerifier zkproof.Verifier // nil accepts any structurally well-formed proof (tests only)

	log log.Logger
}

// NewProposalValidator constructs a ProposalValidator. A nil logger
// defaults to a no-op logger.
func NewProposalValidator(validators ValidatorSet, proofVerifier zkproof.Verifier, logger log.Logger) *ProposalValidator {
	if logger == nil {
		logger = nolog.NewNoOpLogger()
	}
	return &ProposalValidator{Validators: validators, ProofVerifier: proofVerifier, log: logger}
}

// Validate runs all four pipeline stages against p, for a round whose
// assigned proposer (if any) is expectedProposer.
func (v *ProposalValidator) Validate(p ConsensusProposal, expectedProposer *IdentityID, now time.Time) error {
	if err := v.validateStructure(p, now); err != nil {
		v.log.Warn("proposal rejected: structure", "height", p.Height, "err", err)
		return err
	}
	if err := v.validateProposerIdentity(p, expectedProposer); err != nil {
		v.log.Warn("proposal rejected: proposer identity", "height", p.Height, "proposer", p.Proposer.String(), "err", err)
		return err
	}
	if err := v.validateContent(p); err != nil {
		v.log.Warn("proposal rejected: content", "height", p.Height, "err", err)
		return err
	}
	if err := v.validateConsensusProof(p, now); err != nil {
		v.log.Warn("proposal rejected: consensus proof", "height", p.Height, "err", err)
		return err
	}
	return nil
}

// validateStructure is stage 1: height>0, non-empty proposer, block_data
// within the size cap, timestamp within window.
func (v *ProposalValidator) validateStructure(p ConsensusProposal, now time.Time) error {
	if p.Height == 0 {
		return ErrInvalidHeight
	}
	if p.Proposer.IsZero() {
		return ErrEmptyProposer
	}
	if len(p.BlockData) > MaxBlockDataBytes {
		return ErrBlockDataTooLarge
	}
	ts := time.Unix(p.Timestamp, 0)
	if ts.Before(now.Add(-proposalPastWindow)) || ts.After(now.Add(proposalFutureWindow)) {
		return ErrProposalTimestampOutOfRange
	}
	return nil
}

// validateProposerIdentity is stage 2: proposer must be an active
// validator; if a per-round proposer is assigned it must match; a
// present zk_did_proof must verify.
func (v *ProposalValidator) validateProposerIdentity(p ConsensusProposal, expectedProposer *IdentityID) error {
	if v.Validators != nil && !v.Validators.IsActive(p.Proposer, p.Height) {
		return ErrProposerNotValidator
	}
	if expectedProposer != nil && *expectedProposer != p.Proposer {
		return ErrWrongProposer
	}
	if proof := p.ConsensusProof.ZkDIDProof; proof != nil {
		ok, err := proof.Verify(v.ProofVerifier)
		if err != nil || !ok {
			return ErrZkDIDProofInvalid
		}
	}
	return nil
}

// validateContent is stage 3: transactions deserialized from block_data
// (length-prefixed concatenation) must each be non-empty and at least
// MinTransactionBytes.
func (v *ProposalValidator) validateContent(p ConsensusProposal) error {
	txs, err := splitLengthPrefixed(p.BlockData)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if len(tx) < MinTransactionBytes {
			return ErrEmptyTransaction
		}
	}
	return nil
}

// validateConsensusProof is stage 4: a present zk_did_proof must be at
// least MinConsensusProofBytes, and the consensus proof's own timestamp
// must not be too far in the future.
func (v *ProposalValidator) validateConsensusProof(p ConsensusProposal, now time.Time) error {
	if proof := p.ConsensusProof.ZkDIDProof; proof != nil && len(proof.ProofData) < MinConsensusProofBytes {
		return ErrConsensusProofTooShort
	}
	if p.ConsensusProof.Timestamp != 0 {
		ts := time.Unix(p.ConsensusProof.Timestamp, 0)
		if ts.After(now.Add(consensusProofFutureWindow)) {
			return ErrConsensusProofTimestampFuture
		}
	}
	return nil
}

// splitLengthPrefixed splits a length-prefixed concatenation of byte
// strings: a sequence of (uint32 big-endian length, payload) pairs. An
// empty input yields zero transactions.
func splitLengthPrefixed(data []byte) ([][]byte, error) {
	var out [][]byte
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, ErrMalformedBlockData
		}
		n := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		if uint32(len(data)) < n {
			return nil, ErrMalformedBlockData
		}
		out = append(out, data[:n])
		data = data[n:]
	}
	return out, nil
}
