// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhtp/web4/hashmerkle"
)

type fakeValidators struct {
	active map[hashmerkle.Hash]bool
	total  int
}

func (f fakeValidators) IsActive(id IdentityID, height uint64) bool { return f.active[id] }
func (f fakeValidators) Total(height uint64) int                    { return f.total }

func lenPrefixed(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(p)))
		out = append(out, l[:]...)
		out = append(out, p...)
	}
	return out
}

func identity(b byte) IdentityID {
	var h hashmerkle.Hash
	h[hashmerkle.Size-1] = b
	return h
}

func validProposal(now time.Time) ConsensusProposal {
	tx := make([]byte, 64)
	return ConsensusProposal{
		ID:        hashmerkle.H([]byte("proposal")),
		Proposer:  identity(1),
		Height:    10,
		BlockData: lenPrefixed(tx),
		Timestamp: now.Unix(),
	}
}

func TestProposalValidatorAcceptsWellFormed(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	v := NewProposalValidator(validators, nil, nil)
	now := time.Now()

	require.NoError(t, v.Validate(validProposal(now), nil, now))
}

func TestProposalValidatorRejectsZeroHeight(t *testing.T) {
	v := NewProposalValidator(nil, nil, nil)
	now := time.Now()
	p := validProposal(now)
	p.Height = 0
	require.ErrorIs(t, v.Validate(p, nil, now), ErrInvalidHeight)
}

func TestProposalValidatorRejectsOversizedBlockData(t *testing.T) {
	v := NewProposalValidator(nil, nil, nil)
	now := time.Now()
	p := validProposal(now)
	p.BlockData = make([]byte, MaxBlockDataBytes+1)
	require.ErrorIs(t, v.Validate(p, nil, now), ErrBlockDataTooLarge)
}

func TestProposalValidatorRejectsStaleTimestamp(t *testing.T) {
	v := NewProposalValidator(nil, nil, nil)
	now := time.Now()
	p := validProposal(now)
	p.Timestamp = now.Add(-2 * time.Hour).Unix()
	require.ErrorIs(t, v.Validate(p, nil, now), ErrProposalTimestampOutOfRange)
}

func TestProposalValidatorRejectsInactiveProposer(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{}, total: 4}
	v := NewProposalValidator(validators, nil, nil)
	now := time.Now()
	require.ErrorIs(t, v.Validate(validProposal(now), nil, now), ErrProposerNotValidator)
}

func TestProposalValidatorRejectsWrongProposer(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	v := NewProposalValidator(validators, nil, nil)
	now := time.Now()
	expected := identity(2)
	require.ErrorIs(t, v.Validate(validProposal(now), &expected, now), ErrWrongProposer)
}

func TestProposalValidatorRejectsUndersizedTransaction(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	v := NewProposalValidator(validators, nil, nil)
	now := time.Now()
	p := validProposal(now)
	p.BlockData = lenPrefixed([]byte("too short"))
	require.ErrorIs(t, v.Validate(p, nil, now), ErrEmptyTransaction)
}

func TestProposalValidatorRejectsMalformedBlockData(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	v := NewProposalValidator(validators, nil, nil)
	now := time.Now()
	p := validProposal(now)
	p.BlockData = []byte{0, 0, 0, 100, 1, 2} // claims 100 bytes, has 2
	require.ErrorIs(t, v.Validate(p, nil, now), ErrMalformedBlockData)
}

func TestProposalValidatorRejectsShortConsensusProof(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	v := NewProposalValidator(validators, nil, nil)
	now := time.Now()
	p := validProposal(now)
	shortProof := zkProofStub(16)
	p.ConsensusProof.ZkDIDProof = &shortProof
	require.ErrorIs(t, v.Validate(p, nil, now), ErrConsensusProofTooShort)
}

func TestProposalValidatorRejectsFutureConsensusProofTimestamp(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	v := NewProposalValidator(validators, nil, nil)
	now := time.Now()
	p := validProposal(now)
	p.ConsensusProof.Timestamp = now.Add(time.Hour).Unix()
	require.ErrorIs(t, v.Validate(p, nil, now), ErrConsensusProofTimestampFuture)
}
