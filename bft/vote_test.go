// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhtp/web4/hashmerkle"
)

type acceptAllSigner struct{}

func (acceptAllSigner) Verify(signer IdentityID, message, signature []byte) bool { return true }

type rejectSigner struct{}

func (rejectSigner) Verify(signer IdentityID, message, signature []byte) bool { return false }

func validVote(voter IdentityID, proposal hashmerkle.Hash, typ VoteType, height, round uint64, now time.Time) ConsensusVote {
	return ConsensusVote{
		ID:         hashmerkle.H([]byte("vote"), voter[:], proposal[:], []byte{byte(height), byte(round), byte(typ)}),
		Voter:      voter,
		ProposalID: proposal,
		Type:       typ,
		Height:     height,
		Round:      round,
		Timestamp:  now.Unix(),
	}
}

func TestVotePoolAcceptsValidVote(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	pool := NewVotePool(validators, acceptAllSigner{}, 10)
	now := time.Now()

	vote := validVote(identity(1), hashmerkle.H([]byte("p")), VotePreVote, 10, 0, now)
	require.NoError(t, pool.AddVote(vote, now))
}

func TestVotePoolRejectsBadSignature(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	pool := NewVotePool(validators, rejectSigner{}, 10)
	now := time.Now()

	vote := validVote(identity(1), hashmerkle.H([]byte("p")), VotePreVote, 10, 0, now)
	require.ErrorIs(t, pool.AddVote(vote, now), ErrVoteSignatureInvalid)
}

func TestVotePoolRejectsInactiveVoter(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{}, total: 4}
	pool := NewVotePool(validators, acceptAllSigner{}, 10)
	now := time.Now()

	vote := validVote(identity(1), hashmerkle.H([]byte("p")), VotePreVote, 10, 0, now)
	require.ErrorIs(t, pool.AddVote(vote, now), ErrVoterNotValidator)
}

func TestVotePoolRejectsHeightOutOfRange(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	pool := NewVotePool(validators, acceptAllSigner{}, 10)
	now := time.Now()

	vote := validVote(identity(1), hashmerkle.H([]byte("p")), VotePreVote, 100, 0, now)
	require.ErrorIs(t, pool.AddVote(vote, now), ErrVoteHeightOutOfRange)
}

func TestVotePoolRejectsStaleTimestamp(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	pool := NewVotePool(validators, acceptAllSigner{}, 10)
	now := time.Now()

	vote := validVote(identity(1), hashmerkle.H([]byte("p")), VotePreVote, 10, 0, now.Add(-time.Hour))
	require.ErrorIs(t, pool.AddVote(vote, now), ErrVoteTimestampOutOfRange)
}

func TestVotePoolDetectsDoubleVote(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{identity(1): true}, total: 4}
	pool := NewVotePool(validators, acceptAllSigner{}, 10)
	now := time.Now()

	first := validVote(identity(1), hashmerkle.H([]byte("p1")), VotePreVote, 10, 0, now)
	require.NoError(t, pool.AddVote(first, now))

	second := validVote(identity(1), hashmerkle.H([]byte("p2")), VotePreVote, 10, 0, now)
	require.ErrorIs(t, pool.AddVote(second, now), ErrDoubleVote)

	evidence := pool.Evidence()
	require.Len(t, evidence, 1)
	require.Equal(t, identity(1), evidence[0].Voter)
}

func TestSupermajorityThreshold(t *testing.T) {
	require.Equal(t, 3, SupermajorityThreshold(4))  // floor(8/3)+1 = 2+1 = 3
	require.Equal(t, 7, SupermajorityThreshold(10)) // floor(20/3)+1 = 6+1 = 7
	require.Equal(t, 1, SupermajorityThreshold(1))
}

func TestVotePoolHasSupermajority(t *testing.T) {
	validators := fakeValidators{active: map[hashmerkle.Hash]bool{
		identity(1): true, identity(2): true, identity(3): true, identity(4): true,
	}, total: 4}
	pool := NewVotePool(validators, acceptAllSigner{}, 10)
	now := time.Now()
	proposal := hashmerkle.H([]byte("p"))

	for i := byte(1); i <= 2; i++ {
		require.NoError(t, pool.AddVote(validVote(identity(i), proposal, VotePreVote, 10, 0, now), now))
	}
	require.False(t, pool.HasSupermajority(10, 0, VotePreVote, proposal, 4))

	require.NoError(t, pool.AddVote(validVote(identity(3), proposal, VotePreVote, 10, 0, now), now))
	require.True(t, pool.HasSupermajority(10, 0, VotePreVote, proposal, 4))
}
