// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhtp/web4/hashmerkle"
)

func fourValidators() fakeValidators {
	return fakeValidators{active: map[hashmerkle.Hash]bool{
		identity(1): true, identity(2): true, identity(3): true, identity(4): true,
	}, total: 4}
}

func TestEngineFullRoundFinalizes(t *testing.T) {
	validators := fourValidators()
	pv := NewProposalValidator(validators, nil, nil)
	e := NewEngine(validators, pv, acceptAllSigner{}, time.Minute, nil)
	now := time.Now()

	e.StartRound(10, 0, nil, now)
	proposal := validProposal(now)
	proposal.Height = 10
	require.NoError(t, e.SubmitProposal(proposal, now))

	for i := byte(1); i <= 3; i++ {
		vote := validVote(identity(i), proposal.ID, VotePreVote, 10, 0, now)
		require.NoError(t, e.SubmitVote(vote, now))
	}
	require.Equal(t, StepPreCommit, e.Round().Step)
	require.NotNil(t, e.Round().LockedProposal)

	for i := byte(1); i <= 3; i++ {
		vote := validVote(identity(i), proposal.ID, VotePreCommit, 10, 0, now)
		require.NoError(t, e.SubmitVote(vote, now))
	}
	require.True(t, e.Finalized(proposal.ID))
}

func TestEngineDropsRejectedProposalWithoutFailingRound(t *testing.T) {
	validators := fourValidators()
	pv := NewProposalValidator(validators, nil, nil)
	e := NewEngine(validators, pv, acceptAllSigner{}, time.Minute, nil)
	now := time.Now()

	e.StartRound(10, 0, nil, now)
	bad := validProposal(now)
	bad.Height = 0
	require.Error(t, e.SubmitProposal(bad, now))
	require.NotNil(t, e.Round())
	require.Equal(t, StepPropose, e.Round().Step)
}

func TestEngineCheckTimeoutAdvancesRound(t *testing.T) {
	validators := fourValidators()
	pv := NewProposalValidator(validators, nil, nil)
	e := NewEngine(validators, pv, acceptAllSigner{}, time.Minute, nil)
	now := time.Now()

	e.StartRound(10, 0, nil, now)
	require.False(t, e.CheckTimeout(now))

	later := now.Add(2 * time.Minute)
	require.True(t, e.CheckTimeout(later))
	require.EqualValues(t, 1, e.Round().RoundNum)
}

func TestEngineRecordsByzantineEvidenceFromVotes(t *testing.T) {
	validators := fourValidators()
	pv := NewProposalValidator(validators, nil, nil)
	e := NewEngine(validators, pv, acceptAllSigner{}, time.Minute, nil)
	now := time.Now()

	e.StartRound(10, 0, nil, now)
	first := validVote(identity(1), hashmerkle.H([]byte("a")), VotePreVote, 10, 0, now)
	require.NoError(t, e.SubmitVote(first, now))

	second := validVote(identity(1), hashmerkle.H([]byte("b")), VotePreVote, 10, 0, now)
	require.Error(t, e.SubmitVote(second, now))

	require.Len(t, e.ByzantineEvidence(), 1)
}
