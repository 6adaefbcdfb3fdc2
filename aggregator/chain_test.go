// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhtp/web4/hashmerkle"
)

func firstBlock(t *testing.T) BlockAggregatedProof {
	t.Helper()
	batch := oneTxBatch(FeeTierZero, 1)
	proof, err := AggregateBlockTransactions(1, []TransactionBatch{batch}, hashmerkle.Zero, time.Now().Unix())
	require.NoError(t, err)
	return proof
}

func TestCreateRecursiveChainProofGenesis(t *testing.T) {
	block := firstBlock(t)
	chain, err := CreateRecursiveChainProof(block, nil)
	require.NoError(t, err)
	require.Equal(t, block.Height, chain.GenesisHeight)
	require.Equal(t, block.Height, chain.TipHeight)
	require.Equal(t, block.PrevStateRoot, chain.GenesisStateRoot)
	require.EqualValues(t, block.TxCount, chain.TotalTxCount)
}

func TestVerifyRecursiveChainProofAcceptsValid(t *testing.T) {
	block := firstBlock(t)
	chain, err := CreateRecursiveChainProof(block, nil)
	require.NoError(t, err)
	require.True(t, VerifyRecursiveChainProof(chain, time.Now()))
}

func TestVerifyRecursiveChainProofRejectsWrongTag(t *testing.T) {
	block := firstBlock(t)
	chain, err := CreateRecursiveChainProof(block, nil)
	require.NoError(t, err)
	chain.RecursiveProof.SystemTag = "wrong"
	require.False(t, VerifyRecursiveChainProof(chain, time.Now()))
}

func TestVerifyRecursiveChainProofRejectsTamperedCommitment(t *testing.T) {
	block := firstBlock(t)
	chain, err := CreateRecursiveChainProof(block, nil)
	require.NoError(t, err)
	chain.ChainCommitment[0] ^= 0xFF
	require.False(t, VerifyRecursiveChainProof(chain, time.Now()))
}

func TestVerifyRecursiveChainProofRejectsFutureTimestamp(t *testing.T) {
	block := firstBlock(t)
	chain, err := CreateRecursiveChainProof(block, nil)
	require.NoError(t, err)
	chain.ProofTimestamp = time.Now().Add(2 * time.Hour).Unix()
	require.False(t, VerifyRecursiveChainProof(chain, time.Now()))
}

func TestVerifyRecursiveChainProofRejectsTipBelowGenesis(t *testing.T) {
	block := firstBlock(t)
	chain, err := CreateRecursiveChainProof(block, nil)
	require.NoError(t, err)
	chain.TipHeight = chain.GenesisHeight - 1
	chain.ChainCommitment = ComputeChainCommitment(chain.GenesisHeight, chain.TipHeight, chain.GenesisStateRoot, chain.CurrentStateRoot)
	require.False(t, VerifyRecursiveChainProof(chain, time.Now()))
}

func TestCreateRecursiveChainProofChainsAcrossBlocks(t *testing.T) {
	first := firstBlock(t)
	chain1, err := CreateRecursiveChainProof(first, nil)
	require.NoError(t, err)

	batch := oneTxBatch(FeeTierOne, 2)
	second, err := AggregateBlockTransactions(2, []TransactionBatch{batch}, chain1.CurrentStateRoot, time.Now().Unix())
	require.NoError(t, err)

	chain2, err := CreateRecursiveChainProof(second, &chain1)
	require.NoError(t, err)
	require.Equal(t, chain1.GenesisHeight, chain2.GenesisHeight)
	require.Equal(t, chain1.GenesisStateRoot, chain2.GenesisStateRoot)
	require.EqualValues(t, chain1.TotalTxCount+uint64(second.TxCount), chain2.TotalTxCount)
	require.True(t, VerifyRecursiveChainProof(chain2, time.Now()))
}
