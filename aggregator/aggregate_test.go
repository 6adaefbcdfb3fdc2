// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhtp/web4/hashmerkle"
	"github.com/zhtp/web4/zkproof"
)

func proofWithFirstInput(tag string, word byte) zkproof.ZkProof {
	pi := make([]byte, 32)
	pi[31] = word
	return zkproof.ZkProof{SystemTag: tag, ProofData: []byte{word}, PublicInputs: pi}
}

func oneTxBatch(tier FeeTier, seed byte) TransactionBatch {
	return TransactionBatch{
		FeeTier:         tier,
		TxHashes:        []hashmerkle.Hash{hashmerkle.H([]byte{seed})},
		AmountProofs:    []zkproof.ZkProof{proofWithFirstInput("amount", seed)},
		BalanceProofs:   []zkproof.ZkProof{proofWithFirstInput("balance", seed+1)},
		NullifierProofs: []zkproof.ZkProof{proofWithFirstInput("nullifier", seed+2)},
	}
}

func TestAggregateBlockTransactionsRejectsEmptyBatches(t *testing.T) {
	_, err := AggregateBlockTransactions(1, nil, hashmerkle.Zero, 1000)
	require.ErrorIs(t, err, ErrEmptyBatches)
}

func TestAggregateBlockTransactionsComputesMerkleRoot(t *testing.T) {
	batch := oneTxBatch(FeeTierZero, 1)
	proof, err := AggregateBlockTransactions(1, []TransactionBatch{batch}, hashmerkle.Zero, 1000)
	require.NoError(t, err)

	want, err := hashmerkle.ComputeRoot(batch.TxHashes)
	require.NoError(t, err)
	require.Equal(t, want, proof.TxMerkleRoot)
}

func TestAggregateBlockTransactionsSumsFeesByTier(t *testing.T) {
	batches := []TransactionBatch{oneTxBatch(FeeTierZero, 1), oneTxBatch(FeeTierTwo, 10)}
	proof, err := AggregateBlockTransactions(1, batches, hashmerkle.Zero, 1000)
	require.NoError(t, err)
	require.EqualValues(t, 1+10, proof.TotalFees)
}

func TestAggregateBlockTransactionsRejectsUnknownFeeTier(t *testing.T) {
	batch := oneTxBatch(FeeTier(99), 1)
	_, err := AggregateBlockTransactions(1, []TransactionBatch{batch}, hashmerkle.Zero, 1000)
	require.ErrorIs(t, err, ErrUnknownFeeTier)
}

func TestAggregateBlockTransactionsDeterministicStateRoot(t *testing.T) {
	batch := oneTxBatch(FeeTierOne, 5)
	a, err := AggregateBlockTransactions(1, []TransactionBatch{batch}, hashmerkle.Zero, 1000)
	require.NoError(t, err)
	b, err := AggregateBlockTransactions(1, []TransactionBatch{batch}, hashmerkle.Zero, 1000)
	require.NoError(t, err)
	require.Equal(t, a.NewStateRoot, b.NewStateRoot)
	require.NotEqual(t, a.PrevStateRoot, a.NewStateRoot)
}

func TestAggregateBlockTransactionsTxCount(t *testing.T) {
	batches := []TransactionBatch{oneTxBatch(FeeTierZero, 1), oneTxBatch(FeeTierOne, 2)}
	proof, err := AggregateBlockTransactions(1, batches, hashmerkle.Zero, 1000)
	require.NoError(t, err)
	require.EqualValues(t, 2, proof.TxCount)
}
