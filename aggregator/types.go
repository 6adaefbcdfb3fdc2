// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package aggregator implements recursive zero-knowledge proof
// aggregation (spec.md §4.6): folding every transaction proof in a
// block into one BlockAggregatedProof, composing that with the prior
// chain's ChainRecursiveProof to bind a new O(1)-verifiable chain tip,
// and verifying a chain proof without touching any individual
// transaction or block.
package aggregator

import (
	"github.com/zhtp/web4/hashmerkle"
	"github.com/zhtp/web4/zkproof"
)

// FeeTier enumerates the four supported transaction fee tiers.
type FeeTier uint8

const (
	FeeTierZero FeeTier = iota
	FeeTierOne
	FeeTierTwo
	FeeTierThree
)

// baseFees maps each FeeTier to its base fee, per spec.md §4.6 step 5:
// {0↦1, 1↦5, 2↦10, 3↦20}.
var baseFees = map[FeeTier]uint64{
	FeeTierZero:  1,
	FeeTierOne:   5,
	FeeTierTwo:   10,
	FeeTierThree: 20,
}

// BaseFee returns the base fee for tier, and whether tier is known.
func BaseFee(tier FeeTier) (uint64, bool) {
	fee, ok := baseFees[tier]
	return fee, ok
}

// TransactionBatch is one group of transactions sharing a fee tier,
// contributing amount/balance/nullifier proofs to the block's aggregate.
type TransactionBatch struct {
	FeeTier FeeTier
	TxHashes []hashmerkle.Hash
	AmountProofs    []zkproof.ZkProof
	BalanceProofs   []zkproof.ZkProof
	NullifierProofs []zkproof.ZkProof
}

// Count returns the number of transactions in the batch.
func (b TransactionBatch) Count() int { return len(b.TxHashes) }

// BlockAggregatedProof is the single proof asserting every transaction
// in a block was valid and its state transition correct (spec.md §3).
type BlockAggregatedProof struct {
	Height            uint64
	TxMerkleRoot      hashmerkle.Hash
	PrevStateRoot     hashmerkle.Hash
	NewStateRoot      hashmerkle.Hash
	AggregatedTxProof zkproof.ZkProof
	StateTransitionProof zkproof.ZkProof
	TxCount           uint32
	TotalFees         uint64
	BlockTimestamp    int64 // unix seconds
}

// ChainRecursiveProof asserts the entire chain from genesis_height to
// tip_height is valid in O(1) (spec.md §3).
type ChainRecursiveProof struct {
	TipHeight       uint64
	GenesisHeight   uint64
	CurrentStateRoot hashmerkle.Hash
	GenesisStateRoot hashmerkle.Hash
	RecursiveProof  zkproof.ZkProof
	ChainCommitment hashmerkle.Hash
	TotalTxCount    uint64
	ProofTimestamp  int64 // unix seconds
}

// chainCommitmentTag domain-separates the chain commitment hash per
// spec.md §3: H(genesis_height || tip_height || genesis_state_root ||
// current_state_root || "CHAIN_COMMITMENT_TAG").
const chainCommitmentTag = "CHAIN_COMMITMENT_TAG"

// ComputeChainCommitment computes the chain_commitment invariant.
func ComputeChainCommitment(genesisHeight, tipHeight uint64, genesisStateRoot, currentStateRoot hashmerkle.Hash) hashmerkle.Hash {
	return hashmerkle.H(
		uint64Bytes(genesisHeight),
		uint64Bytes(tipHeight),
		genesisStateRoot[:],
		currentStateRoot[:],
		[]byte(chainCommitmentTag),
	)
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// RecursiveChainSystemTag is the canonical system tag a verified
// ChainRecursiveProof.RecursiveProof must carry (spec.md §4.6 step 1).
const RecursiveChainSystemTag = "plonky2_recursive_chain"

// StateTransitionSystemTag is the system tag a block's
// StateTransitionProof carries (spec.md §4.6 step 4).
const StateTransitionSystemTag = "plonky2_state_transition"
