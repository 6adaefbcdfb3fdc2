// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintypes

import (
	"github.com/zhtp/web4/hashmerkle"
	"github.com/zhtp/web4/zkproof"
)

// MaxMemoBytes bounds the Transaction.Memo field (spec.md §3).
const MaxMemoBytes = 1024

// Outpoint identifies a previously created Output.
type Outpoint struct {
	TxHash      hashmerkle.Hash
	OutputIndex uint32
}

// ZeroOutpoint is the sentinel outpoint referenced only by system
// transactions (coinbase-style issuance, with no real prior output).
var ZeroOutpoint = Outpoint{}

// IsZero reports whether o is the zero outpoint.
func (o Outpoint) IsZero() bool {
	return o == ZeroOutpoint
}

// Input spends a prior Output, proving ownership and non-double-spend via
// a ZK nullifier proof.
type Input struct {
	PrevOutpoint Outpoint
	OutputIndex  uint32
	Nullifier    hashmerkle.Hash
	ZkProof      zkproof.TransactionProof
}

// Output creates a new spendable note, hiding its amount behind an opaque
// Pedersen-class commitment.
type Output struct {
	Commitment hashmerkle.Hash
	Note       hashmerkle.Hash
	Recipient  []byte // PublicKey, opaque to this package
}

// TxType distinguishes transaction payload kinds.
type TxType uint8

const (
	TxTransfer TxType = iota
	TxSystem
	TxStake
	TxUnstake
)

// Transaction is a fully-formed, signed transaction.
type Transaction struct {
	Version   uint32
	ChainID   hashmerkle.Hash
	Type      TxType
	Inputs    []Input
	Outputs   []Output
	Fee       uint64
	Signature []byte
	Memo      []byte
	Payload   []byte // type-specific payload, opaque here
}

// IsSystem reports whether tx is a system transaction: all inputs
// reference the zero outpoint. Per spec.md §3, only system transactions
// may have empty inputs, so a transaction with zero inputs is trivially
// a system transaction too.
func (tx Transaction) IsSystem() bool {
	for _, in := range tx.Inputs {
		if !in.PrevOutpoint.IsZero() {
			return false
		}
	}
	return true
}

// Hash computes a content hash of the transaction over its signable
// fields plus signature, used as the tx_hash key in UTXO lookups and
// Merkle leaves.
func (tx Transaction) Hash() hashmerkle.Hash {
	var parts [][]byte
	parts = append(parts, []byte{byte(tx.Version), byte(tx.Type)})
	parts = append(parts, tx.ChainID[:])
	for _, in := range tx.Inputs {
		parts = append(parts, in.PrevOutpoint.TxHash[:], in.Nullifier[:])
	}
	for _, out := range tx.Outputs {
		parts = append(parts, out.Commitment[:], out.Note[:])
	}
	parts = append(parts, tx.Memo, tx.Payload, tx.Signature)
	return hashmerkle.H(parts...)
}
