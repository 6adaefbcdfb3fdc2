// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chaintypes holds the core blockchain data model shared by the
// edge node, consensus engine, and proof aggregator: block headers,
// transactions, and UTXOs.
package chaintypes

import (
	"encoding/binary"
	"errors"

	"github.com/zhtp/web4/hashmerkle"
)

// ErrHeaderHashMismatch is returned when a header's stored BlockHash does
// not equal the hash of its own serialized contents.
var ErrHeaderHashMismatch = errors.New("chaintypes: block_hash does not match H(serialize(header))")

// BlockHeader is the canonical, self-describing block header.
type BlockHeader struct {
	Version              uint32
	PrevHash             hashmerkle.Hash
	MerkleRoot           hashmerkle.Hash
	Timestamp            uint64 // unix seconds
	Difficulty           uint32
	Nonce                uint64
	Height               uint64
	BlockHash            hashmerkle.Hash
	TxCount              uint32
	Size                 uint32
	CumulativeDifficulty uint64
}

// serializeBody encodes every field except BlockHash, in a fixed,
// explicit big-endian layout, for hashing and signing.
func (h BlockHeader) serializeBody() []byte {
	buf := make([]byte, 4+hashmerkle.Size+hashmerkle.Size+8+4+8+8+4+4+8)
	off := 0
	binary.BigEndian.PutUint32(buf[off:], h.Version)
	off += 4
	copy(buf[off:], h.PrevHash[:])
	off += hashmerkle.Size
	copy(buf[off:], h.MerkleRoot[:])
	off += hashmerkle.Size
	binary.BigEndian.PutUint64(buf[off:], h.Timestamp)
	off += 8
	binary.BigEndian.PutUint32(buf[off:], h.Difficulty)
	off += 4
	binary.BigEndian.PutUint64(buf[off:], h.Nonce)
	off += 8
	binary.BigEndian.PutUint64(buf[off:], h.Height)
	off += 8
	binary.BigEndian.PutUint32(buf[off:], h.TxCount)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], h.Size)
	off += 4
	binary.BigEndian.PutUint64(buf[off:], h.CumulativeDifficulty)
	return buf
}

// ComputeHash computes block_hash = H(serialize(header \ {block_hash})).
func (h BlockHeader) ComputeHash() hashmerkle.Hash {
	return hashmerkle.H(h.serializeBody())
}

// Finalize sets BlockHash to ComputeHash() and returns the header. Callers
// constructing a new header should call this before storing it.
func (h BlockHeader) Finalize() BlockHeader {
	h.BlockHash = h.ComputeHash()
	return h
}

// VerifyHash checks the block_hash invariant.
func (h BlockHeader) VerifyHash() error {
	if !hashmerkle.Equal(h.BlockHash, h.ComputeHash()) {
		return ErrHeaderHashMismatch
	}
	return nil
}
