// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package edge implements the SPV edge-node client of spec.md §4.2: a
// rolling header window, owned-UTXO tracking, payment verification by
// Merkle inclusion, and reorg detection/rollback.
package edge

import (
	"time"

	"github.com/luxfi/log"

	"github.com/zhtp/web4/chaintypes"
	"github.com/zhtp/web4/hashmerkle"
	nolog "github.com/zhtp/web4/log"
)

// maxFutureDrift bounds how far ahead of wall-clock a header's timestamp
// may be before add_header rejects it.
const maxFutureDrift = 2 * time.Hour

// MinMaxHeaders and MaxMaxHeaders span the usual header window size N
// (100 to 500, spec.md §4.2): New uses MinMaxHeaders when given a
// non-positive size and caps larger sizes at MaxMaxHeaders.
const (
	MinMaxHeaders = 100
	MaxMaxHeaders = 500
)

// MyAddressChecker decides whether an Output is addressed to this node.
// Production implementations check the recipient against the node's own
// viewing/spending keys; it is injected so State stays key-material
// agnostic.
type MyAddressChecker interface {
	IsMine(out chaintypes.Output) bool
}

// State is the SPV edge node's retained view of the chain: a bounded
// window of headers, the UTXOs it owns, and the set of addresses it
// tracks.
type State struct {
	maxHeaders int
	headers    []chaintypes.BlockHeader // ascending by height, oldest first
	utxos      chaintypes.UTXOSet
	mine       MyAddressChecker
	log        log.Logger

	// lastReorg records the height rollback_to_height last truncated to,
	// for observability; zero if no reorg has occurred.
	lastReorg uint64
}

// New constructs an edge State retaining at most maxHeaders headers.
// A non-positive maxHeaders selects MinMaxHeaders and a value above
// MaxMaxHeaders is lowered to it; smaller positive windows are kept.
func New(maxHeaders int, mine MyAddressChecker, logger log.Logger) *State {
	if maxHeaders <= 0 {
		maxHeaders = MinMaxHeaders
	}
	if maxHeaders > MaxMaxHeaders {
		maxHeaders = MaxMaxHeaders
	}
	if logger == nil {
		logger = nolog.NewNoOpLogger()
	}
	return &State{
		maxHeaders: maxHeaders,
		utxos:      chaintypes.NewUTXOSet(),
		mine:       mine,
		log:        logger,
	}
}

// Tip returns the most recently accepted header and whether one exists.
func (s *State) Tip() (chaintypes.BlockHeader, bool) {
	if len(s.headers) == 0 {
		return chaintypes.BlockHeader{}, false
	}
	return s.headers[len(s.headers)-1], true
}

// Headers returns a copy of the retained header window, oldest first.
func (s *State) Headers() []chaintypes.BlockHeader {
	out := make([]chaintypes.BlockHeader, len(s.headers))
	copy(out, s.headers)
	return out
}

// Len returns the number of retained headers.
func (s *State) Len() int {
	return len(s.headers)
}

// AddHeader validates and appends h, evicting the oldest header if the
// window exceeds maxHeaders. It also detects forks: an incoming header
// at tip.height+1 whose prev_hash disagrees with the tip signals a reorg
// to the caller via the returned bool.
func (s *State) AddHeader(h chaintypes.BlockHeader) (reorgDetected bool, err error) {
	if h.Version == 0 {
		return false, ErrInvalidVersion
	}
	if err := h.VerifyHash(); err != nil {
		return false, ErrHashMismatch
	}
	if time.Unix(int64(h.Timestamp), 0).After(time.Now().Add(maxFutureDrift)) {
		return false, ErrFutureTimestamp
	}

	tip, hasTip := s.Tip()
	if hasTip {
		if h.Height == tip.Height+1 && !hashmerkle.Equal(h.PrevHash, tip.BlockHash) {
			reorgDetected = true
			s.log.Warn("reorg detected", "height", h.Height, "tip_hash", tip.BlockHash.String(), "incoming_prev_hash", h.PrevHash.String())
		}
		if h.Height != tip.Height+1 {
			return reorgDetected, ErrHeightMismatch
		}
		if !hashmerkle.Equal(h.PrevHash, tip.BlockHash) {
			return reorgDetected, ErrPrevHashMismatch
		}
		if h.Timestamp <= tip.Timestamp {
			return reorgDetected, ErrTimestampNotIncreasing
		}
		if h.CumulativeDifficulty < tip.CumulativeDifficulty {
			s.log.Warn("cumulative difficulty decreased", "height", h.Height, "prev", tip.CumulativeDifficulty, "new", h.CumulativeDifficulty)
		}
	}

	s.headers = append(s.headers, h)
	for len(s.headers) > s.maxHeaders {
		s.headers = s.headers[1:]
	}
	return reorgDetected, nil
}

// headerAtHeight returns the retained header at height, if any.
func (s *State) headerAtHeight(height uint64) (chaintypes.BlockHeader, bool) {
	for _, h := range s.headers {
		if h.Height == height {
			return h, true
		}
	}
	return chaintypes.BlockHeader{}, false
}

// ProcessBlock adds h via AddHeader, then verifies the reconstructed
// Merkle root of txs equals h.MerkleRoot, then updates the UTXO set:
// outputs addressed to this node become new UTXOs; inputs present in
// txs remove the UTXOs they spend.
func (s *State) ProcessBlock(h chaintypes.BlockHeader, txs []chaintypes.Transaction) (reorgDetected bool, err error) {
	reorgDetected, err = s.AddHeader(h)
	if err != nil {
		return reorgDetected, err
	}

	leaves := make([]hashmerkle.Hash, len(txs))
	for i, tx := range txs {
		leaves[i] = tx.Hash()
	}
	root, err := hashmerkle.ComputeRoot(leaves)
	if err != nil && len(txs) > 0 {
		return reorgDetected, err
	}
	if len(txs) > 0 && !hashmerkle.Equal(root, h.MerkleRoot) {
		return reorgDetected, ErrMerkleRootMismatch
	}

	for _, tx := range txs {
		txHash := tx.Hash()
		for idx, out := range tx.Outputs {
			if s.mine != nil && s.mine.IsMine(out) {
				s.utxos.Add(chaintypes.UTXOKey{TxHash: txHash, OutputIndex: uint32(idx)}, out)
			}
		}
		for _, in := range tx.Inputs {
			if in.PrevOutpoint.IsZero() {
				continue
			}
			s.utxos.Remove(chaintypes.UTXOKey{TxHash: in.PrevOutpoint.TxHash, OutputIndex: in.OutputIndex})
		}
	}
	return reorgDetected, nil
}

// VerifiedPayment is the result of a successful VerifyPayment call. The
// amount remains encrypted at the edge; only the commitment's existence
// and inclusion are asserted.
type VerifiedPayment struct {
	TxHash     hashmerkle.Hash
	Commitment hashmerkle.Hash
	Height     uint64
}

// VerifyPayment confirms that output (at tx_hash/idx) is addressed to
// this node, then checks proof against the retained header for height.
func (s *State) VerifyPayment(txHash hashmerkle.Hash, idx uint32, output chaintypes.Output, proof hashmerkle.Proof, height uint64) (VerifiedPayment, error) {
	if s.mine != nil && !s.mine.IsMine(output) {
		return VerifiedPayment{}, ErrNotMyPayment
	}
	h, ok := s.headerAtHeight(height)
	if !ok {
		return VerifiedPayment{}, ErrHeaderNotFound
	}

	leaf := hashmerkle.H(txHash[:], output.Commitment[:], output.Note[:])
	if !hashmerkle.VerifyProof(leaf, proof, h.MerkleRoot) {
		return VerifiedPayment{}, ErrMerkleProofInvalid
	}

	return VerifiedPayment{
		TxHash:     txHash,
		Commitment: output.Commitment,
		Height:     height,
	}, nil
}

// RollbackToHeight pops every header with height > t, leaving UTXOs to be
// re-derived from the new canonical chain by the caller re-syncing.
func (s *State) RollbackToHeight(t uint64) {
	kept := s.headers[:0]
	for _, h := range s.headers {
		if h.Height <= t {
			kept = append(kept, h)
		}
	}
	s.headers = kept
	s.lastReorg = t
	s.log.Info("rolled back header window", "to_height", t, "remaining", len(s.headers))
}

// UTXOs exposes a read-only copy of the tracked UTXO set.
func (s *State) UTXOs() chaintypes.UTXOSet {
	out := chaintypes.NewUTXOSet()
	for k, v := range s.utxos {
		out[k] = v
	}
	return out
}
