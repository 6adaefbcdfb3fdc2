// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package uhp

import (
	"sync"

	"github.com/zhtp/web4/hashmerkle"
)

// Tier classifies a peer by its on-chain stake, as established by the
// last step of the peer-verification algorithm.
type Tier int

const (
	TierUnverified Tier = iota
	TierStakedNode
	TierValidator
)

func (t Tier) String() string {
	switch t {
	case TierValidator:
		return "validator"
	case TierStakedNode:
		return "staked_node"
	default:
		return "unverified"
	}
}

// Minimum stake, in the chain's smallest accounting unit, required for
// each tier. A peer below StakedNode-min is Unverified.
const (
	MinValidatorStake  = 1000
	MinStakedNodeStake = 100
)

// DefaultMaxEpochDiff and DefaultMaxHeightDiff are the default bounds
// used by VerifyPeer when a HandshakeVerifier is constructed with
// NewHandshakeVerifier.
const (
	DefaultMaxEpochDiff  = 5
	DefaultMaxHeightDiff = 100
)

// BlockchainHandshakeContext is piggybacked in every Hello, carrying
// enough chain state for the peer-verification algorithm to run without
// a separate round trip.
type BlockchainHandshakeContext struct {
	ChainID          hashmerkle.Hash
	GenesisHash      hashmerkle.Hash
	Epoch            uint64
	Height           uint64
	BlockHash        hashmerkle.Hash
	ValidatorSetHash hashmerkle.Hash
	ClaimedStake     uint64
	IdentityID       hashmerkle.Hash // zero if the peer makes no stake claim
}

// StakeEntry is one row of the stake table: the authoritative on-chain
// stake for an identity, versioned by the epoch it was last observed at.
type StakeEntry struct {
	IdentityID hashmerkle.Hash
	Stake      uint64
	Epoch      uint64
}

// StakeTable is a concurrent-safe map from identity to its current
// StakeEntry. Writers take a write lock; an incoming entry overwrites
// the existing one only if it is not stale (its Epoch is >= the
// existing entry's Epoch). Readers take a read lock.
type StakeTable struct {
	mu      sync.RWMutex
	entries map[hashmerkle.Hash]StakeEntry
}

// NewStakeTable constructs an empty stake table.
func NewStakeTable() *StakeTable {
	return &StakeTable{entries: make(map[hashmerkle.Hash]StakeEntry)}
}

// Lookup returns the stake entry for identity, if any.
func (t *StakeTable) Lookup(identity hashmerkle.Hash) (StakeEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[identity]
	return e, ok
}

// Update installs entry, overwriting any existing row for the same
// identity unless the existing row is newer (higher epoch).
func (t *StakeTable) Update(entry StakeEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing, ok := t.entries[entry.IdentityID]
	if ok && existing.Epoch > entry.Epoch {
		return
	}
	t.entries[entry.IdentityID] = entry
}

// TierForStake maps a stake amount to its tier.
func TierForStake(stake uint64) Tier {
	switch {
	case stake >= MinValidatorStake:
		return TierValidator
	case stake >= MinStakedNodeStake:
		return TierStakedNode
	default:
		return TierUnverified
	}
}

// RateLimiter is satisfied by any per-IP handshake rate limiter; see
// package dht for the sliding-window implementation used in production.
type RateLimiter interface {
	Allow(ip string) bool
}

// HandshakeVerifier runs the blockchain-extension peer-verification
// algorithm of spec.md §4.3 against a node's own local chain view and
// stake table.
type HandshakeVerifier struct {
	Local         BlockchainHandshakeContext
	Stakes        *StakeTable
	RateLimit     RateLimiter
	MaxEpochDiff  uint64
	MaxHeightDiff uint64
}

// NewHandshakeVerifier constructs a verifier with the spec's default
// epoch/height tolerances.
func NewHandshakeVerifier(local BlockchainHandshakeContext, stakes *StakeTable, limiter RateLimiter) *HandshakeVerifier {
	return &HandshakeVerifier{
		Local:         local,
		Stakes:        stakes,
		RateLimit:     limiter,
		MaxEpochDiff:  DefaultMaxEpochDiff,
		MaxHeightDiff: DefaultMaxHeightDiff,
	}
}

// VerifyResult is the accepted outcome of VerifyPeer: the peer is not
// rejected, but may carry a fork or stake-mismatch warning.
type VerifyResult struct {
	Tier          Tier
	ForkDetected  bool
	StakeWarning  bool // accepted under the height-diff fallback of step 7
}

// VerifyPeer runs the 8-step peer-verification algorithm against peer,
// in the exact order the protocol specifies: rate limit, chain_id,
// genesis_hash, fork detection, epoch bounds, height bounds, validator-set
// check, then stake tiering.
func (v *HandshakeVerifier) VerifyPeer(peerIP string, peer BlockchainHandshakeContext) (VerifyResult, error) {
	// 1. Rate limiting.
	if v.RateLimit != nil && !v.RateLimit.Allow(peerIP) {
		return VerifyResult{}, ErrRateLimited
	}

	// 2. chain_id must match.
	if v.Local.ChainID != peer.ChainID {
		return VerifyResult{}, ErrChainIDMismatch
	}

	// 3. genesis_hash must match, constant-time.
	if !hashmerkle.Equal(v.Local.GenesisHash, peer.GenesisHash) {
		return VerifyResult{}, ErrGenesisMismatch
	}

	var result VerifyResult

	// 4. Fork detection: same height, different block hash.
	if v.Local.Height == peer.Height && v.Local.BlockHash != peer.BlockHash {
		result.ForkDetected = true
	}

	// 5. Epoch bounds, asymmetric.
	if peer.Epoch > v.Local.Epoch+1 {
		return result, ErrEpochOutOfBounds
	}
	maxEpochDiff := v.MaxEpochDiff
	if maxEpochDiff == 0 {
		maxEpochDiff = DefaultMaxEpochDiff
	}
	if v.Local.Epoch > peer.Epoch+maxEpochDiff {
		return result, ErrEpochOutOfBounds
	}

	// 6. Height bounds.
	maxHeightDiff := v.MaxHeightDiff
	if maxHeightDiff == 0 {
		maxHeightDiff = DefaultMaxHeightDiff
	}
	heightDiff := diffU64(v.Local.Height, peer.Height)
	withinHeightDiff := heightDiff <= maxHeightDiff
	if !withinHeightDiff {
		return result, ErrHeightOutOfBounds
	}

	// 7. Validator-set check.
	if v.Local.ValidatorSetHash != peer.ValidatorSetHash {
		// heightDiff <= maxHeightDiff was already established by step 6,
		// so the fallback always applies here; warn rather than reject.
		result.StakeWarning = true
	}

	// 8. Tiering.
	if peer.ClaimedStake == 0 && peer.IdentityID.IsZero() {
		result.Tier = TierUnverified
		return result, nil
	}
	entry, ok := v.Stakes.Lookup(peer.IdentityID)
	if !ok {
		result.Tier = TierUnverified
		return result, nil
	}
	if entry.Stake != peer.ClaimedStake {
		return result, ErrValidatorAuthFailed
	}
	result.Tier = TierForStake(entry.Stake)
	return result, nil
}

func diffU64(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
