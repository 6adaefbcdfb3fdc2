// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"sync"

	"github.com/zhtp/web4/dag/witness"
)

// CacheCapacity is the fixed capacity of both the block-proof and
// chain-proof LRU caches (spec.md §4.6: "LRU, capacity 1000 each, keyed
// by height").
const CacheCapacity = 1000

// Store caches BlockAggregatedProofs and ChainRecursiveProofs by height,
// reusing the generic LRU the rest of this module builds its caches on
// rather than a bespoke eviction structure.
//
// Locking follows spec.md §5: a RwLock around the LRU map, inserts under
// write lock, lookups under read lock. witness.LRU also guards each of
// its own operations with a mutex; Store's RWMutex is an outer lock on
// top of that.
type Store struct {
	mu          sync.RWMutex
	blockProofs *witness.LRU[uint64, BlockAggregatedProof]
	chainProofs *witness.LRU[uint64, ChainRecursiveProof]
}

// NewStore constructs a Store with both caches at CacheCapacity.
func NewStore() *Store {
	return &Store{
		blockProofs: witness.NewLRU[uint64, BlockAggregatedProof](CacheCapacity, 0, func(BlockAggregatedProof) int { return 0 }),
		chainProofs: witness.NewLRU[uint64, ChainRecursiveProof](CacheCapacity, 0, func(ChainRecursiveProof) int { return 0 }),
	}
}

// PutBlockProof caches proof by its own height.
func (s *Store) PutBlockProof(proof BlockAggregatedProof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockProofs.Put(proof.Height, proof)
}

// BlockProof returns the cached block proof at height, if present.
func (s *Store) BlockProof(height uint64) (BlockAggregatedProof, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockProofs.Get(height)
}

// PutChainProof caches proof by its tip height.
func (s *Store) PutChainProof(proof ChainRecursiveProof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chainProofs.Put(proof.TipHeight, proof)
}

// ChainProof returns the cached chain proof tipped at height, if present.
func (s *Store) ChainProof(height uint64) (ChainRecursiveProof, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chainProofs.Get(height)
}
