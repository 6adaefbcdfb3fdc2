// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dht implements the Kademlia-style peer registry, message
// envelope, and pluggable transport of spec.md §4.4.
package dht

import (
	"bytes"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/zhtp/web4/transport"
)

// NodeIDBits is the width of a NodeID in bits, giving 160 buckets — one
// per possible shared-prefix length, matching classic Kademlia.
const NodeIDBits = 160

// NodeIDSize is NodeIDBits in bytes.
const NodeIDSize = NodeIDBits / 8

// NodeID identifies a DHT participant.
type NodeID [NodeIDSize]byte

// Less orders two NodeIDs by byte order, used to break distance ties in
// FindClosest.
func (id NodeID) Less(other NodeID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// Distance returns the XOR metric between two NodeIDs.
func Distance(a, b NodeID) NodeID {
	var d NodeID
	for i := range a {
		d[i] = a[i] ^ b[i]
	}
	return d
}

// BucketIndex returns the k-bucket index [0, NodeIDBits) that target
// falls into relative to self: the position, counted from the least
// significant bit, of the highest set bit in their XOR distance, which
// is NodeIDBits-1 minus their shared-prefix length. Identical IDs have
// no valid bucket and return -1.
func BucketIndex(self, target NodeID) int {
	d := Distance(self, target)
	for i := 0; i < NodeIDSize; i++ {
		if d[i] == 0 {
			continue
		}
		// Highest set bit within this byte.
		for bit := 7; bit >= 0; bit-- {
			if d[i]&(1<<uint(bit)) != 0 {
				return NodeIDBits - 1 - (i*8 + (7 - bit))
			}
		}
	}
	return -1
}

// DefaultK is the typical k-bucket capacity from spec.md §4.4.
const DefaultK = 20

// DefaultFailureThreshold is the number of consecutive failures after
// which cleanup_failed_peers evicts an entry.
const DefaultFailureThreshold = 3

// DhtPeerEntry is one row of the peer registry: a known participant and
// its liveness bookkeeping.
type DhtPeerEntry struct {
	ID            NodeID
	Addr          transport.PeerId
	Failures      int
	LastContact   time.Time
	insertedAt    time.Time
}

var (
	// ErrRegistryFull rejects a new-peer insertion once the maxSize given
	// to NewRegistry is reached, preventing flooding.
	ErrRegistryFull = errors.New("dht: peer registry full")
	// ErrUnknownPeer is returned by operations on a NodeID the registry
	// has never seen.
	ErrUnknownPeer = errors.New("dht: unknown peer")
)

// Registry is the DHT peer registry: primary storage is a flat map from
// NodeID to DhtPeerEntry, with a secondary bucket-index (one set per
// k-bucket) giving O(1) bucket membership and size queries — the same
// shape as the reference peer registry, which replaced an array of
// per-bucket Vecs with a HashMap plus this secondary index to make
// "does peer X exist" and "what bucket is X in" both O(1) without
// scanning every bucket.
type Registry struct {
	mu      sync.RWMutex
	self    NodeID
	k       int
	maxSize int
	peers   map[NodeID]*DhtPeerEntry
	buckets [NodeIDBits]map[NodeID]struct{}
}

// NewRegistry constructs an empty registry centered on self.
func NewRegistry(self NodeID, k int, maxSize int) *Registry {
	if k <= 0 {
		k = DefaultK
	}
	if maxSize <= 0 {
		maxSize = k * NodeIDBits
	}
	r := &Registry{self: self, k: k, maxSize: maxSize, peers: make(map[NodeID]*DhtPeerEntry)}
	for i := range r.buckets {
		r.buckets[i] = make(map[NodeID]struct{})
	}
	return r
}

// Insert adds a newly observed peer. Returns ErrRegistryFull if the
// registry is already at capacity and id is not already present.
func (r *Registry) Insert(id NodeID, addr transport.PeerId, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.peers[id]; exists {
		return nil
	}
	if len(r.peers) >= r.maxSize {
		return ErrRegistryFull
	}
	idx := BucketIndex(r.self, id)
	if idx < 0 {
		return nil // self-insertion, not a peer
	}
	entry := &DhtPeerEntry{ID: id, Addr: addr, LastContact: now, insertedAt: now}
	r.peers[id] = entry
	r.buckets[idx][id] = struct{}{}
	return nil
}

// UpdateAddr updates an existing peer's address, returning false if id
// is unknown. Registry consults no rate limiter, here or in Insert.
func (r *Registry) UpdateAddr(id NodeID, addr transport.PeerId) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.peers[id]
	if !ok {
		return false
	}
	e.Addr = addr
	return true
}

// MarkFailed increments id's failure counter.
func (r *Registry) MarkFailed(id NodeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.peers[id]; ok {
		e.Failures++
	}
}

// MarkResponsive resets id's failure counter to zero and stamps
// LastContact.
func (r *Registry) MarkResponsive(id NodeID, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.peers[id]; ok {
		e.Failures = 0
		e.LastContact = now
	}
}

// CleanupFailedPeers evicts every entry whose Failures exceeds
// threshold, returning the evicted NodeIDs.
func (r *Registry) CleanupFailedPeers(threshold int) []NodeID {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []NodeID
	for id, e := range r.peers {
		if e.Failures > threshold {
			evicted = append(evicted, id)
			r.removeLocked(id)
		}
	}
	return evicted
}

func (r *Registry) removeLocked(id NodeID) {
	idx := BucketIndex(r.self, id)
	if idx >= 0 {
		delete(r.buckets[idx], id)
	}
	delete(r.peers, id)
}

// Get returns the entry for id, if present.
func (r *Registry) Get(id NodeID) (DhtPeerEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.peers[id]
	if !ok {
		return DhtPeerEntry{}, false
	}
	return *e, true
}

// Size returns the total number of registered peers.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// BucketSize returns the number of peers in bucket i, read in O(1) from
// the bucket's own membership set without touching the rest of the
// registry.
func (r *Registry) BucketSize(i int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= NodeIDBits {
		return 0
	}
	return len(r.buckets[i])
}

// PeersInBucket returns the NodeIDs in bucket i. O(1) in the sense of
// not touching any other bucket.
func (r *Registry) PeersInBucket(i int) []NodeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= NodeIDBits {
		return nil
	}
	out := make([]NodeID, 0, len(r.buckets[i]))
	for id := range r.buckets[i] {
		out = append(out, id)
	}
	return out
}

// FindClosest returns the min(n, k) peers closest to target by XOR
// distance, ascending, ties broken by NodeID byte order.
func (r *Registry) FindClosest(target NodeID, n int) []NodeID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > r.k {
		n = r.k
	}
	all := make([]NodeID, 0, len(r.peers))
	for id := range r.peers {
		all = append(all, id)
	}
	sort.Slice(all, func(i, j int) bool {
		di, dj := Distance(target, all[i]), Distance(target, all[j])
		cmp := bytes.Compare(di[:], dj[:])
		if cmp != 0 {
			return cmp < 0
		}
		return all[i].Less(all[j])
	})
	if n > len(all) {
		n = len(all)
	}
	if n < 0 {
		n = 0
	}
	return all[:n]
}
