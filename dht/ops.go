// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dht

import (
	"sync"
	"time"

	"github.com/zhtp/web4/hashmerkle"
)

func hashKey(key string) hashmerkle.Hash {
	return hashmerkle.H([]byte(key))
}

// storedValue is one row of the local key/value store STORE persists
// into, with an expiry derived from its TTL.
type storedValue struct {
	value   []byte
	expires time.Time
}

// Node ties together a peer Registry, a local key/value store, and the
// sequence/replay bookkeeping needed to answer the four DHT operations
// of spec.md §4.4.
type Node struct {
	Self     NodeID
	Registry *Registry
	Sequence SequenceCounter

	mu     sync.RWMutex
	values map[string]storedValue
}

// NewNode constructs a Node centered on self with its own Registry.
func NewNode(self NodeID, k, maxRegistrySize int) *Node {
	return &Node{
		Self:     self,
		Registry: NewRegistry(self, k, maxRegistrySize),
		values:   make(map[string]storedValue),
	}
}

// Ping answers a PING with PONG, stamped with the next sequence number.
func (n *Node) Ping(from NodeID, now time.Time) DhtMessage {
	return n.reply(MsgPong, from, nil, now)
}

// FindNode answers FIND_NODE(target) with up to k closest peers from
// this node's own registry, serialized as a flat concatenation of
// NodeIDs.
func (n *Node) FindNode(target NodeID, now time.Time) DhtMessage {
	closest := n.Registry.FindClosest(target, n.Registry.k)
	payload := make([]byte, 0, len(closest)*NodeIDSize)
	for _, id := range closest {
		payload = append(payload, id[:]...)
	}
	return n.reply(MsgFindNode, target, payload, now)
}

// FindValue answers FIND_VALUE(key): if key is locally held and not
// expired, its value is returned; otherwise the closest known peers are
// returned instead, exactly as FindNode would.
func (n *Node) FindValue(key string, now time.Time) (value []byte, found bool, closest []NodeID) {
	n.mu.RLock()
	sv, ok := n.values[key]
	n.mu.RUnlock()
	if ok && now.Before(sv.expires) {
		return sv.value, true, nil
	}

	target := keyToNodeID(key)
	return nil, false, n.Registry.FindClosest(target, n.Registry.k)
}

// Store persists key/value locally with the given TTL.
func (n *Node) Store(key string, value []byte, ttl time.Duration, now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.values[key] = storedValue{value: append([]byte(nil), value...), expires: now.Add(ttl)}
}

// PurgeExpired removes every stored value whose TTL has elapsed as of
// now, returning the number removed.
func (n *Node) PurgeExpired(now time.Time) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	removed := 0
	for k, sv := range n.values {
		if !now.Before(sv.expires) {
			delete(n.values, k)
			removed++
		}
	}
	return removed
}

// Receive authenticates and dispatches an inbound DhtMessage: freshness
// and replay are checked first (§4.4: "receivers validate freshness
// before any further processing"), then the message's signature is
// verified against its claimed Sender before any request is acted on.
// Only PING and FIND_NODE are answered directly; FIND_VALUE and STORE
// carry an application-defined payload this package leaves to the
// caller to decode.
func (n *Node) Receive(m DhtMessage, guard *ReplayGuard, verifier MessageVerifier, now time.Time) (DhtMessage, error) {
	if err := guard.CheckAndRecord(m, now); err != nil {
		return DhtMessage{}, err
	}
	if err := m.Authenticate(verifier); err != nil {
		return DhtMessage{}, err
	}

	switch m.Type {
	case MsgPing:
		return n.Ping(m.Sender, now), nil
	case MsgFindNode:
		var target NodeID
		copy(target[:], m.Payload)
		return n.FindNode(target, now), nil
	default:
		return DhtMessage{}, ErrUnsupportedMessage
	}
}

func (n *Node) reply(t MessageType, target NodeID, payload []byte, now time.Time) DhtMessage {
	return DhtMessage{
		Type:           t,
		Sender:         n.Self,
		SequenceNumber: n.Sequence.Next(),
		Timestamp:      now.Unix(),
		Payload:        payload,
	}
}

// keyToNodeID derives the NodeID a STORE/FIND_VALUE key maps to in
// keyspace, by BLAKE3-hashing the key and taking its leading
// NodeIDSize bytes — the standard Kademlia content-addressing scheme.
func keyToNodeID(key string) NodeID {
	h := hashKey(key)
	var id NodeID
	copy(id[:], h[:])
	return id
}
