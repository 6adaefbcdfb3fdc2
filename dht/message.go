// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dht

import (
	"encoding/binary"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhtp/web4/dag/witness"
)

// MessageType enumerates the DHT wire operations of spec.md §4.4.
type MessageType uint8

const (
	MsgPing MessageType = iota
	MsgPong
	MsgFindNode
	MsgFindValue
	MsgStore
)

var (
	// ErrStaleMessage rejects a DhtMessage outside the freshness window.
	ErrStaleMessage = errors.New("dht: message timestamp outside freshness window")
	// ErrReplayedMessage rejects a DhtMessage whose nonce has already
	// been observed from this sender.
	ErrReplayedMessage = errors.New("dht: message nonce already seen (replay)")
	// ErrInvalidSignature rejects a DhtMessage whose Signature does not
	// verify against its claimed Sender.
	ErrInvalidSignature = errors.New("dht: signature verification failed")
	// ErrUnsupportedMessage rejects a DhtMessage of a type Receive does
	// not know how to answer.
	ErrUnsupportedMessage = errors.New("dht: message type not handled")
)

// freshnessWindow bounds how far a DhtMessage's timestamp may drift
// from the receiver's clock before it is rejected, matching the ±5
// minute tolerance used throughout the handshake layer (§3).
const freshnessWindow = 5 * time.Minute

// DhtMessage is the wire envelope every DHT operation travels in. Its
// serialization is deterministic (fixed field order, fixed-width
// integers) so SignableData reproduces identically between signer and
// verifier.
type DhtMessage struct {
	Type           MessageType
	Sender         NodeID
	SequenceNumber uint64
	Nonce          [16]byte
	Timestamp      int64 // unix seconds
	Payload        []byte
	Signature      []byte // post-quantum signature over SignableData(); absent (nil) on unsigned transports
}

// SignableData returns the deterministic byte layout every field except
// Signature is encoded into, in field-declaration order with fixed-width
// integers throughout.
func (m DhtMessage) SignableData() []byte {
	buf := make([]byte, 0, 1+NodeIDSize+8+16+8+4+len(m.Payload))
	buf = append(buf, byte(m.Type))
	buf = append(buf, m.Sender[:]...)
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], m.SequenceNumber)
	buf = append(buf, seq[:]...)
	buf = append(buf, m.Nonce[:]...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(m.Timestamp))
	buf = append(buf, ts[:]...)
	var plen [4]byte
	binary.BigEndian.PutUint32(plen[:], uint32(len(m.Payload)))
	buf = append(buf, plen[:]...)
	buf = append(buf, m.Payload...)
	return buf
}

// MessageVerifier authenticates a DhtMessage's signature against its
// claimed Sender, mirroring bft.SignatureVerifier for the DHT wire
// protocol (spec.md §4.4).
type MessageVerifier interface {
	Verify(sender NodeID, message, signature []byte) bool
}

// Authenticate checks m's signature through verifier. A nil verifier or
// empty signature never authenticates; callers that want to accept
// unsigned transports must not call Authenticate at all rather than
// pass a nil verifier.
func (m DhtMessage) Authenticate(verifier MessageVerifier) error {
	if verifier == nil || len(m.Signature) == 0 || !verifier.Verify(m.Sender, m.SignableData(), m.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

// ValidateFreshness rejects m if its timestamp falls outside
// freshnessWindow of now.
func (m DhtMessage) ValidateFreshness(now time.Time) error {
	t := time.Unix(m.Timestamp, 0)
	if t.Before(now.Add(-freshnessWindow)) || t.After(now.Add(freshnessWindow)) {
		return ErrStaleMessage
	}
	return nil
}

// SequenceCounter is a per-sender monotonically increasing counter used
// to stamp outgoing DhtMessages.
type SequenceCounter struct {
	value uint64
}

// Next returns the next sequence number, starting at 1.
func (c *SequenceCounter) Next() uint64 { return atomic.AddUint64(&c.value, 1) }

// defaultSeenCacheEntries is the floor on the seen-nonce cache size:
// spec.md §4.4 requires at least last (300/avg_inter_msg) entries per
// sender. Over a 5-minute freshness window, 4096 entries cover about 13
// senders at 1 msg/sec (300 entries each) or about 400 senders at one
// message per 30 seconds, without letting the cache grow without bound.
const defaultSeenCacheEntries = 4096

// senderNonce is the composite key a seen-nonce entry is recorded
// under: Sender is attacker-controlled and unauthenticated at this
// layer, so the cache is bounded in total size rather than keyed per
// sender — an attacker minting fresh forged Sender IDs cannot grow
// memory past capacity, only evict older legitimate entries at
// whatever rate a normal sender would anyway (spec.md §9 Open
// Question 3).
type senderNonce struct {
	sender NodeID
	nonce  [16]byte
}

// ReplayGuard maintains a single bounded LRU of recently observed
// (sender, nonce) pairs, rejecting any DhtMessage whose nonce repeats
// within the window before it reaches further processing.
type ReplayGuard struct {
	mu    sync.Mutex
	cache *witness.LRU[senderNonce, struct{}]
}

// NewReplayGuard constructs a guard that tracks up to capacity total
// (sender, nonce) entries across all senders combined (0 uses
// defaultSeenCacheEntries).
func NewReplayGuard(capacity int) *ReplayGuard {
	if capacity <= 0 {
		capacity = defaultSeenCacheEntries
	}
	return &ReplayGuard{cache: witness.NewLRU[senderNonce, struct{}](capacity, 0, func(struct{}) int { return 0 })}
}

// CheckAndRecord validates freshness and replay for m. Freshness is
// checked first, as the protocol requires (§4.4: "receivers validate
// freshness before any further processing").
func (g *ReplayGuard) CheckAndRecord(m DhtMessage, now time.Time) error {
	if err := m.ValidateFreshness(now); err != nil {
		return err
	}

	key := senderNonce{sender: m.Sender, nonce: m.Nonce}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, seen := g.cache.Get(key); seen {
		return ErrReplayedMessage
	}
	g.cache.Put(key, struct{}{})
	return nil
}
