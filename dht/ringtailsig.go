// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dht

import (
	"fmt"

	rt "github.com/luxfi/crypto/ringtail"
)

// NodeKeyResolver maps a NodeID to its ringtail public key.
type NodeKeyResolver interface {
	PublicKey(id NodeID) (pk []byte, ok bool)
}

// StaticNodeKeyResolver is a NodeKeyResolver backed by a fixed map,
// suitable for tests and small fixed-membership networks.
type StaticNodeKeyResolver map[NodeID][]byte

func (r StaticNodeKeyResolver) PublicKey(id NodeID) ([]byte, bool) {
	pk, ok := r[id]
	return pk, ok
}

// RingtailMessageVerifier is the default production MessageVerifier
// (spec.md §4.4): it checks a DhtMessage signature against the
// post-quantum ringtail scheme, resolving the sender's public key
// through keys.
type RingtailMessageVerifier struct {
	keys NodeKeyResolver
}

// NewRingtailMessageVerifier constructs a RingtailMessageVerifier over keys.
func NewRingtailMessageVerifier(keys NodeKeyResolver) *RingtailMessageVerifier {
	return &RingtailMessageVerifier{keys: keys}
}

func (v *RingtailMessageVerifier) Verify(sender NodeID, message, signature []byte) bool {
	if len(signature) == 0 {
		return false
	}
	pk, ok := v.keys.PublicKey(sender)
	if !ok {
		return false
	}
	return rt.VerifyShare(pk, message, signature)
}

// RingtailMessageSigner produces ringtail detached signatures over a
// DhtMessage's SignableData, matching what RingtailMessageVerifier
// checks. A node holds one for its own key and signs every message it
// sends with it.
type RingtailMessageSigner struct {
	precomp rt.Precomp
}

// NewRingtailMessageSigner precomputes a signing share from sk, a
// ringtail secret key produced by rt.KeyGen.
func NewRingtailMessageSigner(sk []byte) (*RingtailMessageSigner, error) {
	precomp, err := rt.Precompute(sk)
	if err != nil {
		return nil, fmt.Errorf("dht: precompute ringtail key: %w", err)
	}
	return &RingtailMessageSigner{precomp: precomp}, nil
}

// Sign signs m's SignableData and returns m with Signature populated.
func (s *RingtailMessageSigner) Sign(m DhtMessage) (DhtMessage, error) {
	share, err := rt.QuickSign(s.precomp, m.SignableData())
	if err != nil {
		return DhtMessage{}, fmt.Errorf("dht: sign message: %w", err)
	}
	m.Signature = share
	return m, nil
}
