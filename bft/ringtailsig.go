// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import (
	"fmt"

	rt "github.com/luxfi/crypto/ringtail"
)

// KeyResolver maps a validator identity to its ringtail public key.
// RingtailVerifier consults one rather than carrying keys itself, so
// the same verifier instance can serve a validator set that changes
// across heights.
type KeyResolver interface {
	PublicKey(id IdentityID) (pk []byte, ok bool)
}

// StaticKeyResolver is a KeyResolver backed by a fixed map, suitable for
// tests and for validator sets that are pinned for a run's lifetime.
type StaticKeyResolver map[IdentityID][]byte

func (r StaticKeyResolver) PublicKey(id IdentityID) ([]byte, bool) {
	pk, ok := r[id]
	return pk, ok
}

// RingtailVerifier is the default production SignatureVerifier
// (spec.md §4.5): it checks a vote or proposal signature against the
// post-quantum ringtail scheme, resolving the signer's public key
// through keys. An identity with no registered key, or an empty
// signature, never verifies.
type RingtailVerifier struct {
	keys KeyResolver
}

// NewRingtailVerifier constructs a RingtailVerifier over keys.
func NewRingtailVerifier(keys KeyResolver) *RingtailVerifier {
	return &RingtailVerifier{keys: keys}
}

func (v *RingtailVerifier) Verify(signer IdentityID, message, signature []byte) bool {
	if len(signature) == 0 {
		return false
	}
	pk, ok := v.keys.PublicKey(signer)
	if !ok {
		return false
	}
	return rt.VerifyShare(pk, message, signature)
}

// RingtailSigner produces ringtail detached signatures for a single
// validator key, matching what RingtailVerifier checks. A validator
// holds one RingtailSigner for its own key and signs every vote and
// proposal it casts with it.
type RingtailSigner struct {
	precomp rt.Precomp
}

// NewRingtailSigner precomputes a signing share from sk, a ringtail
// secret key produced by rt.KeyGen. The secret key itself is not
// retained past precomputation.
func NewRingtailSigner(sk []byte) (*RingtailSigner, error) {
	precomp, err := rt.Precompute(sk)
	if err != nil {
		return nil, fmt.Errorf("bft: precompute ringtail key: %w", err)
	}
	return &RingtailSigner{precomp: precomp}, nil
}

func (s *RingtailSigner) Sign(message []byte) ([]byte, error) {
	share, err := rt.QuickSign(s.precomp, message)
	if err != nil {
		return nil, fmt.Errorf("bft: sign message: %w", err)
	}
	return share, nil
}
