// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package uhp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	// MinVersion and MaxVersion bound the negotiable protocol version.
	MinVersion = 1
	MaxVersion = 1

	// timestampTolerance is the ±window a Hello's timestamp must fall
	// within relative to the local clock.
	timestampTolerance = 5 * time.Minute

	// nonceSize is the size, in bytes, of the random nonce each Hello
	// carries for replay protection.
	nonceSize = 24

	sessionKeySize = chacha20poly1305.KeySize
)

// Mode distinguishes the Full handshake (both peers already hold a
// Sovereign ID) from the Provisional onboarding handshake.
type Mode int

const (
	// ModeFull runs the 3-move Client-Hello/Server-Hello/Client-Finish
	// exchange between two already-identified peers.
	ModeFull Mode = iota
	// ModeProvisional runs the 4-move Hello/Challenge/Proof/ID-Issued
	// exchange that ends by upgrading the peer to Full.
	ModeProvisional
)

// Hello is the first move of either mode: protocol negotiation, replay
// protection, and the piggybacked blockchain context.
type Hello struct {
	Version       uint32
	Random        []byte // nonceSize random bytes, also serves as the replay nonce
	Timestamp     int64  // unix seconds
	IdentityKey   []byte // Sovereign-ID public key (Full) or onboarding key (Provisional)
	Signature     []byte // signs Version||Random||Timestamp||IdentityKey
	BlockchainCtx BlockchainHandshakeContext
}

// ValidateTimestamp checks h.Timestamp against now within
// timestampTolerance, per the ±5 minute security invariant.
func (h Hello) ValidateTimestamp(now time.Time) error {
	t := time.Unix(h.Timestamp, 0)
	if t.Before(now.Add(-timestampTolerance)) || t.After(now.Add(timestampTolerance)) {
		return ErrStaleTimestamp
	}
	return nil
}

// ValidateVersion rejects a Hello negotiating a version outside
// [MinVersion, MaxVersion]. There is no silent downgrade path.
func (h Hello) ValidateVersion() error {
	if h.Version < MinVersion || h.Version > MaxVersion {
		return ErrVersionOutOfRange
	}
	return nil
}

// NonceSeen is satisfied by the replay cache the caller wires in (an LRU
// of recently observed Hello nonces).
type NonceSeen interface {
	// SeenOrRecord returns true if nonce was already recorded, and
	// records it (atomically, from the cache's point of view) if not.
	SeenOrRecord(nonce []byte) bool
}

// CheckReplay rejects h if its nonce has already been observed by seen.
func (h Hello) CheckReplay(seen NonceSeen) error {
	if seen == nil {
		return nil
	}
	if seen.SeenOrRecord(h.Random) {
		return ErrReplayedNonce
	}
	return nil
}

// Signer produces a detached signature over data under the identity key
// a Hello was built with.
type Signer interface {
	Sign(data []byte) ([]byte, error)
}

// SignatureVerifier checks a detached signature over data against a
// claimed identity key.
type SignatureVerifier interface {
	Verify(identityKey, data, signature []byte) bool
}

// SignableData returns the exact byte layout h.Signature covers:
// Version||Random||Timestamp||IdentityKey, fixed-width integers
// throughout, matching the Signature field's own doc comment.
func (h Hello) SignableData() []byte {
	buf := make([]byte, 0, 4+len(h.Random)+8+len(h.IdentityKey))
	var v [4]byte
	binary.BigEndian.PutUint32(v[:], h.Version)
	buf = append(buf, v[:]...)
	buf = append(buf, h.Random...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(h.Timestamp))
	buf = append(buf, ts[:]...)
	buf = append(buf, h.IdentityKey...)
	return buf
}

// Sign signs h's SignableData with signer and sets h.Signature.
func (h *Hello) Sign(signer Signer) error {
	sig, err := signer.Sign(h.SignableData())
	if err != nil {
		return fmt.Errorf("uhp: sign hello: %w", err)
	}
	h.Signature = sig
	return nil
}

// VerifySignature checks h.Signature against h.IdentityKey through
// verifier. A nil verifier, an empty signature, and a failed check all
// reject via ErrSignatureInvalid — there is no path that treats a
// missing signature as acceptable.
func (h Hello) VerifySignature(verifier SignatureVerifier) error {
	if verifier == nil || len(h.Signature) == 0 || !verifier.Verify(h.IdentityKey, h.SignableData(), h.Signature) {
		return ErrSignatureInvalid
	}
	return nil
}

// NewHello builds a Hello carrying the given identity key and blockchain
// context, stamped with the current time and a fresh random nonce. The
// caller is responsible for signing it (via Hello.Sign) before
// transmission.
func NewHello(identityKey []byte, ctx BlockchainHandshakeContext, now time.Time) (Hello, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Hello{}, fmt.Errorf("uhp: generate hello nonce: %w", err)
	}
	return Hello{
		Version:       MaxVersion,
		Random:        nonce,
		Timestamp:     now.Unix(),
		IdentityKey:   identityKey,
		BlockchainCtx: ctx,
	}, nil
}

// Session holds the symmetric keys derived for one handshake, one per
// direction, matching the qzmq split-key convention: the initiator's
// send key is the responder's recv key and vice versa.
type Session struct {
	mode       Mode
	isInitiator bool
	sendKey    []byte
	recvKey    []byte
	sendAEAD   cipherAEAD
	recvAEAD   cipherAEAD
	sendNonce  uint64
	recvNonce  uint64
}

// cipherAEAD is the minimal surface Session needs from an AEAD cipher;
// satisfied by cipher.AEAD.
type cipherAEAD interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	NonceSize() int
}

// DeriveSession runs the HKDF session-key derivation shared by both
// handshake modes: the transcript of both Hellos seeds an HKDF-SHA256
// expansion, split into a send and a recv key depending on which side of
// the handshake this peer played. The Full handshake's Client-Finish is
// computed from the derived keys and is not part of the input.
func DeriveSession(mode Mode, isInitiator bool, sharedSecret, transcript []byte) (*Session, error) {
	kdf := hkdf.New(sha256.New, sharedSecret, transcript, []byte("UHP-v1 session keys"))

	keyA := make([]byte, sessionKeySize)
	keyB := make([]byte, sessionKeySize)
	if _, err := io.ReadFull(kdf, keyA); err != nil {
		return nil, fmt.Errorf("uhp: derive key a: %w", err)
	}
	if _, err := io.ReadFull(kdf, keyB); err != nil {
		return nil, fmt.Errorf("uhp: derive key b: %w", err)
	}

	s := &Session{mode: mode, isInitiator: isInitiator}
	if isInitiator {
		s.sendKey, s.recvKey = keyA, keyB
	} else {
		s.sendKey, s.recvKey = keyB, keyA
	}

	var err error
	s.sendAEAD, err = chacha20poly1305.New(s.sendKey)
	if err != nil {
		return nil, fmt.Errorf("uhp: init send cipher: %w", err)
	}
	s.recvAEAD, err = chacha20poly1305.New(s.recvKey)
	if err != nil {
		return nil, fmt.Errorf("uhp: init recv cipher: %w", err)
	}
	return s, nil
}

// Seal encrypts plaintext under the per-direction send key, using a
// counter nonce so no nonce is ever reused for a given key.
func (s *Session) Seal(plaintext []byte) []byte {
	nonce := make([]byte, s.sendAEAD.NonceSize())
	putCounter(nonce, s.sendNonce)
	s.sendNonce++
	return s.sendAEAD.Seal(nonce, nonce, plaintext, nil)
}

// Open decrypts a message sealed by the peer's Session.Seal.
func (s *Session) Open(sealed []byte) ([]byte, error) {
	n := s.recvAEAD.NonceSize()
	if len(sealed) < n {
		return nil, ErrSignatureInvalid
	}
	nonce, ct := sealed[:n], sealed[n:]
	pt, err := s.recvAEAD.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("uhp: open sealed message: %w", err)
	}
	return pt, nil
}

func putCounter(nonce []byte, counter uint64) {
	for i := 0; i < 8 && i < len(nonce); i++ {
		nonce[len(nonce)-1-i] = byte(counter >> (8 * i))
	}
}

// ConstantTimeEqual compares two byte slices in constant time, per the
// "all equality comparisons over secret material are constant-time"
// invariant.
func ConstantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
