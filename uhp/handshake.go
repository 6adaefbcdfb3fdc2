// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package uhp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"time"

	rt "github.com/luxfi/crypto/ringtail"

	"github.com/zhtp/web4/hashmerkle"
)

// RingtailSigner is the default production Signer, backed by the
// post-quantum ringtail scheme. It signs every move of either
// handshake mode with a single precomputed key.
type RingtailSigner struct {
	precomp rt.Precomp
}

// NewRingtailSigner precomputes a signing share from sk, a ringtail
// secret key produced by rt.KeyGen.
func NewRingtailSigner(sk []byte) (*RingtailSigner, error) {
	precomp, err := rt.Precompute(sk)
	if err != nil {
		return nil, fmt.Errorf("uhp: precompute ringtail key: %w", err)
	}
	return &RingtailSigner{precomp: precomp}, nil
}

func (s *RingtailSigner) Sign(data []byte) ([]byte, error) {
	share, err := rt.QuickSign(s.precomp, data)
	if err != nil {
		return nil, fmt.Errorf("uhp: sign: %w", err)
	}
	return share, nil
}

// RingtailVerifier is the default production SignatureVerifier: it
// checks a detached signature against the claimed identity key as a
// ringtail public key.
type RingtailVerifier struct{}

func (RingtailVerifier) Verify(identityKey, data, signature []byte) bool {
	if len(signature) == 0 {
		return false
	}
	return rt.VerifyShare(identityKey, data, signature)
}

const finishLabel = "UHP-v1 client-finish"

// ComputeFinishMAC derives the Client-Finish authenticator from s. The
// client computes it with its own send key; the server recomputes the
// same value with its recv key, which DeriveSession guarantees is the
// identical key by construction (the initiator's send key is the
// responder's recv key).
func (s *Session) ComputeFinishMAC() []byte {
	mac := hmac.New(sha256.New, s.sendKey)
	mac.Write([]byte(finishLabel))
	return mac.Sum(nil)
}

// VerifyFinishMAC checks a peer-supplied Client-Finish MAC against s's
// recv key, constant-time.
func (s *Session) VerifyFinishMAC(mac []byte) bool {
	expected := hmac.New(sha256.New, s.recvKey)
	expected.Write([]byte(finishLabel))
	return ConstantTimeEqual(expected.Sum(nil), mac)
}

// transcript concatenates the SignableData of every Hello exchanged so
// far, the shared input both DeriveSession and the Finish MAC bind to.
func transcript(hellos ...Hello) []byte {
	var out []byte
	for _, h := range hellos {
		out = append(out, h.SignableData()...)
	}
	return out
}

// ClientFinish is the Full handshake's third move: an HMAC over a fixed
// label under the client's transcript-derived send key, proving the
// client derived the same session keys as the server.
type ClientFinish struct {
	MAC []byte
}

// ClientStartFull builds and signs the Client-Hello, the Full
// handshake's first move.
func ClientStartFull(identityKey []byte, signer Signer, ctx BlockchainHandshakeContext, now time.Time) (Hello, error) {
	hello, err := NewHello(identityKey, ctx, now)
	if err != nil {
		return Hello{}, err
	}
	if err := hello.Sign(signer); err != nil {
		return Hello{}, err
	}
	return hello, nil
}

// ServerRespondFull is the Full handshake's second move: it validates
// the Client-Hello in full (version, timestamp, replay, signature,
// then the blockchain-extension checks of HandshakeVerifier.VerifyPeer)
// before building and signing the Server-Hello and deriving this side's
// Session. A Client-Hello with a forged or missing signature never
// reaches VerifyPeer.
func ServerRespondFull(
	clientHello Hello,
	peerIP string,
	seen NonceSeen,
	sigVerifier SignatureVerifier,
	verifier *HandshakeVerifier,
	serverIdentityKey []byte,
	serverSigner Signer,
	serverCtx BlockchainHandshakeContext,
	sharedSecret []byte,
	now time.Time,
) (serverHello Hello, result VerifyResult, session *Session, err error) {
	if err = clientHello.ValidateVersion(); err != nil {
		return
	}
	if err = clientHello.ValidateTimestamp(now); err != nil {
		return
	}
	if err = clientHello.CheckReplay(seen); err != nil {
		return
	}
	if err = clientHello.VerifySignature(sigVerifier); err != nil {
		return
	}

	result, err = verifier.VerifyPeer(peerIP, clientHello.BlockchainCtx)
	if err != nil {
		return
	}

	serverHello, err = NewHello(serverIdentityKey, serverCtx, now)
	if err != nil {
		return
	}
	if err = serverHello.Sign(serverSigner); err != nil {
		return
	}

	session, err = DeriveSession(ModeFull, false, sharedSecret, transcript(clientHello, serverHello))
	return
}

// ClientFinishFull is the client's half of the Full handshake's third
// move: it validates the Server-Hello the same way ServerRespondFull
// validated the Client-Hello, derives this side's Session, and produces
// the Client-Finish MAC proving session-key agreement. verifier is
// typically constructed with a nil RateLimit, since rate limiting an
// outbound handshake the client itself initiated has no purpose.
func ClientFinishFull(
	clientHello Hello,
	serverHello Hello,
	seen NonceSeen,
	sigVerifier SignatureVerifier,
	verifier *HandshakeVerifier,
	sharedSecret []byte,
	now time.Time,
) (result VerifyResult, session *Session, finish ClientFinish, err error) {
	if err = serverHello.ValidateVersion(); err != nil {
		return
	}
	if err = serverHello.ValidateTimestamp(now); err != nil {
		return
	}
	if err = serverHello.CheckReplay(seen); err != nil {
		return
	}
	if err = serverHello.VerifySignature(sigVerifier); err != nil {
		return
	}

	result, err = verifier.VerifyPeer("", serverHello.BlockchainCtx)
	if err != nil {
		return
	}

	session, err = DeriveSession(ModeFull, true, sharedSecret, transcript(clientHello, serverHello))
	if err != nil {
		return
	}
	finish = ClientFinish{MAC: session.ComputeFinishMAC()}
	return
}

// ServerVerifyFinish completes the Full handshake by confirming the
// client derived the identical session key, before the server begins
// using session to seal traffic.
func ServerVerifyFinish(session *Session, finish ClientFinish) error {
	if !session.VerifyFinishMAC(finish.MAC) {
		return ErrSignatureInvalid
	}
	return nil
}

// Challenge is the Provisional handshake's second move: a fresh random
// value the peer must sign with its onboarding key to prove possession
// before a Sovereign ID is issued.
type Challenge struct {
	Nonce     []byte
	Timestamp int64
}

// IssueChallenge builds a fresh Challenge, the server's response to a
// Provisional Hello.
func IssueChallenge(now time.Time) (Challenge, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Challenge{}, fmt.Errorf("uhp: generate challenge nonce: %w", err)
	}
	return Challenge{Nonce: nonce, Timestamp: now.Unix()}, nil
}

// Proof is the Provisional handshake's third move: a signature over the
// Challenge nonce under the onboarding key from the Hello.
type Proof struct {
	Signature []byte
}

// ProveChallenge signs challenge.Nonce with signer, the peer's response
// demonstrating possession of the onboarding key.
func ProveChallenge(challenge Challenge, signer Signer) (Proof, error) {
	sig, err := signer.Sign(challenge.Nonce)
	if err != nil {
		return Proof{}, fmt.Errorf("uhp: sign challenge: %w", err)
	}
	return Proof{Signature: sig}, nil
}

// IDIssued is the Provisional handshake's fourth and final move: the
// Sovereign ID minted for the onboarding key once its Proof verifies.
type IDIssued struct {
	IdentityID hashmerkle.Hash
	IssuedAt   int64
}

// VerifyAndIssueID checks proof against challenge and hello's onboarding
// key, then mints the Sovereign ID that upgrades this peer to Full. A
// missing verifier, an empty signature, or a failed check all reject
// via ErrSignatureInvalid; no ID is issued on any of those paths.
func VerifyAndIssueID(hello Hello, challenge Challenge, proof Proof, sigVerifier SignatureVerifier, now time.Time) (IDIssued, error) {
	if sigVerifier == nil || len(proof.Signature) == 0 || !sigVerifier.Verify(hello.IdentityKey, challenge.Nonce, proof.Signature) {
		return IDIssued{}, ErrSignatureInvalid
	}
	return IDIssued{IdentityID: hashmerkle.H(hello.IdentityKey), IssuedAt: now.Unix()}, nil
}
