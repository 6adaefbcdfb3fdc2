// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dht

import (
	"testing"

	"github.com/stretchr/testify/require"

	rt "github.com/luxfi/crypto/ringtail"
)

func TestRingtailMessageVerifierAcceptsValidSignature(t *testing.T) {
	sk, pk, err := rt.KeyGen([]byte("dht-ringtail-test-seed-1"))
	require.NoError(t, err)

	signer, err := NewRingtailMessageSigner(sk)
	require.NoError(t, err)

	sender := idFromByte(1)
	m := DhtMessage{Type: MsgPing, Sender: sender, SequenceNumber: 1, Timestamp: 1000}
	signed, err := signer.Sign(m)
	require.NoError(t, err)

	verifier := NewRingtailMessageVerifier(StaticNodeKeyResolver{sender: pk})
	require.True(t, verifier.Verify(sender, signed.SignableData(), signed.Signature))
}

func TestRingtailMessageVerifierRejectsTamperedPayload(t *testing.T) {
	sk, pk, err := rt.KeyGen([]byte("dht-ringtail-test-seed-2"))
	require.NoError(t, err)

	signer, err := NewRingtailMessageSigner(sk)
	require.NoError(t, err)

	sender := idFromByte(2)
	m := DhtMessage{Type: MsgPing, Sender: sender, SequenceNumber: 1, Timestamp: 1000, Payload: []byte("original")}
	signed, err := signer.Sign(m)
	require.NoError(t, err)

	tampered := signed
	tampered.Payload = []byte("tampered")

	verifier := NewRingtailMessageVerifier(StaticNodeKeyResolver{sender: pk})
	require.False(t, verifier.Verify(sender, tampered.SignableData(), tampered.Signature))
}

func TestRingtailMessageVerifierRejectsUnknownSender(t *testing.T) {
	sk, _, err := rt.KeyGen([]byte("dht-ringtail-test-seed-3"))
	require.NoError(t, err)

	signer, err := NewRingtailMessageSigner(sk)
	require.NoError(t, err)

	sender := idFromByte(3)
	m := DhtMessage{Type: MsgPing, Sender: sender}
	signed, err := signer.Sign(m)
	require.NoError(t, err)

	verifier := NewRingtailMessageVerifier(StaticNodeKeyResolver{})
	require.False(t, verifier.Verify(sender, signed.SignableData(), signed.Signature))
}
