// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dht

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignableDataExcludesSignature(t *testing.T) {
	m := DhtMessage{Type: MsgPing, Sender: idFromByte(1), SequenceNumber: 5, Timestamp: 1000, Payload: []byte("hi")}
	a := m.SignableData()
	m.Signature = []byte("some-signature")
	b := m.SignableData()
	require.Equal(t, a, b)
}

func TestSignableDataDeterministic(t *testing.T) {
	m := DhtMessage{Type: MsgFindNode, Sender: idFromByte(2), SequenceNumber: 1, Timestamp: 42, Payload: []byte("x")}
	require.Equal(t, m.SignableData(), m.SignableData())
}

func TestValidateFreshnessWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := DhtMessage{Timestamp: now.Unix()}
	require.NoError(t, m.ValidateFreshness(now))

	stale := DhtMessage{Timestamp: now.Add(-10 * time.Minute).Unix()}
	require.ErrorIs(t, stale.ValidateFreshness(now), ErrStaleMessage)
}

func TestSequenceCounterMonotonic(t *testing.T) {
	var c SequenceCounter
	require.EqualValues(t, 1, c.Next())
	require.EqualValues(t, 2, c.Next())
	require.EqualValues(t, 3, c.Next())
}

func TestReplayGuardRejectsRepeatedNonce(t *testing.T) {
	g := NewReplayGuard(8)
	now := time.Now()
	m := DhtMessage{Sender: idFromByte(9), Nonce: [16]byte{1, 2, 3}, Timestamp: now.Unix()}
	require.NoError(t, g.CheckAndRecord(m, now))
	require.ErrorIs(t, g.CheckAndRecord(m, now), ErrReplayedMessage)
}

func TestReplayGuardChecksFreshnessBeforeReplay(t *testing.T) {
	g := NewReplayGuard(8)
	now := time.Now()
	stale := DhtMessage{Sender: idFromByte(9), Nonce: [16]byte{1}, Timestamp: now.Add(-time.Hour).Unix()}
	require.ErrorIs(t, g.CheckAndRecord(stale, now), ErrStaleMessage)
}

func TestReplayGuardToleratesDistinctSendersWithinCapacity(t *testing.T) {
	g := NewReplayGuard(8)
	now := time.Now()
	for i := 0; i < 8; i++ {
		m := DhtMessage{Sender: idFromByte(byte(i)), Nonce: [16]byte{byte(i)}, Timestamp: now.Unix()}
		require.NoError(t, g.CheckAndRecord(m, now))
	}
}

// TestReplayGuardBoundsMemoryAcrossForgedSenders demonstrates the fix for
// a sender-spoof-DoS: a flood of messages from distinct, unauthenticated
// Sender IDs shares one fixed-capacity cache rather than growing a new
// per-sender bucket for every forged ID, so an attacker cycling through
// senders cannot make the guard's memory grow past its configured cap.
func TestReplayGuardBoundsMemoryAcrossForgedSenders(t *testing.T) {
	g := NewReplayGuard(4)
	now := time.Now()
	for i := 0; i < 1000; i++ {
		m := DhtMessage{Sender: idFromByte(byte(i)), Nonce: [16]byte{byte(i)}, Timestamp: now.Unix()}
		require.NoError(t, g.CheckAndRecord(m, now))
	}
	require.LessOrEqual(t, g.cache.Len(), 4)
}
