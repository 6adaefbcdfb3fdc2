// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reputation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrustLevelForScore(t *testing.T) {
	require.Equal(t, Untrusted, TrustLevelForScore(0.1))
	require.Equal(t, LowTrust, TrustLevelForScore(0.4))
	require.Equal(t, ModerateTrust, TrustLevelForScore(0.6))
	require.Equal(t, HighTrust, TrustLevelForScore(0.8))
	require.Equal(t, ExpertTrust, TrustLevelForScore(0.95))
}

func TestInitializePeerNeutral(t *testing.T) {
	m := NewManager(DefaultWeights())
	now := time.Now()
	s := m.InitializePeer("peer-1", now)
	require.Equal(t, 0.5, s.Overall)
	require.Equal(t, TrendNewPeer, s.Trend)

	again := m.InitializePeer("peer-1", now.Add(time.Hour))
	require.Equal(t, s.FirstSeen, again.FirstSeen)
}

func TestUpdateMetricsImprovesScore(t *testing.T) {
	m := NewManager(DefaultWeights())
	now := time.Now()
	m.InitializePeer("peer-1", now)

	good := Metrics{Reliability: 1, Performance: 1, Security: 1, Honesty: 1, Responsiveness: 1, Longevity: 1}
	var last Score
	for i := 0; i < 10; i++ {
		last = m.UpdateMetrics("peer-1", good, now.Add(time.Duration(i)*time.Minute))
	}
	require.Greater(t, last.Overall, 0.5)
	// Each update closes 20% of the metrics' gap to 1.0, so by the tenth
	// the step in Overall is about 0.013, inside UpdateMetrics' ±0.02
	// stable band.
	require.Equal(t, TrendStable, last.Trend)
}

func TestRecordIncidentPenalizesBySeverity(t *testing.T) {
	m := NewManager(DefaultWeights())
	now := time.Now()
	m.InitializePeer("peer-1", now)

	m.RecordIncident(Incident{PeerID: "peer-1", Type: IncidentDoubleVote, Severity: SeverityCritical, Impact: 0.5, Timestamp: now})
	s, ok := m.Get("peer-1")
	require.True(t, ok)
	require.Less(t, s.Overall, 0.5)
	require.Equal(t, TrendDeclining, s.Trend)

	incidents := m.Incidents("peer-1")
	require.Len(t, incidents, 1)
}

func TestAddAttestationDampensByAttesterWeight(t *testing.T) {
	m := NewManager(DefaultWeights())
	now := time.Now()
	m.InitializePeer("peer-1", now)
	before, _ := m.Get("peer-1")

	m.AddAttestation(Attestation{AttesterID: "peer-2", SubjectID: "peer-1", Value: 0, AttesterWeight: 0.9, Timestamp: now})
	after, _ := m.Get("peer-1")
	require.Less(t, after.Metrics.Honesty, before.Metrics.Honesty)
	require.Greater(t, after.Metrics.Honesty, 0.0) // dampened, not zeroed
}

func TestRankingsSortedDescending(t *testing.T) {
	m := NewManager(DefaultWeights())
	now := time.Now()
	m.InitializePeer("peer-low", now)
	m.InitializePeer("peer-high", now)
	m.RecordIncident(Incident{PeerID: "peer-low", Type: IncidentProtocolViolation, Severity: SeverityHigh, Impact: 0.8, Timestamp: now})
	m.UpdateMetrics("peer-high", Metrics{Reliability: 1, Performance: 1, Security: 1, Honesty: 1, Responsiveness: 1, Longevity: 1}, now)

	ranks := m.Rankings()
	require.Len(t, ranks, 2)
	require.Equal(t, "peer-high", ranks[0].PeerID)
	require.Equal(t, "peer-low", ranks[1].PeerID)
}
