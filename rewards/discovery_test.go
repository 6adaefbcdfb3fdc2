// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rewards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateClaimRejectsExcessivePeers(t *testing.T) {
	work := DiscoveryWork{PeersDiscovered: 100}
	net := NetworkStats{TotalPeersDiscoveredPerHour: 50}
	require.ErrorIs(t, ValidateClaim(work, net), ErrDiscoveryExceedsNetworkCapacity)
}

func TestValidateClaimRejectsInflatedQuality(t *testing.T) {
	work := DiscoveryWork{DiscoveryQuality: 0.95}
	net := NetworkStats{AverageDiscoverySuccessRate: 0.5, TotalPeersDiscoveredPerHour: 1000}
	require.ErrorIs(t, ValidateClaim(work, net), ErrDiscoveryQualityOutOfRange)
}

func TestValidateClaimRejectsExcessiveTopologyImprovements(t *testing.T) {
	work := DiscoveryWork{DiscoveryQuality: 0.5, TopologyImprovements: 50}
	net := NetworkStats{AverageDiscoverySuccessRate: 0.5, TotalPeersDiscoveredPerHour: 1000, ActivePeers: 100}
	require.ErrorIs(t, ValidateClaim(work, net), ErrTopologyImprovementsExceedCapacity)
}

func TestValidateClaimAccepts(t *testing.T) {
	work := DiscoveryWork{PeersDiscovered: 10, DiscoveryQuality: 0.6, TopologyImprovements: 5}
	net := NetworkStats{AverageDiscoverySuccessRate: 0.55, TotalPeersDiscoveredPerHour: 100, ActivePeers: 100}
	require.NoError(t, ValidateClaim(work, net))
}

func TestCalculateRewardSplitsCorrectly(t *testing.T) {
	work := DiscoveryWork{DiscoveryRequests: 100, DiscoveryQuality: 1.0, TopologyImprovements: 2, GeoDiversityScore: 0.5}
	reward := CalculateReward(work)
	require.Equal(t, reward.RoutingReward+reward.ComputeReward+reward.UptimeBonus, reward.TotalReward*90/100)
	require.Greater(t, reward.TotalReward, uint64(0))
}

func TestDistributeRewardPoolProportional(t *testing.T) {
	work := map[string]DiscoveryWork{
		"a": {PeersDiscovered: 10},
		"b": {PeersDiscovered: 30},
	}
	out := DistributeRewardPool(1000, work)
	require.Greater(t, out["b"], out["a"])
	require.Equal(t, uint64(1000), out["a"]+out["b"])
}

func TestDistributeRewardPoolEqualSplitWhenNoContribution(t *testing.T) {
	work := map[string]DiscoveryWork{"a": {}, "b": {}}
	out := DistributeRewardPool(100, work)
	require.Equal(t, uint64(50), out["a"])
	require.Equal(t, uint64(50), out["b"])
}
