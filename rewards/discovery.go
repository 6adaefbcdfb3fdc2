// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rewards computes token incentives for nodes that contribute
// to DHT peer discovery, routing-table maintenance, and mesh topology
// upkeep — the useful work a multi-transport mesh needs from its
// participants beyond block production.
package rewards

import "errors"

var (
	// ErrDiscoveryExceedsNetworkCapacity rejects a claimed DiscoveryWork
	// that reports more peer discoveries than the network could
	// plausibly have produced, guarding against inflated reward claims.
	ErrDiscoveryExceedsNetworkCapacity = errors.New("rewards: reported peer discoveries exceed network capacity")
	// ErrDiscoveryQualityOutOfRange rejects a quality score outside
	// [0,1] or implausibly above the network's measured average.
	ErrDiscoveryQualityOutOfRange = errors.New("rewards: reported discovery quality out of range")
	// ErrTopologyImprovementsExceedCapacity rejects a claimed topology
	// contribution count higher than the mesh's active-peer count could
	// support.
	ErrTopologyImprovementsExceedCapacity = errors.New("rewards: reported topology improvements exceed mesh capacity")
)

// DiscoveryWork is one node's claimed contribution to mesh discovery
// over a reward period.
type DiscoveryWork struct {
	PeersDiscovered       uint32
	DiscoveryRequests     uint64
	RoutingUpdates        uint32
	TopologyImprovements  uint32
	GeoDiversityScore     float64 // 0..1
	DiscoveryQuality      float64 // 0..1, success rate
	UptimeHours           uint64
}

// NetworkStats is the subset of network-observed mesh statistics used to
// validate a DiscoveryWork claim before it is rewarded.
type NetworkStats struct {
	ActivePeers                  uint32
	AverageDiscoverySuccessRate  float64
	TotalPeersDiscoveredPerHour  uint32
}

// ValidateClaim rejects a DiscoveryWork claim that is not plausible
// given net: peer discoveries and topology improvements are capped
// relative to the mesh's observed size, and claimed quality cannot
// exceed the network's measured average by more than a small margin.
// Order matches the reference validation: capacity check first, then
// quality range, then topology.
func ValidateClaim(work DiscoveryWork, net NetworkStats) error {
	if work.PeersDiscovered > net.TotalPeersDiscoveredPerHour {
		return ErrDiscoveryExceedsNetworkCapacity
	}
	if work.DiscoveryQuality < 0 || work.DiscoveryQuality > 1 {
		return ErrDiscoveryQualityOutOfRange
	}
	if work.DiscoveryQuality > net.AverageDiscoverySuccessRate+0.1 {
		return ErrDiscoveryQualityOutOfRange
	}
	maxTopology := net.ActivePeers / 10
	if maxTopology < 1 {
		maxTopology = 1
	}
	if work.TopologyImprovements > maxTopology {
		return ErrTopologyImprovementsExceedCapacity
	}
	return nil
}

// TokenReward is the composed reward for one period, split by the kind
// of work it compensates.
type TokenReward struct {
	RoutingReward uint64
	ComputeReward uint64
	QualityBonus  uint64
	UptimeBonus   uint64
	TotalReward   uint64
}

// baseDiscoveryRatePerRequest is the base payout, in the chain's
// smallest unit, per successfully handled discovery request.
const baseDiscoveryRatePerRequest = 2

// CalculateReward composes a TokenReward for a validated DiscoveryWork:
// a base reward proportional to requests handled and scaled by
// DiscoveryQuality, plus a topology bonus proportional to improvements
// and a diversity bonus scaled by GeoDiversityScore, make TotalReward.
// RoutingReward, ComputeReward and UptimeBonus are 60%, 20% and 10% of
// that total; QualityBonus reports the topology and diversity bonuses,
// which are already counted in the total.
func CalculateReward(work DiscoveryWork) TokenReward {
	base := work.DiscoveryRequests * baseDiscoveryRatePerRequest
	topologyBonus := uint64(work.TopologyImprovements) * 5
	diversityBonus := uint64(work.GeoDiversityScore * 10)
	qualityAdjustedBase := uint64(float64(base) * (0.5 + 0.5*work.DiscoveryQuality))

	total := qualityAdjustedBase + topologyBonus + diversityBonus
	return TokenReward{
		RoutingReward: total * 60 / 100,
		ComputeReward: total * 20 / 100,
		QualityBonus:  topologyBonus + diversityBonus,
		UptimeBonus:   total * 10 / 100,
		TotalReward:   total,
	}
}

// ContributionScore is a single scalar used to weight proportional
// reward-pool distribution across multiple participants in one period.
func ContributionScore(work DiscoveryWork) uint64 {
	return uint64(work.PeersDiscovered)*3 + work.DiscoveryRequests + uint64(work.RoutingUpdates)*2
}

// DistributeRewardPool splits totalPool across participants
// proportionally to their ContributionScore. A participant with zero
// contribution score still receives an equal share of the pool when
// every participant scores zero (matching the reference system's
// equal-split fallback), and zero otherwise.
func DistributeRewardPool(totalPool uint64, work map[string]DiscoveryWork) map[string]uint64 {
	scores := make(map[string]uint64, len(work))
	var totalScore uint64
	for id, w := range work {
		s := ContributionScore(w)
		scores[id] = s
		totalScore += s
	}

	out := make(map[string]uint64, len(work))
	if totalScore == 0 {
		if len(work) == 0 {
			return out
		}
		share := totalPool / uint64(len(work))
		for id := range work {
			out[id] = share
		}
		return out
	}
	for id, s := range scores {
		out[id] = (totalPool * s) / totalScore
	}
	return out
}
