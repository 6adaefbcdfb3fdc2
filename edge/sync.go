// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package edge

// behindHeadersOnlyThreshold is the maximum lag, in blocks, for which a
// subsequent sync can proceed headers-only rather than bootstrapping
// from a recursive chain proof (spec.md §4.2 Sync strategy).
const behindHeadersOnlyThreshold = 500

// firstSyncHeadersOnlyThreshold is the network height below which a
// first-time sync needs no proof bootstrap at all.
const firstSyncHeadersOnlyThreshold = 100

// bootstrapTailHeaders is the number of trailing headers fetched after a
// proof bootstrap.
const bootstrapTailHeaders = 100

// SyncStrategy is the plan returned by PlanSync: either fetch headers
// directly, or bootstrap a recursive chain proof up to a height and then
// fetch a tail of headers.
type SyncStrategy struct {
	// Kind is either "headers_only" or "bootstrap_proof".
	Kind string

	// HeadersOnly fields.
	Start uint64
	Count uint64

	// BootstrapProof fields.
	ProofUpTo     uint64
	HeadersFrom   uint64
	HeadersCount  uint64
}

// HeadersOnly constructs a headers-only strategy.
func HeadersOnly(start, count uint64) SyncStrategy {
	return SyncStrategy{Kind: "headers_only", Start: start, Count: count}
}

// BootstrapProof constructs a proof-bootstrap strategy.
func BootstrapProof(proofUpTo, headersFrom, headersCount uint64) SyncStrategy {
	return SyncStrategy{Kind: "bootstrap_proof", ProofUpTo: proofUpTo, HeadersFrom: headersFrom, HeadersCount: headersCount}
}

// PlanSync selects the sync strategy for this node's current state
// against the network's reported tip height, per spec.md §4.2:
//
//   - First sync (no local headers), network_height < 100: headers-only
//     from 0.
//   - First sync, network_height >= 100: bootstrap the recursive proof up
//     to network_height-100, then fetch the trailing 100 headers.
//   - Subsequent sync (local headers present), behind <= 500: headers-only
//     from the local tip.
//   - Otherwise: bootstrap proof + 100-header tail.
func (s *State) PlanSync(networkHeight uint64) SyncStrategy {
	tip, hasTip := s.Tip()

	if !hasTip {
		if networkHeight < firstSyncHeadersOnlyThreshold {
			return HeadersOnly(0, networkHeight)
		}
		proofUpTo := networkHeight - bootstrapTailHeaders
		return BootstrapProof(proofUpTo, proofUpTo, bootstrapTailHeaders)
	}

	if networkHeight <= tip.Height {
		return HeadersOnly(tip.Height+1, 0)
	}
	behind := networkHeight - tip.Height
	if behind <= behindHeadersOnlyThreshold {
		return HeadersOnly(tip.Height+1, behind)
	}
	proofUpTo := networkHeight - bootstrapTailHeaders
	return BootstrapProof(proofUpTo, proofUpTo, bootstrapTailHeaders)
}
