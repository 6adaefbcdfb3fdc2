// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"sync"
	"time"

	"github.com/zhtp/web4/dag/witness"
)

// ipRateLimiter is a sliding-window limiter keyed by client IP, bounded
// to at most maxEntries distinct IPs at once via an LRU eviction policy —
// the gateway's own rate_limit_max_entries=10_000 knob, which the
// unbounded-map `dht.RateLimiter` doesn't need since DHT peers are
// already capacity-bounded by the routing table. Reuses
// `dag/witness.LRU` rather than a second hand-rolled eviction structure,
// continuing the same adapt-don't-duplicate decision already made for
// `dht.ReplayGuard` and the `aggregator` proof caches.
type ipRateLimiter struct {
	mu            sync.Mutex
	window        time.Duration
	maxOperations int
	events        *witness.LRU[string, []time.Time]
}

func newIPRateLimiter(window time.Duration, maxOperations, maxEntries int) *ipRateLimiter {
	if window <= 0 {
		window = 60 * time.Second
	}
	if maxOperations <= 0 {
		maxOperations = 100
	}
	if maxEntries <= 0 {
		maxEntries = 10_000
	}
	return &ipRateLimiter{
		window:        window,
		maxOperations: maxOperations,
		events:        witness.NewLRU[string, []time.Time](maxEntries, 0, func([]time.Time) int { return 0 }),
	}
}

func (r *ipRateLimiter) allow(ip string) bool {
	return r.allowAt(ip, time.Now())
}

func (r *ipRateLimiter) allowAt(ip string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.window)
	events, _ := r.events.Get(ip)
	kept := events[:0]
	for _, t := range events {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= r.maxOperations {
		r.events.Put(ip, kept)
		return false
	}
	r.events.Put(ip, append(kept, now))
	return true
}
