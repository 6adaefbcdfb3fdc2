// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gateway is the HTTPS pass-through surface of spec.md §6: it is
// placed behind TLS terminated by the embedding process (it does no TLS
// handling itself), adds HSTS, rate-limits by IP,
// caps request bodies and durations, and routes the handful of
// /api/v1/web4/ endpoints to the content-service facade. It holds no
// consensus, DHT, or domain-registry state of its own.
package gateway

import "time"

// TLSMode mirrors the gateway's enumerated TLS posture.
type TLSMode uint8

const (
	// TLSDisabled serves plain HTTP; HSTS is never added.
	TLSDisabled TLSMode = iota
	// TLSSelfSigned serves TLS with a locally generated certificate.
	TLSSelfSigned
	// TLSStandardCA serves TLS with a certificate from a public CA.
	TLSStandardCA
	// TLSPrivateCA serves TLS with a certificate from an operator-run CA.
	TLSPrivateCA
)

// Config enumerates the gateway's externally configurable knobs, per
// spec.md §6's Gateway/DHT/Consensus configuration tables.
type Config struct {
	TLSMode TLSMode

	// HSTSMaxAge is emitted in the Strict-Transport-Security header when
	// TLSMode != TLSDisabled. Zero disables the header even under TLS.
	HSTSMaxAge time.Duration

	// CORSOrigins lists origins granted Access-Control-Allow-Origin.
	// Empty means CORS is not offered.
	CORSOrigins []string

	// RateLimitPerMinute and RateLimitWindow bound how many requests a
	// single client IP may make.
	RateLimitPerMinute  int
	RateLimitWindow     time.Duration
	RateLimitMaxEntries int

	// RequestTimeout bounds how long a single request may run.
	RequestTimeout time.Duration

	// MaxBodyBytes bounds request body size.
	MaxBodyBytes int64
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		TLSMode:             TLSDisabled,
		HSTSMaxAge:          365 * 24 * time.Hour,
		RateLimitPerMinute:  100,
		RateLimitWindow:     60 * time.Second,
		RateLimitMaxEntries: 10_000,
		RequestTimeout:      30 * time.Second,
		MaxBodyBytes:        10 << 20, // 10 MiB
	}
}
