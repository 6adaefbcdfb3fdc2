// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// withHSTS adds Strict-Transport-Security to every response when TLS is
// active and HSTSMaxAge is configured.
func withHSTS(cfg Config, next http.Handler) http.Handler {
	if cfg.TLSMode == TLSDisabled || cfg.HSTSMaxAge <= 0 {
		return next
	}
	value := fmt.Sprintf("max-age=%d; includeSubDomains", int(cfg.HSTSMaxAge.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", value)
		next.ServeHTTP(w, r)
	})
}

// withCORS reflects the Origin header when it's in cfg.CORSOrigins.
func withCORS(cfg Config, next http.Handler) http.Handler {
	if len(cfg.CORSOrigins) == 0 {
		return next
	}
	allowed := make(map[string]struct{}, len(cfg.CORSOrigins))
	for _, o := range cfg.CORSOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects a client IP once it exceeds the configured
// per-minute budget.
func withRateLimit(limiter *ipRateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !limiter.allow(ip) {
			writeError(w, http.StatusTooManyRequests, ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withBodyLimit caps the request body at cfg.MaxBodyBytes.
func withBodyLimit(cfg Config, next http.Handler) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the caller's address, preferring a proxy-set
// X-Forwarded-For over RemoteAddr since the gateway sits behind a TLS
// terminator in most deployments.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
