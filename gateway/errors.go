// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import "errors"

var (
	// ErrRateLimited is returned when a caller has exceeded its per-IP
	// request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrBodyTooLarge is returned when a request body exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")
	// ErrUnsupportedMethod is returned for a method an endpoint doesn't
	// recognize.
	ErrUnsupportedMethod = errors.New("unsupported method")
	// ErrMissingDomain is returned when a content route is called without
	// a domain segment.
	ErrMissingDomain = errors.New("missing domain")
	// ErrNotImplemented marks a routed-but-unbacked endpoint: the route
	// exists per the external-interface surface, but this process has no
	// domain-registry write path behind it.
	ErrNotImplemented = errors.New("not implemented")
)
