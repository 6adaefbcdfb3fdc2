// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package content

import "errors"

var (
	// ErrPathTraversal is returned by NormalizePath when a path attempts
	// to navigate above the root, whether via a literal ".." segment or a
	// percent-encoded one.
	ErrPathTraversal = errors.New("content: path traversal rejected")
	// ErrDomainNotFound is returned by Serve for an unknown domain.
	ErrDomainNotFound = errors.New("content: domain not found")
	// ErrHTMLServingDisabled is returned by Serve when a DownloadOnly
	// domain is asked for an HTML-mime path.
	ErrHTMLServingDisabled = errors.New("content: domain is download-only, HTML serving disabled")
	// ErrContentNotFound is returned by Serve when static mode has no
	// match, or SPA mode's fallback also misses.
	ErrContentNotFound = errors.New("content: content not found")
)
